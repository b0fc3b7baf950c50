package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rdfz3d/campus-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// TokenStore keeps access credentials in Redis.
//
// Key layout:
//
//	token:<raw>            hash {account_id, client_type, created_at}, TTL = lifetime
//	account_tokens:<id>    set of raw tokens issued to the account
//
// Credential expiry rides on the Redis TTL; the per-account set may hold
// tokens that have already expired, which the uniqueness sweep treats as
// housekeeping to clear.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore wraps client with the given credential lifetime
// (defaultTokenTTL when non-positive).
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenStore{client: client, ttl: ttl}
}

func (s *TokenStore) Put(ctx context.Context, cred ports.Credential) error {
	pipe := s.client.TxPipeline()
	key := tokenKey(cred.Token)
	pipe.HSet(ctx, key, map[string]any{
		"account_id":  cred.AccountID,
		"client_type": cred.ClientType,
		"created_at":  cred.CreatedAt.Unix(),
	})
	pipe.Expire(ctx, key, s.ttl)
	pipe.SAdd(ctx, accountTokensKey(cred.AccountID), cred.Token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

func (s *TokenStore) Get(ctx context.Context, token string) (*ports.Credential, error) {
	fields, err := s.client.HGetAll(ctx, tokenKey(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	createdAt, _ := strconv.ParseInt(fields["created_at"], 10, 64)
	return &ports.Credential{
		Token:      token,
		AccountID:  fields["account_id"],
		ClientType: fields["client_type"],
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
	}, nil
}

func (s *TokenStore) Delete(ctx context.Context, token string) error {
	accountID, err := s.client.HGet(ctx, tokenKey(token), "account_id").Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, tokenKey(token))
	pipe.SRem(ctx, accountTokensKey(accountID), token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

// DeleteOthers removes every live credential of the account except keep,
// restricted to clientType when non-empty. Set members whose token hash has
// already expired are dropped from the set along the way.
func (s *TokenStore) DeleteOthers(ctx context.Context, accountID, clientType, keep string) error {
	setKey := accountTokensKey(accountID)
	tokens, err := s.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return fmt.Errorf("list credentials: %w", err)
	}

	for _, token := range tokens {
		if token == keep {
			continue
		}
		ct, err := s.client.HGet(ctx, tokenKey(token), "client_type").Result()
		if err == redis.Nil {
			// Expired credential still listed in the set.
			_ = s.client.SRem(ctx, setKey, token).Err()
			continue
		}
		if err != nil {
			return fmt.Errorf("inspect credential: %w", err)
		}
		if clientType != "" && ct != clientType {
			continue
		}

		pipe := s.client.TxPipeline()
		pipe.Del(ctx, tokenKey(token))
		pipe.SRem(ctx, setKey, token)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
	}
	return nil
}

func tokenKey(token string) string {
	return "token:" + token
}

func accountTokensKey(accountID string) string {
	return "account_tokens:" + accountID
}
