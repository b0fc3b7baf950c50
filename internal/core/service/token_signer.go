package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

// Audience tags distinguishing the two token flows. A token minted for one
// flow never validates in the other.
const (
	AudienceVerify = "campus:verify"
	AudienceReset  = "campus:reset"
)

// TokenClaims are the assertions carried by a verification or reset token.
type TokenClaims struct {
	AccountID string
	Username  string
}

// TokenSigner mints and checks the signed, time-limited tokens used by the
// verification and password-reset workflows. Tokens are HS256 JWTs binding
// account id + username + an audience tag.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner returns a signer with the given secret and token lifetime.
// A non-positive ttl defaults to one hour.
func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl}
}

// Sign issues a token for account scoped to audience.
func (s *TokenSigner) Sign(account *domain.Account, audience string) (string, error) {
	claims := jwt.MapClaims{
		"sub":      account.ID,
		"username": account.Username,
		"aud":      audience,
		"exp":      time.Now().Add(s.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Parse validates token against audience and extracts its claims. Every
// failure mode (bad signature, expiry, wrong audience, missing claims)
// collapses to domain.ErrInvalidToken.
func (s *TokenSigner) Parse(token, audience string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	username, _ := claims["username"].(string)
	if sub == "" || username == "" {
		return nil, domain.ErrInvalidToken
	}
	return &TokenClaims{AccountID: sub, Username: username}, nil
}
