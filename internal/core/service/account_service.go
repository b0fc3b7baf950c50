package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rdfz3d/campus-api/internal/core/domain"
	"github.com/rdfz3d/campus-api/internal/core/ports"
	"github.com/rdfz3d/campus-api/internal/pkg/ids"
	"github.com/rdfz3d/campus-api/internal/pkg/password"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 32
	passwordMinLen = 3
	passwordMaxLen = 64
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Hooks are one-shot notifications fired after account lifecycle events.
// Token delivery (mail, SMS) hangs off these; nil hooks are skipped.
type Hooks struct {
	AfterRegister      func(account *domain.Account)
	AfterRequestVerify func(account *domain.Account, token string)
	AfterVerify        func(account *domain.Account)
	AfterForgot        func(account *domain.Account, token string)
}

// AccountService implements registration, multi-identifier authentication,
// credential issuance, and the verification and password workflows.
type AccountService struct {
	repo     ports.AccountRepository
	tokens   ports.TokenStore
	resolver *IdentifierResolver
	hasher   *password.Hasher
	signer   *TokenSigner
	tokenTTL time.Duration
	hooks    Hooks
	log      zerolog.Logger
}

// NewAccountService wires the account service. tokenTTL is the access
// credential lifetime; non-positive defaults to 24h.
func NewAccountService(
	repo ports.AccountRepository,
	tokens ports.TokenStore,
	resolver *IdentifierResolver,
	hasher *password.Hasher,
	signer *TokenSigner,
	tokenTTL time.Duration,
	hooks Hooks,
	log zerolog.Logger,
) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		repo:     repo,
		tokens:   tokens,
		resolver: resolver,
		hasher:   hasher,
		signer:   signer,
		tokenTTL: tokenTTL,
		hooks:    hooks,
		log:      log,
	}
}

// Register creates a new account. Validation runs in a fixed order: username
// format, password policy, then uniqueness of username, email, phone. The
// raw password is hashed before storage and never persisted.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	if err := validateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, &domain.InvalidEmailError{Reason: "not a valid email address"}
		}
	}

	phone := strings.TrimSpace(input.Phone)
	if phone != "" {
		normalized, ok := s.resolver.NormalizePhone(phone)
		if !ok {
			return nil, &domain.InvalidPhoneError{Reason: "not a valid phone number"}
		}
		phone = normalized
	}

	// Advisory pre-checks; the store's unique indexes are the backstop and
	// repo.Create reports a lost race as the same conflict error.
	if existing, err := s.repo.FindByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, &domain.IdentifierExistsError{Field: "username"}
	}
	if email != "" {
		if existing, err := s.repo.FindByEmail(ctx, email); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, &domain.IdentifierExistsError{Field: "email"}
		}
	}
	if phone != "" {
		if existing, err := s.repo.FindByPhone(ctx, phone); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, &domain.IdentifierExistsError{Field: "phone"}
		}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	id, err := ids.NewULID(now)
	if err != nil {
		return nil, fmt.Errorf("register: generate id: %w", err)
	}

	account := &domain.Account{
		ID:             id,
		Username:       input.Username,
		Email:          email,
		Phone:          phone,
		Nickname:       input.Nickname,
		HashedPassword: hash,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	if s.hooks.AfterRegister != nil {
		s.hooks.AfterRegister(created)
	}
	return created, nil
}

// Authenticate resolves identifier and verifies the password. Both miss
// paths (unknown identifier, wrong password) return (nil, nil) and perform
// exactly one hash comparison, so response latency does not reveal whether
// the identifier exists. A match against an outdated hash is re-hashed with
// current parameters and persisted before returning.
func (s *AccountService) Authenticate(ctx context.Context, identifier, pass string) (*domain.Account, error) {
	account, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.hasher.VerifyDummy(pass)
		return nil, nil
	}

	ok, upgrade, err := s.hasher.Verify(pass, account.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return nil, nil
	}

	if upgrade {
		newHash, err := s.hasher.Hash(pass)
		if err != nil {
			return nil, fmt.Errorf("authenticate: upgrade hash: %w", err)
		}
		updated, err := s.repo.Update(ctx, account.ID, domain.AccountUpdate{HashedPassword: &newHash})
		if err != nil {
			return nil, fmt.Errorf("authenticate: persist upgraded hash: %w", err)
		}
		s.log.Info().Str("account_id", account.ID).Msg("password hash upgraded")
		account = updated
	}

	return account, nil
}

// Login authenticates and issues an access credential. Inactive accounts
// fail with the same uniform error as bad credentials. When unique is set,
// other live credentials of the account within the client-type scope are
// invalidated after issuance — best effort, not atomic with it.
func (s *AccountService) Login(ctx context.Context, identifier, pass, clientType string, unique bool) (*ports.LoginResult, error) {
	account, err := s.Authenticate(ctx, identifier, pass)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := generateAccessToken()
	if err != nil {
		return nil, fmt.Errorf("login: generate token: %w", err)
	}

	cred := ports.Credential{
		Token:      token,
		AccountID:  account.ID,
		ClientType: clientType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.tokens.Put(ctx, cred); err != nil {
		return nil, fmt.Errorf("login: store credential: %w", err)
	}

	if unique {
		if err := s.tokens.DeleteOthers(ctx, account.ID, clientType, token); err != nil {
			// Stale tokens expire on their own; do not fail the login.
			s.log.Warn().Err(err).Str("account_id", account.ID).Msg("credential uniqueness sweep failed")
		}
	}

	s.log.Info().Str("account_id", account.ID).Str("client_type", clientType).Msg("login")
	return &ports.LoginResult{Token: token, Account: account}, nil
}

// Logout invalidates a single access credential.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.tokens.Delete(ctx, token)
}

// RequestVerify issues a verification token for the named account. Fails if
// the account is unknown, inactive, or already verified; the account itself
// is not mutated.
func (s *AccountService) RequestVerify(ctx context.Context, username string) (string, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", domain.ErrAccountNotFound
	}
	if !account.IsActive {
		return "", domain.ErrAccountInactive
	}
	if account.IsVerified {
		return "", domain.ErrAlreadyVerified
	}

	token, err := s.signer.Sign(account, AudienceVerify)
	if err != nil {
		return "", fmt.Errorf("request verify: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("verification requested")
	if s.hooks.AfterRequestVerify != nil {
		s.hooks.AfterRequestVerify(account, token)
	}
	return token, nil
}

// Verify consumes a verification token and marks the account verified.
// Signature, expiry, claim, and identity-mismatch failures all collapse to
// ErrInvalidToken; a token for an already-verified account fails with
// ErrAlreadyVerified. Replay is blocked only by the verified flag.
func (s *AccountService) Verify(ctx context.Context, token string) (*domain.Account, error) {
	claims, err := s.signer.Parse(token, AudienceVerify)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.FindByUsername(ctx, claims.Username)
	if err != nil {
		return nil, err
	}
	if account == nil || account.ID != claims.AccountID {
		return nil, domain.ErrInvalidToken
	}
	if account.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}

	verified := true
	updated, err := s.repo.Update(ctx, account.ID, domain.AccountUpdate{IsVerified: &verified})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", updated.ID).Msg("account verified")
	if s.hooks.AfterVerify != nil {
		s.hooks.AfterVerify(updated)
	}
	return updated, nil
}

// ChangePassword verifies the old password before setting a new one.
func (s *AccountService) ChangePassword(ctx context.Context, account *domain.Account, oldPassword, newPassword string) error {
	ok, _, err := s.hasher.Verify(oldPassword, account.HashedPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !ok {
		return domain.ErrWrongPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if _, err := s.repo.Update(ctx, account.ID, domain.AccountUpdate{HashedPassword: &hash}); err != nil {
		return err
	}
	s.log.Info().Str("account_id", account.ID).Msg("password changed")
	return nil
}

// ForgotPassword issues a reset token for the account with this email.
// Callers surface a uniform accepted response regardless of outcome.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) (string, error) {
	account, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", domain.ErrAccountNotFound
	}
	if !account.IsActive {
		return "", domain.ErrAccountInactive
	}

	token, err := s.signer.Sign(account, AudienceReset)
	if err != nil {
		return "", fmt.Errorf("forgot password: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Msg("password reset requested")
	if s.hooks.AfterForgot != nil {
		s.hooks.AfterForgot(account, token)
	}
	return token, nil
}

// ResetPassword consumes a reset token and sets a new password. An unknown
// or inactive account makes the token invalid.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.signer.Parse(token, AudienceReset)
	if err != nil {
		return err
	}

	account, err := s.repo.FindByID(ctx, claims.AccountID)
	if err != nil {
		return err
	}
	if account == nil || account.Username != claims.Username || !account.IsActive {
		return domain.ErrInvalidToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if _, err := s.repo.Update(ctx, account.ID, domain.AccountUpdate{HashedPassword: &hash}); err != nil {
		return err
	}
	s.log.Info().Str("account_id", account.ID).Msg("password reset")
	return nil
}

// UpdateAccount applies self-service profile changes. Email and phone are
// re-normalized and uniqueness-checked; any change to the stored value,
// including clearing it, resets the matching verified flag.
func (s *AccountService) UpdateAccount(ctx context.Context, account *domain.Account, update domain.AccountUpdate) (*domain.Account, error) {
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, &domain.InvalidEmailError{Reason: "not a valid email address"}
			}
			if email != account.Email {
				if existing, err := s.repo.FindByEmail(ctx, email); err != nil {
					return nil, err
				} else if existing != nil && existing.ID != account.ID {
					return nil, &domain.IdentifierExistsError{Field: "email"}
				}
			}
		}
		if email != account.Email {
			cleared := false
			update.EmailVerified = &cleared
		}
		update.Email = &email
	}

	if update.Phone != nil {
		phone := strings.TrimSpace(*update.Phone)
		if phone != "" {
			normalized, ok := s.resolver.NormalizePhone(phone)
			if !ok {
				return nil, &domain.InvalidPhoneError{Reason: "not a valid phone number"}
			}
			phone = normalized
			if phone != account.Phone {
				if existing, err := s.repo.FindByPhone(ctx, phone); err != nil {
					return nil, err
				} else if existing != nil && existing.ID != account.ID {
					return nil, &domain.IdentifierExistsError{Field: "phone"}
				}
			}
		}
		if phone != account.Phone {
			cleared := false
			update.PhoneVerified = &cleared
		}
		update.Phone = &phone
	}

	return s.repo.Update(ctx, account.ID, update)
}

func validateUsername(username string) error {
	if len(username) < usernameMinLen {
		return &domain.InvalidUsernameError{Reason: fmt.Sprintf("username should be at least %d characters", usernameMinLen)}
	}
	if len(username) > usernameMaxLen {
		return &domain.InvalidUsernameError{Reason: fmt.Sprintf("username should be at most %d characters", usernameMaxLen)}
	}
	if !usernamePattern.MatchString(username) {
		return &domain.InvalidUsernameError{Reason: "username may only contain letters, digits, underscores and hyphens"}
	}
	return nil
}

func validatePassword(pass string) error {
	if len(pass) < passwordMinLen {
		return &domain.InvalidPasswordError{Reason: fmt.Sprintf("password should be at least %d characters", passwordMinLen)}
	}
	if len(pass) > passwordMaxLen {
		return &domain.InvalidPasswordError{Reason: fmt.Sprintf("password should be at most %d characters", passwordMaxLen)}
	}
	for _, r := range pass {
		if r < 0x20 || r > 0x7e {
			return &domain.InvalidPasswordError{Reason: "password must contain only printable ASCII characters"}
		}
	}
	return nil
}

// generateAccessToken returns a 256-bit random bearer token, hex encoded.
func generateAccessToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
