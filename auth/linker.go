package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/avocadoapp/identity/pkg/logger"
	"github.com/avocadoapp/identity/pkg/sanitizer"
	"github.com/avocadoapp/identity/pkg/validator"
)

// AuthResult is what every successful login or registration returns: a
// freshly issued session token and the account's public profile.
type AuthResult struct {
	Token   string
	Profile Profile
}

// Registration is the local signup form. All four fields are required.
type Registration struct {
	Username  string
	Email     string
	Password  string
	Birthdate string
}

// AccountLinker orchestrates login-or-register: given a normalized
// identity it decides whether to rotate the token of an existing
// account or create a new one. Email is the unifying key, so identities
// from different providers sharing an email merge into one account.
type AccountLinker struct {
	store      CredentialStore
	tokens     *TokenService
	bcryptCost int
	logger     *slog.Logger
}

// LinkerOption configures an AccountLinker.
type LinkerOption func(*AccountLinker)

// WithLinkerLogger sets a custom logger.
func WithLinkerLogger(l *slog.Logger) LinkerOption {
	return func(s *AccountLinker) { s.logger = l }
}

// WithLinkerBcryptCost overrides the bcrypt work factor.
func WithLinkerBcryptCost(cost int) LinkerOption {
	return func(s *AccountLinker) { s.bcryptCost = cost }
}

// NewAccountLinker creates an account linker.
func NewAccountLinker(store CredentialStore, tokens *TokenService, opts ...LinkerOption) *AccountLinker {
	s := &AccountLinker{
		store:      store,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginOrRegister resolves a provider identity to an account. An
// existing account with the identity's email gets a rotated token; an
// unknown email gets a fresh account with no local credential. Losing a
// create race to a concurrent signup for the same email falls back to
// the login path once.
//
// Identities without an email (Discord may withhold it, Google reports
// unverified addresses as absent) never take the email path: resolving
// "" by email would merge every email-less user into one account. They
// resolve by their provider-derived account id instead.
func (s *AccountLinker) LoginOrRegister(ctx context.Context, identity NormalizedIdentity) (*AuthResult, error) {
	if identity.AccountID == "" {
		return nil, ErrMissingProviderID
	}
	identity.Email = sanitizer.NormalizeEmail(identity.Email)

	if identity.Email == "" {
		return s.loginOrRegisterByAccountID(ctx, identity)
	}

	acct, err := s.store.FindByEmail(ctx, identity.Email)
	if err == nil {
		return s.rotate(ctx, acct)
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}

	if err := s.store.Create(ctx, draftFrom(identity)); err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			// Another request created this email between lookup and
			// insert; the unique index decided the winner. Retry the
			// login path once.
			acct, err := s.store.FindByEmail(ctx, identity.Email)
			if err != nil {
				return nil, errors.Join(ErrRegistrationFailed, err)
			}
			return s.rotate(ctx, acct)
		case errors.Is(err, ErrAccountIDTaken):
			// Returning user whose provider-side email changed: the
			// email lookup missed but the account already exists under
			// its provider-derived id. Log them into that account; the
			// stored email stays authoritative.
			acct, err := s.store.FindByAccountID(ctx, identity.AccountID)
			if err != nil {
				return nil, errors.Join(ErrRegistrationFailed, err)
			}
			return s.rotate(ctx, acct)
		default:
			return nil, errors.Join(ErrRegistrationFailed, err)
		}
	}

	return s.rotateCreated(ctx, identity)
}

// loginOrRegisterByAccountID handles identities whose provider withheld
// the email. The account id is the only stable key these users have.
func (s *AccountLinker) loginOrRegisterByAccountID(ctx context.Context, identity NormalizedIdentity) (*AuthResult, error) {
	acct, err := s.store.FindByAccountID(ctx, identity.AccountID)
	if err == nil {
		return s.rotate(ctx, acct)
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("lookup account by id: %w", err)
	}

	if err := s.store.Create(ctx, draftFrom(identity)); err != nil {
		if errors.Is(err, ErrAccountIDTaken) {
			acct, err := s.store.FindByAccountID(ctx, identity.AccountID)
			if err != nil {
				return nil, errors.Join(ErrRegistrationFailed, err)
			}
			return s.rotate(ctx, acct)
		}
		return nil, errors.Join(ErrRegistrationFailed, err)
	}

	return s.rotateCreated(ctx, identity)
}

func draftFrom(identity NormalizedIdentity) *Account {
	return &Account{
		AccountID:      identity.AccountID,
		Username:       identity.Username,
		Email:          identity.Email,
		Provider:       identity.Provider,
		ProviderUserID: identity.ProviderUserID,
		AvatarURL:      identity.AvatarURL,
	}
}

// rotateCreated issues the first token for a freshly created account.
func (s *AccountLinker) rotateCreated(ctx context.Context, identity NormalizedIdentity) (*AuthResult, error) {
	result, err := s.rotate(ctx, draftFrom(identity))
	if err != nil {
		// The account exists at this point even though the caller gets
		// a failure; a retried login will find it.
		s.logger.Error("token rotation failed after account creation",
			logger.AccountID(identity.AccountID),
			logger.Provider(string(identity.Provider)),
			logger.Error(err),
			logger.Component("linker"),
		)
		return nil, errors.Join(ErrRegistrationFailed, err)
	}
	return result, nil
}

// RegisterLocal creates an account from the local signup form. Username
// availability is pre-checked at the application layer; email (and
// username) uniqueness are still guarded by the store's unique indexes
// at commit time.
func (s *AccountLinker) RegisterLocal(ctx context.Context, reg Registration) (*AuthResult, error) {
	reg.Username = sanitizer.Apply(reg.Username, sanitizer.Trim, sanitizer.SingleLine)
	reg.Email = sanitizer.NormalizeEmail(reg.Email)

	if err := validator.Apply(
		validator.RequiredString("username", reg.Username),
		validator.RequiredString("email", reg.Email),
		validator.ValidEmail("email", reg.Email),
		validator.RequiredString("password", reg.Password),
		validator.RequiredString("birthdate", reg.Birthdate),
	); err != nil {
		return nil, err
	}

	taken, err := s.store.UsernameExists(ctx, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := hashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	acct := &Account{
		AccountID:    reg.Email,
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: hash,
		Provider:     ProviderLocal,
		Birthdate:    reg.Birthdate,
	}

	if err := s.store.Create(ctx, acct); err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, errors.Join(ErrRegistrationFailed, err)
	}

	result, err := s.rotate(ctx, acct)
	if err != nil {
		return nil, errors.Join(ErrRegistrationFailed, err)
	}
	return result, nil
}

// LoginLocal authenticates an email/password pair and rotates the
// session token. Unknown email and wrong password both return
// ErrInvalidCredentials so responses cannot enumerate accounts.
func (s *AccountLinker) LoginLocal(ctx context.Context, email, password string) (*AuthResult, error) {
	email = sanitizer.NormalizeEmail(email)

	acct, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}

	if !verifyPassword(acct.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.rotate(ctx, acct)
}

// rotate issues a fresh token and persists it as the account's active
// session. The previous token is superseded, not revoked. Tokens are
// bound to the email when the account has one and to the account id
// otherwise; social account ids never contain "@", so the two shapes
// stay distinguishable.
func (s *AccountLinker) rotate(ctx context.Context, acct *Account) (*AuthResult, error) {
	subject := acct.Email
	if subject == "" {
		subject = acct.AccountID
	}
	token, err := s.tokens.Issue(subject)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.store.SetToken(ctx, acct.AccountID, token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	return &AuthResult{Token: token, Profile: acct.Public()}, nil
}
