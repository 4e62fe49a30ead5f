package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avocadoapp/identity/pkg/logger"
	"github.com/avocadoapp/identity/pkg/sanitizer"
	"github.com/avocadoapp/identity/pkg/validator"
)

// EmailChangeInterval is the minimum time between email changes for one
// account. An account that never changed its email may change it
// immediately.
const EmailChangeInterval = 30 * 24 * time.Hour

// ProfileMutator applies validated field-level updates to an existing
// account. Each method updates exactly one field, mirroring the
// external update endpoints; absent fields are never cleared.
type ProfileMutator struct {
	store      CredentialStore
	bcryptCost int
	interval   time.Duration
	now        func() time.Time
	logger     *slog.Logger

	// afterEmailChange runs asynchronously after a successful email
	// change, e.g. to notify the old address.
	afterEmailChange func(ctx context.Context, acct *Account, oldEmail string) error
}

// MutatorOption configures a ProfileMutator.
type MutatorOption func(*ProfileMutator)

// WithMutatorLogger sets a custom logger.
func WithMutatorLogger(l *slog.Logger) MutatorOption {
	return func(m *ProfileMutator) { m.logger = l }
}

// WithMutatorBcryptCost overrides the bcrypt work factor.
func WithMutatorBcryptCost(cost int) MutatorOption {
	return func(m *ProfileMutator) { m.bcryptCost = cost }
}

// WithEmailChangeInterval overrides the 30-day email change throttle.
func WithEmailChangeInterval(d time.Duration) MutatorOption {
	return func(m *ProfileMutator) { m.interval = d }
}

// WithMutatorClock overrides the time source used by the throttle.
func WithMutatorClock(now func() time.Time) MutatorOption {
	return func(m *ProfileMutator) { m.now = now }
}

// WithAfterEmailChange sets a hook that runs after a successful email
// change. It runs in its own goroutine with a bounded context; errors
// are logged, never surfaced to the caller.
func WithAfterEmailChange(fn func(context.Context, *Account, string) error) MutatorOption {
	return func(m *ProfileMutator) { m.afterEmailChange = fn }
}

// NewProfileMutator creates a profile mutator.
func NewProfileMutator(store CredentialStore, opts ...MutatorOption) *ProfileMutator {
	m := &ProfileMutator{
		store:      store,
		bcryptCost: bcrypt.DefaultCost,
		interval:   EmailChangeInterval,
		now:        time.Now,
		logger:     logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UpdateUsername renames the account. The rename is rejected when the
// username is empty or held by a different account; renaming to the
// account's current username is a no-op.
func (m *ProfileMutator) UpdateUsername(ctx context.Context, accountID, username string) (*Account, error) {
	username = sanitizer.Apply(username, sanitizer.Trim, sanitizer.SingleLine)
	if err := validator.Apply(validator.RequiredString("username", username)); err != nil {
		return nil, err
	}

	acct, err := m.store.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct.Username == username {
		return acct, nil
	}

	taken, err := m.store.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	return m.store.ApplyUpdate(ctx, accountID, AccountUpdate{Username: &username})
}

// UpdateEmail changes the account's email, subject to the global
// uniqueness constraint and the change throttle. On success
// lastEmailChange is set to now.
func (m *ProfileMutator) UpdateEmail(ctx context.Context, accountID, email string) (*Account, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := validator.Apply(
		validator.RequiredString("email", email),
		validator.ValidEmail("email", email),
	); err != nil {
		return nil, err
	}

	acct, err := m.store.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	exists, err := m.store.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	// Zero lastEmailChange means the email was never changed, which is
	// infinitely long ago as far as the throttle is concerned.
	now := m.now()
	if !acct.LastEmailChange.IsZero() && now.Sub(acct.LastEmailChange) < m.interval {
		return nil, ErrEmailChangeThrottled
	}

	oldEmail := acct.Email
	updated, err := m.store.ApplyUpdate(ctx, accountID, AccountUpdate{
		Email:           &email,
		LastEmailChange: &now,
	})
	if err != nil {
		return nil, err
	}

	m.runAfterEmailChange(updated, oldEmail)
	return updated, nil
}

// UpdatePassword rehashes and stores a new password after verifying
// the current one. Social-only accounts have no hash to verify against
// and are rejected the same way a wrong password is.
func (m *ProfileMutator) UpdatePassword(ctx context.Context, accountID, currentPassword, newPassword string) (*Account, error) {
	if err := validator.Apply(
		validator.RequiredString("currentPassword", currentPassword),
		validator.RequiredString("newPassword", newPassword),
	); err != nil {
		return nil, err
	}
	if len(newPassword) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	acct, err := m.store.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !verifyPassword(acct.PasswordHash, currentPassword) {
		return nil, ErrInvalidCredentials
	}

	hash, err := hashPassword(newPassword, m.bcryptCost)
	if err != nil {
		return nil, err
	}

	return m.store.ApplyUpdate(ctx, accountID, AccountUpdate{PasswordHash: &hash})
}

// UpdateBio sets the bio verbatim.
func (m *ProfileMutator) UpdateBio(ctx context.Context, accountID, bio string) (*Account, error) {
	bio = sanitizer.Trim(bio)
	if err := validator.Apply(validator.RequiredString("bio", bio)); err != nil {
		return nil, err
	}
	return m.store.ApplyUpdate(ctx, accountID, AccountUpdate{Bio: &bio})
}

// UpdateBirthdate sets the birthdate.
func (m *ProfileMutator) UpdateBirthdate(ctx context.Context, accountID, birthdate string) (*Account, error) {
	birthdate = sanitizer.Trim(birthdate)
	if err := validator.Apply(validator.RequiredString("birthdate", birthdate)); err != nil {
		return nil, err
	}
	return m.store.ApplyUpdate(ctx, accountID, AccountUpdate{Birthdate: &birthdate})
}

// UpdateAvatarURL sets the profile picture URL verbatim.
func (m *ProfileMutator) UpdateAvatarURL(ctx context.Context, accountID, avatarURL string) (*Account, error) {
	avatarURL = sanitizer.Trim(avatarURL)
	if err := validator.Apply(validator.RequiredString("pfpUrl", avatarURL)); err != nil {
		return nil, err
	}
	return m.store.ApplyUpdate(ctx, accountID, AccountUpdate{AvatarURL: &avatarURL})
}

func (m *ProfileMutator) runAfterEmailChange(acct *Account, oldEmail string) {
	if m.afterEmailChange == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("afterEmailChange hook panicked",
					logger.AccountID(acct.AccountID),
					slog.Any("panic", r),
					logger.Component("mutator"),
				)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := m.afterEmailChange(ctx, acct, oldEmail); err != nil {
			m.logger.Error("afterEmailChange hook failed",
				logger.AccountID(acct.AccountID),
				logger.Error(err),
				logger.Component("mutator"),
			)
		}
	}()
}
