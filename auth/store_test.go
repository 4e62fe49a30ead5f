package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/avocadoapp/identity/auth"
)

// memStore is an in-memory CredentialStore. Create enforces the email
// and username unique constraints under a single lock, matching the
// atomicity the mongodb store gets from its unique indexes.
type memStore struct {
	mu   sync.Mutex
	byID map[string]*auth.Account
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]*auth.Account)}
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.byID {
		if acct.Email == email {
			return clone(acct), nil
		}
	}
	return nil, auth.ErrAccountNotFound
}

func (s *memStore) FindByAccountID(_ context.Context, accountID string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[accountID]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}
	return clone(acct), nil
}

func (s *memStore) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.byID {
		if acct.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) EmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.byID {
		if acct.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Create(_ context.Context, acct *auth.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[acct.AccountID]; ok {
		return auth.ErrAccountIDTaken
	}
	for _, existing := range s.byID {
		if acct.Email != "" && existing.Email == acct.Email {
			return auth.ErrEmailTaken
		}
		if existing.Username == acct.Username {
			return auth.ErrUsernameTaken
		}
	}
	now := time.Now()
	acct.CreatedAt = now
	acct.UpdatedAt = now
	s.byID[acct.AccountID] = clone(acct)
	return nil
}

func (s *memStore) ApplyUpdate(_ context.Context, accountID string, upd auth.AccountUpdate) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[accountID]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}
	if upd.Username != nil {
		acct.Username = *upd.Username
	}
	if upd.Email != nil {
		acct.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		acct.PasswordHash = *upd.PasswordHash
	}
	if upd.Bio != nil {
		acct.Bio = *upd.Bio
	}
	if upd.Birthdate != nil {
		acct.Birthdate = *upd.Birthdate
	}
	if upd.AvatarURL != nil {
		acct.AvatarURL = *upd.AvatarURL
	}
	if upd.LastEmailChange != nil {
		acct.LastEmailChange = *upd.LastEmailChange
	}
	acct.UpdatedAt = time.Now()
	return clone(acct), nil
}

func (s *memStore) SetToken(_ context.Context, accountID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.byID[accountID]
	if !ok {
		return auth.ErrAccountNotFound
	}
	acct.SessionToken = token
	return nil
}

func (s *memStore) get(accountID string) *auth.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.byID[accountID])
}

func clone(acct *auth.Account) *auth.Account {
	if acct == nil {
		return nil
	}
	c := *acct
	return &c
}
