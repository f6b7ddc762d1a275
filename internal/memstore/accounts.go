package memstore

import (
	"context"
	"fmt"

	accountserrors "railbook/internal/accounts/errors"
	"railbook/internal/accounts/repository"
	"railbook/pkg/model"
)

type AccountStore struct {
	s *Store
}

var _ repository.AccountRepository = (*AccountStore)(nil)

func (a *AccountStore) Create(ctx context.Context, account *model.Account) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.userNames[account.UserName]; taken {
		return fmt.Errorf("%w: %s", accountserrors.ErrDuplicateUserName, account.UserName)
	}

	s.nextUserID++
	account.UserID = s.nextUserID
	account.CreatedAt = s.now().UTC()

	stored := *account
	s.accounts[stored.UserID] = &stored
	s.userNames[stored.UserName] = stored.UserID

	onRollback(ctx, func() {
		delete(s.accounts, stored.UserID)
		delete(s.userNames, stored.UserName)
	})
	return nil
}

func (a *AccountStore) CreateCredential(ctx context.Context, credential *model.Credential) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credentialErr != nil {
		return fmt.Errorf("failed to create credential: %w", s.credentialErr)
	}
	if _, exists := s.credentials[credential.UserID]; exists {
		return fmt.Errorf("failed to create credential: user %d already has one", credential.UserID)
	}

	stored := *credential
	s.credentials[stored.UserID] = &stored

	onRollback(ctx, func() {
		delete(s.credentials, stored.UserID)
	})
	return nil
}

func (a *AccountStore) FindByID(ctx context.Context, userID int64) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", accountserrors.ErrNotFound, userID)
	}
	found := *account
	return &found, nil
}

func (a *AccountStore) FindByUserName(ctx context.Context, userName string) (*model.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.userNames[userName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", accountserrors.ErrNotFound, userName)
	}
	found := *s.accounts[userID]
	return &found, nil
}

func (a *AccountStore) FindCredential(ctx context.Context, userID int64) (*model.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}

	s := a.s
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, ok := s.credentials[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", accountserrors.ErrCredentialNotFound, userID)
	}
	found := *credential
	return &found, nil
}

// Count returns the number of stored accounts.
func (a *AccountStore) Count() int {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	return len(a.s.accounts)
}
