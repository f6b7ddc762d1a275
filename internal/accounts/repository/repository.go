package repository

import (
	"context"
	"railbook/pkg/model"
)

const (
	AccountsCollection    = "accounts"
	CredentialsCollection = "credentials"
	AccountSequence       = "accounts"
)

type AccountRepository interface {
	// Create assigns UserID and CreatedAt.
	Create(ctx context.Context, account *model.Account) error
	CreateCredential(ctx context.Context, credential *model.Credential) error
	FindByID(ctx context.Context, userID int64) (*model.Account, error)
	FindByUserName(ctx context.Context, userName string) (*model.Account, error)
	FindCredential(ctx context.Context, userID int64) (*model.Credential, error)
}
