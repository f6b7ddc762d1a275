package repository

import (
	"context"
	"errors"
	"fmt"
	accountserrors "railbook/internal/accounts/errors"
	"railbook/pkg/config"
	mongodb "railbook/pkg/db/mongo"
	"railbook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoAccountRepository struct {
	cfg         *config.Config
	db          *mongo.Database
	accounts    *mongo.Collection
	credentials *mongo.Collection
}

func NewMongoAccountRepository(cfg *config.Config) AccountRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAccountRepository{
		cfg:         cfg,
		db:          db,
		accounts:    db.Collection(AccountsCollection),
		credentials: db.Collection(CredentialsCollection),
	}
}

func (r *mongoAccountRepository) Create(ctx context.Context, account *model.Account) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	id, err := mongodb.NextSequence(ctx, r.db, AccountSequence)
	if err != nil {
		return fmt.Errorf("failed to allocate user id: %w", err)
	}

	account.UserID = id
	account.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.accounts.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", accountserrors.ErrDuplicateUserName, account.UserName)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (r *mongoAccountRepository) CreateCredential(ctx context.Context, credential *model.Credential) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.credentials.InsertOne(ctx, credential); err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (r *mongoAccountRepository) FindByID(ctx context.Context, userID int64) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"_id": userID}, fmt.Sprint(userID))
}

func (r *mongoAccountRepository) FindByUserName(ctx context.Context, userName string) (*model.Account, error) {
	return r.findOne(ctx, bson.M{"user_name": userName}, userName)
}

func (r *mongoAccountRepository) findOne(ctx context.Context, filter bson.M, key string) (*model.Account, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var account model.Account
	if err := r.accounts.FindOne(ctx, filter).Decode(&account); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", accountserrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

func (r *mongoAccountRepository) FindCredential(ctx context.Context, userID int64) (*model.Credential, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var credential model.Credential
	if err := r.credentials.FindOne(ctx, bson.M{"_id": userID}).Decode(&credential); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", accountserrors.ErrCredentialNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}
	return &credential, nil
}
