package repository

import (
	"context"
	"errors"
	"fmt"
	accountserrors "railbook/internal/accounts/errors"
	"railbook/pkg/config"
	"railbook/pkg/db/postgres"
	"railbook/pkg/model"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresAccountRepository struct {
	cfg  *config.Config
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(cfg *config.Config) AccountRepository {
	return &postgresAccountRepository{
		cfg:  cfg,
		pool: cfg.Client.Postgres,
	}
}

func (r *postgresAccountRepository) Create(ctx context.Context, account *model.Account) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	account.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO accounts (user_name, email, role, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING user_id`,
		account.UserName, account.Email, account.Role, account.CreatedAt,
	).Scan(&account.UserID)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", accountserrors.ErrDuplicateUserName, account.UserName)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *postgresAccountRepository) CreateCredential(ctx context.Context, credential *model.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := postgres.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO credentials (user_id, password_hash) VALUES ($1, $2)`,
		credential.UserID, credential.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (r *postgresAccountRepository) FindByID(ctx context.Context, userID int64) (*model.Account, error) {
	return r.findOne(ctx, `WHERE user_id = $1`, userID, fmt.Sprint(userID))
}

func (r *postgresAccountRepository) FindByUserName(ctx context.Context, userName string) (*model.Account, error) {
	return r.findOne(ctx, `WHERE user_name = $1`, userName, userName)
}

func (r *postgresAccountRepository) findOne(ctx context.Context, where string, arg any, key string) (*model.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var a model.Account
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT user_id, user_name, email, role, created_at FROM accounts `+where,
		arg,
	).Scan(&a.UserID, &a.UserName, &a.Email, &a.Role, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", accountserrors.ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

func (r *postgresAccountRepository) FindCredential(ctx context.Context, userID int64) (*model.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	c := model.Credential{UserID: userID}
	err := postgres.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT password_hash FROM credentials WHERE user_id = $1`, userID,
	).Scan(&c.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", accountserrors.ErrCredentialNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find credential: %w", err)
	}
	return &c, nil
}
