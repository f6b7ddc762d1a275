package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"railbook/internal/accounts/validator"
	"railbook/internal/memstore"
	"railbook/pkg/config"
	apperrors "railbook/pkg/errors"
	"railbook/pkg/logger"
	"railbook/pkg/middleware"
	"railbook/pkg/model"
	"railbook/pkg/password"
	"railbook/pkg/sealer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (AccountService, *memstore.Store) {
	t.Helper()
	svc, store, _ := newTestServiceWithAuth(t)
	return svc, store
}

func newTestServiceWithAuth(t *testing.T) (AccountService, *memstore.Store, *middleware.Authenticator) {
	t.Helper()
	cfg := &config.Config{Log: logger.NewNop()}

	key, err := sealer.GenerateKey()
	require.NoError(t, err)
	s, err := sealer.New(key)
	require.NoError(t, err)

	store := memstore.New()
	auth := middleware.NewAuthenticator(s, time.Hour, cfg.Log)
	svc := NewAccountService(
		store.Accounts(),
		store,
		validator.NewAccountValidator(cfg.Log),
		password.NewHasher(bcrypt.MinCost),
		auth,
		cfg,
	)
	return svc, store, auth
}

func register(t *testing.T, svc AccountService, userName, plain string) *model.Account {
	t.Helper()
	account, err := svc.CreateAccount(context.Background(), &model.Registration{
		UserName: userName,
		Email:    userName + "@example.com",
		Password: plain,
	})
	require.NoError(t, err)
	return account
}

func TestCreateAccount(t *testing.T) {
	svc, store := newTestService(t)

	account := register(t, svc, "  alice ", "pw1")

	assert.Equal(t, "alice", account.UserName)
	assert.Equal(t, model.RolePassenger, account.Role)
	assert.Positive(t, account.UserID)

	credential, err := store.Accounts().FindCredential(context.Background(), account.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", credential.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte("pw1")))
}

func TestCreateAccount_Duplicate(t *testing.T) {
	svc, store := newTestService(t)
	first := register(t, svc, "alice", "pw1")

	_, err := svc.CreateAccount(context.Background(), &model.Registration{
		UserName: "alice",
		Email:    "other@example.com",
		Password: "different",
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDuplicateUser))
	assert.Equal(t, 1, store.Accounts().Count())

	userID, err := svc.VerifyCredentials(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, first.UserID, userID)
}

func TestCreateAccount_CredentialFailureRollsBackAccount(t *testing.T) {
	svc, store := newTestService(t)
	store.FailCredentials(errors.New("write conflict"))

	_, err := svc.CreateAccount(context.Background(), &model.Registration{
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "pw1",
	})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorage))
	assert.Equal(t, 0, store.Accounts().Count())

	store.FailCredentials(nil)
	register(t, svc, "alice", "pw1")
}

func TestCreateAccount_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateAccount(context.Background(), &model.Registration{
		UserName: "alice",
		Email:    "not-an-email",
		Password: "pw1",
	})

	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "errors")
}

func TestVerifyCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	account := register(t, svc, "alice", "pw1")

	tests := []struct {
		name     string
		userName string
		password string
		wantCode string
	}{
		{"correct password", "alice", "pw1", ""},
		{"wrong password", "alice", "pw2", apperrors.CodeInvalidCredential},
		{"unknown user", "mallory", "pw1", apperrors.CodeNotFound},
		{"empty user", "   ", "pw1", apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID, err := svc.VerifyCredentials(context.Background(), tt.userName, tt.password)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, account.UserID, userID)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
			assert.Zero(t, userID)
		})
	}
}

func TestLogin_IssuesSession(t *testing.T) {
	svc, _ := newTestService(t)
	account := register(t, svc, "alice", "pw1")

	session, err := svc.Login(context.Background(), &model.LoginRequest{UserName: "alice", Password: "pw1"})

	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, account.UserID, session.UserID)
	assert.Equal(t, model.RolePassenger, session.Role)

	_, err = svc.Login(context.Background(), &model.LoginRequest{UserName: "alice"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t)
	account := register(t, svc, "alice", "pw1")

	found, err := svc.GetByID(context.Background(), account.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.UserName)

	_, err = svc.GetByID(context.Background(), 999)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = svc.GetByID(context.Background(), 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestCreateAccount_PublicSignUpCannotChooseAdmin(t *testing.T) {
	svc, _, auth := newTestServiceWithAuth(t)
	ctx := context.Background()

	reg := &model.Registration{
		UserName: "mallory",
		Email:    "mallory@example.com",
		Password: "pw1",
		Role:     model.RoleAdmin,
	}
	account, err := svc.CreateAccount(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, model.RolePassenger, account.Role)
	assert.Equal(t, model.RoleAdmin, reg.Role, "caller's registration must not be rewritten")

	session, err := svc.Login(ctx, &model.LoginRequest{UserName: "mallory", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, model.RolePassenger, session.Role)

	principal, err := auth.Verify(session.Token)
	require.NoError(t, err)
	assert.False(t, principal.IsAdmin())
}

func TestCreateAccountWithRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	admin, err := svc.CreateAccountWithRole(ctx, &model.Registration{
		UserName: "ops", Email: "ops@example.com", Password: "pw1", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	passenger, err := svc.CreateAccountWithRole(ctx, &model.Registration{
		UserName: "bob", Email: "bob@example.com", Password: "pw1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolePassenger, passenger.Role)

	_, err = svc.CreateAccountWithRole(ctx, &model.Registration{
		UserName: "eve", Email: "eve@example.com", Password: "pw1", Role: "root",
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestEnsureAdmin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	reg := &model.Registration{UserName: "root", Email: "root@example.com", Password: "s3cret"}

	require.NoError(t, svc.EnsureAdmin(ctx, reg))
	require.NoError(t, svc.EnsureAdmin(ctx, reg), "second run finds the existing admin")

	account, err := store.Accounts().FindByUserName(ctx, "root")
	require.NoError(t, err)
	assert.True(t, account.IsAdmin())

	session, err := svc.Login(ctx, &model.LoginRequest{UserName: "root", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, session.Role)
}

func TestEnsureAdmin_DoesNotPromoteExistingPassenger(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	register(t, svc, "root", "pw1")

	require.NoError(t, svc.EnsureAdmin(ctx, &model.Registration{
		UserName: "root", Email: "root@example.com", Password: "s3cret",
	}))

	account, err := store.Accounts().FindByUserName(ctx, "root")
	require.NoError(t, err)
	assert.False(t, account.IsAdmin())
}
