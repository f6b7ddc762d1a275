package service

import (
	"context"
	"errors"
	"fmt"
	accountserrors "railbook/internal/accounts/errors"
	"railbook/internal/accounts/repository"
	"railbook/internal/accounts/validator"
	"railbook/pkg/config"
	"railbook/pkg/db"
	apperrors "railbook/pkg/errors"
	"railbook/pkg/model"
	"railbook/pkg/password"
	"railbook/pkg/sanitizer"
	"railbook/pkg/validation"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

type TokenIssuer interface {
	Issue(userID int64, role string) (*model.Session, error)
}

type AccountService interface {
	// CreateAccount is the public sign-up. The account is always a passenger,
	// whatever role the registration asks for.
	CreateAccount(ctx context.Context, reg *model.Registration) (*model.Account, error)
	// CreateAccountWithRole honors reg.Role. Callers must already hold admin
	// rights or run at process startup.
	CreateAccountWithRole(ctx context.Context, reg *model.Registration) (*model.Account, error)
	// EnsureAdmin creates the bootstrap admin unless the user name is taken.
	EnsureAdmin(ctx context.Context, reg *model.Registration) error
	VerifyCredentials(ctx context.Context, userName, plain string) (int64, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.Session, error)
	GetByID(ctx context.Context, userID int64) (*model.Account, error)
}

type accountService struct {
	repo      repository.AccountRepository
	tx        db.Transactor
	validator *validator.AccountValidator
	hasher    PasswordHasher
	issuer    TokenIssuer
	cfg       *config.Config
}

func NewAccountService(
	repo repository.AccountRepository,
	tx db.Transactor,
	validator *validator.AccountValidator,
	hasher PasswordHasher,
	issuer TokenIssuer,
	cfg *config.Config,
) AccountService {
	return &accountService{
		repo:      repo,
		tx:        tx,
		validator: validator,
		hasher:    hasher,
		issuer:    issuer,
		cfg:       cfg,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, reg *model.Registration) (*model.Account, error) {
	if reg.Role != "" && reg.Role != model.RolePassenger {
		s.cfg.Log.Warn("Ignoring requested role on public registration",
			"user_name", reg.UserName,
			"requested_role", reg.Role,
		)
	}
	public := *reg
	public.Role = model.RolePassenger
	return s.create(ctx, &public)
}

func (s *accountService) CreateAccountWithRole(ctx context.Context, reg *model.Registration) (*model.Account, error) {
	record := *reg
	if record.Role == "" {
		record.Role = model.RolePassenger
	}
	return s.create(ctx, &record)
}

func (s *accountService) EnsureAdmin(ctx context.Context, reg *model.Registration) error {
	record := *reg
	record.Role = model.RoleAdmin

	account, err := s.create(ctx, &record)
	if err == nil {
		s.cfg.Log.Info("Bootstrap admin created", "user_id", account.UserID, "user_name", account.UserName)
		return nil
	}
	if !apperrors.HasCode(err, apperrors.CodeDuplicateUser) {
		return err
	}

	existing, findErr := s.repo.FindByUserName(ctx, sanitizer.SanitizeUserName(reg.UserName))
	if findErr != nil {
		return apperrors.Storage("Failed to look up bootstrap admin", findErr)
	}
	if !existing.IsAdmin() {
		s.cfg.Log.Warn("Bootstrap admin user name belongs to a non-admin account",
			"user_id", existing.UserID,
			"user_name", existing.UserName,
		)
		return nil
	}
	s.cfg.Log.Info("Bootstrap admin already present", "user_id", existing.UserID)
	return nil
}

// create works on a copy owned by the caller of this method.
func (s *accountService) create(ctx context.Context, reg *model.Registration) (*model.Account, error) {
	reg.UserName = sanitizer.SanitizeUserName(reg.UserName)
	reg.Email = sanitizer.SanitizeEmail(reg.Email)

	if err := s.validator.ValidateRegistration(reg); err != nil {
		s.cfg.Log.Warn("Registration validation failed",
			"user_name", reg.UserName,
			"error", err,
		)
		return nil, apperrors.Validation("Registration validation failed", validation.Details(err))
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	account := &model.Account{
		UserName: reg.UserName,
		Email:    reg.Email,
		Role:     reg.Role,
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, account); err != nil {
			return err
		}
		return s.repo.CreateCredential(txCtx, &model.Credential{
			UserID:       account.UserID,
			PasswordHash: hash,
		})
	})
	if err != nil {
		if errors.Is(err, accountserrors.ErrDuplicateUserName) {
			s.cfg.Log.Info("Registration rejected, user name taken", "user_name", reg.UserName)
			return nil, apperrors.DuplicateUser(reg.UserName)
		}
		s.cfg.Log.Error("Failed to create account",
			"user_name", reg.UserName,
			"error", err,
		)
		return nil, apperrors.Storage("Failed to create account", err)
	}

	s.cfg.Log.Info("Account created successfully",
		"user_id", account.UserID,
		"user_name", account.UserName,
		"role", account.Role,
	)

	return account, nil
}

func (s *accountService) VerifyCredentials(ctx context.Context, userName, plain string) (int64, error) {
	account, err := s.verify(ctx, userName, plain)
	if err != nil {
		return 0, err
	}
	return account.UserID, nil
}

func (s *accountService) verify(ctx context.Context, userName, plain string) (*model.Account, error) {
	userName = sanitizer.SanitizeUserName(userName)
	if userName == "" {
		return nil, apperrors.InvalidInput("user_name cannot be empty")
	}

	account, err := s.repo.FindByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Account")
		}
		s.cfg.Log.Error("Failed to look up account", "user_name", userName, "error", err)
		return nil, apperrors.Storage("Failed to look up account", err)
	}

	credential, err := s.repo.FindCredential(ctx, account.UserID)
	if err != nil {
		if errors.Is(err, accountserrors.ErrCredentialNotFound) {
			s.cfg.Log.Error("Account has no credential", "user_id", account.UserID)
			return nil, apperrors.InvalidCredential()
		}
		s.cfg.Log.Error("Failed to look up credential", "user_id", account.UserID, "error", err)
		return nil, apperrors.Storage("Failed to look up credential", err)
	}

	if err := s.hasher.Compare(credential.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.cfg.Log.Info("Invalid credential", "user_id", account.UserID)
			return nil, apperrors.InvalidCredential()
		}
		return nil, apperrors.Internal("Failed to verify password", err)
	}

	return account, nil
}

func (s *accountService) Login(ctx context.Context, req *model.LoginRequest) (*model.Session, error) {
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Validation("Login validation failed", validation.Details(err))
	}

	account, err := s.verify(ctx, req.UserName, req.Password)
	if err != nil {
		return nil, err
	}

	session, err := s.issuer.Issue(account.UserID, account.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue session", err)
	}

	s.cfg.Log.Info("Login succeeded", "user_id", account.UserID)
	return session, nil
}

func (s *accountService) GetByID(ctx context.Context, userID int64) (*model.Account, error) {
	if userID <= 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid user id: %d", userID))
	}

	account, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, accountserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Account", userID)
		}
		s.cfg.Log.Error("Failed to get account by ID", "user_id", userID, "error", err)
		return nil, apperrors.Storage("Failed to retrieve account", err)
	}

	return account, nil
}
