package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/complaint-desk/complaint-service/internal/auth"
	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/repository"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

const (
	msgEmailTaken         = "User already exists with this email"
	msgInvalidCredentials = "Invalid email or password"
	msgAccountDeactivated = "Account is deactivated"
	msgInvalidStaffRole   = "Invalid role. Can only create technician or admin users."
)

// AccountService is the account directory: registration, staff provisioning,
// credential checks and activation toggling.
type AccountService struct {
	accounts   repository.AccountRepository
	bcryptCost int
	logger     *zap.Logger
}

// AccountDependencies bundles collaborators for AccountService.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	BcryptCost  int
	Logger      *zap.Logger
}

// AccountListFilter describes the admin account listing.
type AccountListFilter struct {
	// Role is a role name, "all" or empty.
	Role     string
	Page     int
	PageSize int
}

// AccountPage is one page of accounts.
type AccountPage struct {
	Accounts   []domain.Account
	Total      int
	Page       int
	TotalPages int
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		accounts:   deps.AccountRepo,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// Register creates a self-service customer account.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	return s.create(ctx, name, email, password, domain.RoleCustomer)
}

// CreateStaff provisions a technician or admin account.
func (s *AccountService) CreateStaff(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	if !role.IsStaff() {
		return nil, apperrors.NewInvalidArgument(msgInvalidStaffRole, map[string]any{"role": string(role)})
	}
	return s.create(ctx, name, email, password, role)
}

// EnsureAccount creates the account unless the email is already registered.
// The second return value reports whether a new account was created.
func (s *AccountService) EnsureAccount(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, bool, error) {
	if !role.Valid() {
		return nil, false, apperrors.NewInvalidArgument("Invalid role", nil)
	}
	existing, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	account, err := s.create(ctx, name, email, password, role)
	if err != nil {
		return nil, false, err
	}
	return account, true, nil
}

func (s *AccountService) create(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, error) {
	email = normalizeEmail(email)
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict(msgEmailTaken, nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict(msgEmailTaken, nil)
		}
		return nil, err
	}
	s.logger.Info("account created", zap.String("account_id", account.ID), zap.String("role", string(role)))
	return account, nil
}

// Authenticate verifies credentials and returns the active account.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials(msgInvalidCredentials)
		}
		return nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Error("stored password hash unreadable", zap.String("account_id", account.ID), zap.Error(err))
		}
		return nil, apperrors.NewInvalidCredentials(msgInvalidCredentials)
	}
	if !account.Active {
		return nil, apperrors.NewInvalidCredentials(msgAccountDeactivated)
	}
	return account, nil
}

// GetByID loads an account.
func (s *AccountService) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, err
	}
	return account, nil
}

// ListTechnicians returns every active technician, newest first.
func (s *AccountService) ListTechnicians(ctx context.Context) ([]domain.Account, error) {
	role := domain.RoleTechnician
	active := true
	filter := repository.AccountFilter{Role: &role, Active: &active}

	total, err := s.accounts.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []domain.Account{}, nil
	}
	filter.Limit = total
	return s.accounts.List(ctx, filter)
}

// List returns one page of active accounts, optionally restricted to a role.
func (s *AccountService) List(ctx context.Context, filter AccountListFilter) (*AccountPage, error) {
	active := true
	repoFilter := repository.AccountFilter{Active: &active}

	if raw := strings.TrimSpace(filter.Role); raw != "" && raw != filterAll {
		role, ok := domain.ParseRole(raw)
		if !ok {
			return nil, apperrors.NewInvalidArgument("Invalid role", map[string]any{"role": raw})
		}
		repoFilter.Role = &role
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	repoFilter.Limit = size
	repoFilter.Offset = (page - 1) * size

	total, err := s.accounts.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return &AccountPage{
		Accounts:   accounts,
		Total:      total,
		Page:       page,
		TotalPages: totalPages(total, size),
	}, nil
}

// ToggleActive flips the account's active flag.
func (s *AccountService) ToggleActive(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	account.Active = !account.Active
	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, err
	}
	s.logger.Info("account activation toggled", zap.String("account_id", account.ID), zap.Bool("active", account.Active))
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
