package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/service"
)

// AccountSeed describes an account to provision at startup.
type AccountSeed struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Provider yields the accounts to ensure.
type Provider interface {
	Accounts() []AccountSeed
}

// DemoAccounts provisions one account per role for local development.
type DemoAccounts struct {
	Password string
}

// Accounts implements Provider.
func (d DemoAccounts) Accounts() []AccountSeed {
	return []AccountSeed{
		{Name: "Admin User", Email: "admin@example.com", Password: d.Password, Role: domain.RoleAdmin},
		{Name: "Tech One", Email: "tech1@example.com", Password: d.Password, Role: domain.RoleTechnician},
		{Name: "Customer One", Email: "customer1@example.com", Password: d.Password, Role: domain.RoleCustomer},
	}
}

// Apply creates every missing account from the provider. Existing accounts are
// left untouched, so running it twice is harmless.
func Apply(ctx context.Context, provider Provider, accounts *service.AccountService, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	created := 0
	for _, entry := range provider.Accounts() {
		account, isNew, err := accounts.EnsureAccount(ctx, entry.Name, entry.Email, entry.Password, entry.Role)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", entry.Email, err)
		}
		if isNew {
			created++
			logger.Info("seeded account", zap.String("email", account.Email), zap.String("role", string(account.Role)))
		}
	}
	return created, nil
}
