package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complaint-desk/complaint-service/internal/domain"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

func TestAccountService_RegisterDuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.accounts.Register(ctx, "Ann", "ann@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, first.Role)
	assert.True(t, first.Active)
	assert.NotEqual(t, "password123", first.PasswordHash)

	_, err = f.accounts.Register(ctx, "Ann Again", "  ANN@example.com ", "password456")
	domainErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, apperrors.CodeConflict, domainErr.Code)
	assert.Equal(t, "User already exists with this email", domainErr.Message)
}

func TestAccountService_CreateStaffRejectsCustomerRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.accounts.CreateStaff(context.Background(), "C", "c@example.com", "password123", domain.RoleCustomer)
	domainErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid role. Can only create technician or admin users.", domainErr.Message)

	_, err = f.accounts.CreateStaff(context.Background(), "X", "x@example.com", "password123", domain.Role("root"))
	requireStatus(t, err, http.StatusBadRequest)

	tech, err := f.accounts.CreateStaff(context.Background(), "T", "t@example.com", "password123", domain.RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTechnician, tech.Role)
}

func TestAccountService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.customer(t, "cust@example.com")

	got, err := f.accounts.Authenticate(ctx, "Cust@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = f.accounts.Authenticate(ctx, "cust@example.com", "wrong")
	domainErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid email or password", domainErr.Message)

	_, err = f.accounts.Authenticate(ctx, "ghost@example.com", "password123")
	domainErr = requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid email or password", domainErr.Message)

	_, err = f.accounts.ToggleActive(ctx, account.ID)
	require.NoError(t, err)
	_, err = f.accounts.Authenticate(ctx, "cust@example.com", "password123")
	domainErr = requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Account is deactivated", domainErr.Message)
}

func TestAccountService_ToggleActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	account := f.customer(t, "cust@example.com")

	toggled, err := f.accounts.ToggleActive(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Active)

	toggled, err = f.accounts.ToggleActive(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Active)

	_, err = f.accounts.ToggleActive(ctx, "missing")
	domainErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "User not found", domainErr.Message)
}

func TestAccountService_ListTechniciansActiveOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	active := f.staff(t, "t1@example.com", domain.RoleTechnician)
	inactive := f.staff(t, "t2@example.com", domain.RoleTechnician)
	f.staff(t, "admin@example.com", domain.RoleAdmin)
	_, err := f.accounts.ToggleActive(ctx, inactive.ID)
	require.NoError(t, err)

	techs, err := f.accounts.ListTechnicians(ctx)
	require.NoError(t, err)
	require.Len(t, techs, 1)
	assert.Equal(t, active.ID, techs[0].ID)
}

func TestAccountService_ListFiltersAndPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		f.customer(t, email)
	}
	f.staff(t, "t@example.com", domain.RoleTechnician)
	gone := f.customer(t, "gone@example.com")
	_, err := f.accounts.ToggleActive(ctx, gone.ID)
	require.NoError(t, err)

	all, err := f.accounts.List(ctx, AccountListFilter{Role: "all"})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)

	customers, err := f.accounts.List(ctx, AccountListFilter{Role: "customer", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, customers.Total)
	assert.Equal(t, 2, customers.TotalPages)
	assert.Equal(t, 2, customers.Page)
	assert.Len(t, customers.Accounts, 1)

	_, err = f.accounts.List(ctx, AccountListFilter{Role: "superuser"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestAccountService_EnsureAccountIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, created, err := f.accounts.EnsureAccount(ctx, "Admin", "admin@example.com", "password123", domain.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := f.accounts.EnsureAccount(ctx, "Admin", "admin@example.com", "other", domain.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}
