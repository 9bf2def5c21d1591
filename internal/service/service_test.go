package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/events"
	"github.com/complaint-desk/complaint-service/internal/repository"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

type fixture struct {
	store      *repository.MemoryStore
	accounts   *AccountService
	complaints *ComplaintService
	dispatcher events.Dispatcher
	captured   *eventCapture
	clock      *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type eventCapture struct {
	mu     sync.Mutex
	events []events.Event
}

func (c *eventCapture) handle(_ context.Context, event events.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
	return nil
}

func (c *eventCapture) types() []events.EventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]events.EventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Type)
	}
	return out
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)}
	store := repository.NewMemoryStore(repository.WithMemoryClock(clock.Now))
	dispatcher := events.NewInMemoryDispatcher(nil)
	captured := &eventCapture{}
	for _, eventType := range events.ComplaintEventTypes {
		dispatcher.Subscribe(eventType, captured.handle)
	}

	return &fixture{
		store: store,
		accounts: NewAccountService(AccountDependencies{
			AccountRepo: store.Accounts(),
			BcryptCost:  bcrypt.MinCost,
		}),
		complaints: NewComplaintService(ComplaintDependencies{
			ComplaintRepo: store.Complaints(),
			AccountRepo:   store.Accounts(),
			Dispatcher:    dispatcher,
			Clock:         clock.Now,
		}),
		dispatcher: dispatcher,
		captured:   captured,
		clock:      clock,
	}
}

func (f *fixture) customer(t *testing.T, email string) *domain.Account {
	t.Helper()
	account, err := f.accounts.Register(context.Background(), "Customer", email, "password123")
	require.NoError(t, err)
	return account
}

func (f *fixture) staff(t *testing.T, email string, role domain.Role) *domain.Account {
	t.Helper()
	account, err := f.accounts.CreateStaff(context.Background(), "Staff", email, "password123", role)
	require.NoError(t, err)
	return account
}

func (f *fixture) complaint(t *testing.T, creator *domain.Account) *domain.Complaint {
	t.Helper()
	complaint, err := f.complaints.Create(context.Background(), creator, ComplaintCreateInput{
		Title:       "Internet down",
		Description: "No connectivity since this morning",
	})
	require.NoError(t, err)
	return complaint
}

func requireStatus(t *testing.T, err error, status int) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, status, domainErr.HTTPStatus, domainErr.Message)
	return domainErr
}
