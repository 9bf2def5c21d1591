package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

// MemoryStore keeps accounts and complaints in process memory. It backs local
// development when no Postgres DSN is configured, and the test suites.
type MemoryStore struct {
	mu         sync.RWMutex
	now        func() time.Time
	seq        int64
	accounts   map[string]*memoryRecord[domain.Account]
	complaints map[string]*memoryRecord[domain.Complaint]
}

type memoryRecord[T any] struct {
	seq   int64
	value T
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithMemoryClock overrides the time source used for created/updated stamps.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore builds an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		now:        time.Now,
		accounts:   make(map[string]*memoryRecord[domain.Account]),
		complaints: make(map[string]*memoryRecord[domain.Complaint]),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Accounts returns the account repository view of the store.
func (s *MemoryStore) Accounts() AccountRepository {
	return &memoryAccounts{store: s}
}

// Complaints returns the complaint repository view of the store.
func (s *MemoryStore) Complaints() ComplaintRepository {
	return &memoryComplaints{store: s}
}

func (s *MemoryStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

type memoryAccounts struct {
	store *MemoryStore
}

func (r *memoryAccounts) Create(_ context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.accounts {
		if strings.EqualFold(rec.value.Email, account.Email) {
			return ErrDuplicateEmail
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := s.now()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.accounts[account.ID] = &memoryRecord[domain.Account]{seq: s.nextSeq(), value: *account}
	return nil
}

func (r *memoryAccounts) Update(_ context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.accounts[account.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	for id, other := range s.accounts {
		if id != account.ID && strings.EqualFold(other.value.Email, account.Email) {
			return ErrDuplicateEmail
		}
	}
	account.CreatedAt = rec.value.CreatedAt
	account.UpdatedAt = s.now()
	rec.value = *account
	return nil
}

func (r *memoryAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	account := rec.value
	return &account, nil
}

func (r *memoryAccounts) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.accounts {
		if strings.EqualFold(rec.value.Email, email) {
			account := rec.value
			return &account, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryAccounts) GetByIDs(_ context.Context, ids []string) ([]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(ids))
	var result []domain.Account
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := s.accounts[id]; ok {
			result = append(result, rec.value)
		}
	}
	return result, nil
}

func (r *memoryAccounts) List(_ context.Context, filter AccountFilter) ([]domain.Account, error) {
	matches := r.matching(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	return paginate(matches, filter.Offset, limit), nil
}

func (r *memoryAccounts) Count(_ context.Context, filter AccountFilter) (int, error) {
	return len(r.matching(filter)), nil
}

func (r *memoryAccounts) matching(filter AccountFilter) []domain.Account {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*memoryRecord[domain.Account], 0, len(s.accounts))
	for _, rec := range s.accounts {
		if filter.Role != nil && rec.value.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && rec.value.Active != *filter.Active {
			continue
		}
		records = append(records, rec)
	}
	sortNewestFirst(records, func(a domain.Account) time.Time { return a.CreatedAt })

	result := make([]domain.Account, 0, len(records))
	for _, rec := range records {
		result = append(result, rec.value)
	}
	return result
}

type memoryComplaints struct {
	store *MemoryStore
}

func (r *memoryComplaints) Create(_ context.Context, complaint *domain.Complaint) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	if complaint.Notes == nil {
		complaint.Notes = []domain.Note{}
	}
	now := s.now()
	complaint.CreatedAt = now
	complaint.UpdatedAt = now
	s.complaints[complaint.ID] = &memoryRecord[domain.Complaint]{seq: s.nextSeq(), value: cloneComplaint(*complaint)}
	return nil
}

func (r *memoryComplaints) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	complaint := cloneComplaint(rec.value)
	return &complaint, nil
}

func (r *memoryComplaints) List(_ context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	matches := r.matching(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	return paginate(matches, filter.Offset, limit), nil
}

func (r *memoryComplaints) Count(_ context.Context, filter ComplaintFilter) (int, error) {
	return len(r.matching(filter)), nil
}

func (r *memoryComplaints) Assign(_ context.Context, id, assigneeID string) (*domain.Complaint, error) {
	return r.mutate(id, func(c *domain.Complaint) {
		assignee := assigneeID
		c.AssigneeID = &assignee
		c.Status = domain.ComplaintStatusInProgress
	})
}

func (r *memoryComplaints) UpdateStatus(_ context.Context, id string, status domain.ComplaintStatus, resolvedAt *time.Time) (*domain.Complaint, error) {
	return r.mutate(id, func(c *domain.Complaint) {
		c.Status = status
		if resolvedAt != nil {
			stamp := *resolvedAt
			c.ResolvedAt = &stamp
		}
	})
}

func (r *memoryComplaints) AppendNote(_ context.Context, id string, note domain.Note) error {
	_, err := r.mutate(id, func(c *domain.Complaint) {
		c.Notes = append(c.Notes, note)
	})
	return err
}

func (r *memoryComplaints) CountGrouped(_ context.Context, column GroupColumn) (map[string]int, error) {
	if !column.valid() {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range s.complaints {
		switch column {
		case GroupByStatus:
			counts[string(rec.value.Status)]++
		case GroupByCategory:
			counts[string(rec.value.Category)]++
		case GroupByPriority:
			counts[string(rec.value.Priority)]++
		}
	}
	return counts, nil
}

func (r *memoryComplaints) MonthlyCounts(_ context.Context, since time.Time) ([]domain.MonthlyCount, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	type monthKey struct{ year, month int }
	buckets := make(map[monthKey]int)
	for _, rec := range s.complaints {
		created := rec.value.CreatedAt
		if created.Before(since) {
			continue
		}
		created = created.UTC()
		buckets[monthKey{created.Year(), int(created.Month())}]++
	}

	result := make([]domain.MonthlyCount, 0, len(buckets))
	for key, count := range buckets {
		result = append(result, domain.MonthlyCount{Year: key.year, Month: key.month, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Before(result[j]) })
	return result, nil
}

func (r *memoryComplaints) mutate(id string, apply func(*domain.Complaint)) (*domain.Complaint, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	apply(&rec.value)
	rec.value.UpdatedAt = s.now()
	complaint := cloneComplaint(rec.value)
	return &complaint, nil
}

func (r *memoryComplaints) matching(filter ComplaintFilter) []domain.Complaint {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*memoryRecord[domain.Complaint], 0, len(s.complaints))
	for _, rec := range s.complaints {
		c := rec.value
		if filter.CreatorID != nil && c.CreatorID != *filter.CreatorID {
			continue
		}
		if filter.AssigneeID != nil && !c.IsAssignedTo(*filter.AssigneeID) {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && c.Priority != *filter.Priority {
			continue
		}
		records = append(records, rec)
	}
	sortNewestFirst(records, func(c domain.Complaint) time.Time { return c.CreatedAt })

	result := make([]domain.Complaint, 0, len(records))
	for _, rec := range records {
		result = append(result, cloneComplaint(rec.value))
	}
	return result
}

func sortNewestFirst[T any](records []*memoryRecord[T], createdAt func(T) time.Time) {
	sort.Slice(records, func(i, j int) bool {
		ti, tj := createdAt(records[i].value), createdAt(records[j].value)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return records[i].seq > records[j].seq
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func cloneComplaint(c domain.Complaint) domain.Complaint {
	if c.AssigneeID != nil {
		assignee := *c.AssigneeID
		c.AssigneeID = &assignee
	}
	if c.ResolvedAt != nil {
		resolved := *c.ResolvedAt
		c.ResolvedAt = &resolved
	}
	notes := make([]domain.Note, len(c.Notes))
	copy(notes, c.Notes)
	c.Notes = notes
	return c
}
