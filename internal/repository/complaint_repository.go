package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	CreatorID  *string
	AssigneeID *string
	Status     *domain.ComplaintStatus
	Priority   *domain.ComplaintPriority
	Limit      int
	Offset     int
}

// GroupColumn names a complaint attribute that analytics may group by.
type GroupColumn string

const (
	GroupByStatus   GroupColumn = "status"
	GroupByCategory GroupColumn = "category"
	GroupByPriority GroupColumn = "priority"
)

func (g GroupColumn) valid() bool {
	return g == GroupByStatus || g == GroupByCategory || g == GroupByPriority
}

// ComplaintRepository encapsulates complaint persistence. Mutations are single-row
// statements so concurrent writers rely on row-level atomicity.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	Count(ctx context.Context, filter ComplaintFilter) (int, error)
	Assign(ctx context.Context, id, assigneeID string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, resolvedAt *time.Time) (*domain.Complaint, error)
	AppendNote(ctx context.Context, id string, note domain.Note) error
	CountGrouped(ctx context.Context, column GroupColumn) (map[string]int, error)
	MonthlyCounts(ctx context.Context, since time.Time) ([]domain.MonthlyCount, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, title, description, category, priority, status, creator_id, assignee_id,
               resolved_at, notes, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (id, title, description, category, priority, status, creator_id, assignee_id, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	if complaint.Notes == nil {
		complaint.Notes = []domain.Note{}
	}
	return r.pool.QueryRow(ctx, query,
		complaint.ID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.CreatorID,
		complaint.AssigneeID,
		complaint.Notes,
	).Scan(&complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	return scanComplaint(r.pool.QueryRow(ctx, query, id))
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	where, args := complaintWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM complaints%s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d`,
		complaintColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

func (r *complaintRepository) Count(ctx context.Context, filter ComplaintFilter) (int, error) {
	where, args := complaintWhere(filter)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints`+where, args...).Scan(&total)
	return total, err
}

func (r *complaintRepository) Assign(ctx context.Context, id, assigneeID string) (*domain.Complaint, error) {
	query := `
        UPDATE complaints SET assignee_id=$1, status=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING ` + complaintColumns
	return scanComplaint(r.pool.QueryRow(ctx, query, assigneeID, domain.ComplaintStatusInProgress, id))
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, resolvedAt *time.Time) (*domain.Complaint, error) {
	query := `
        UPDATE complaints SET status=$1, resolved_at=COALESCE($2, resolved_at), updated_at=NOW()
        WHERE id=$3
        RETURNING ` + complaintColumns
	return scanComplaint(r.pool.QueryRow(ctx, query, status, resolvedAt, id))
}

func (r *complaintRepository) AppendNote(ctx context.Context, id string, note domain.Note) error {
	const query = `
        UPDATE complaints SET notes = notes || $1::jsonb, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, []domain.Note{note}, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) CountGrouped(ctx context.Context, column GroupColumn) (map[string]int, error) {
	if !column.valid() {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}
	query := fmt.Sprintf(`SELECT %[1]s, COUNT(*) FROM complaints GROUP BY %[1]s`, column)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			key   string
			count int
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		counts[key] = count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) MonthlyCounts(ctx context.Context, since time.Time) ([]domain.MonthlyCount, error) {
	const query = `
        SELECT EXTRACT(YEAR FROM created_at AT TIME ZONE 'UTC')::int AS year,
               EXTRACT(MONTH FROM created_at AT TIME ZONE 'UTC')::int AS month,
               COUNT(*)
        FROM complaints
        WHERE created_at >= $1
        GROUP BY 1, 2
        ORDER BY 1, 2`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MonthlyCount
	for rows.Next() {
		var bucket domain.MonthlyCount
		if err := rows.Scan(&bucket.Year, &bucket.Month, &bucket.Count); err != nil {
			return nil, err
		}
		result = append(result, bucket)
	}
	return result, rows.Err()
}

func complaintWhere(filter ComplaintFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanComplaint(row pgx.Row) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := row.Scan(
		&complaint.ID,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.Priority,
		&complaint.Status,
		&complaint.CreatorID,
		&complaint.AssigneeID,
		&complaint.ResolvedAt,
		&complaint.Notes,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if complaint.Notes == nil {
		complaint.Notes = []domain.Note{}
	}
	return &complaint, nil
}
