package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/events"
	"github.com/complaint-desk/complaint-service/internal/policy"
	"github.com/complaint-desk/complaint-service/internal/repository"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

const (
	msgAccessDenied   = "Access denied"
	msgInvalidStatus  = "Invalid status"
	msgNotTechnician  = "Technician not found or inactive"
	notePreviewLength = 120
)

// ComplaintService coordinates complaint workflows.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for ComplaintService.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	AccountRepo   repository.AccountRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         func() time.Time
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority
}

// ComplaintListFilter describes complaint listing parameters. Status and
// Priority accept "all" or empty for no filtering.
type ComplaintListFilter struct {
	Status   string
	Priority string
	Page     int
	PageSize int
}

// ComplaintPage is one page of complaints.
type ComplaintPage struct {
	Complaints []domain.Complaint
	Total      int
	Page       int
	TotalPages int
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// Create files a new complaint on behalf of a customer.
func (s *ComplaintService) Create(ctx context.Context, actor *domain.Account, input ComplaintCreateInput) (*domain.Complaint, error) {
	if actor == nil || !actor.Role.CanFileComplaints() {
		return nil, apperrors.NewForbidden(msgAccessDenied)
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("Title and description are required", nil)
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return nil, apperrors.NewValidationError("Title cannot exceed 200 characters", nil)
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return nil, apperrors.NewValidationError("Description cannot exceed 2000 characters", nil)
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryGeneral
	}
	if !category.Valid() {
		return nil, apperrors.NewInvalidArgument("Invalid category", map[string]any{"category": string(category)})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewInvalidArgument("Invalid priority", map[string]any{"priority": string(priority)})
	}

	complaint := &domain.Complaint{
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		Status:      domain.ComplaintStatusOpen,
		CreatorID:   actor.ID,
		Notes:       []domain.Note{},
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventComplaintCreated, complaint.ID, events.ActorFrom(actor),
		events.ComplaintCreatedPayload{
			Title:    complaint.Title,
			Category: complaint.Category,
			Priority: complaint.Priority,
		}))
	return complaint, nil
}

// List returns the page of complaints visible to actor.
func (s *ComplaintService) List(ctx context.Context, actor *domain.Account, filter ComplaintListFilter) (*ComplaintPage, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)
	result := &ComplaintPage{Complaints: []domain.Complaint{}, Page: page}

	scope := policy.ListScope(actor)
	if scope.Empty {
		return result, nil
	}

	repoFilter := repository.ComplaintFilter{
		CreatorID:  scope.CreatorID,
		AssigneeID: scope.AssigneeID,
		Limit:      size,
		Offset:     (page - 1) * size,
	}
	if raw := strings.TrimSpace(filter.Status); raw != "" && raw != filterAll {
		status := domain.ComplaintStatus(raw)
		if !status.Valid() {
			return nil, apperrors.NewInvalidArgument(msgInvalidStatus, map[string]any{"status": raw})
		}
		repoFilter.Status = &status
	}
	if raw := strings.TrimSpace(filter.Priority); raw != "" && raw != filterAll {
		priority := domain.ComplaintPriority(raw)
		if !priority.Valid() {
			return nil, apperrors.NewInvalidArgument("Invalid priority", map[string]any{"priority": raw})
		}
		repoFilter.Priority = &priority
	}

	total, err := s.complaints.Count(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	complaints, err := s.complaints.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	if complaints != nil {
		result.Complaints = complaints
	}
	result.Total = total
	result.TotalPages = totalPages(total, size)
	return result, nil
}

// Get returns a complaint the actor is allowed to view.
func (s *ComplaintService) Get(ctx context.Context, actor *domain.Account, id string) (*domain.Complaint, error) {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(actor, complaint, policy.ActionView) {
		return nil, apperrors.NewForbidden(msgAccessDenied)
	}
	return complaint, nil
}

// Assign hands a complaint to an active technician and moves it to in-progress.
func (s *ComplaintService) Assign(ctx context.Context, actor *domain.Account, id, technicianID string) (*domain.Complaint, error) {
	if actor == nil || !actor.Role.SeesAllComplaints() {
		return nil, apperrors.NewForbidden(msgAccessDenied)
	}

	technician, err := s.accounts.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Technician", map[string]any{"technicianId": technicianID})
		}
		return nil, err
	}
	if technician.Role != domain.RoleTechnician || !technician.Active {
		return nil, apperrors.NewInvalidTarget(msgNotTechnician, map[string]any{"technicianId": technicianID})
	}

	previous, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(actor, previous, policy.ActionAssign) {
		return nil, apperrors.NewForbidden(msgAccessDenied)
	}

	complaint, err := s.complaints.Assign(ctx, id, technician.ID)
	if err != nil {
		return nil, s.mapComplaintErr(err)
	}

	s.publishEvent(ctx, events.NewEvent(events.EventComplaintAssigned, complaint.ID, events.ActorFrom(actor),
		events.ComplaintAssignedPayload{
			TechnicianID: technician.ID,
			OldStatus:    previous.Status,
		}))
	return complaint, nil
}

// UpdateStatus moves a complaint to a new status. Entering resolved or closed
// stamps the resolution time; leaving them keeps it.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor *domain.Account, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	if !status.Valid() {
		return nil, apperrors.NewInvalidArgument(msgInvalidStatus, map[string]any{"status": string(status)})
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(actor, current, policy.ActionUpdateStatus) {
		return nil, apperrors.NewForbidden(msgAccessDenied)
	}
	if !domain.CanTransition(current.Status, status) {
		return nil, apperrors.NewInvalidArgument("Status transition not allowed", map[string]any{
			"from": string(current.Status),
			"to":   string(status),
		})
	}

	var resolvedAt *time.Time
	if status.StampsResolution() {
		stamp := s.now().UTC()
		resolvedAt = &stamp
	}

	complaint, err := s.complaints.UpdateStatus(ctx, id, status, resolvedAt)
	if err != nil {
		return nil, s.mapComplaintErr(err)
	}

	s.publishEvent(ctx, events.NewEvent(events.EventComplaintStatusChanged, complaint.ID, events.ActorFrom(actor),
		events.ComplaintStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: complaint.Status,
		}))
	return complaint, nil
}

// AddNote appends a note to the complaint's work log and returns it.
func (s *ComplaintService) AddNote(ctx context.Context, actor *domain.Account, id, content string) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("Note content is required", nil)
	}
	if utf8.RuneCountInString(content) > domain.MaxNoteLength {
		return nil, apperrors.NewValidationError("Note cannot exceed 1000 characters", nil)
	}

	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(actor, complaint, policy.ActionAddNote) {
		return nil, apperrors.NewForbidden(msgAccessDenied)
	}

	note := domain.Note{
		ID:        uuid.NewString(),
		Content:   content,
		AuthorID:  actor.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.complaints.AppendNote(ctx, id, note); err != nil {
		return nil, s.mapComplaintErr(err)
	}

	s.publishEvent(ctx, events.NewEvent(events.EventComplaintNoteAdded, id, events.ActorFrom(actor),
		events.ComplaintNoteAddedPayload{
			NoteID:      note.ID,
			BodyPreview: preview(note.Content),
		}))
	return &note, nil
}

// ResolveParticipants loads every account referenced by the complaints, keyed by id.
func (s *ComplaintService) ResolveParticipants(ctx context.Context, complaints ...*domain.Complaint) (map[string]domain.Account, error) {
	seen := make(map[string]struct{})
	var ids []string
	for _, complaint := range complaints {
		if complaint == nil {
			continue
		}
		for _, id := range complaint.ParticipantIDs() {
			if _, ok := seen[id]; ok || id == "" {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	result := make(map[string]domain.Account, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	accounts, err := s.accounts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		result[account.ID] = account
	}
	return result, nil
}

func (s *ComplaintService) load(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapComplaintErr(err)
	}
	return complaint, nil
}

func (s *ComplaintService) mapComplaintErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("Complaint", nil)
	}
	return err
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= notePreviewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:notePreviewLength]) + "..."
}
