package dto

import (
	"time"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	Category    string `json:"category" validate:"omitempty,oneof=technical billing service general"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	TechnicianID string `json:"technicianId" validate:"required"`
}

// UpdateStatusRequest payload. The status value is checked by the registry.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AddNoteRequest payload.
type AddNoteRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

// NoteResponse is a complaint note with its author resolved.
type NoteResponse struct {
	ID      string       `json:"id"`
	Content string       `json:"content"`
	AddedBy *UserSummary `json:"addedBy"`
	AddedAt time.Time    `json:"addedAt"`
}

// ComplaintResponse is the public view of a complaint.
type ComplaintResponse struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    domain.ComplaintCategory `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	Status      domain.ComplaintStatus   `json:"status"`
	CreatedBy   *UserSummary             `json:"createdBy"`
	AssignedTo  *UserSummary             `json:"assignedTo"`
	ResolvedAt  *time.Time               `json:"resolvedAt"`
	Notes       []NoteResponse           `json:"notes"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// ComplaintListResponse is a page of complaints.
type ComplaintListResponse struct {
	Complaints  []ComplaintResponse `json:"complaints"`
	TotalPages  int                 `json:"totalPages"`
	CurrentPage int                 `json:"currentPage"`
	Total       int                 `json:"total"`
}

// People resolves account ids to summaries. Unknown ids fall back to an id-only summary.
type People map[string]domain.Account

func (p People) summary(id string) *UserSummary {
	if id == "" {
		return nil
	}
	if account, ok := p[id]; ok {
		return &UserSummary{ID: account.ID, Name: account.Name, Email: account.Email}
	}
	return &UserSummary{ID: id}
}

// NewNoteResponse maps a note.
func NewNoteResponse(note domain.Note, people People) NoteResponse {
	return NoteResponse{
		ID:      note.ID,
		Content: note.Content,
		AddedBy: people.summary(note.AuthorID),
		AddedAt: note.CreatedAt,
	}
}

// NewComplaintResponse maps a complaint with its referenced accounts.
func NewComplaintResponse(complaint *domain.Complaint, people People) ComplaintResponse {
	resp := ComplaintResponse{
		ID:          complaint.ID,
		Title:       complaint.Title,
		Description: complaint.Description,
		Category:    complaint.Category,
		Priority:    complaint.Priority,
		Status:      complaint.Status,
		CreatedBy:   people.summary(complaint.CreatorID),
		ResolvedAt:  complaint.ResolvedAt,
		Notes:       make([]NoteResponse, 0, len(complaint.Notes)),
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
	if complaint.AssigneeID != nil {
		resp.AssignedTo = people.summary(*complaint.AssigneeID)
	}
	for _, note := range complaint.Notes {
		resp.Notes = append(resp.Notes, NewNoteResponse(note, people))
	}
	return resp
}
