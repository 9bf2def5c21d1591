package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintNoteAdded     EventType = "complaint_note_added"
)

// ComplaintEventTypes lists every complaint event, in lifecycle order.
var ComplaintEventTypes = []EventType{
	EventComplaintCreated,
	EventComplaintAssigned,
	EventComplaintStatusChanged,
	EventComplaintNoteAdded,
}

// Actor identifies the account that caused an event.
type Actor struct {
	AccountID string      `json:"account_id"`
	Role      domain.Role `json:"role"`
}

// ActorFrom builds the actor for an account.
func ActorFrom(account *domain.Account) Actor {
	if account == nil {
		return Actor{}
	}
	return Actor{AccountID: account.ID, Role: account.Role}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	Actor       Actor     `json:"actor"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// NewEvent stamps a fresh event.
func NewEvent(eventType EventType, complaintID string, actor Actor, payload any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		ComplaintID: complaintID,
		Actor:       actor,
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Title    string                   `json:"title"`
	Category domain.ComplaintCategory `json:"category"`
	Priority domain.ComplaintPriority `json:"priority"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	TechnicianID string                 `json:"technician_id"`
	OldStatus    domain.ComplaintStatus `json:"old_status"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintNoteAddedPayload payload.
type ComplaintNoteAddedPayload struct {
	NoteID      string `json:"note_id"`
	BodyPreview string `json:"body_preview"`
}
