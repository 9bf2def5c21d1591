package domain

import "time"

// Field limits enforced on complaint content.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxNoteLength        = 1000
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
)

// ComplaintStatuses lists every status in display order.
var ComplaintStatuses = []ComplaintStatus{
	ComplaintStatusOpen,
	ComplaintStatusInProgress,
	ComplaintStatusResolved,
	ComplaintStatusClosed,
}

// Valid reports whether the status is known.
func (s ComplaintStatus) Valid() bool {
	for _, candidate := range ComplaintStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// StampsResolution reports whether entering the status records a resolution time.
func (s ComplaintStatus) StampsResolution() bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusClosed
}

// StatusTransitions holds the permitted moves between statuses.
// Every status may currently move to every other status.
var StatusTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusOpen:       ComplaintStatuses,
	ComplaintStatusInProgress: ComplaintStatuses,
	ComplaintStatusResolved:   ComplaintStatuses,
	ComplaintStatusClosed:     ComplaintStatuses,
}

// CanTransition reports whether a complaint may move from current to next.
func CanTransition(current, next ComplaintStatus) bool {
	for _, candidate := range StatusTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ComplaintCategory classifies complaints.
type ComplaintCategory string

const (
	CategoryTechnical ComplaintCategory = "technical"
	CategoryBilling   ComplaintCategory = "billing"
	CategoryService   ComplaintCategory = "service"
	CategoryGeneral   ComplaintCategory = "general"
)

// Valid reports whether the category is known.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBilling, CategoryService, CategoryGeneral:
		return true
	default:
		return false
	}
}

// ComplaintPriority enumerates urgency.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
	PriorityUrgent ComplaintPriority = "urgent"
)

// Valid reports whether the priority is known.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Note is an entry in a complaint's work log.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Complaint is the aggregate for customer complaints.
type Complaint struct {
	ID          string
	Title       string
	Description string
	Category    ComplaintCategory
	Priority    ComplaintPriority
	Status      ComplaintStatus
	CreatorID   string
	AssigneeID  *string
	ResolvedAt  *time.Time
	Notes       []Note
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsAssignedTo reports whether the complaint is assigned to the account.
func (c *Complaint) IsAssignedTo(accountID string) bool {
	return c.AssigneeID != nil && *c.AssigneeID == accountID
}

// ParticipantIDs returns every account referenced by the complaint.
func (c *Complaint) ParticipantIDs() []string {
	ids := []string{c.CreatorID}
	if c.AssigneeID != nil {
		ids = append(ids, *c.AssigneeID)
	}
	for _, note := range c.Notes {
		ids = append(ids, note.AuthorID)
	}
	return ids
}
