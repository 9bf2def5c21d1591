// Package policy decides which accounts may see or act on which complaints.
package policy

import "github.com/complaint-desk/complaint-service/internal/domain"

// Action is an operation performed on an existing complaint.
type Action string

const (
	ActionView         Action = "view"
	ActionUpdateStatus Action = "update_status"
	ActionAddNote      Action = "add_note"
	ActionAssign       Action = "assign"
)

// CanAccess reports whether actor may perform action on complaint.
//
// Admins may do anything. Customers may only view complaints they filed.
// Technicians may view and work complaints assigned to them.
func CanAccess(actor *domain.Account, complaint *domain.Complaint, action Action) bool {
	if actor == nil || complaint == nil || !actor.Active {
		return false
	}

	switch {
	case actor.Role.SeesAllComplaints():
		return true
	case actor.Role.CanFileComplaints():
		return action == ActionView && complaint.CreatorID == actor.ID
	case actor.Role.CanWorkComplaints():
		switch action {
		case ActionView, ActionUpdateStatus, ActionAddNote:
			return complaint.IsAssignedTo(actor.ID)
		}
	}
	return false
}

// Scope restricts complaint listings to what an actor may see.
type Scope struct {
	CreatorID  *string
	AssigneeID *string
	// Empty is set when the actor may see nothing.
	Empty bool
}

// ListScope returns the listing restriction for actor.
func ListScope(actor *domain.Account) Scope {
	if actor == nil {
		return Scope{Empty: true}
	}
	id := actor.ID
	switch actor.Role {
	case domain.RoleAdmin:
		return Scope{}
	case domain.RoleCustomer:
		return Scope{CreatorID: &id}
	case domain.RoleTechnician:
		return Scope{AssigneeID: &id}
	default:
		return Scope{Empty: true}
	}
}
