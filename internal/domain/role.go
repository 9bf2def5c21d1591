package domain

// Role enumerates the fixed account roles.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// ParseRole converts raw input into a known role.
func ParseRole(raw string) (Role, bool) {
	role := Role(raw)
	return role, role.Valid()
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleTechnician, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role belongs to internal operators.
func (r Role) IsStaff() bool {
	return r == RoleTechnician || r == RoleAdmin
}

// CanFileComplaints reports whether the role may open new complaints.
func (r Role) CanFileComplaints() bool {
	return r == RoleCustomer
}

// CanWorkComplaints reports whether the role may change status and add notes.
func (r Role) CanWorkComplaints() bool {
	return r.IsStaff()
}

// SeesAllComplaints reports whether listing is unrestricted for the role.
func (r Role) SeesAllComplaints() bool {
	return r == RoleAdmin
}
