package models

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleWorker   UserRole = "WORKER"
	RoleCustomer UserRole = "CUSTOMER"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleWorker, RoleCustomer:
		return true
	}
	return false
}

// Identity is the request-scoped caller identity derived from the access
// token. It is passed explicitly into every operation that needs to know
// who is calling; there is no ambient session state.
type Identity struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	FullName string   `json:"full_name"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
