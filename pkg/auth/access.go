package auth

import (
	"github.com/google/uuid"

	"github.com/webshopkit/webshop-backend/pkg/enums"
)

// Access is the explicit authorization context passed into every mutating
// service operation. It replaces ambient per-request security state: handlers
// build it from verified token claims and services decide with it.
type Access struct {
	CustomerID uuid.UUID
	Roles      []enums.Role
}

// System returns an access context for internal callers such as cron jobs.
func System() Access {
	return Access{Roles: []enums.Role{enums.RoleAdmin}}
}

// HasRole reports whether the access context carries the given role.
func (a Access) HasRole(role enums.Role) bool {
	for _, candidate := range a.Roles {
		if candidate == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the caller may act on customers other than themself.
func (a Access) IsStaff() bool {
	return a.HasRole(enums.RoleAdmin) || a.HasRole(enums.RoleStaff) || a.HasRole(enums.RoleSupervisor)
}

// CanActFor reports whether the caller may mutate the given customer's data:
// staff always, a plain customer only for their own record.
func (a Access) CanActFor(customerID uuid.UUID) bool {
	if a.IsStaff() {
		return true
	}
	return a.CustomerID != uuid.Nil && a.CustomerID == customerID
}
