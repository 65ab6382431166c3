// Package authz holds the single role-check predicate used by every route.
// Role sets are explicit and non-hierarchical: admin is privileged only
// where a set names it.
package authz

import "github.com/Domenick1991/anticafe/internal/domain"

type RoleSet []domain.Role

// Route role sets used across the service.
var (
	AdminOnly  = RoleSet{domain.RoleAdmin}
	StaffOnly  = RoleSet{domain.RoleStaff}
	AdminStaff = RoleSet{domain.RoleAdmin, domain.RoleStaff}
	AnyRole    = RoleSet{domain.RoleAdmin, domain.RoleStaff, domain.RoleClient}
)

func Authorize(role domain.Role, allowed RoleSet) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
