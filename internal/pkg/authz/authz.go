// Package authz is the single capability check used by every handler that
// guards a resource. Controllers used to inline the same owner-or-role
// comparison; keeping one predicate means one place to get it right.
package authz

import "dwellhub/internal/adapters/persistence/models"

// Action names what the actor is trying to do to a resource.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAssign Action = "assign"
	ActionCancel Action = "cancel"
)

// Actor is the authenticated principal extracted from the JWT claims.
type Actor struct {
	UserID uint
	Role   string
}

// Resource describes the record being acted on. OwnerID is the user the
// record belongs to (tenant on a payment, requester on a ticket, booker
// on a booking). ManagerID, when set, is the manager of the property the
// record lives under.
type Resource struct {
	OwnerID   uint
	ManagerID uint
}

// Can decides whether the actor may perform the action on the resource:
// admins always, property managers for resources under a property they
// manage, otherwise only the owner.
func Can(actor Actor, res Resource, action Action) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	if actor.Role == models.RolePropertyManager && res.ManagerID != 0 && res.ManagerID == actor.UserID {
		return true
	}
	return res.OwnerID != 0 && res.OwnerID == actor.UserID
}

// CanManage reports whether the actor has a management role over the
// property (admin anywhere, manager of that property).
func CanManage(actor Actor, managerID uint) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RolePropertyManager && managerID == actor.UserID
}

// IsStaff reports whether the actor holds any staff-side role.
func IsStaff(actor Actor) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RolePropertyManager, models.RoleBuildingStaff:
		return true
	}
	return false
}
