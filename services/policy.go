package services

import (
	"zenlodge-server/models"
)

// Caller is the resolved identity + role supplied by the auth middleware.
type Caller struct {
	ID   uint
	Role string
}

func (c Caller) IsAdmin() bool {
	return c.Role == models.RoleAdmin || c.Role == models.RoleSuperAdmin
}

// ReservationPolicy centralizes the role/ownership rules that used to be
// scattered across handlers.
type ReservationPolicy struct{}

// CanCreateFor: a guest may only book for themselves; admins may book on
// behalf of any guest.
func (ReservationPolicy) CanCreateFor(caller Caller, guestID uint) bool {
	return caller.ID == guestID || caller.IsAdmin()
}

// CanView: the owning guest or an admin.
func (ReservationPolicy) CanView(caller Caller, r *models.Reservation) bool {
	return caller.ID == r.GuestID || caller.IsAdmin()
}

// CanCancel: the owning guest or an admin.
func (ReservationPolicy) CanCancel(caller Caller, r *models.Reservation) bool {
	return caller.ID == r.GuestID || caller.IsAdmin()
}

// CanDelete: hard removal is admin-only.
func (ReservationPolicy) CanDelete(caller Caller) bool {
	return caller.IsAdmin()
}

// CanUpdateFields: non-admin callers may only ever change status (and
// only to cancelled); any other field in an update request is rejected.
func (ReservationPolicy) CanUpdateFields(caller Caller, fields []string) bool {
	if caller.IsAdmin() {
		return true
	}
	for _, f := range fields {
		if f != "status" {
			return false
		}
	}
	return true
}
