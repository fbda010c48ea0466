package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"

	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Reservation occupies every date in the half-open interval
// [CheckIn, CheckOut). CheckIn/CheckOut are stored as UTC midnights.
type Reservation struct {
	gorm.Model
	RoomTypeSlug   string    `json:"roomTypeSlug" gorm:"not null;index"`
	GuestID        uint      `json:"guestID" gorm:"index"`
	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	AssignedUnitID *uint     `json:"assignedUnitID" gorm:"index"`
	Status         string    `json:"status" gorm:"type:varchar(20);default:pending;index"`        // pending, confirmed, cancelled
	PaymentStatus  string    `json:"paymentStatus" gorm:"type:varchar(20);default:pending;index"` // pending, paid, failed
	TotalAmount    float64   `json:"totalAmount"`
	Note           string    `json:"note"`

	Guest        *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	AssignedUnit *RoomUnit `json:"assignedUnit,omitempty" gorm:"foreignKey:AssignedUnitID"`
}

// Assignment is the tagged form of the optional unit reference. Allocator
// and calculator logic switch on Assigned instead of testing a pointer.
type Assignment struct {
	UnitID   uint
	Assigned bool
}

func AssignedTo(unitID uint) Assignment { return Assignment{UnitID: unitID, Assigned: true} }

func Unassigned() Assignment { return Assignment{} }

// Assignment returns the reservation's unit binding. A floating
// reservation yields the Unassigned variant.
func (r *Reservation) Assignment() Assignment {
	if r.AssignedUnitID == nil {
		return Unassigned()
	}
	return AssignedTo(*r.AssignedUnitID)
}

// Occupies reports whether the reservation consumes capacity: cancelled
// reservations are terminal and never count.
func (r *Reservation) Occupies() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}
