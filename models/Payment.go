package models

import (
	"gorm.io/gorm"
)

const (
	OrderCreated = "created"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// PaymentOrder records one order handed to the payment provider for a
// reservation. Mock orders are created when provider credentials are
// absent and skip signature verification on the confirm path.
type PaymentOrder struct {
	gorm.Model
	ReservationID   uint   `json:"reservationID" gorm:"not null;index"`
	ProviderOrderID string `json:"providerOrderID" gorm:"uniqueIndex;not null"`
	Amount          int64  `json:"amount"` // minor units
	Currency        string `json:"currency" gorm:"type:varchar(8)"`
	Mock            bool   `json:"mock" gorm:"default:false"`
	Status          string `json:"status" gorm:"type:varchar(20);default:created"` // created, paid, failed

	Reservation *Reservation `json:"reservation,omitempty" gorm:"foreignKey:ReservationID"`
}
