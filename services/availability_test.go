package services

import (
	"testing"

	"zenlodge-server/models"
	"zenlodge-server/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) utils.Date {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func reservation(t *testing.T, checkIn, checkOut, status string, unitID *uint) models.Reservation {
	t.Helper()
	return models.Reservation{
		RoomTypeSlug:   "zen-nest",
		CheckIn:        day(t, checkIn).Time,
		CheckOut:       day(t, checkOut).Time,
		Status:         status,
		PaymentStatus:  models.PaymentPending,
		AssignedUnitID: unitID,
	}
}

func dateStrings(dates []utils.Date) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.String()
	}
	return out
}

func TestBlockedDatesFullPool(t *testing.T) {
	// Three units, three floating reservations covering Jun 1-2. The pool
	// is saturated on both nights; Jun 3 is checkout day and stays open.
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationPending, nil),
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationConfirmed, nil),
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationPending, nil),
	}

	blocked := BlockedDates(reservations, 3)
	assert.Equal(t, []string{"2024-06-01", "2024-06-02"}, dateStrings(blocked))
}

func TestBlockedDatesBelowCapacity(t *testing.T) {
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationPending, nil),
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationConfirmed, nil),
	}

	blocked := BlockedDates(reservations, 3)
	assert.Empty(t, blocked)
}

func TestBlockedDatesCancelledDoNotCount(t *testing.T) {
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationPending, nil),
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationConfirmed, nil),
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationCancelled, nil),
	}

	blocked := BlockedDates(reservations, 3)
	assert.Empty(t, blocked, "cancelled reservations must release capacity")
}

func TestBlockedDatesSingleInventoryMode(t *testing.T) {
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-02", models.ReservationPending, nil),
	}

	// Zero configured units falls back to capacity 1.
	blocked := BlockedDates(reservations, 0)
	assert.Equal(t, []string{"2024-06-01"}, dateStrings(blocked))
}

func TestBlockedDatesPartialOverlap(t *testing.T) {
	// Two units. Staggered stays only saturate the shared night.
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationConfirmed, nil),
		reservation(t, "2024-06-02", "2024-06-04", models.ReservationConfirmed, nil),
	}

	blocked := BlockedDates(reservations, 2)
	assert.Equal(t, []string{"2024-06-02"}, dateStrings(blocked))
}

func TestBlockedDatesIdempotent(t *testing.T) {
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationPending, nil),
	}

	first := BlockedDates(reservations, 1)
	second := BlockedDates(reservations, 1)
	assert.Equal(t, first, second)
}

func TestUnitBlockedDatesExcludesFloating(t *testing.T) {
	unitA := uint(1)
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationConfirmed, &unitA),
		// Floating reservation over the same dates pins no unit.
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationPending, nil),
	}

	blocked := UnitBlockedDates(reservations, unitA)
	assert.Equal(t, []string{"2024-06-01", "2024-06-02"}, dateStrings(blocked))

	otherUnit := UnitBlockedDates(reservations, 2)
	assert.Empty(t, otherUnit, "floating reservations must not block a specific unit")
}

func TestUnitBlockedDatesCancelledAssignment(t *testing.T) {
	unitA := uint(1)
	reservations := []models.Reservation{
		reservation(t, "2024-06-01", "2024-06-03", models.ReservationCancelled, &unitA),
	}

	blocked := UnitBlockedDates(reservations, unitA)
	assert.Empty(t, blocked)
}
