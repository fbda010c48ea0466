package services

import (
	"sort"

	"zenlodge-server/models"
	"zenlodge-server/utils"

	"gorm.io/gorm"
)

// BlockedDates returns the calendar days with no remaining capacity for a
// room type: every reservation in {pending, confirmed} consumes one unit
// of capacity for each day in [checkIn, checkOut), and a day is blocked
// once the count reaches totalUnits. A room type with no active units
// runs in single inventory mode (capacity 1).
func BlockedDates(reservations []models.Reservation, totalUnits int) []utils.Date {
	if totalUnits < 1 {
		totalUnits = 1
	}

	counts := make(map[utils.Date]int)
	for i := range reservations {
		r := &reservations[i]
		if !r.Occupies() {
			continue
		}
		for _, day := range utils.DateRange(utils.NewDate(r.CheckIn), utils.NewDate(r.CheckOut)) {
			counts[day]++
		}
	}

	var blocked []utils.Date
	for day, n := range counts {
		if n >= totalUnits {
			blocked = append(blocked, day)
		}
	}
	sort.Slice(blocked, func(i, j int) bool { return blocked[i].Before(blocked[j].Time) })
	return blocked
}

// UnitBlockedDates restricts the expansion to reservations explicitly
// assigned to the unit. Floating reservations do not block a specific
// unit: they consume pool capacity (see the allocator) but by definition
// pin nothing, so they are excluded here.
func UnitBlockedDates(reservations []models.Reservation, unitID uint) []utils.Date {
	var assigned []models.Reservation
	for _, r := range reservations {
		if a := r.Assignment(); a.Assigned && a.UnitID == unitID {
			assigned = append(assigned, r)
		}
	}
	return BlockedDates(assigned, 1)
}

// LoadActiveUnits returns the active physical units of a room type,
// ordered ascending by unit name.
func LoadActiveUnits(db *gorm.DB, slug string) ([]models.RoomUnit, error) {
	var units []models.RoomUnit
	err := db.
		Joins("JOIN room_types ON room_types.id = room_units.room_type_id").
		Where("room_types.slug = ? AND room_units.is_active = ?", slug, true).
		Order("room_units.name ASC").
		Find(&units).Error
	return units, err
}

// LoadActiveReservations returns all capacity-consuming reservations for
// a room type.
func LoadActiveReservations(db *gorm.DB, slug string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := db.
		Where("room_type_slug = ? AND status IN ?", slug,
			[]string{models.ReservationPending, models.ReservationConfirmed}).
		Find(&reservations).Error
	return reservations, err
}

// LoadOverlappingReservations returns the capacity-consuming reservations
// of a room type whose interval overlaps [checkIn, checkOut), using the
// half-open overlap test: existing.checkIn < checkOut AND
// existing.checkOut > checkIn.
func LoadOverlappingReservations(db *gorm.DB, slug string, checkIn, checkOut utils.Date) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := db.
		Where("room_type_slug = ? AND status IN ? AND check_in < ? AND check_out > ?",
			slug,
			[]string{models.ReservationPending, models.ReservationConfirmed},
			checkOut.Time, checkIn.Time).
		Find(&reservations).Error
	return reservations, err
}
