package services

import (
	"errors"

	"zenlodge-server/models"
	"zenlodge-server/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRoomTypeNotFound     = errors.New("room type not found")
	ErrUnitNotFound         = errors.New("room unit not found or inactive")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrCapacityConflict     = errors.New("no remaining capacity for the requested dates")
	ErrReservationCancelled = errors.New("reservation is cancelled")
)

type CreateReservationParams struct {
	GuestID        uint
	RoomTypeSlug   string
	CheckIn        utils.Date
	CheckOut       utils.Date
	TotalAmount    float64
	AssignedUnitID *uint
	Note           string
}

// CreateReservation inserts a pending reservation as a single conditional
// write. The room type row is locked FOR UPDATE for the duration of the
// transaction, which serializes all bookings of one room type; with the
// new row inserted, every covered date is re-counted and the transaction
// rolls back with ErrCapacityConflict if any date exceeds capacity. Read
// committed isolation is sufficient under this scheme because concurrent
// creators for the same room type queue on the row lock.
func CreateReservation(db *gorm.DB, p CreateReservationParams) (*models.Reservation, error) {
	var created models.Reservation

	err := db.Transaction(func(tx *gorm.DB) error {
		var roomType models.RoomType
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", p.RoomTypeSlug).
			First(&roomType).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return err
		}

		units, err := LoadActiveUnits(tx, p.RoomTypeSlug)
		if err != nil {
			return err
		}
		totalUnits := len(units)
		if totalUnits == 0 {
			totalUnits = 1 // single inventory mode
		}

		if p.AssignedUnitID != nil {
			if err := checkUnitAssignable(tx, units, *p.AssignedUnitID, p.CheckIn, p.CheckOut, 0); err != nil {
				return err
			}
		}

		created = models.Reservation{
			RoomTypeSlug:   p.RoomTypeSlug,
			GuestID:        p.GuestID,
			CheckIn:        p.CheckIn.Time,
			CheckOut:       p.CheckOut.Time,
			AssignedUnitID: p.AssignedUnitID,
			Status:         models.ReservationPending,
			PaymentStatus:  models.PaymentPending,
			TotalAmount:    p.TotalAmount,
			Note:           p.Note,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		// Post-insert occupancy check over the covered interval.
		overlapping, err := LoadOverlappingReservations(tx, p.RoomTypeSlug, p.CheckIn, p.CheckOut)
		if err != nil {
			return err
		}
		counts := make(map[utils.Date]int)
		for i := range overlapping {
			r := &overlapping[i]
			if !r.Occupies() {
				continue
			}
			for _, day := range utils.DateRange(utils.NewDate(r.CheckIn), utils.NewDate(r.CheckOut)) {
				counts[day]++
			}
		}
		for _, day := range utils.DateRange(p.CheckIn, p.CheckOut) {
			if counts[day] > totalUnits {
				return ErrCapacityConflict
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateReservation persists an edited reservation under the same
// conditional-write scheme as creation: the room type row is locked FOR
// UPDATE, an explicit unit is re-checked for overlapping assignments
// (ignoring the reservation's own row), and after the save every covered
// date is re-counted. Any date over capacity rolls the edit back with
// ErrCapacityConflict.
func UpdateReservation(db *gorm.DB, r *models.Reservation) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var roomType models.RoomType
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", r.RoomTypeSlug).
			First(&roomType).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return err
		}

		units, err := LoadActiveUnits(tx, r.RoomTypeSlug)
		if err != nil {
			return err
		}
		totalUnits := len(units)
		if totalUnits == 0 {
			totalUnits = 1 // single inventory mode
		}

		checkIn := utils.NewDate(r.CheckIn)
		checkOut := utils.NewDate(r.CheckOut)

		if r.AssignedUnitID != nil && r.Occupies() {
			if err := checkUnitAssignable(tx, units, *r.AssignedUnitID, checkIn, checkOut, r.ID); err != nil {
				return err
			}
		}

		if err := tx.Save(r).Error; err != nil {
			return err
		}

		if !r.Occupies() {
			return nil
		}

		overlapping, err := LoadOverlappingReservations(tx, r.RoomTypeSlug, checkIn, checkOut)
		if err != nil {
			return err
		}
		counts := make(map[utils.Date]int)
		for i := range overlapping {
			o := &overlapping[i]
			if !o.Occupies() {
				continue
			}
			for _, day := range utils.DateRange(utils.NewDate(o.CheckIn), utils.NewDate(o.CheckOut)) {
				counts[day]++
			}
		}
		for _, day := range utils.DateRange(checkIn, checkOut) {
			if counts[day] > totalUnits {
				return ErrCapacityConflict
			}
		}
		return nil
	})
}

// checkUnitAssignable verifies the explicit unit belongs to the room type,
// is active, and has no overlapping active assignment. Two reservations
// with the same assigned unit and overlapping dates must never both stay
// active. excludeID skips the reservation's own row on updates; pass 0
// on create.
func checkUnitAssignable(tx *gorm.DB, units []models.RoomUnit, unitID uint, checkIn, checkOut utils.Date, excludeID uint) error {
	found := false
	for _, u := range units {
		if u.ID == unitID {
			found = true
			break
		}
	}
	if !found {
		return ErrUnitNotFound
	}

	var conflicting int64
	err := tx.Model(&models.Reservation{}).
		Where("assigned_unit_id = ? AND id <> ? AND status IN ? AND check_in < ? AND check_out > ?",
			unitID, excludeID,
			[]string{models.ReservationPending, models.ReservationConfirmed},
			checkOut.Time, checkIn.Time).
		Count(&conflicting).Error
	if err != nil {
		return err
	}
	if conflicting > 0 {
		return ErrCapacityConflict
	}
	return nil
}

// ConfirmPayment moves a reservation to confirmed/paid with one
// conditional UPDATE. Confirming an already-confirmed reservation is a
// no-op success; a cancelled reservation never transitions.
func ConfirmPayment(db *gorm.DB, reservationID uint) error {
	res := db.Model(&models.Reservation{}).
		Where("id = ? AND status <> ?", reservationID, models.ReservationCancelled).
		Updates(map[string]interface{}{
			"status":         models.ReservationConfirmed,
			"payment_status": models.PaymentPaid,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return classifyUnmatched(db, reservationID)
	}
	return nil
}

// FailPayment marks the payment failed while the reservation stays
// pending, so payment can be retried. A paid reservation is never
// downgraded.
func FailPayment(db *gorm.DB, reservationID uint) error {
	res := db.Model(&models.Reservation{}).
		Where("id = ? AND payment_status <> ? AND status <> ?",
			reservationID, models.PaymentPaid, models.ReservationCancelled).
		Update("payment_status", models.PaymentFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var r models.Reservation
		if err := db.Select("id").First(&r, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		// Already paid or cancelled: leave it alone.
	}
	return nil
}

// CancelReservation flips status to cancelled and touches nothing else.
// Cancelled is terminal: cancelling twice reports ErrReservationCancelled.
func CancelReservation(db *gorm.DB, reservationID uint) error {
	res := db.Model(&models.Reservation{}).
		Where("id = ? AND status <> ?", reservationID, models.ReservationCancelled).
		Update("status", models.ReservationCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return classifyUnmatched(db, reservationID)
	}
	return nil
}

// DeleteReservation hard-removes the record. Distinct from cancellation
// and restricted to admins by the caller-facing policy.
func DeleteReservation(db *gorm.DB, reservationID uint) error {
	res := db.Unscoped().Delete(&models.Reservation{}, reservationID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func classifyUnmatched(db *gorm.DB, reservationID uint) error {
	var r models.Reservation
	if err := db.Select("id, status").First(&r, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReservationNotFound
		}
		return err
	}
	return ErrReservationCancelled
}
