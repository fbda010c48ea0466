package routes

import (
	"encoding/json"
	"errors"

	"zenlodge-server/models"
	"zenlodge-server/services"
	"zenlodge-server/storage"
	"zenlodge-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"go.uber.org/zap"
)

var policy services.ReservationPolicy

func caller(ctx iris.Context) services.Caller {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	return services.Caller{ID: claims.ID, Role: claims.Role}
}

type CreateReservationInput struct {
	RoomTypeSlug   string  `json:"roomTypeSlug" validate:"required"`
	GuestID        uint    `json:"guestID"`
	CheckIn        string  `json:"checkIn" validate:"required"`
	CheckOut       string  `json:"checkOut" validate:"required"`
	TotalAmount    float64 `json:"totalAmount" validate:"min=0"`
	AssignedUnitID *uint   `json:"assignedUnitID"`
	Note           string  `json:"note" validate:"max=1024"`
}

func CreateReservation(ctx iris.Context) {
	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	who := caller(ctx)
	guestID := input.GuestID
	if guestID == 0 {
		guestID = who.ID
	}
	if !policy.CanCreateFor(who, guestID) {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Cannot create a reservation for another guest", ctx)
		return
	}

	checkIn, err := utils.ParseDate(input.CheckIn)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}
	checkOut, err := utils.ParseDate(input.CheckOut)
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}
	if !checkIn.Before(checkOut.Time) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be before checkOut", ctx)
		return
	}

	reservation, createErr := services.CreateReservation(storage.DB, services.CreateReservationParams{
		GuestID:        guestID,
		RoomTypeSlug:   input.RoomTypeSlug,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		TotalAmount:    input.TotalAmount,
		AssignedUnitID: input.AssignedUnitID,
		Note:           input.Note,
	})
	if createErr != nil {
		switch {
		case errors.Is(createErr, services.ErrRoomTypeNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		case errors.Is(createErr, services.ErrUnitNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Room unit not found or inactive", ctx)
		case errors.Is(createErr, services.ErrCapacityConflict):
			utils.CreateError(iris.StatusConflict, "Conflict", "No remaining capacity for the requested dates", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	storage.DB.Create(&models.Notification{
		UserID:  guestID,
		Type:    "reservation",
		Title:   "Reservation created",
		Message: "Your reservation for " + input.RoomTypeSlug + " is pending payment.",
		RefType: "reservation",
		RefID:   reservation.ID,
	})

	utils.Logger.Info("reservation created",
		zap.Uint("reservationID", reservation.ID),
		zap.String("roomType", reservation.RoomTypeSlug),
		zap.Uint("guestID", guestID))

	utils.Audit(ctx, "reservation.create", "reservation", reservation.ID, nil, reservation)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": reservation})
}

// UpdateReservation handles both the guest self-cancel path (body with
// only {"status": "cancelled"}) and admin field updates. The field
// whitelist check happens on the raw body so a non-admin smuggling extra
// keys is rejected before any database work.
func UpdateReservation(ctx iris.Context) {
	reservationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid reservation ID", ctx)
		return
	}

	body, bodyErr := ctx.GetBody()
	if bodyErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid JSON body", ctx)
		return
	}
	fields := make([]string, 0, len(raw))
	for k := range raw {
		fields = append(fields, k)
	}

	who := caller(ctx)
	if !policy.CanUpdateFields(who, fields) {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You may only cancel your own reservation", ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.First(&reservation, reservationID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		return
	}
	before := reservation

	var input struct {
		Status         *string  `json:"status"`
		CheckIn        *string  `json:"checkIn"`
		CheckOut       *string  `json:"checkOut"`
		AssignedUnitID *uint    `json:"assignedUnitID"`
		TotalAmount    *float64 `json:"totalAmount"`
		Note           *string  `json:"note"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid JSON body", ctx)
		return
	}

	if input.Status != nil && *input.Status == models.ReservationCancelled {
		if !policy.CanCancel(who, &reservation) {
			utils.CreateError(iris.StatusForbidden, "Forbidden", "Not your reservation", ctx)
			return
		}
		if cancelErr := services.CancelReservation(storage.DB, reservation.ID); cancelErr != nil {
			switch {
			case errors.Is(cancelErr, services.ErrReservationCancelled):
				utils.CreateError(iris.StatusConflict, "Conflict", "Reservation is already cancelled", ctx)
			case errors.Is(cancelErr, services.ErrReservationNotFound):
				utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
			default:
				utils.CreateInternalServerError(ctx)
			}
			return
		}
		reservation.Status = models.ReservationCancelled

		storage.DB.Create(&models.Notification{
			UserID:  reservation.GuestID,
			Type:    "reservation",
			Title:   "Reservation cancelled",
			Message: "Your reservation for " + reservation.RoomTypeSlug + " was cancelled.",
			RefType: "reservation",
			RefID:   reservation.ID,
		})

		utils.Logger.Info("reservation cancelled",
			zap.Uint("reservationID", reservation.ID),
			zap.Uint("callerID", who.ID))
		utils.Audit(ctx, "reservation.cancel", "reservation", reservation.ID, before, reservation)
		ctx.JSON(iris.Map{"success": true, "data": reservation})
		return
	}

	// Anything beyond a cancel is an admin edit.
	if !who.IsAdmin() {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "You may only cancel your own reservation", ctx)
		return
	}
	if reservation.Status == models.ReservationCancelled {
		utils.CreateError(iris.StatusConflict, "Conflict", "Reservation is cancelled", ctx)
		return
	}

	if input.CheckIn != nil {
		d, parseErr := utils.ParseDate(*input.CheckIn)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", parseErr.Error(), ctx)
			return
		}
		reservation.CheckIn = d.Time
	}
	if input.CheckOut != nil {
		d, parseErr := utils.ParseDate(*input.CheckOut)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", parseErr.Error(), ctx)
			return
		}
		reservation.CheckOut = d.Time
	}
	if !reservation.CheckIn.Before(reservation.CheckOut) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "checkIn must be before checkOut", ctx)
		return
	}
	if input.Status != nil {
		switch *input.Status {
		case models.ReservationPending, models.ReservationConfirmed:
			reservation.Status = *input.Status
		default:
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid status", ctx)
			return
		}
	}
	if input.AssignedUnitID != nil {
		reservation.AssignedUnitID = input.AssignedUnitID
	}
	if input.TotalAmount != nil {
		reservation.TotalAmount = *input.TotalAmount
	}
	if input.Note != nil {
		reservation.Note = *input.Note
	}

	// Admin edits re-enter the conditional-write path so a moved date
	// range or a re-pinned unit cannot bypass the capacity invariant.
	if saveErr := services.UpdateReservation(storage.DB, &reservation); saveErr != nil {
		switch {
		case errors.Is(saveErr, services.ErrRoomTypeNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		case errors.Is(saveErr, services.ErrUnitNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Room unit not found or inactive", ctx)
		case errors.Is(saveErr, services.ErrCapacityConflict):
			utils.CreateError(iris.StatusConflict, "Conflict", "No remaining capacity for the requested dates", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	utils.Audit(ctx, "reservation.update", "reservation", reservation.ID, before, reservation)
	ctx.JSON(iris.Map{"success": true, "data": reservation})
}

func DeleteReservation(ctx iris.Context) {
	reservationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid reservation ID", ctx)
		return
	}

	who := caller(ctx)
	if !policy.CanDelete(who) {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Only admins may delete reservations", ctx)
		return
	}

	if delErr := services.DeleteReservation(storage.DB, reservationID); delErr != nil {
		if errors.Is(delErr, services.ErrReservationNotFound) {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Logger.Info("reservation deleted",
		zap.Uint("reservationID", reservationID),
		zap.Uint("callerID", who.ID))
	utils.Audit(ctx, "reservation.delete", "reservation", reservationID, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Reservation deleted"})
}

// GetMyReservations lists the caller's own reservations, newest first.
func GetMyReservations(ctx iris.Context) {
	who := caller(ctx)

	var reservations []models.Reservation
	if err := storage.DB.
		Preload("AssignedUnit").
		Where("guest_id = ?", who.ID).
		Order("check_in DESC").
		Find(&reservations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": reservations})
}

// GetUserReservations lists a guest's reservations by path id. The
// {id} parameter is checked against the token by UserIDMiddleware.
func GetUserReservations(ctx iris.Context) {
	guestID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user ID", ctx)
		return
	}

	var reservations []models.Reservation
	if err := storage.DB.
		Preload("AssignedUnit").
		Where("guest_id = ?", guestID).
		Order("check_in DESC").
		Find(&reservations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": reservations})
}

func GetReservation(ctx iris.Context) {
	reservationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid reservation ID", ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.Preload("AssignedUnit").First(&reservation, reservationID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		return
	}

	who := caller(ctx)
	if !policy.CanView(who, &reservation) {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not your reservation", ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": reservation})
}
