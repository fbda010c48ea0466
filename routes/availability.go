package routes

import (
	"strconv"

	"zenlodge-server/models"
	"zenlodge-server/services"
	"zenlodge-server/storage"
	"zenlodge-server/utils"

	"github.com/kataras/iris/v12"
)

// GetBlockedDates answers GET /api/availability?room={slug}[&unit={id}].
// Without a unit it aggregates over the whole pool: a date is blocked when
// active reservations cover it totalUnits times. With a unit it reports
// only that unit's explicit assignments (floating reservations never block
// a specific unit).
func GetBlockedDates(ctx iris.Context) {
	slug := ctx.URLParam("room")
	if slug == "" {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "room query parameter is required", ctx)
		return
	}

	var roomType models.RoomType
	if err := storage.DB.Where("slug = ?", slug).First(&roomType).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		return
	}

	units, err := services.LoadActiveUnits(storage.DB, slug)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	inventory := len(units)
	if inventory == 0 {
		inventory = 1 // single inventory mode
	}

	reservations, err := services.LoadActiveReservations(storage.DB, slug)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	unitParam := ctx.URLParam("unit")
	if unitParam != "" {
		unitID, parseErr := strconv.ParseUint(unitParam, 10, 32)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid unit ID", ctx)
			return
		}
		found := false
		for _, u := range units {
			if u.ID == uint(unitID) {
				found = true
				break
			}
		}
		if !found {
			utils.CreateError(iris.StatusNotFound, "Not Found", "Room unit not found", ctx)
			return
		}

		blocked := services.UnitBlockedDates(reservations, uint(unitID))
		if blocked == nil {
			blocked = []utils.Date{}
		}
		ctx.JSON(iris.Map{
			"room":         slug,
			"unit":         uint(unitID),
			"blockedDates": blocked,
			"inventory":    inventory,
		})
		return
	}

	blocked := services.BlockedDates(reservations, inventory)
	if blocked == nil {
		blocked = []utils.Date{}
	}
	ctx.JSON(iris.Map{
		"room":         slug,
		"blockedDates": blocked,
		"inventory":    inventory,
	})
}

type AvailableUnitsInput struct {
	RoomSlug string `json:"roomSlug" validate:"required"`
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
}

// GetAvailableUnits answers POST /api/units/available. The result is
// ordered ascending by unit name; see services.AvailableUnits for the
// floating-reservation trim.
func GetAvailableUnits(ctx iris.Context) {
	var input AvailableUnitsInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
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

	var roomType models.RoomType
	if err := storage.DB.Where("slug = ?", input.RoomSlug).First(&roomType).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		return
	}

	units, err := services.LoadActiveUnits(storage.DB, input.RoomSlug)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	overlapping, err := services.LoadOverlappingReservations(storage.DB, input.RoomSlug, checkIn, checkOut)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	available := services.AvailableUnits(units, overlapping)
	if available == nil {
		available = []models.RoomUnit{}
	}
	ctx.JSON(available)
}
