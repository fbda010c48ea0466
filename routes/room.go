package routes

import (
	"zenlodge-server/models"
	"zenlodge-server/storage"
	"zenlodge-server/utils"

	"github.com/kataras/iris/v12"
)

// Room inventory management. These are the external admin collaborator's
// CRUD surface; the reservation core only ever reads room types and their
// active units.

type RoomTypeInput struct {
	Slug         string   `json:"slug" validate:"required,max=128"`
	Name         string   `json:"name" validate:"required,max=256"`
	Description  string   `json:"description"`
	NightlyPrice float64  `json:"nightlyPrice" validate:"min=0"`
	Currency     string   `json:"currency"`
	Photos       []string `json:"photos"`
	Amenities    []string `json:"amenities"`
}

type RoomUnitInput struct {
	Name string `json:"name" validate:"required,max=128"`
}

func ListRoomTypes(ctx iris.Context) {
	var roomTypes []models.RoomType
	if err := storage.DB.Preload("Units", "is_active = ?", true).Order("name ASC").Find(&roomTypes).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": roomTypes})
}

func GetRoomType(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var roomType models.RoomType
	if err := storage.DB.Preload("Units", "is_active = ?", true).Where("slug = ?", slug).First(&roomType).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": roomType})
}

func CreateRoomType(ctx iris.Context) {
	var input RoomTypeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.RoomType
	if err := storage.DB.Where("slug = ?", input.Slug).First(&existing).Error; err == nil {
		utils.CreateError(iris.StatusConflict, "Conflict", "A room type with this slug already exists", ctx)
		return
	}

	roomType := models.RoomType{
		Slug:         input.Slug,
		Name:         input.Name,
		Description:  input.Description,
		NightlyPrice: input.NightlyPrice,
		Currency:     input.Currency,
		Photos:       utils.ToJSON(input.Photos),
		Amenities:    utils.ToJSON(input.Amenities),
	}
	if err := storage.DB.Create(&roomType).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room_type.create", "room_type", roomType.ID, nil, roomType)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": roomType})
}

func UpdateRoomType(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var roomType models.RoomType
	if err := storage.DB.Where("slug = ?", slug).First(&roomType).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		return
	}
	before := roomType

	var input struct {
		Name         *string  `json:"name"`
		Description  *string  `json:"description"`
		NightlyPrice *float64 `json:"nightlyPrice"`
		Currency     *string  `json:"currency"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != nil {
		roomType.Name = *input.Name
	}
	if input.Description != nil {
		roomType.Description = *input.Description
	}
	if input.NightlyPrice != nil {
		roomType.NightlyPrice = *input.NightlyPrice
	}
	if input.Currency != nil {
		roomType.Currency = *input.Currency
	}

	if err := storage.DB.Save(&roomType).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room_type.update", "room_type", roomType.ID, before, roomType)
	ctx.JSON(iris.Map{"success": true, "data": roomType})
}

func DeleteRoomType(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var roomType models.RoomType
	if err := storage.DB.Where("slug = ?", slug).First(&roomType).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		return
	}

	if err := storage.DB.Delete(&roomType).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room_type.delete", "room_type", roomType.ID, roomType, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Room type deleted"})
}

func ListRoomUnits(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var roomType models.RoomType
	if err := storage.DB.Where("slug = ?", slug).First(&roomType).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		return
	}

	var units []models.RoomUnit
	if err := storage.DB.Where("room_type_id = ?", roomType.ID).Order("name ASC").Find(&units).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": units})
}

func CreateRoomUnit(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var roomType models.RoomType
	if err := storage.DB.Where("slug = ?", slug).First(&roomType).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room type not found", ctx)
		return
	}

	var input RoomUnitInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	unit := models.RoomUnit{
		RoomTypeID: roomType.ID,
		Name:       input.Name,
		IsActive:   true,
	}
	if err := storage.DB.Create(&unit).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room_unit.create", "room_unit", unit.ID, nil, unit)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": unit})
}

func UpdateRoomUnit(ctx iris.Context) {
	unitID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid unit ID", ctx)
		return
	}

	var unit models.RoomUnit
	if err := storage.DB.First(&unit, unitID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room unit not found", ctx)
		return
	}
	before := unit

	var input struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"isActive"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != nil {
		unit.Name = *input.Name
	}
	if input.IsActive != nil {
		unit.IsActive = *input.IsActive
	}

	if err := storage.DB.Save(&unit).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room_unit.update", "room_unit", unit.ID, before, unit)
	ctx.JSON(iris.Map{"success": true, "data": unit})
}

func DeleteRoomUnit(ctx iris.Context) {
	unitID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid unit ID", ctx)
		return
	}

	var unit models.RoomUnit
	if err := storage.DB.First(&unit, unitID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Room unit not found", ctx)
		return
	}

	if err := storage.DB.Delete(&unit).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room_unit.delete", "room_unit", unit.ID, unit, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Room unit deleted"})
}
