package routes

import (
	"errors"
	"strconv"

	"zenlodge-server/models"
	"zenlodge-server/services"
	"zenlodge-server/storage"
	"zenlodge-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Admin reservation surface. All handlers here sit behind
// utils.AdminOnlyMiddleware.

func AdminListReservations(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage < 1 || perPage > 200 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Reservation{})
	if slug := ctx.URLParam("room"); slug != "" {
		query = query.Where("room_type_slug = ?", slug)
	}
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if guestID, err := ctx.URLParamInt("guest"); err == nil && guestID > 0 {
		query = query.Where("guest_id = ?", guestID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var reservations []models.Reservation
	if err := query.
		Preload("Guest").
		Preload("AssignedUnit").
		Order("check_in DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reservations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, reservations, page, perPage, total)
}

func AdminGetReservation(ctx iris.Context) {
	reservationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid reservation ID", ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.
		Preload("Guest").
		Preload("AssignedUnit").
		First(&reservation, reservationID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": reservation})
}

func AdminCancelReservation(ctx iris.Context) {
	reservationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid reservation ID", ctx)
		return
	}

	if cancelErr := services.CancelReservation(storage.DB, reservationID); cancelErr != nil {
		switch {
		case errors.Is(cancelErr, services.ErrReservationNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		case errors.Is(cancelErr, services.ErrReservationCancelled):
			utils.CreateError(iris.StatusConflict, "Conflict", "Reservation is already cancelled", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}

	utils.Logger.Info("reservation cancelled by admin",
		zap.Uint("reservationID", reservationID),
		zap.Any("adminID", ctx.Values().Get("userID")))
	utils.Audit(ctx, "reservation.admin_cancel", "reservation", reservationID, nil, nil)
	ctx.JSON(iris.Map{"success": true, "message": "Reservation cancelled"})
}

// AdminExportReservations streams the filtered reservation list as an
// XLSX workbook.
func AdminExportReservations(ctx iris.Context) {
	query := storage.DB.Model(&models.Reservation{})
	if slug := ctx.URLParam("room"); slug != "" {
		query = query.Where("room_type_slug = ?", slug)
	}
	if status := ctx.URLParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := query.Preload("Guest").Order("check_in ASC").Find(&reservations).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reservations"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Room Type", "Guest", "Check-In", "Check-Out", "Unit", "Status", "Payment", "Amount"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, r := range reservations {
		guest := strconv.FormatUint(uint64(r.GuestID), 10)
		if r.Guest != nil {
			guest = r.Guest.FirstName + " " + r.Guest.LastName
		}
		unit := ""
		if assignment := r.Assignment(); assignment.Assigned {
			unit = strconv.FormatUint(uint64(assignment.UnitID), 10)
		}
		values := []interface{}{
			r.ID,
			r.RoomTypeSlug,
			guest,
			r.CheckIn.Format("2006-01-02"),
			r.CheckOut.Format("2006-01-02"),
			unit,
			r.Status,
			r.PaymentStatus,
			r.TotalAmount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="reservations.xlsx"`)
	ctx.ContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Write(buf.Bytes())
}

// AdminStats is a small occupancy dashboard: totals per status plus the
// paid revenue sum.
func AdminStats(ctx iris.Context) {
	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}

	var byStatus []statusCount
	if err := storage.DB.Model(&models.Reservation{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var revenue float64
	if err := storage.DB.Model(&models.Reservation{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("coalesce(sum(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var roomTypes int64
	storage.DB.Model(&models.RoomType{}).Count(&roomTypes)
	var units int64
	storage.DB.Model(&models.RoomUnit{}).Where("is_active = ?", true).Count(&units)

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"reservationsByStatus": byStatus,
			"paidRevenue":          revenue,
			"roomTypes":            roomTypes,
			"activeUnits":          units,
		},
	})
}

// AdminListAuditLogs pages through the audit trail, newest first.
func AdminListAuditLogs(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := storage.DB.Model(&models.AuditLog{})
	if resource := ctx.URLParam("resource"); resource != "" {
		query = query.Where("resource_type = ?", resource)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var logs []models.AuditLog
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, logs, page, perPage, total)
}

// AdminSetUserRole promotes or demotes a user. Super admin only; wiring
// in main keeps admins from touching roles.
func AdminSetUserRole(ctx iris.Context) {
	userID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid user ID", ctx)
		return
	}

	var input struct {
		Role string `json:"role" validate:"required,oneof=user admin super_admin"`
	}
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "User not found", ctx)
		return
	}
	before := user

	user.Role = input.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.set_role", "user", user.ID,
		iris.Map{"role": before.Role}, iris.Map{"role": user.Role})
	ctx.JSON(iris.Map{"success": true, "data": user})
}
