package routes

import (
	"zenlodge-server/models"
	"zenlodge-server/storage"
	"zenlodge-server/utils"

	"github.com/kataras/iris/v12"
)

func GetMyNotifications(ctx iris.Context) {
	who := caller(ctx)

	var notifications []models.Notification
	if err := storage.DB.
		Where("user_id = ?", who.ID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "data": notifications})
}

func MarkNotificationRead(ctx iris.Context) {
	notificationID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "Invalid notification ID", ctx)
		return
	}

	who := caller(ctx)

	res := storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, who.ID).
		Update("is_read", true)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Notification not found", ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}
