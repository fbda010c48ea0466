package routes

import (
	"errors"
	"sync"

	"zenlodge-server/models"
	"zenlodge-server/services"
	"zenlodge-server/storage"
	"zenlodge-server/utils"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"
)

var (
	gatewayOnce sync.Once
	gateway     *services.PaymentGateway
)

// paymentGateway builds the gateway on first use, after main has loaded
// the environment. Package-level construction would read the provider
// credentials before godotenv runs and lock dev setups into mock mode.
func paymentGateway() *services.PaymentGateway {
	gatewayOnce.Do(func() {
		gateway = services.NewPaymentGateway()
	})
	return gateway
}

type CreateOrderInput struct {
	ReservationID uint    `json:"reservationID" validate:"required"`
	Amount        float64 `json:"amount" validate:"min=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
}

type VerifyPaymentInput struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// CreatePaymentOrder registers a provider order for a reservation's total
// amount and persists the mapping so verification can find its way back.
func CreatePaymentOrder(ctx iris.Context) {
	var input CreateOrderInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var reservation models.Reservation
	if err := storage.DB.First(&reservation, input.ReservationID).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		return
	}

	who := caller(ctx)
	if !policy.CanCancel(who, &reservation) {
		utils.CreateError(iris.StatusForbidden, "Forbidden", "Not your reservation", ctx)
		return
	}
	if reservation.Status == models.ReservationCancelled {
		utils.CreateError(iris.StatusConflict, "Conflict", "Reservation is cancelled", ctx)
		return
	}
	if reservation.PaymentStatus == models.PaymentPaid {
		utils.CreateError(iris.StatusConflict, "Conflict", "Reservation is already paid", ctx)
		return
	}

	amount := input.Amount
	if amount == 0 {
		amount = reservation.TotalAmount
	}
	order, orderErr := paymentGateway().CreateOrder(amount, reservation.ID, input.Currency)
	if orderErr != nil {
		utils.Logger.Error("payment order creation failed",
			zap.Uint("reservationID", reservation.ID),
			zap.Error(orderErr))
		utils.CreateError(iris.StatusBadGateway, "Bad Gateway", "Payment provider unavailable", ctx)
		return
	}

	record := models.PaymentOrder{
		ReservationID:   reservation.ID,
		ProviderOrderID: order.OrderID,
		Amount:          order.Amount,
		Currency:        order.Currency,
		Mock:            order.Mock,
		Status:          models.OrderCreated,
	}
	if err := storage.DB.Create(&record).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Logger.Info("payment order created",
		zap.Uint("reservationID", reservation.ID),
		zap.String("orderID", order.OrderID),
		zap.Bool("mock", order.Mock))

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "data": order})
}

// VerifyPayment checks the provider callback signature and settles the
// reservation. A bad signature is an expected outcome, not a server
// error: it answers 200 with success=false and marks the payment failed
// so the guest can retry.
func VerifyPayment(ctx iris.Context) {
	var input VerifyPaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var order models.PaymentOrder
	if err := storage.DB.Where("provider_order_id = ?", input.OrderID).First(&order).Error; err != nil {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Unknown payment order", ctx)
		return
	}

	if !services.AcquireVerifyLock(storage.Redis, order.ReservationID) {
		utils.CreateError(iris.StatusConflict, "Conflict", "Verification already in progress", ctx)
		return
	}
	defer services.ReleaseVerifyLock(storage.Redis, order.ReservationID)

	verified := order.Mock || paymentGateway().VerifySignature(input.OrderID, input.PaymentID, input.Signature)

	if !verified {
		if err := services.FailPayment(storage.DB, order.ReservationID); err != nil &&
			!errors.Is(err, services.ErrReservationNotFound) {
			utils.CreateInternalServerError(ctx)
			return
		}
		storage.DB.Model(&order).Update("status", models.OrderFailed)

		utils.Logger.Warn("payment signature mismatch",
			zap.Uint("reservationID", order.ReservationID),
			zap.String("orderID", input.OrderID))
		ctx.JSON(iris.Map{"success": false, "message": "Signature verification failed"})
		return
	}

	if err := services.ConfirmPayment(storage.DB, order.ReservationID); err != nil {
		switch {
		case errors.Is(err, services.ErrReservationNotFound):
			utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		case errors.Is(err, services.ErrReservationCancelled):
			utils.CreateError(iris.StatusConflict, "Conflict", "Reservation is cancelled", ctx)
		default:
			utils.CreateInternalServerError(ctx)
		}
		return
	}
	storage.DB.Model(&order).Update("status", models.OrderPaid)

	var reservation models.Reservation
	if err := storage.DB.First(&reservation, order.ReservationID).Error; err == nil {
		storage.DB.Create(&models.Notification{
			UserID:  reservation.GuestID,
			Type:    "payment",
			Title:   "Payment confirmed",
			Message: "Your reservation for " + reservation.RoomTypeSlug + " is confirmed.",
			RefType: "reservation",
			RefID:   reservation.ID,
		})
	}

	utils.Logger.Info("payment confirmed",
		zap.Uint("reservationID", order.ReservationID),
		zap.String("orderID", input.OrderID),
		zap.Bool("mock", order.Mock))

	ctx.JSON(iris.Map{"success": true, "message": "Payment confirmed"})
}
