package main

import (
	"os"

	"zenlodge-server/routes"
	"zenlodge-server/storage"
	"zenlodge-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"go.uber.org/zap"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	utils.InitLogger()
	defer utils.Logger.Sync()

	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
	}

	rooms := app.Party("/api/rooms")
	{
		rooms.Get("/", routes.ListRoomTypes)
		rooms.Get("/{slug}", routes.GetRoomType)
		rooms.Get("/{slug}/units", routes.ListRoomUnits)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/", routes.GetBlockedDates)
	}

	units := app.Party("/api/units")
	{
		units.Post("/available", routes.GetAvailableUnits)
	}

	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware)
	{
		reservations.Post("/", routes.CreateReservation)
		reservations.Get("/mine", routes.GetMyReservations)
		reservations.Get("/user/{id}", utils.UserIDMiddleware, routes.GetUserReservations)
		reservations.Get("/{id:uint}", routes.GetReservation)
		reservations.Put("/{id:uint}", routes.UpdateReservation)
		reservations.Delete("/{id:uint}", routes.DeleteReservation)
	}

	payments := app.Party("/api/payments", accessTokenVerifierMiddleware)
	{
		payments.Post("/order", routes.CreatePaymentOrder)
		payments.Post("/verify", routes.VerifyPayment)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notifications.Get("/", routes.GetMyNotifications)
		notifications.Patch("/{id:uint}/read", routes.MarkNotificationRead)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Post("/rooms", routes.CreateRoomType)
		admin.Patch("/rooms/{slug}", routes.UpdateRoomType)
		admin.Delete("/rooms/{slug}", routes.DeleteRoomType)
		admin.Post("/rooms/{slug}/units", routes.CreateRoomUnit)
		admin.Patch("/units/{id:uint}", routes.UpdateRoomUnit)
		admin.Delete("/units/{id:uint}", routes.DeleteRoomUnit)
		admin.Get("/reservations", routes.AdminListReservations)
		admin.Get("/reservations/export", routes.AdminExportReservations)
		admin.Get("/reservations/{id:uint}", routes.AdminGetReservation)
		admin.Post("/reservations/{id:uint}/cancel", routes.AdminCancelReservation)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/audit", routes.AdminListAuditLogs)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminSetUserRole)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := "0.0.0.0:" + port

	utils.Logger.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		utils.Logger.Fatal("server failed", zap.Error(err))
	}
}
