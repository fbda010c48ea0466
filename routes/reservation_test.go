package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"zenlodge-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp wires the reservation routes with a real JWT verifier so
// the auth and policy rejections can be exercised end to end.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	reservations := app.Party("/api/reservations", accessTokenVerifierMiddleware)
	{
		reservations.Post("/", CreateReservation)
		reservations.Put("/{id:uint}", UpdateReservation)
		reservations.Delete("/{id:uint}", DeleteReservation)
	}

	availability := app.Party("/api/availability")
	{
		availability.Get("/", GetBlockedDates)
	}

	if err := app.Build(); err != nil {
		panic(err)
	}

	return app
}

func signTestToken(id uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Role: role})
	return string(token)
}

func TestCreateReservationRequiresAuth(t *testing.T) {
	app := buildTestApp()

	body := `{"roomTypeSlug":"zen-nest","checkIn":"2024-06-01","checkOut":"2024-06-03"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code == http.StatusOK || resp.Code == http.StatusCreated {
		t.Fatalf("expected auth failure without token, got %d", resp.Code)
	}
}

func TestCreateReservationForOtherGuestForbidden(t *testing.T) {
	app := buildTestApp()

	body := `{"roomTypeSlug":"zen-nest","guestID":999,"checkIn":"2024-06-01","checkOut":"2024-06-03"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(1, "user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 booking for another guest, got %d", resp.Code)
	}
}

func TestCreateReservationRejectsBadDates(t *testing.T) {
	app := buildTestApp()

	cases := []struct {
		name string
		body string
	}{
		{"malformed checkIn", `{"roomTypeSlug":"zen-nest","checkIn":"06/01/2024","checkOut":"2024-06-03"}`},
		{"inverted range", `{"roomTypeSlug":"zen-nest","checkIn":"2024-06-03","checkOut":"2024-06-01"}`},
		{"zero nights", `{"roomTypeSlug":"zen-nest","checkIn":"2024-06-01","checkOut":"2024-06-01"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+signTestToken(1, "user"))
			resp := httptest.NewRecorder()
			app.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestUpdateReservationFieldWhitelist(t *testing.T) {
	app := buildTestApp()

	// A guest smuggling extra fields next to the cancel is rejected
	// before any lookup happens.
	body := `{"status":"cancelled","totalAmount":0}`
	req := httptest.NewRequest(http.MethodPut, "/api/reservations/5", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signTestToken(1, "user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-status fields, got %d", resp.Code)
	}
}

func TestDeleteReservationAdminOnly(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodDelete, "/api/reservations/5", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(1, "user"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin delete, got %d", resp.Code)
	}
}

func TestGetBlockedDatesRequiresRoomParam(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/availability", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without room param, got %d", resp.Code)
	}
}
