package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const defaultProviderURL = "https://api.razorpay.com/v1"

// PaymentGateway talks to the external payment provider. When credentials
// are absent it hands out clearly-marked mock orders so the rest of the
// booking pipeline can run without a live provider; mock orders
// short-circuit signature verification on the confirm path.
type PaymentGateway struct {
	keyID     string
	keySecret string
	client    *resty.Client
}

func NewPaymentGateway() *PaymentGateway {
	baseURL := os.Getenv("PAYMENT_API_URL")
	if baseURL == "" {
		baseURL = defaultProviderURL
	}
	return &PaymentGateway{
		keyID:     os.Getenv("PAYMENT_KEY_ID"),
		keySecret: os.Getenv("PAYMENT_KEY_SECRET"),
		client:    resty.New().SetBaseURL(baseURL).SetTimeout(10 * time.Second),
	}
}

func (g *PaymentGateway) Configured() bool {
	return g.keyID != "" && g.keySecret != ""
}

// Order is the provider-side order reference handed back to the client.
// Amount is in minor units.
type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Mock     bool   `json:"mock"`
}

// CreateOrder registers an order with the provider, or fabricates a mock
// order when no credentials are configured.
func (g *PaymentGateway) CreateOrder(amount float64, reservationID uint, currency string) (*Order, error) {
	minor := int64(math.Round(amount * 100))
	if currency == "" {
		currency = "USD"
	}

	if !g.Configured() {
		return &Order{
			OrderID:  "order_mock_" + uuid.NewString(),
			Amount:   minor,
			Currency: currency,
			Mock:     true,
		}, nil
	}

	var out struct {
		ID string `json:"id"`
	}
	resp, err := g.client.R().
		SetBasicAuth(g.keyID, g.keySecret).
		SetBody(map[string]interface{}{
			"amount":   minor,
			"currency": currency,
			"receipt":  fmt.Sprintf("resv_%d", reservationID),
		}).
		SetResult(&out).
		Post("/orders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("payment provider returned %s", resp.Status())
	}

	return &Order{OrderID: out.ID, Amount: minor, Currency: currency}, nil
}

// VerifySignature recomputes HMAC-SHA256(keySecret, orderID + "|" +
// paymentID) and compares it to the provider-supplied signature in
// constant time.
func (g *PaymentGateway) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func verifyLockKey(reservationID uint) string {
	return fmt.Sprintf("payment:verify:%d", reservationID)
}

// AcquireVerifyLock suppresses concurrent duplicate confirmations for one
// reservation. A Redis outage must not block payments, so errors count as
// acquired.
func AcquireVerifyLock(rdb *redis.Client, reservationID uint) bool {
	ok, err := rdb.SetNX(context.Background(), verifyLockKey(reservationID), "1", 30*time.Second).Result()
	if err != nil {
		return true
	}
	return ok
}

func ReleaseVerifyLock(rdb *redis.Client, reservationID uint) {
	rdb.Del(context.Background(), verifyLockKey(reservationID))
}
