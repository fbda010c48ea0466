package routes

import "testing"

// The gateway must be constructed on first use, not at package init:
// init runs before main loads .env, which would silently drop configured
// provider credentials and force mock mode.
func TestPaymentGatewayBuiltAfterEnvLoad(t *testing.T) {
	if gateway != nil {
		t.Fatal("gateway must not be constructed at package init")
	}

	t.Setenv("PAYMENT_KEY_ID", "rzp_test_key")
	t.Setenv("PAYMENT_KEY_SECRET", "rzp_test_secret")

	if !paymentGateway().Configured() {
		t.Fatal("gateway must pick up credentials set before first use")
	}
}
