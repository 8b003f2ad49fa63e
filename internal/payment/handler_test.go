package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milluces/milluces-backend/internal/settings"
)

type fakeStripe struct {
	calls []StripeSessionRequest
	err   error
}

func (f *fakeStripe) CreateCheckoutSession(_ context.Context, req StripeSessionRequest) (StripeSession, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return StripeSession{}, f.err
	}
	return StripeSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

type fakeWallet struct {
	token       string
	tokenCalls  int
	orderCalls  []WalletOrderRequest
	order       WalletOrder
	createError error
}

func (f *fakeWallet) AccessToken(_ context.Context, _, _ string) (string, error) {
	f.tokenCalls++
	return f.token, nil
}

func (f *fakeWallet) CreateOrder(_ context.Context, req WalletOrderRequest) (WalletOrder, error) {
	f.orderCalls = append(f.orderCalls, req)
	return f.order, f.createError
}

func configured() *settings.Service {
	return settings.NewService(settings.NewInMemoryRepository(map[settings.Key]any{
		settings.KeyPaymentStripe: settings.StripeCredentials{SecretKey: "sk_test_123"},
		settings.KeyPaymentPayPal: settings.PayPalCredentials{ClientID: "client", SecretKey: "secret"},
	}))
}

func unconfigured() *settings.Service {
	return settings.NewService(settings.NewInMemoryRepository(nil))
}

func newApp(creds Credentials, s StripeGateway, w WalletGateway) *fiber.App {
	app := fiber.New()
	NewHandler(creds, s, w, "https://milluces.com", nil).RegisterPublicRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	b, _ := io.ReadAll(res.Body)
	if len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, &out), string(b))
	}
	return res.StatusCode, out
}

func TestStripe_EndToEnd(t *testing.T) {
	gw := &fakeStripe{}
	app := newApp(configured(), gw, &fakeWallet{})

	status, body := post(t, app, "/api/create-stripe-session",
		`{"items":[{"name":"Bombilla LED","price":9.99,"quantity":3}],"orderId":"ML-1"}`)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", body["url"])
	assert.Equal(t, "cs_test_1", body["sessionId"])

	require.Len(t, gw.calls, 1)
	call := gw.calls[0]
	require.Len(t, call.LineItems, 1)
	assert.Equal(t, int64(999), call.LineItems[0].UnitAmount)
	assert.Equal(t, int64(3), call.LineItems[0].Quantity)
	assert.Equal(t, "eur", call.Currency)
	assert.Equal(t, "sk_test_123", call.SecretKey)
	assert.Contains(t, call.SuccessURL, "order=ML-1")
	assert.Contains(t, call.SuccessURL, "session_id={CHECKOUT_SESSION_ID}")
	assert.Contains(t, call.CancelURL, "order=ML-1")
	assert.Equal(t, "https://milluces.com/checkout?order=ML-1&cancelled=true", call.CancelURL)
}

func TestUnitAmount_RoundsToNearestCent(t *testing.T) {
	cases := map[string]int64{
		"9.99":    999,
		"0.01":    1,
		"19.995":  2000,
		"4.994":   499,
		"1234.5":  123450,
		"0.005":   1,
		"12":      1200,
		"0.10000": 10,
	}
	for in, want := range cases {
		assert.Equal(t, want, UnitAmount(decimal.RequireFromString(in)), in)
	}
}

func TestStripe_LineItemsUseRoundedCents(t *testing.T) {
	gw := &fakeStripe{}
	app := newApp(configured(), gw, &fakeWallet{})

	status, _ := post(t, app, "/api/create-stripe-session",
		`{"items":[{"name":"A","price":0.29,"quantity":1},{"name":"B","price":"14.995","quantity":2,"image_url":"https://img/b.png"}],"orderId":"ML-2"}`)

	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, gw.calls, 1)
	items := gw.calls[0].LineItems
	assert.Equal(t, int64(29), items[0].UnitAmount)
	assert.Equal(t, int64(1500), items[1].UnitAmount)
	assert.Equal(t, "https://img/b.png", items[1].ImageURL)
}

func TestStripe_EmptyItemsIs400WithoutProcessorCall(t *testing.T) {
	gw := &fakeStripe{}
	app := newApp(configured(), gw, &fakeWallet{})

	status, body := post(t, app, "/api/create-stripe-session", `{"items":[],"orderId":"ML-1"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgEmptyCart, body["error"])
	assert.Empty(t, gw.calls)
}

func TestStripe_MissingConfigurationIs400WithoutProcessorCall(t *testing.T) {
	gw := &fakeStripe{}
	app := newApp(unconfigured(), gw, &fakeWallet{})

	status, body := post(t, app, "/api/create-stripe-session",
		`{"items":[{"name":"Bombilla LED","price":9.99,"quantity":3}],"orderId":"ML-1"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgStripeNotConfigured, body["error"])
	assert.Empty(t, gw.calls)
}

func TestStripe_NonPositiveQuantityIs400(t *testing.T) {
	gw := &fakeStripe{}
	app := newApp(configured(), gw, &fakeWallet{})

	status, _ := post(t, app, "/api/create-stripe-session", `{"items":[{"name":"A","price":1,"quantity":0}]}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Empty(t, gw.calls)
}

func TestStripe_ProcessorErrorIs500WithMessage(t *testing.T) {
	gw := &fakeStripe{err: errors.New("Invalid API Key provided")}
	app := newApp(configured(), gw, &fakeWallet{})

	status, body := post(t, app, "/api/create-stripe-session", `{"items":[{"name":"A","price":1,"quantity":1}],"orderId":"X"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Invalid API Key provided", body["error"])
}

func TestStripe_ForwardsIdempotencyKey(t *testing.T) {
	gw := &fakeStripe{}
	app := newApp(configured(), gw, &fakeWallet{})

	req := httptest.NewRequest("POST", "/api/create-stripe-session",
		strings.NewReader(`{"items":[{"name":"A","price":1,"quantity":1}],"orderId":"X"}`))
	req.Header.Set("Idempotency-Key", "order-X-attempt-1")
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	require.Len(t, gw.calls, 1)
	assert.Equal(t, "order-X-attempt-1", gw.calls[0].IdempotencyKey)
}

func TestPayPal_NonPositiveTotalIs400WithoutOAuth(t *testing.T) {
	for _, total := range []string{"0", "-5", "-0.01"} {
		w := &fakeWallet{token: "tok"}
		app := newApp(configured(), &fakeStripe{}, w)

		status, body := post(t, app, "/api/create-paypal-order", `{"totalPrice":`+total+`,"orderId":"ML-1"}`)

		assert.Equal(t, fiber.StatusBadRequest, status, total)
		assert.Equal(t, msgInvalidTotal, body["error"])
		assert.Zero(t, w.tokenCalls, total)
	}
}

func TestPayPal_MissingConfigurationIs400(t *testing.T) {
	w := &fakeWallet{token: "tok"}
	app := newApp(unconfigured(), &fakeStripe{}, w)

	status, body := post(t, app, "/api/create-paypal-order", `{"totalPrice":10,"orderId":"ML-1"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, msgPayPalNotConfigured, body["error"])
	assert.Zero(t, w.tokenCalls)
}

func TestPayPal_MissingAccessTokenIs500WithoutOrderCall(t *testing.T) {
	w := &fakeWallet{token: ""}
	app := newApp(configured(), &fakeStripe{}, w)

	status, body := post(t, app, "/api/create-paypal-order", `{"totalPrice":29.97,"orderId":"ML-1"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, msgPayPalToken, body["error"])
	assert.Equal(t, 1, w.tokenCalls)
	assert.Empty(t, w.orderCalls)
}

func TestPayPal_Success(t *testing.T) {
	w := &fakeWallet{
		token: "tok",
		order: WalletOrder{ID: "5O190127TN364715T", Links: []Link{
			{Href: "https://api.paypal.test/self", Rel: "self"},
			{Href: "https://www.paypal.test/checkoutnow?token=5O190127TN364715T", Rel: "approve"},
		}},
	}
	app := newApp(configured(), &fakeStripe{}, w)

	status, body := post(t, app, "/api/create-paypal-order", `{"totalPrice":29.9,"orderId":"ML-1"}`)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "5O190127TN364715T", body["orderId"])
	assert.Equal(t, "https://www.paypal.test/checkoutnow?token=5O190127TN364715T", body["approveUrl"])

	require.Len(t, w.orderCalls, 1)
	call := w.orderCalls[0]
	assert.Equal(t, "29.90", call.Amount)
	assert.Equal(t, "EUR", call.Currency)
	assert.Equal(t, "tok", call.AccessToken)
	assert.Equal(t, "https://milluces.com/pedido-confirmado?order=ML-1&provider=paypal", call.ReturnURL)
	assert.Equal(t, "https://milluces.com/checkout?order=ML-1&cancelled=true", call.CancelURL)
}

func TestPayPal_NoOrderIDReturnsRawDetail(t *testing.T) {
	w := &fakeWallet{token: "tok", order: WalletOrder{Raw: []byte(`{"name":"UNPROCESSABLE_ENTITY"}`)}}
	app := newApp(configured(), &fakeStripe{}, w)

	status, body := post(t, app, "/api/create-paypal-order", `{"totalPrice":10,"orderId":"ML-1"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, msgPayPalNoOrder, body["error"])
	assert.Equal(t, map[string]any{"name": "UNPROCESSABLE_ENTITY"}, body["detail"])
}

func TestPayPal_NoApproveLinkReturnsRawDetail(t *testing.T) {
	w := &fakeWallet{token: "tok", order: WalletOrder{
		ID:    "5O190127TN364715T",
		Links: []Link{{Href: "https://api.paypal.test/self", Rel: "self"}},
		Raw:   []byte(`{"id":"5O190127TN364715T","status":"CREATED"}`),
	}}
	app := newApp(configured(), &fakeStripe{}, w)

	status, body := post(t, app, "/api/create-paypal-order", `{"totalPrice":10,"orderId":"ML-1"}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, msgPayPalNoApprove, body["error"])
	assert.Equal(t, map[string]any{"id": "5O190127TN364715T", "status": "CREATED"}, body["detail"])
	assert.Nil(t, body["approveUrl"])
}

func TestOptions_AlwaysEmpty200WithCORS(t *testing.T) {
	for _, creds := range []*settings.Service{configured(), unconfigured()} {
		app := newApp(creds, &fakeStripe{}, &fakeWallet{})
		for _, path := range []string{"/api/create-stripe-session", "/api/create-paypal-order"} {
			req := httptest.NewRequest("OPTIONS", path, nil)
			req.Header.Set("Origin", "https://milluces.com")
			req.Header.Set("Access-Control-Request-Method", "POST")
			res, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, fiber.StatusOK, res.StatusCode, path)
			assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "POST, OPTIONS", res.Header.Get("Access-Control-Allow-Methods"))
			b, _ := io.ReadAll(res.Body)
			assert.Empty(t, b, path)
		}
	}
}

func TestOtherMethodsAre405(t *testing.T) {
	gw, w := &fakeStripe{}, &fakeWallet{token: "tok"}
	app := newApp(configured(), gw, w)
	for _, path := range []string{"/api/create-stripe-session", "/api/create-paypal-order"} {
		for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
			res, err := app.Test(httptest.NewRequest(method, path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusMethodNotAllowed, res.StatusCode, method+" "+path)
			assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
		}
	}
	assert.Empty(t, gw.calls)
	assert.Zero(t, w.tokenCalls)
	assert.Empty(t, w.orderCalls)
}
