package server

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/milluces/milluces-backend/internal/banner"
	"github.com/milluces/milluces-backend/internal/category"
	"github.com/milluces/milluces-backend/internal/config"
	"github.com/milluces/milluces-backend/internal/content"
	"github.com/milluces/milluces-backend/internal/customer"
	"github.com/milluces/milluces-backend/internal/order"
	"github.com/milluces/milluces-backend/internal/payment"
	"github.com/milluces/milluces-backend/internal/product"
	"github.com/milluces/milluces-backend/internal/settings"
	"github.com/milluces/milluces-backend/internal/storage"
	"github.com/milluces/milluces-backend/internal/taxonomy"
	"github.com/milluces/milluces-backend/internal/user"
)

type noStripe struct{}

func (noStripe) CreateCheckoutSession(context.Context, payment.StripeSessionRequest) (payment.StripeSession, error) {
	return payment.StripeSession{ID: "cs_test", URL: "https://checkout.stripe.test/cs_test"}, nil
}

type noWallet struct{}

func (noWallet) AccessToken(context.Context, string, string) (string, error) { return "", nil }

func (noWallet) CreateOrder(context.Context, payment.WalletOrderRequest) (payment.WalletOrder, error) {
	return payment.WalletOrder{}, nil
}

func testApp(t *testing.T) (*fiber.App, *user.Tokens) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave"), bcrypt.MinCost)
	require.NoError(t, err)

	products := product.NewService(product.NewInMemoryRepository(nil))
	svc := &Services{
		Settings:   settings.NewService(settings.NewInMemoryRepository(nil)),
		Products:   products,
		Categories: category.NewService(category.NewInMemoryRepository(nil, nil)),
		Taxonomy:   taxonomy.NewService(taxonomy.NewInMemoryRepository(nil)),
		Orders:     order.NewService(order.NewInMemoryRepository(nil), products),
		Customers:  customer.NewService(customer.NewInMemoryRepository(nil), nil),
		Users: user.NewService(user.NewInMemoryRepository([]user.Profile{
			{ID: "u1", Email: "gestor@milluces.com", PasswordHash: string(hash), Role: user.RoleManager, UserType: customer.TypePersona},
		}), nil),
		Content: content.NewInMemoryService(),
		Sliders: banner.NewService(banner.NewInMemoryRepository(nil)),
	}
	cfg := &config.Config{SiteURL: "https://milluces.com"}
	tokens := user.NewTokens("secret", time.Hour)
	bucket := storage.NewBucketFs(afero.NewMemMapFs(), "/uploads", nil)
	h := svc.Handlers(cfg, Gateways{Stripe: noStripe{}, Wallet: noWallet{}}, bucket, tokens, nil)
	return New(h, tokens, Options{}, nil), tokens
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestRoleGate_PerArea(t *testing.T) {
	app, tokens := testApp(t)
	editor, _ := tokens.Issue(user.Profile{ID: "e1", Role: user.RoleEditor})
	manager, _ := tokens.Issue(user.Profile{ID: "u1", Role: user.RoleManager})
	admin, _ := tokens.Issue(user.Profile{ID: "a1", Role: user.RoleAdmin})

	cases := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"no token", "", "/api/v1/admin/orders", fiber.StatusUnauthorized},
		{"editor forbidden from orders", editor, "/api/v1/admin/orders", fiber.StatusForbidden},
		{"editor forbidden from products", editor, "/api/v1/admin/products", fiber.StatusForbidden},
		{"editor reaches content", editor, "/api/v1/admin/content/blog", fiber.StatusOK},
		{"editor reaches seo", editor, "/api/v1/admin/seo/global", fiber.StatusOK},
		{"manager reaches orders", manager, "/api/v1/admin/orders", fiber.StatusOK},
		{"manager reaches taxonomy", manager, "/api/v1/admin/taxonomy/rooms", fiber.StatusOK},
		{"manager forbidden from settings", manager, "/api/v1/admin/settings", fiber.StatusForbidden},
		{"manager forbidden from users", manager, "/api/v1/admin/users", fiber.StatusForbidden},
		{"admin reaches settings", admin, "/api/v1/admin/settings", fiber.StatusOK},
		{"admin reaches users", admin, "/api/v1/admin/users", fiber.StatusOK},
	}
	for _, tc := range cases {
		status, body := call(t, app, "GET", tc.path, tc.token, "")
		assert.Equal(t, tc.status, status, "%s: %s", tc.name, body)
	}
}

func TestSignInThenProfile(t *testing.T) {
	app, _ := testApp(t)

	status, body := call(t, app, "POST", "/api/v1/sign-in", "", `{"email":"gestor@milluces.com","password":"clave"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	start := strings.Index(body, `"token":"`) + len(`"token":"`)
	token := body[start : start+strings.Index(body[start:], `"`)]

	status, body = call(t, app, "GET", "/api/v1/profile", token, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "gestor@milluces.com")

	status, _ = call(t, app, "GET", "/api/v1/profile", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPublicRoutes(t *testing.T) {
	app, _ := testApp(t)

	status, body := call(t, app, "GET", "/api/v1/store/categories", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"fallback":true`)

	status, body = call(t, app, "GET", "/api/v1/seo?path=/", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"canonical":"https://milluces.com/"`)

	// payment endpoints keep their own CORS contract outside /api/v1
	req := httptest.NewRequest("OPTIONS", "/api/create-stripe-session", nil)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "POST, OPTIONS", res.Header.Get("Access-Control-Allow-Methods"))

	status, body = call(t, app, "POST", "/api/create-stripe-session", "", `{"items":[{"name":"x","price":1,"quantity":1}]}`)
	assert.Equal(t, fiber.StatusBadRequest, status, "stripe is not configured")
	assert.Contains(t, body, `"error"`)
}
