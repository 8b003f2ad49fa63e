package user

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func seededService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := NewInMemoryRepository([]Profile{
		{ID: "p-admin", Email: "admin@milluces.com", FullName: "Admin", PasswordHash: string(hash), Role: RoleAdmin, UserType: "persona"},
		{ID: "p-editor", Email: "editor@milluces.com", FullName: "Editor", Role: RoleEditor, UserType: "persona"},
	})
	return NewService(repo, nil)
}

// makeApp wires the real token middleware the way the server does.
func makeApp(svc *Service) (*fiber.App, *Tokens) {
	tokens := NewTokens(testSecret, time.Hour)
	h := NewHandler(svc, tokens)
	app := fiber.New()
	api := app.Group("/api/v1")
	h.RegisterPublicRoutes(api)
	api.Use("/profile", tokens.Middleware())
	h.RegisterProfileRoutes(api)
	admin := api.Group("/admin", tokens.Middleware())
	admin.Use("/users", RequireRole(AreaUsers))
	admin.Use("/orders", RequireRole(AreaOrders))
	h.RegisterAdminRoutes(admin)
	admin.Get("/orders", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app, tokens
}

func signIn(t *testing.T, app *fiber.App, email, password string) (*fiberResponse, int) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/sign-in", strings.NewReader(`{"email":"`+email+`","password":"`+password+`"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("sign-in request: %v", err)
	}
	var body fiberResponse
	b, _ := io.ReadAll(res.Body)
	_ = json.Unmarshal(b, &body)
	return &body, res.StatusCode
}

type fiberResponse struct {
	Token   string          `json:"token"`
	Profile json.RawMessage `json:"profile"`
	Message string          `json:"message"`
}

func TestSignIn_IssuesTokenWithRole(t *testing.T) {
	app, _ := makeApp(seededService(t))

	body, status := signIn(t, app, "ADMIN@milluces.com", "s3cret")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if strings.Contains(string(body.Profile), "password") {
		t.Fatalf("profile must not expose password fields: %s", body.Profile)
	}

	tok, err := jwt.Parse(body.Token, func(*jwt.Token) (any, error) { return []byte(testSecret), nil })
	if err != nil || !tok.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["sub"] != "p-admin" || claims["role"] != "admin" {
		t.Fatalf("unexpected claims %v", claims)
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("token has no exp")
	}
}

func TestSignIn_Rejections(t *testing.T) {
	app, _ := makeApp(seededService(t))

	if _, status := signIn(t, app, "admin@milluces.com", "wrong"); status != fiber.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", status)
	}
	if _, status := signIn(t, app, "nobody@milluces.com", "s3cret"); status != fiber.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", status)
	}
	// profiles without a password cannot sign in
	if _, status := signIn(t, app, "editor@milluces.com", ""); status != fiber.StatusUnauthorized {
		t.Fatalf("no password: expected 401, got %d", status)
	}
}

func TestProfileRoute_RequiresToken(t *testing.T) {
	app, tokens := makeApp(seededService(t))

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/profile", nil))
	if err != nil {
		t.Fatalf("profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", res.StatusCode)
	}

	signed, _ := tokens.Issue(Profile{ID: "p-editor", Role: RoleEditor})
	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("authorized profile request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "editor@milluces.com") {
		t.Fatalf("unexpected body %s", b)
	}
}

func TestRoleGate(t *testing.T) {
	app, tokens := makeApp(seededService(t))
	editor, _ := tokens.Issue(Profile{ID: "p-editor", Role: RoleEditor})
	admin, _ := tokens.Issue(Profile{ID: "p-admin", Role: RoleAdmin})

	cases := []struct {
		name   string
		token  string
		path   string
		status int
	}{
		{"editor forbidden from orders", editor, "/api/v1/admin/orders", fiber.StatusForbidden},
		{"editor forbidden from users", editor, "/api/v1/admin/users", fiber.StatusForbidden},
		{"admin reaches orders", admin, "/api/v1/admin/orders", fiber.StatusOK},
		{"admin reaches users", admin, "/api/v1/admin/users", fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest("GET", tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+tc.token)
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if res.StatusCode != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, res.StatusCode)
		}
	}
}

func TestRoleMatrix(t *testing.T) {
	if !RoleManager.Allows(AreaCatalog) || RoleManager.Allows(AreaSettings) || RoleManager.Allows(AreaSEO) {
		t.Fatalf("manager matrix wrong")
	}
	if !RoleEditor.Allows(AreaSEO) || RoleEditor.Allows(AreaCatalog) || RoleEditor.Allows(AreaUsers) {
		t.Fatalf("editor matrix wrong")
	}
	if Role("owner").Allows(AreaContent) {
		t.Fatalf("unknown role must not be allowed anywhere")
	}
}

func TestUpdate_KeepsHashUnlessPasswordGiven(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	if _, err := svc.Update(ctx, "p-admin", Profile{FullName: "Root", Email: "admin@milluces.com", Role: RoleAdmin}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "admin@milluces.com", "s3cret"); err != nil {
		t.Fatalf("old password should still work: %v", err)
	}

	if _, err := svc.Update(ctx, "p-admin", Profile{Email: "admin@milluces.com", Role: RoleAdmin, Password: "nueva"}); err != nil {
		t.Fatalf("update password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "admin@milluces.com", "nueva"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestCreate_DuplicateEmailIs409(t *testing.T) {
	app, tokens := makeApp(seededService(t))
	admin, _ := tokens.Issue(Profile{ID: "p-admin", Role: RoleAdmin})

	req := httptest.NewRequest("POST", "/api/v1/admin/users", strings.NewReader(`{"email":"editor@milluces.com","role":"manager"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+admin)
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", res.StatusCode)
	}
}

func TestImportExport(t *testing.T) {
	svc := seededService(t)
	ctx := context.Background()

	in := "ID,Nombre,Email,Rol,Tipo,Empresa,CIF/NIF,Descuento\n" +
		"p-editor,,,manager,,,,\n" +
		",Taller Sur,taller@sur.es,editor,profesional,Taller Sur SL,b1234,\"12,5\"\n" +
		",Sin rol,x@y.es,owner,,,,\n"
	rep, err := svc.Import(ctx, strings.NewReader(in))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if rep.Updated != 1 || rep.Inserted != 1 || rep.Failed != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}

	var out strings.Builder
	if err := svc.Export(ctx, &out); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != "ID,Nombre,Email,Rol,Tipo,Empresa,CIF/NIF,Descuento" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(out.String(), "p-editor,Editor,editor@milluces.com,manager,persona,,,0.00") {
		t.Fatalf("editor row not updated: %s", out.String())
	}
	if !strings.Contains(out.String(), ",Taller Sur,taller@sur.es,editor,profesional,Taller Sur SL,B1234,12.50") {
		t.Fatalf("imported row missing: %s", out.String())
	}
}
