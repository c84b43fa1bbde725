package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/russellmoss/dashboard-api/internal/domain/access"
	apphttp "github.com/russellmoss/dashboard-api/internal/interfaces/http"
	pkgjwt "github.com/russellmoss/dashboard-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "advisory-dashboard-test"
	testExpMin    = 60
)

// buildTestApp aplicación Fiber mínima: AuthMiddleware + el guard indicado +
// un handler dummy que devuelve el rol resuelto.
func buildTestApp(guard fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.AuthMiddleware(testJWTSecret)}
	if guard != nil {
		handlers = append(handlers, guard)
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		p, _ := apphttp.GetPermissions(c)
		return c.JSON(fiber.Map{"ok": true, "role": p.Role.String()})
	})
	app.Get("/protected", handlers...)
	return app
}

// tokenFor genera un JWT para el rol, con el filtro personal que el rol exige.
func tokenFor(t *testing.T, role string) string {
	t.Helper()
	d := pkgjwt.Descriptor{UserID: "u-1", Email: "user@example.com", Role: role}
	switch role {
	case "sga":
		d.SGAFilter = "Jane Doe"
	case "sgm":
		d.SGMFilter = "Casey Morgan"
	case "recruiter":
		d.RecruiterFilter = "Alex Reed"
	}
	tok, err := pkgjwt.Generate(testJWTSecret, d, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware — resolución del principal
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoResuelvePermissions(t *testing.T) {
	app := buildTestApp(nil)
	resp := doRequest(t, app, tokenFor(t, "manager"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "manager", body["role"])
}

func TestAuthMiddleware_SinHeaderRetorna401(t *testing.T) {
	app := buildTestApp(nil)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenMalformadoRetorna401(t *testing.T) {
	app := buildTestApp(nil)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Un token firmado pero con rol fuera del conjunto cerrado es 401, no 403 ni
// degradación a viewer.
func TestAuthMiddleware_RolDesconocidoRetorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret,
		pkgjwt.Descriptor{UserID: "u-1", Email: "user@example.com", Role: "superadmin"},
		testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp(nil)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_SESSION")
}

// Rol con filtro obligatorio sin filtro en el token → sesión inválida (401).
func TestAuthMiddleware_SGASinFiltroRetorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret,
		pkgjwt.Descriptor{UserID: "u-1", Email: "sga@example.com", Role: "sga"},
		testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp(nil)
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guards de página y rol
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePage_RecruiterBloqueadoEnAnalitica(t *testing.T) {
	app := buildTestApp(apphttp.RequirePage(access.PageDashboard))
	resp := doRequest(t, app, tokenFor(t, "recruiter"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequirePage_ManagerAccedeAlDashboard(t *testing.T) {
	app := buildTestApp(apphttp.RequirePage(access.PageDashboard))
	resp := doRequest(t, app, tokenFor(t, "manager"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForbidRole_CapitalPartnerVetado(t *testing.T) {
	app := buildTestApp(apphttp.ForbidRole(access.RoleCapitalPartner, access.RoleViewer))
	resp := doRequest(t, app, tokenFor(t, "capital_partner"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, tokenFor(t, "manager"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireAnyRole_SoloAdmins(t *testing.T) {
	app := buildTestApp(apphttp.RequireAnyRole(access.RoleAdmin, access.RoleRevOpsAdmin))
	resp := doRequest(t, app, tokenFor(t, "viewer"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, tokenFor(t, "revops_admin"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// SchedulerAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestSchedulerAuth_SecretCorrecto(t *testing.T) {
	app := fiber.New()
	app.Post("/tick", apphttp.SchedulerAuth("tick-secret"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/tick", nil)
	req.Header.Set("X-Scheduler-Secret", "tick-secret")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSchedulerAuth_SecretIncorrectoOAusente(t *testing.T) {
	app := fiber.New()
	app.Post("/tick", apphttp.SchedulerAuth("tick-secret"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	for _, secret := range []string{"", "otro"} {
		req := httptest.NewRequest(http.MethodPost, "/tick", nil)
		if secret != "" {
			req.Header.Set("X-Scheduler-Secret", secret)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp.Body.Close()
	}
}

// Un secret vacío en el servidor desactiva el endpoint por completo.
func TestSchedulerAuth_SecretVacioEnServidorRechazaTodo(t *testing.T) {
	app := fiber.New()
	app.Post("/tick", apphttp.SchedulerAuth(""), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	req := httptest.NewRequest(http.MethodPost, "/tick", nil)
	req.Header.Set("X-Scheduler-Secret", "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
