package middleware

import (
	"docflow-backend/config"
	authutils "docflow-backend/lib/utils/auth-utils"
	"docflow-backend/models"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	conf := new(config.Configuration)
	conf.Auth.JWTSecret = "test-secret"
	config.Conf = conf
	t.Cleanup(func() { config.Conf = nil })

	app := fiber.New()
	app.Use(AuthorizationRequired())
	app.Get("/whoami", func(ctx *fiber.Ctx) error {
		return ctx.SendString(GetUserID(ctx) + "|" + GetOrganizationID(ctx) + "|" + string(GetRole(ctx)))
	})
	app.Post("/admin", AdminRequired(), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(fiber.StatusOK)
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthorizationRequired(t *testing.T) {
	app := newTestApp(t)

	t.Run("без токена", func(t *testing.T) {
		status, _ := doRequest(t, app, fiber.MethodGet, "/whoami", "")
		require.Equal(t, fiber.StatusUnauthorized, status)
	})
	t.Run("токен с чужой подписью", func(t *testing.T) {
		config.Conf.Auth.JWTSecret = "other"
		token, err := authutils.GetToken("u1", "org1", models.EmployeeRole, time.Hour)
		require.NoError(t, err)
		config.Conf.Auth.JWTSecret = "test-secret"
		status, _ := doRequest(t, app, fiber.MethodGet, "/whoami", token)
		require.Equal(t, fiber.StatusUnauthorized, status)
	})
	t.Run("токен без пользователя", func(t *testing.T) {
		token, err := authutils.GetToken("", "org1", models.EmployeeRole, time.Hour)
		require.NoError(t, err)
		status, _ := doRequest(t, app, fiber.MethodGet, "/whoami", token)
		require.Equal(t, fiber.StatusUnauthorized, status)
	})
	t.Run("данные из токена", func(t *testing.T) {
		token, err := authutils.GetToken("u1", "org1", models.EmployeeRole, time.Hour)
		require.NoError(t, err)
		status, body := doRequest(t, app, fiber.MethodGet, "/whoami", token)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "u1|org1|EMPLOYEE", body)
	})
}

func TestAdminRequired(t *testing.T) {
	app := newTestApp(t)

	token, err := authutils.GetToken("u1", "org1", models.EmployeeRole, time.Hour)
	require.NoError(t, err)
	status, _ := doRequest(t, app, fiber.MethodPost, "/admin", token)
	require.Equal(t, fiber.StatusForbidden, status)

	token, err = authutils.GetToken("u2", "org1", models.AdminRole, time.Hour)
	require.NoError(t, err)
	status, _ = doRequest(t, app, fiber.MethodPost, "/admin", token)
	require.Equal(t, fiber.StatusOK, status)
}

func TestWithBodyLimit(t *testing.T) {
	app := fiber.New()
	app.Use(WithBodyLimit(10))
	app.Post("/documents", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })
	app.Post("/documents/:id/versions", func(ctx *fiber.Ctx) error { return ctx.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(fiber.MethodPost, "/documents", strings.NewReader(strings.Repeat("a", 100)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodPost, "/documents/d1/versions", strings.NewReader(strings.Repeat("a", 100)))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
