package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedAdminToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminTestServer(t *testing.T, secret string) *echo.Echo {
	t.Helper()
	mw, err := AdminJWT(secret, "")
	require.NoError(t, err)

	e := echo.New()
	admin := e.Group("/v1/admin")
	admin.Use(mw)
	admin.GET("/licenses", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e
}

func TestAdminJWT_ValidToken(t *testing.T) {
	e := adminTestServer(t, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/licenses", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signedAdminToken(t, "test-secret"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminJWT_MissingToken(t *testing.T) {
	e := adminTestServer(t, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/licenses", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminJWT_WrongSecret(t *testing.T) {
	e := adminTestServer(t, "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/licenses", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signedAdminToken(t, "other-secret"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWT_NoSecretConfigured(t *testing.T) {
	_, err := AdminJWT("", "")

	assert.Error(t, err)
}
