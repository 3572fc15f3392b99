package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocollect/platform/internal/utils"
)

const testSecret = "middleware-test-secret"

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func runSession(t *testing.T, prepare func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if prepare != nil {
		prepare(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := SessionAuth(testSecret)(okHandler)(c)
	require.NoError(t, err)
	return rec
}

func TestSessionAuthAcceptsBearerToken(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 42, "citizen", "Sam", 7)
	require.NoError(t, err)

	rec := runSession(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionAuthAcceptsCookie(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 42, "citizen", "Sam", 7)
	require.NoError(t, err)

	rec := runSession(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok.Token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionAuthRejectsBadSessions(t *testing.T) {
	t.Run("no credentials", func(t *testing.T) {
		rec := runSession(t, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("tampered token", func(t *testing.T) {
		tok, err := utils.NewSessionToken("some-other-secret", 42, "citizen", "Sam", 7)
		require.NoError(t, err)
		rec := runSession(t, func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+tok.Token)
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSessionAuthInjectsClaims(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 42, "collector", "Riley", 7)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	inner := func(c echo.Context) error {
		assert.Equal(t, uint64(42), c.Get("user_id"))
		assert.Equal(t, "collector", c.Get("role"))
		assert.Equal(t, "Riley", c.Get("name"))
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, SessionAuth(testSecret)(inner)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	run := func(role any, allowed ...string) int {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		if err := RequireRole(allowed...)(okHandler)(c); err != nil {
			return http.StatusInternalServerError
		}
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run("admin", "admin"))
	assert.Equal(t, http.StatusOK, run("collector", "collector", "admin"))
	assert.Equal(t, http.StatusForbidden, run("citizen", "admin"))
	assert.Equal(t, http.StatusForbidden, run(nil, "admin"))
	assert.Equal(t, http.StatusForbidden, run(123, "admin"))
}

func TestRequireRoleDenialBodyIsUniform(t *testing.T) {
	// Wrong role and missing claim produce the exact same response, so a
	// caller cannot tell which rule rejected it.
	bodies := make(map[string]bool)
	for _, role := range []any{"citizen", nil} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		require.NoError(t, RequireRole("admin")(okHandler)(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unauthorized")
		bodies[rec.Body.String()] = true
	}
	assert.Len(t, bodies, 1)
}
