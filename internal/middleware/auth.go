package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/ecocollect/platform/internal/utils" // session token verification
)

// SessionCookieName is the cookie carrying the signed session token. The
// token is also accepted as a Bearer Authorization header for API clients.
const SessionCookieName = "session"

// SessionAuth returns an Echo middleware that resolves the caller's session.
// It looks for a Bearer token first and falls back to the session cookie,
// verifies the token (failing closed) and injects the claims into the
// request context under "user_id", "role" and "name". Requests without a
// valid session receive 401 with a uniform message.
func SessionAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := ""
            if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
                raw = strings.TrimPrefix(auth, "Bearer ")
            } else if ck, err := c.Cookie(SessionCookieName); err == nil {
                raw = ck.Value
            }
            if raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            claims := utils.VerifySessionToken(secret, raw)
            if claims == nil {
                // Bad signature, expired or malformed: same answer for all.
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
            }
            c.Set("user_id", claims.UserID)
            c.Set("role", claims.Role)
            c.Set("name", claims.Name)
            return next(c)
        }
    }
}
