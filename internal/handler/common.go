package handler // handler defines http handlers

import (
    "context" // request-scoped timeouts for DB calls
    "errors"  // sentinel values used in getUserID
    "time"    // timeout durations

    "github.com/labstack/echo/v4" // echo defines request context types
)

// dbTimeout bounds every database round trip issued from a handler.
const dbTimeout = 5 * time.Second

// getUserID extracts the authenticated user's ID placed in context by the
// session middleware.
func getUserID(c echo.Context) (uint64, error) {
    if v, ok := c.Get("user_id").(uint64); ok && v > 0 {
        return v, nil
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole extracts the authenticated user's role from context.
func getRole(c echo.Context) string {
    if v, ok := c.Get("role").(string); ok {
        return v
    }
    return ""
}

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}
