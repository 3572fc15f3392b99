package handler

import (
    "database/sql" // sentinel errors from the repository layer
    "errors"       // errors.Is comparisons
    "net/http"     // HTTP status codes
    "strings"      // input normalization
    "time"         // cookie expiry

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/ecocollect/platform/internal/config"     // app configuration
    "github.com/ecocollect/platform/internal/middleware" // session cookie name
    "github.com/ecocollect/platform/internal/model"      // role constants
    "github.com/ecocollect/platform/internal/repository" // DB repositories
    "github.com/ecocollect/platform/internal/utils"      // hashing, tokens, role policy
)

// AuthHandler bundles dependencies for registration, login and session
// endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"` // citizen | collector; admin is rejected
	VehicleType    string `json:"vehicle_type"`
	Specialization string `json:"specialization"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Points int64  `json:"points"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Register creates a user and opens a session immediately. Role policy:
// requesting admin is a hard error, anything outside {citizen, collector}
// silently becomes citizen. Collector metadata is only persisted for
// collectors.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please fill in all fields."})
	}
	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Password must be at least 8 characters long."})
	}
	role, err := utils.NormalizeRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	}

	var vehicleType, specialization *string
	if role == model.RoleCollector {
		if v := strings.TrimSpace(req.VehicleType); v != "" {
			vehicleType = &v
		}
		if s := strings.TrimSpace(req.Specialization); s != "" {
			specialization = &s
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, role, vehicleType, specialization, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "User already exists."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong."})
	}

	token, err := utils.NewSessionToken(h.Cfg.SessionSecret, uid, role, req.Name, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong."})
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusCreated, authResp{
		User:    userPart{ID: uid, Name: req.Name, Email: req.Email, Role: role, Points: 0},
		Token:   token.Token,
		Expires: token.Exp,
	})
}

// Login verifies credentials and opens a session. A missing user and a
// wrong password produce the same generic error so the endpoint does not
// disclose which emails exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please enter email and password."})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong."})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials."})
	}

	token, err := utils.NewSessionToken(h.Cfg.SessionSecret, u.ID, u.Role, u.Name, h.Cfg.SessionTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong."})
	}
	h.setSessionCookie(c, token)

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Points: u.Points},
		Token:   token.Token,
		Expires: token.Exp,
	})
}

// Logout clears the session cookie. Logging out twice is not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's full profile, password hash excluded.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong."})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"role":           u.Role,
		"points":         u.Points,
		"vehicle_type":   u.VehicleType,
		"specialization": u.Specialization,
	})
}

func (h *AuthHandler) setSessionCookie(c echo.Context, token utils.SessionToken) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token.Token,
		Path:     "/",
		Expires:  token.Exp,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}
