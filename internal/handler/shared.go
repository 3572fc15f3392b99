package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecocollect/platform/internal/model"
	"github.com/ecocollect/platform/internal/repository"
)

// SharedHandler serves the endpoints available to every authenticated
// role: notifications, the in-app message board and the waste guide.
type SharedHandler struct {
	Notifs   *repository.NotificationRepo
	Messages *repository.MessageRepo
	Guide    *repository.WasteGuideRepo
}

// NewSharedHandler constructs a SharedHandler; all dependencies must be
// non-nil.
func NewSharedHandler(notifs *repository.NotificationRepo, messages *repository.MessageRepo, guide *repository.WasteGuideRepo) *SharedHandler {
	if notifs == nil || messages == nil || guide == nil {
		panic("nil repository passed to NewSharedHandler")
	}
	return &SharedHandler{Notifs: notifs, Messages: messages, Guide: guide}
}

// ListNotifications handles GET /v1/notifications: the caller's ten most
// recent notifications, newest first.
func (h *SharedHandler) ListNotifications(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	notifs, err := h.Notifs.ListFor(ctx, userID, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load notifications"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": notifs})
}

// MarkNotificationRead handles PATCH /v1/notifications/:id/read. Only the
// notification's owner may mark it; re-marking an already read one is a
// no-op success.
func (h *SharedHandler) MarkNotificationRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	notifID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || notifID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notifs.MarkRead(ctx, notifID, userID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update notification"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMessages handles GET /v1/messages: the caller's conversation thread,
// oldest first.
func (h *SharedHandler) GetMessages(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	msgs, err := h.Messages.ListFor(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load messages"})
	}
	items := make([]echo.Map, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, echo.Map{
			"id":          m.ID,
			"sender_id":   m.SenderID,
			"sender":      m.SenderName,
			"receiver_id": m.ReceiverID,
			"content":     m.Content,
			"created_at":  m.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type sendMessageReq struct {
	ReceiverID uint64 `json:"receiver_id"`
	Content    string `json:"content"`
}

// SendMessage handles POST /v1/messages. A zero receiver means the
// message goes to the shared admin inbox.
func (h *SharedHandler) SendMessage(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}
	if len(req.Content) > 2000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Message too long."})
	}
	var receiver *uint64
	if req.ReceiverID != 0 {
		rid := req.ReceiverID
		receiver = &rid
	} else if getRole(c) == model.RoleAdmin {
		// a nil receiver routes to the admin inbox; an admin reply
		// must address a specific user instead
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "receiver_id is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Messages.Create(ctx, userID, receiver, req.Content); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to send message"})
	}
	return c.NoContent(http.StatusCreated)
}

// ListWasteGuide handles GET /v1/waste-guide.
func (h *SharedHandler) ListWasteGuide(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Guide.List(ctx, 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load waste guide"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// SearchWasteGuide handles GET /v1/waste-guide/search?q=... and returns
// up to five matches.
func (h *SharedHandler) SearchWasteGuide(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("q"))
	if query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "q is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Guide.Search(ctx, query)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to search waste guide"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
