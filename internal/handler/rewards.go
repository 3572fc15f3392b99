package handler

import (
    "database/sql" // sentinel errors from the repository layer
    "errors"       // errors.Is comparisons
    "fmt"          // notification message formatting
    "net/http"     // HTTP status codes
    "strconv"      // parsing path parameters
    "strings"      // input trimming

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/ecocollect/platform/internal/model"      // notification constants
    "github.com/ecocollect/platform/internal/repository" // repository layer
)

// maxSelfAward caps a single self-service points award. The scanner flow
// reports a client-side classification result that the server cannot
// corroborate, so the exposure per call is bounded.
const maxSelfAward = 500

// RewardsHandler serves the rewards catalog, the redemption transaction and
// self-service points awards.
type RewardsHandler struct {
	Rewards *repository.RewardRepo
	Users   *repository.UserRepo
	Notifs  *repository.NotificationRepo
}

// NewRewardsHandler constructs a RewardsHandler; all dependencies must be
// non-nil.
func NewRewardsHandler(rewards *repository.RewardRepo, users *repository.UserRepo, notifs *repository.NotificationRepo) *RewardsHandler {
	if rewards == nil || users == nil || notifs == nil {
		panic("nil repository passed to NewRewardsHandler")
	}
	return &RewardsHandler{Rewards: rewards, Users: users, Notifs: notifs}
}

// Catalog handles GET /v1/rewards. Public and cacheable.
func (h *RewardsHandler) Catalog(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Rewards.ListCatalog(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load rewards"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Redeem handles POST /v1/rewards/:id/redeem. The repository runs the whole
// redemption as one transaction; this handler only translates outcomes:
// missing reward 404, insufficient points 409, success 201 with the minted
// code.
func (h *RewardsHandler) Redeem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rewardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rewardID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reward id"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	red, reward, err := h.Rewards.Redeem(ctx, userID, rewardID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Invalid user or reward"})
		case errors.Is(err, repository.ErrInsufficientPoints):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Insufficient points"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to redeem reward"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"redemption_id": red.ID,
		"code":          red.Code,
		"reward":        reward.Title,
		"points_spent":  reward.PointsCost,
	})
}

// Redemptions handles GET /v1/redemptions: the caller's redemption history,
// newest first.
func (h *RewardsHandler) Redemptions(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Rewards.ListRedemptions(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load redemptions"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type awardPointsReq struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// AwardPoints handles POST /v1/points/award: the scanner's self-service
// award. The increment is atomic at the storage layer so two concurrent
// awards both land.
func (h *RewardsHandler) AwardPoints(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req awardPointsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Amount <= 0 || req.Amount > maxSelfAward {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid amount"})
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.AdjustPoints(ctx, userID, req.Amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to award points"})
	}
	msg := fmt.Sprintf("You earned %d points for %s.", req.Amount, req.Reason)
	if err := h.Notifs.Create(ctx, userID, "Points Earned!", msg, model.NotifSuccess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to award points"})
	}

	points, err := h.Users.Points(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to award points"})
	}
	return c.JSON(http.StatusOK, echo.Map{"points": points})
}
