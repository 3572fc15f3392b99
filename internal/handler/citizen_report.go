package handler

import (
    "fmt"          // notification message formatting
    "net/http"     // HTTP status codes
    "strings"      // input trimming
    "unicode/utf8" // character-based length limits

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/ecocollect/platform/internal/model"      // report model and constants
    "github.com/ecocollect/platform/internal/repository" // repository layer
)

// Points awarded for a citizen field report.
const reportRewardPoints = 50

// CitizenHandler groups repositories for citizen dashboard operations:
// submitting reports, reading stats and the public pickup schedule. All
// methods assume session and role middleware already ran.
type CitizenHandler struct {
	Reports *repository.ReportRepo
	Users   *repository.UserRepo
	Notifs  *repository.NotificationRepo
	Tasks   *repository.TaskRepo
}

// NewCitizenHandler constructs a CitizenHandler; all dependencies must be
// non-nil.
func NewCitizenHandler(reports *repository.ReportRepo, users *repository.UserRepo, notifs *repository.NotificationRepo, tasks *repository.TaskRepo) *CitizenHandler {
	if reports == nil || users == nil || notifs == nil || tasks == nil {
		panic("nil repository passed to NewCitizenHandler")
	}
	return &CitizenHandler{Reports: reports, Users: users, Notifs: notifs, Tasks: tasks}
}

type submitReportReq struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
}

// SubmitReport handles POST /v1/reports. It validates lengths before
// touching the database, then creates the report, awards the fixed points
// reward and appends the submission notification in one transaction, so a
// report row can never exist without its points and vice versa.
func (h *CitizenHandler) SubmitReport(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req submitReportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type is required"})
	}
	// Limits count characters, not bytes, so multi-byte input is not
	// penalized and truncation never splits a rune.
	if utf8.RuneCountInString(req.Type) > 50 {
		req.Type = string([]rune(req.Type)[:50])
	}
	if utf8.RuneCountInString(req.Description) > 1000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Description too long."})
	}
	if utf8.RuneCountInString(req.Location) > 200 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Location too long."})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Reports.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to submit report"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rep := &model.Report{
		UserID:      userID,
		Type:        req.Type,
		Description: req.Description,
		Location:    req.Location,
	}
	if img := strings.TrimSpace(req.ImageURL); img != "" {
		rep.ImageURL = &img
	}
	if err := h.Reports.CreateTx(ctx, tx, rep); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to submit report"})
	}
	if err := h.Users.AdjustPointsTx(ctx, tx, userID, reportRewardPoints); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to submit report"})
	}
	msg := fmt.Sprintf("Your %s report has been successfully filed in %s.", rep.Type, rep.Location)
	if err := h.Notifs.CreateTx(ctx, tx, userID, "Report Submitted", msg, model.NotifSuccess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to submit report"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to submit report"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"report":         rep,
		"points_awarded": reportRewardPoints,
	})
}

// ListReports handles GET /v1/reports: the caller's own reports, newest
// first.
func (h *CitizenHandler) ListReports(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	reports, err := h.Reports.ListByUser(ctx, userID, 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load reports"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": reports})
}

// Stats handles GET /v1/stats: current points balance plus the five most
// recent reports.
func (h *CitizenHandler) Stats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	points, err := h.Users.Points(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}
	reports, err := h.Reports.ListByUser(ctx, userID, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"points": points, "reports": reports})
}

// Pickups handles GET /v1/pickups: the general upcoming mission schedule.
// Deliberately not scoped to the caller's address.
func (h *CitizenHandler) Pickups(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	tasks, err := h.Tasks.ListUpcoming(ctx, 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tasks})
}
