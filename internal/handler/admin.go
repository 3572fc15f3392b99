package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ecocollect/platform/internal/model"
	"github.com/ecocollect/platform/internal/queue"
	"github.com/ecocollect/platform/internal/repository"
	publisher "github.com/ecocollect/platform/internal/service"
)

// AdminHandler groups repositories for the administration panel: fleet
// stats, report triage, task dispatch, bin state and the waste guide.
type AdminHandler struct {
	Users   *repository.UserRepo
	Reports *repository.ReportRepo
	Tasks   *repository.TaskRepo
	Bins    *repository.BinRepo
	Notifs  *repository.NotificationRepo
	Guide   *repository.WasteGuideRepo
}

// NewAdminHandler constructs an AdminHandler; all dependencies must be
// non-nil.
func NewAdminHandler(users *repository.UserRepo, reports *repository.ReportRepo, tasks *repository.TaskRepo, bins *repository.BinRepo, notifs *repository.NotificationRepo, guide *repository.WasteGuideRepo) *AdminHandler {
	if users == nil || reports == nil || tasks == nil || bins == nil || notifs == nil || guide == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Users: users, Reports: reports, Tasks: tasks, Bins: bins, Notifs: notifs, Guide: guide}
}

// Stats handles GET /v1/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	totalUsers, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}
	totalReports, err := h.Reports.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}
	totalBins, err := h.Bins.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}
	pendingTasks, err := h.Tasks.CountByStatus(ctx, model.TaskPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}
	fleetMembers, err := h.Users.CountByRole(ctx, model.RoleCollector)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_users":   totalUsers,
		"total_reports": totalReports,
		"total_bins":    totalBins,
		"pending_tasks": pendingTasks,
		"fleet_members": fleetMembers,
	})
}

// ListReports handles GET /v1/admin/reports: all reports with submitter
// names, newest first.
func (h *AdminHandler) ListReports(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	reports, err := h.Reports.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load reports"})
	}
	items := make([]echo.Map, 0, len(reports))
	for _, r := range reports {
		items = append(items, echo.Map{
			"id":          r.ID,
			"user_id":     r.UserID,
			"submitter":   r.SubmitterName,
			"type":        r.Type,
			"description": r.Description,
			"location":    r.Location,
			"image_url":   r.ImageURL,
			"status":      r.Status,
			"created_at":  r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type reportStatusReq struct {
	Status string `json:"status"`
}

// UpdateReportStatus handles PATCH /v1/admin/reports/:id/status. Only the
// two terminal states are accepted. The status write and the notification
// to the report's owner commit together; the broker event is published
// after the commit and is best-effort.
func (h *AdminHandler) UpdateReportStatus(c echo.Context) error {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reportID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}
	var req reportStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.TrimSpace(req.Status)
	if status != model.ReportResolved && status != model.ReportDismissed {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tx, err := h.Reports.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update report status"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rep, err := h.Reports.UpdateStatusTx(ctx, tx, reportID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "report not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update report status"})
	}
	notifType := model.NotifInfo
	if status == model.ReportResolved {
		notifType = model.NotifSuccess
	}
	msg := fmt.Sprintf("The status of your report #%d has been updated to %s.", rep.ID, status)
	if err := h.Notifs.CreateTx(ctx, tx, rep.UserID, "Report Update", msg, notifType); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update report status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update report status"})
	}
	committed = true

	// Best-effort broker event for downstream consumers; failures are
	// logged inside the publisher and never fail the request.
	_ = publisher.PublishReportResolved(ctx, queue.ReportResolvedEvent{
		ReportID:   rep.ID,
		UserID:     rep.UserID,
		Type:       rep.Type,
		Location:   rep.Location,
		Status:     rep.Status,
		ResolvedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"report": rep})
}

type createTaskReq struct {
	Address     string `json:"address"`
	Type        string `json:"type"`
	Bins        string `json:"bins"`
	Time        string `json:"time"`
	CollectorID uint64 `json:"collector_id"`
}

// CreateTask handles POST /v1/admin/tasks. An unparseable bin count
// defaults to 1 and a missing time window to the standard morning slot.
func (h *AdminHandler) CreateTask(c echo.Context) error {
	var req createTaskReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Address = strings.TrimSpace(req.Address)
	req.Type = strings.TrimSpace(req.Type)
	if req.Address == "" || req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "address and type are required"})
	}
	bins, err := strconv.Atoi(strings.TrimSpace(req.Bins))
	if err != nil || bins < 1 {
		bins = 1
	}
	timeWindow := strings.TrimSpace(req.Time)
	if timeWindow == "" {
		timeWindow = model.DefaultTimeWindow
	}

	task := &model.Task{
		Address:    req.Address,
		Type:       req.Type,
		Bins:       bins,
		TimeWindow: timeWindow,
	}
	if req.CollectorID != 0 {
		cid := req.CollectorID
		task.CollectorID = &cid
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tasks.Create(ctx, task); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create task"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"task": task})
}

// ListTasks handles GET /v1/admin/tasks: all tasks with collector names.
func (h *AdminHandler) ListTasks(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	tasks, err := h.Tasks.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load tasks"})
	}
	items := make([]echo.Map, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, echo.Map{
			"id":          t.ID,
			"address":     t.Address,
			"type":        t.Type,
			"status":      t.Status,
			"bins":        t.Bins,
			"time_window": t.TimeWindow,
			"collector":   t.CollectorName,
			"created_at":  t.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type updateBinReq struct {
	FillLevel int    `json:"fill_level"`
	Status    string `json:"status"`
}

// UpdateBin handles PATCH /v1/admin/bins/:id.
func (h *AdminHandler) UpdateBin(c echo.Context) error {
	binID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || binID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid bin id"})
	}
	var req updateBinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Status) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Bins.UpdateState(ctx, binID, req.FillLevel, req.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bin not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update bin"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCollectors handles GET /v1/admin/collectors.
func (h *AdminHandler) ListCollectors(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	collectors, err := h.Users.ListCollectors(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load collectors"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": collectors})
}

type wasteGuideReq struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Instructions string `json:"instructions"`
}

// UpsertWasteGuide handles PUT /v1/admin/waste-guide and
// PUT /v1/admin/waste-guide/:id.
func (h *AdminHandler) UpsertWasteGuide(c echo.Context) error {
	var id uint64
	if raw := c.Param("id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guide id"})
		}
		id = parsed
	}
	var req wasteGuideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item := &model.WasteGuideItem{ID: id, Name: req.Name, Category: req.Category, Instructions: req.Instructions}
	if err := h.Guide.Upsert(ctx, item); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to sync waste guide"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": item})
}
