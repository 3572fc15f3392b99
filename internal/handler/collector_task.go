package handler

import (
    "database/sql" // sentinel errors from the repository layer
    "errors"       // errors.Is comparisons
    "fmt"          // issue description formatting
    "net/http"     // HTTP status codes
    "strconv"      // parsing path parameters
    "strings"      // input trimming
    "unicode/utf8" // character-based length limits

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/ecocollect/platform/internal/model"      // task and report constants
    "github.com/ecocollect/platform/internal/repository" // repository layer
)

// CollectorHandler groups repositories for the collector dashboard: the
// task queue with claim-on-update semantics, issue reports and the bin map.
type CollectorHandler struct {
	Tasks   *repository.TaskRepo
	Reports *repository.ReportRepo
	Bins    *repository.BinRepo
}

// NewCollectorHandler constructs a CollectorHandler; all dependencies must
// be non-nil.
func NewCollectorHandler(tasks *repository.TaskRepo, reports *repository.ReportRepo, bins *repository.BinRepo) *CollectorHandler {
	if tasks == nil || reports == nil || bins == nil {
		panic("nil repository passed to NewCollectorHandler")
	}
	return &CollectorHandler{Tasks: tasks, Reports: reports, Bins: bins}
}

// ListTasks handles GET /v1/tasks: tasks that are unclaimed or already
// claimed by the calling collector, newest first.
func (h *CollectorHandler) ListTasks(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	tasks, err := h.Tasks.ListForCollector(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load tasks"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tasks})
}

type taskStatusReq struct {
	Status string `json:"status"`
}

// UpdateTaskStatus handles PATCH /v1/tasks/:id/status. Updating the status
// also claims the task; the claim precondition is enforced inside the
// UPDATE itself, so when two collectors race for the same unclaimed task
// exactly one wins and the other gets 409.
func (h *CollectorHandler) UpdateTaskStatus(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || taskID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid task id"})
	}
	var req taskStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := strings.TrimSpace(req.Status)
	if status != model.TaskPending && status != model.TaskInProgress && status != model.TaskCompleted {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	task, err := h.Tasks.ClaimAndUpdateStatus(ctx, taskID, userID, status)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "task not found"})
		case errors.Is(err, repository.ErrTaskClaimed):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Task already claimed"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update task"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"task": task})
}

type reportIssueReq struct {
	TaskID      uint64 `json:"task_id"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ReportIssue handles POST /v1/issues: a collector files an operational
// issue about a task. Unlike the citizen path there is no points reward and
// no notification; the report type carries the issue marker so admins can
// tell the two apart.
func (h *CollectorHandler) ReportIssue(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reportIssueReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.TrimSpace(req.Type)
	if req.TaskID == 0 || req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "task_id and type are required"})
	}
	if utf8.RuneCountInString(req.Description) > 1000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Description too long."})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rep := &model.Report{
		UserID:      userID,
		Type:        model.CollectorIssuePrefix + req.Type,
		Description: fmt.Sprintf("Task ID: %d - %s", req.TaskID, req.Description),
	}
	if utf8.RuneCountInString(rep.Type) > 50 {
		rep.Type = string([]rune(rep.Type)[:50])
	}
	if err := h.Reports.Create(ctx, rep); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to report issue"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"report": rep})
}

// ListBins handles GET /v1/bins for collectors and admins.
func (h *CollectorHandler) ListBins(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	bins, err := h.Bins.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load bins"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": bins})
}
