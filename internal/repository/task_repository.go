package repository

import (
    "context"
    "database/sql"

    "github.com/ecocollect/platform/internal/model"
)

// TaskRepo provides persistence for dispatch/collection tasks. The claim
// slot (collector_id) is the one field at risk of a concurrent-write race,
// so status updates are expressed as a conditional UPDATE whose precondition
// (unclaimed or already mine) is re-checked at write time rather than only
// pre-checked in application code.
type TaskRepo struct {
    db *sql.DB
}

// NewTaskRepo returns a new TaskRepo bound to the given database.
func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

// Create inserts a new pending task and populates the generated ID. A nil
// collectorID leaves the task open for any collector to claim.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
    const q = `INSERT INTO tasks (address, type, status, bins, time_window, collector_id) VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, t.Address, t.Type, model.TaskPending, t.Bins, t.TimeWindow, t.CollectorID)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    t.Status = model.TaskPending
    return nil
}

// ClaimAndUpdateStatus sets a task's status on behalf of a collector and
// claims the task in the same statement. The UPDATE only applies while the
// task is unclaimed or already owned by this collector; when the condition
// no longer holds at write time the race was lost and ErrTaskClaimed is
// returned. A non-existent task yields sql.ErrNoRows.
func (r *TaskRepo) ClaimAndUpdateStatus(ctx context.Context, taskID, collectorID uint64, status string) (model.Task, error) {
    const q = `UPDATE tasks SET status = ?, collector_id = ?
               WHERE id = ? AND (collector_id IS NULL OR collector_id = ?)`
    res, err := r.db.ExecContext(ctx, q, status, collectorID, taskID, collectorID)
    if err != nil {
        return model.Task{}, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return model.Task{}, err
    }
    if n == 0 {
        // Either the task is gone, another collector holds the claim, or the
        // driver reported zero changed rows because the values were already
        // set (MySQL counts changed rows, not matched rows). Re-read to tell
        // the cases apart.
        var owner sql.NullInt64
        if err := r.db.QueryRowContext(ctx, `SELECT collector_id FROM tasks WHERE id = ?`, taskID).Scan(&owner); err != nil {
            return model.Task{}, err // sql.ErrNoRows when the task does not exist
        }
        if owner.Valid && uint64(owner.Int64) != collectorID {
            return model.Task{}, ErrTaskClaimed
        }
    }
    return r.GetByID(ctx, taskID)
}

// GetByID fetches a task by id.
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (model.Task, error) {
    const q = `SELECT id, address, type, status, bins, time_window, collector_id, created_at FROM tasks WHERE id = ? LIMIT 1`
    var t model.Task
    var collector sql.NullInt64
    err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Address, &t.Type, &t.Status, &t.Bins, &t.TimeWindow, &collector, &t.CreatedAt)
    if err != nil {
        return t, err
    }
    if collector.Valid {
        cid := uint64(collector.Int64)
        t.CollectorID = &cid
    }
    return t, nil
}

// ListForCollector returns tasks visible to a collector: unclaimed ones and
// those the collector already claimed, newest first. The claimed-or-open
// condition lives in the query so visibility matches what the conditional
// claim will accept.
func (r *TaskRepo) ListForCollector(ctx context.Context, collectorID uint64) ([]model.Task, error) {
    const q = `SELECT id, address, type, status, bins, time_window, collector_id, created_at
               FROM tasks
               WHERE collector_id IS NULL OR collector_id = ?
               ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, collectorID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTasks(rows)
}

// ListUpcoming returns the latest tasks as a generic schedule projection for
// citizens. It is intentionally not scoped to the caller; citizens see the
// general mission schedule, not tasks of their own.
func (r *TaskRepo) ListUpcoming(ctx context.Context, limit int) ([]model.Task, error) {
    const q = `SELECT id, address, type, status, bins, time_window, collector_id, created_at
               FROM tasks ORDER BY created_at DESC LIMIT ?`
    rows, err := r.db.QueryContext(ctx, q, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanTasks(rows)
}

// TaskDetail is the admin view of a task: the task plus the claiming
// collector's name when claimed.
type TaskDetail struct {
    model.Task
    CollectorName *string
}

// ListAll returns every task with collector names attached, newest first.
func (r *TaskRepo) ListAll(ctx context.Context) ([]TaskDetail, error) {
    const q = `SELECT t.id, t.address, t.type, t.status, t.bins, t.time_window, t.collector_id, t.created_at, u.name
               FROM tasks t
               LEFT JOIN users u ON u.id = t.collector_id
               ORDER BY t.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]TaskDetail, 0)
    for rows.Next() {
        var d TaskDetail
        var collector sql.NullInt64
        var name sql.NullString
        if err := rows.Scan(&d.ID, &d.Address, &d.Type, &d.Status, &d.Bins, &d.TimeWindow, &collector, &d.CreatedAt, &name); err != nil {
            return nil, err
        }
        if collector.Valid {
            cid := uint64(collector.Int64)
            d.CollectorID = &cid
        }
        if name.Valid {
            n := name.String
            d.CollectorName = &n
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// CountByStatus counts tasks in the given state.
func (r *TaskRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE status=?", status).Scan(&n)
    return n, err
}

func scanTasks(rows *sql.Rows) ([]model.Task, error) {
    out := make([]model.Task, 0)
    for rows.Next() {
        var t model.Task
        var collector sql.NullInt64
        if err := rows.Scan(&t.ID, &t.Address, &t.Type, &t.Status, &t.Bins, &t.TimeWindow, &collector, &t.CreatedAt); err != nil {
            return nil, err
        }
        if collector.Valid {
            cid := uint64(collector.Int64)
            t.CollectorID = &cid
        }
        out = append(out, t)
    }
    return out, rows.Err()
}
