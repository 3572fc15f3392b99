package repository

import (
    "context"
    "database/sql"

    "github.com/ecocollect/platform/internal/model"
)

// ReportRepo provides persistence for citizen field reports and collector
// issue reports. Reports live in a small state machine: they are created
// pending and an admin moves them to resolved or dismissed. The status
// update and the notification to the owner are executed in one transaction
// by the caller, using the Tx variants here.
type ReportRepo struct {
    db *sql.DB
}

// NewReportRepo returns a new ReportRepo bound to the given database.
func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span reports, points and notifications.
func (r *ReportRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new pending report within an existing transaction and
// populates the generated ID and timestamps on the given model. The caller
// must commit or rollback.
func (r *ReportRepo) CreateTx(ctx context.Context, tx *sql.Tx, rep *model.Report) error {
    const q = `INSERT INTO reports (user_id, type, description, location, image_url, status) VALUES (?, ?, ?, ?, ?, ?)`
    res, err := tx.ExecContext(ctx, q, rep.UserID, rep.Type, rep.Description, rep.Location, rep.ImageURL, model.ReportPending)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rep.ID = uint64(id)
    rep.Status = model.ReportPending
    return tx.QueryRowContext(ctx, `SELECT created_at FROM reports WHERE id = ?`, rep.ID).Scan(&rep.CreatedAt)
}

// Create inserts a report outside any transaction. Used for collector issue
// reports, which have no side effects to keep atomic with the insert.
func (r *ReportRepo) Create(ctx context.Context, rep *model.Report) error {
    const q = `INSERT INTO reports (user_id, type, description, location, image_url, status) VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, rep.UserID, rep.Type, rep.Description, rep.Location, rep.ImageURL, model.ReportPending)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rep.ID = uint64(id)
    rep.Status = model.ReportPending
    return nil
}

// ListByUser returns a user's own reports, newest first. limit <= 0 means
// no limit.
func (r *ReportRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Report, error) {
    q := `SELECT id, user_id, type, description, location, image_url, status, created_at
          FROM reports WHERE user_id = ? ORDER BY created_at DESC`
    args := []any{userID}
    if limit > 0 {
        q += " LIMIT ?"
        args = append(args, limit)
    }
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    return scanReports(rows)
}

// ReportDetail is the admin view of a report: the report plus the
// submitter's display name.
type ReportDetail struct {
    model.Report
    SubmitterName string
}

// ListAll returns every report with the submitter's name attached, newest
// first. Admin-only at the handler layer.
func (r *ReportRepo) ListAll(ctx context.Context) ([]ReportDetail, error) {
    const q = `SELECT r.id, r.user_id, r.type, r.description, r.location, r.image_url, r.status, r.created_at, u.name
               FROM reports r
               JOIN users u ON u.id = r.user_id
               ORDER BY r.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]ReportDetail, 0)
    for rows.Next() {
        var d ReportDetail
        var img sql.NullString
        if err := rows.Scan(&d.ID, &d.UserID, &d.Type, &d.Description, &d.Location, &img, &d.Status, &d.CreatedAt, &d.SubmitterName); err != nil {
            return nil, err
        }
        if img.Valid {
            v := img.String
            d.ImageURL = &v
        }
        out = append(out, d)
    }
    return out, rows.Err()
}

// UpdateStatusTx sets a report's status within a transaction and returns
// the updated report so the caller can notify the owner. sql.ErrNoRows is
// returned when the report does not exist.
func (r *ReportRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, reportID uint64, status string) (model.Report, error) {
    var rep model.Report
    if _, err := tx.ExecContext(ctx, `UPDATE reports SET status = ? WHERE id = ?`, status, reportID); err != nil {
        return rep, err
    }
    const sel = `SELECT id, user_id, type, description, location, image_url, status, created_at FROM reports WHERE id = ?`
    var img sql.NullString
    err := tx.QueryRowContext(ctx, sel, reportID).Scan(
        &rep.ID, &rep.UserID, &rep.Type, &rep.Description, &rep.Location, &img, &rep.Status, &rep.CreatedAt)
    if err != nil {
        return rep, err
    }
    if img.Valid {
        v := img.String
        rep.ImageURL = &v
    }
    return rep, nil
}

// Count returns the total number of reports.
func (r *ReportRepo) Count(ctx context.Context) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&n)
    return n, err
}

func scanReports(rows *sql.Rows) ([]model.Report, error) {
    out := make([]model.Report, 0)
    for rows.Next() {
        var rep model.Report
        var img sql.NullString
        if err := rows.Scan(&rep.ID, &rep.UserID, &rep.Type, &rep.Description, &rep.Location, &img, &rep.Status, &rep.CreatedAt); err != nil {
            return nil, err
        }
        if img.Valid {
            v := img.String
            rep.ImageURL = &v
        }
        out = append(out, rep)
    }
    return out, rows.Err()
}
