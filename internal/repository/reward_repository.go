package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/ecocollect/platform/internal/model"
    "github.com/ecocollect/platform/internal/utils"
)

// RewardRepo provides the rewards catalog and the redemption transaction.
// Redeem is the one place in the system with a mandatory multi-statement
// transaction boundary: the debit, the redemption row and the notification
// either all land or none do.
type RewardRepo struct {
    db *sql.DB
}

// NewRewardRepo returns a new RewardRepo bound to the given database.
func NewRewardRepo(db *sql.DB) *RewardRepo { return &RewardRepo{db: db} }

// ListCatalog returns all rewards.
func (r *RewardRepo) ListCatalog(ctx context.Context) ([]model.Reward, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, title, description, points_cost, category FROM rewards ORDER BY points_cost`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reward, 0)
    for rows.Next() {
        var rw model.Reward
        if err := rows.Scan(&rw.ID, &rw.Title, &rw.Description, &rw.PointsCost, &rw.Category); err != nil {
            return nil, err
        }
        out = append(out, rw)
    }
    return out, rows.Err()
}

// GetByID fetches a reward by id.
func (r *RewardRepo) GetByID(ctx context.Context, id uint64) (model.Reward, error) {
    var rw model.Reward
    err := r.db.QueryRowContext(ctx,
        `SELECT id, title, description, points_cost, category FROM rewards WHERE id = ? LIMIT 1`, id).
        Scan(&rw.ID, &rw.Title, &rw.Description, &rw.PointsCost, &rw.Category)
    return rw, err
}

// Redeem atomically debits the user's points by the reward's cost, mints a
// redemption record and appends a success notification. The debit is a
// conditional UPDATE (`points >= cost` re-checked at write time), so two
// concurrent redemptions cannot both pass the balance check against a stale
// balance. On any failure the transaction rolls back and nothing is
// applied. Returns sql.ErrNoRows when user or reward is missing and
// ErrInsufficientPoints when the balance is too low.
func (r *RewardRepo) Redeem(ctx context.Context, userID, rewardID uint64) (model.Redemption, model.Reward, error) {
    var red model.Redemption
    reward, err := r.GetByID(ctx, rewardID)
    if err != nil {
        return red, reward, err
    }

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return red, reward, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := tx.ExecContext(ctx,
        `UPDATE users SET points = points - ? WHERE id = ? AND points >= ?`,
        reward.PointsCost, userID, reward.PointsCost)
    if err != nil {
        return red, reward, err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return red, reward, err
    }
    if n == 0 {
        var exists uint64
        if err := tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = ? LIMIT 1`, userID).Scan(&exists); err != nil {
            return red, reward, err
        }
        return red, reward, ErrInsufficientPoints
    }

    code := utils.NewRedemptionCode()
    ins, err := tx.ExecContext(ctx,
        `INSERT INTO redemptions (user_id, reward_id, code) VALUES (?, ?, ?)`,
        userID, rewardID, code)
    if err != nil {
        return red, reward, err
    }
    id, err := ins.LastInsertId()
    if err != nil {
        return red, reward, err
    }

    msg := fmt.Sprintf("You successfully redeemed %q for %d points.", reward.Title, reward.PointsCost)
    if _, err := tx.ExecContext(ctx,
        `INSERT INTO notifications (user_id, title, message, type) VALUES (?, ?, ?, ?)`,
        userID, "Reward Redeemed!", msg, model.NotifSuccess); err != nil {
        return red, reward, err
    }

    if err := tx.Commit(); err != nil {
        return red, reward, err
    }
    committed = true

    red = model.Redemption{ID: uint64(id), UserID: userID, RewardID: rewardID, Code: code}
    return red, reward, nil
}

// RedemptionDetail is a redemption joined with its reward for display.
type RedemptionDetail struct {
    model.Redemption
    RewardTitle string
    PointsCost  int64
}

// ListRedemptions returns a user's redemptions, newest first.
func (r *RewardRepo) ListRedemptions(ctx context.Context, userID uint64) ([]RedemptionDetail, error) {
    const q = `SELECT rd.id, rd.user_id, rd.reward_id, rd.code, rd.created_at, rw.title, rw.points_cost
               FROM redemptions rd
               JOIN rewards rw ON rw.id = rd.reward_id
               WHERE rd.user_id = ?
               ORDER BY rd.created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]RedemptionDetail, 0)
    for rows.Next() {
        var d RedemptionDetail
        if err := rows.Scan(&d.ID, &d.UserID, &d.RewardID, &d.Code, &d.CreatedAt, &d.RewardTitle, &d.PointsCost); err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}
