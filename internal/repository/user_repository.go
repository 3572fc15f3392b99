package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ecocollect/platform/internal/model"
	"github.com/ecocollect/platform/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,email,password_hash,role,points,vehicle_type,specialization,created_at,updated_at"

// Create inserts a user and returns its ID. The password is hashed before
// storage; vehicleType/specialization are only meaningful for collectors and
// may be nil.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, vehicleType, specialization *string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, points, vehicle_type, specialization) VALUES (?,?,?,?,0,?,?)",
		name, email, hash, role, vehicleType, specialization)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var vehicle, spec sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Points,
		&vehicle, &spec, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if vehicle.Valid {
		v := vehicle.String
		u.VehicleType = &v
	}
	if spec.Valid {
		s := spec.String
		u.Specialization = &s
	}
	return u, nil
}

// AdjustPoints applies a delta to a user's balance as a single conditional
// atomic UPDATE. The balance check and the write happen in one statement at
// the storage layer, so concurrent awards cannot clobber each other and a
// debit past zero matches no row. Zero rows affected means either the user
// does not exist (sql.ErrNoRows) or the debit was rejected
// (ErrInsufficientPoints).
func (r *UserRepo) AdjustPoints(ctx context.Context, userID uint64, delta int64) error {
	return adjustPoints(ctx, r.DB, userID, delta)
}

// AdjustPointsTx is AdjustPoints scoped to an existing transaction.
func (r *UserRepo) AdjustPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, delta int64) error {
	return adjustPoints(ctx, tx, userID, delta)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func adjustPoints(ctx context.Context, db execer, userID uint64, delta int64) error {
	res, err := db.ExecContext(ctx,
		"UPDATE users SET points = points + ? WHERE id = ? AND points + ? >= 0",
		delta, userID, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing user from a rejected debit.
		var exists uint64
		if err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE id=? LIMIT 1", userID).Scan(&exists); err != nil {
			return err
		}
		return ErrInsufficientPoints
	}
	return nil
}

// Points returns the current balance for a user.
func (r *UserRepo) Points(ctx context.Context, userID uint64) (int64, error) {
	var p int64
	err := r.DB.QueryRowContext(ctx, "SELECT points FROM users WHERE id=? LIMIT 1", userID).Scan(&p)
	return p, err
}

// CollectorSummary is the admin's fleet view of a collector.
type CollectorSummary struct {
	ID     uint64 `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Points int64  `json:"points"`
}

// ListCollectors returns all collector accounts for the admin fleet panel.
func (r *UserRepo) ListCollectors(ctx context.Context) ([]CollectorSummary, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,email,points FROM users WHERE role=? ORDER BY name", model.RoleCollector)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]CollectorSummary, 0)
	for rows.Next() {
		var c CollectorSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Points); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountByRole counts users holding the given role.
func (r *UserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE role=?", role).Scan(&n)
	return n, err
}

// Count returns the total number of users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
