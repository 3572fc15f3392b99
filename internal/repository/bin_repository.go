package repository

import (
	"context"
	"database/sql"

	"github.com/ecocollect/platform/internal/model"
)

// BinRepo persists sensor-tracked bins. Fill levels are clamped to [0,100]
// before they reach the database.
type BinRepo struct{ DB *sql.DB }

func NewBinRepo(db *sql.DB) *BinRepo { return &BinRepo{DB: db} }

// List returns all bins.
func (r *BinRepo) List(ctx context.Context) ([]model.Bin, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,location,latitude,longitude,fill_level,status,waste_type FROM bins ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Bin, 0)
	for rows.Next() {
		var b model.Bin
		if err := rows.Scan(&b.ID, &b.Location, &b.Latitude, &b.Longitude, &b.FillLevel, &b.Status, &b.WasteType); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateState sets fill level and status for a bin. The fill level is
// clamped to the sensor's valid range. sql.ErrNoRows when the bin does not
// exist.
func (r *BinRepo) UpdateState(ctx context.Context, binID uint64, fillLevel int, status string) error {
	if fillLevel < 0 {
		fillLevel = 0
	}
	if fillLevel > 100 {
		fillLevel = 100
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE bins SET fill_level=?, status=? WHERE id=?",
		fillLevel, status, binID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists uint64
		if err := r.DB.QueryRowContext(ctx, "SELECT id FROM bins WHERE id=? LIMIT 1", binID).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the total number of bins.
func (r *BinRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM bins").Scan(&n)
	return n, err
}
