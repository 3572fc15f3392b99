package repository

import (
	"context"
	"database/sql"

	"github.com/ecocollect/platform/internal/model"
)

// WasteGuideRepo persists the public disposal-instructions catalog.
type WasteGuideRepo struct{ DB *sql.DB }

func NewWasteGuideRepo(db *sql.DB) *WasteGuideRepo { return &WasteGuideRepo{DB: db} }

// List returns up to limit guide entries.
func (r *WasteGuideRepo) List(ctx context.Context, limit int) ([]model.WasteGuideItem, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,category,instructions FROM waste_guide ORDER BY name LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGuide(rows)
}

// Search matches entries whose name or instructions contain the query,
// capped at 5 results for the lookup widget.
func (r *WasteGuideRepo) Search(ctx context.Context, query string) ([]model.WasteGuideItem, error) {
	like := "%" + query + "%"
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,category,instructions FROM waste_guide WHERE name LIKE ? OR instructions LIKE ? LIMIT 5",
		like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGuide(rows)
}

// Upsert creates or updates a guide entry. id == 0 inserts.
func (r *WasteGuideRepo) Upsert(ctx context.Context, item *model.WasteGuideItem) error {
	if item.ID == 0 {
		res, err := r.DB.ExecContext(ctx,
			"INSERT INTO waste_guide (name, category, instructions) VALUES (?,?,?) ON DUPLICATE KEY UPDATE category=VALUES(category), instructions=VALUES(instructions)",
			item.Name, item.Category, item.Instructions)
		if err != nil {
			return err
		}
		if id, err := res.LastInsertId(); err == nil && id > 0 {
			item.ID = uint64(id)
		}
		return nil
	}
	_, err := r.DB.ExecContext(ctx,
		"UPDATE waste_guide SET name=?, category=?, instructions=? WHERE id=?",
		item.Name, item.Category, item.Instructions, item.ID)
	return err
}

func scanGuide(rows *sql.Rows) ([]model.WasteGuideItem, error) {
	out := make([]model.WasteGuideItem, 0)
	for rows.Next() {
		var it model.WasteGuideItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Instructions); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
