package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ItemRepo handles the selectable catalog.
type ItemRepo struct {
	db DBTX
}

func NewItemRepo(db DBTX) *ItemRepo { return &ItemRepo{db: db} }

func (r *ItemRepo) Upsert(ctx context.Context, it Item) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO items(id, label, section, sort_order) VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 label=excluded.label,
	 section=excluded.section,
	 sort_order=excluded.sort_order;
	`, it.ID, it.Label, it.Section, it.SortOrder)
	return err
}

// Get returns nil when the item does not exist.
func (r *ItemRepo) Get(ctx context.Context, id string) (*Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, label, section, sort_order FROM items WHERE id = ?`, id)
	var it Item
	if err := row.Scan(&it.ID, &it.Label, &it.Section, &it.SortOrder); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, section, sort_order FROM items ORDER BY sort_order, label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Label, &it.Section, &it.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
