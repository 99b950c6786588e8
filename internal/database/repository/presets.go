package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PresetRepo handles named selections and their ordered membership.
type PresetRepo struct {
	db DBTX
}

func NewPresetRepo(db DBTX) *PresetRepo { return &PresetRepo{db: db} }

func (r *PresetRepo) Upsert(ctx context.Context, p Preset) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO presets(id, name, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name, updated_at=excluded.updated_at;
	`, p.ID, p.Name, p.UpdatedAt.UTC())
	return err
}

// ByName returns nil when no preset has that name.
func (r *PresetRepo) ByName(ctx context.Context, name string) (*Preset, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, updated_at FROM presets WHERE name = ?`, name)
	var p Preset
	if err := row.Scan(&p.ID, &p.Name, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PresetRepo) List(ctx context.Context) ([]Preset, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, updated_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Preset
	for rows.Next() {
		var p Preset
		if err := rows.Scan(&p.ID, &p.Name, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ItemIDs returns the member item ids of a preset in stored order.
func (r *PresetRepo) ItemIDs(ctx context.Context, presetID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id FROM preset_items WHERE preset_id = ? ORDER BY position`, presetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// SetItems replaces the membership of a preset. Run it inside a transaction
// so readers never see a half written list.
func (r *PresetRepo) SetItems(ctx context.Context, presetID string, itemIDs []string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM preset_items WHERE preset_id = ?`, presetID); err != nil {
		return fmt.Errorf("clear preset items: %w", err)
	}
	for pos, id := range itemIDs {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO preset_items(preset_id, position, item_id) VALUES (?, ?, ?)`, presetID, pos, id); err != nil {
			return fmt.Errorf("insert preset item %d: %w", pos, err)
		}
	}
	if _, err := r.db.ExecContext(ctx, `UPDATE presets SET updated_at = ? WHERE id = ?`, at.UTC(), presetID); err != nil {
		return fmt.Errorf("touch preset: %w", err)
	}
	return nil
}
