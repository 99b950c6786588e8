package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/selsync/internal/database/repository"
)

var defaultCatalog = []string{
	"Fruit > Apple",
	"Fruit > Banana",
	"Fruit > Cherry",
	"Fruit > Mango",
	"Vegetable > Carrot",
	"Vegetable > Leek",
	"Vegetable > Pumpkin",
	"Grain > Barley",
	"Grain > Oats",
	"Grain > Rice",
}

var defaultPresets = map[string][]string{
	"Favourites": {"Mango", "Oats"},
	"Weekend":    {"Banana", "Cherry", "Pumpkin"},
	"Empty":      nil,
}

// ItemID derives the stable id of a seeded catalog label.
func ItemID(label string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("item:"+label)).String()
}

// PresetID derives the stable id of a preset name.
func PresetID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("preset:"+name)).String()
}

// SeedDefaults ensures a baseline catalog and presets exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	existing, err := repository.NewItemRepo(db).List(ctx)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		items := repository.NewItemRepo(tx)
		for idx, path := range defaultCatalog {
			section, label, _ := strings.Cut(path, ">")
			label = strings.TrimSpace(label)
			it := repository.Item{ID: ItemID(label), Label: label, Section: strings.TrimSpace(section), SortOrder: idx}
			if err := items.Upsert(ctx, it); err != nil {
				return err
			}
		}

		presets := repository.NewPresetRepo(tx)
		now := Now()
		for name, labels := range defaultPresets {
			p := repository.Preset{ID: PresetID(name), Name: name, UpdatedAt: now}
			if err := presets.Upsert(ctx, p); err != nil {
				return err
			}
			ids := make([]string, 0, len(labels))
			for _, l := range labels {
				ids = append(ids, ItemID(l))
			}
			if err := presets.SetItems(ctx, p.ID, ids, now); err != nil {
				return err
			}
		}
		return nil
	})
}
