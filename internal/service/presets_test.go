package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/selsync/internal/binding"
	"github.com/jask/selsync/internal/collection"
	"github.com/jask/selsync/internal/database"
	"github.com/jask/selsync/internal/database/repository"
)

func newTestService(t *testing.T, autosave bool) (*PresetService, context.Context) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(ctx, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))

	return &PresetService{
		DB:       db,
		Items:    repository.NewItemRepo(db),
		Presets:  repository.NewPresetRepo(db),
		Autosave: autosave,
	}, ctx
}

func labels(items []*repository.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestOpenSharesCatalogPointers(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t, false)
	fav, err := svc.Open(ctx, "Favourites")
	require.NoError(t, err)
	weekend, err := svc.Open(ctx, "Weekend")
	require.NoError(t, err)

	require.Equal(t, []string{"Mango", "Oats"}, labels(fav.Items.Items()))
	require.Equal(t, []string{"Banana", "Cherry", "Pumpkin"}, labels(weekend.Items.Items()))

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	var mango *repository.Item
	for _, it := range catalog {
		if it.Label == "Mango" {
			mango = it
		}
	}
	require.Same(t, mango, fav.Items.Items()[0])
}

func TestOpenUnknownPreset(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t, false)
	_, err := svc.Open(ctx, "Weekday")
	require.ErrorIs(t, err, ErrPresetNotFound)

	name, ok := svc.Suggest(ctx, "weekand")
	require.True(t, ok)
	require.Equal(t, "Weekend", name)

	_, ok = svc.Suggest(ctx, "completely different")
	require.False(t, ok)
}

func TestAutosavePersistsMirrorChanges(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t, true)
	fav, err := svc.Open(ctx, "Favourites")
	require.NoError(t, err)

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	apple := catalog[0]
	require.NoError(t, fav.Items.Insert(0, apple))
	require.NoError(t, fav.Items.Move(0, 2))

	ids, err := svc.Presets.ItemIDs(ctx, fav.ID)
	require.NoError(t, err)
	require.Equal(t, []string{database.ItemID("Mango"), database.ItemID("Oats"), database.ItemID("Apple")}, ids)

	fav.Close()
	require.NoError(t, fav.Items.Clear())
	ids, err = svc.Presets.ItemIDs(ctx, fav.ID)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	require.NoError(t, fav.Save(ctx))
	ids, err = svc.Presets.ItemIDs(ctx, fav.ID)
	require.NoError(t, err)
	require.Empty(t, ids)
}

type selectionWidget struct {
	selection *collection.List[*repository.Item]
}

func (w *selectionWidget) SelectedItems() *collection.List[*repository.Item] { return w.selection }

func TestWidgetSelectionIsSavedThroughBinding(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t, true)
	weekend, err := svc.Open(ctx, "Weekend")
	require.NoError(t, err)
	defer weekend.Close()

	w := &selectionWidget{selection: collection.New[*repository.Item]()}
	b := binding.New[*repository.Item](nil, nil)
	require.NoError(t, b.SetMirror(w, weekend.Items))
	require.Equal(t, []string{"Banana", "Cherry", "Pumpkin"}, labels(w.selection.Items()))

	require.NoError(t, w.selection.RemoveAt(1))

	ids, err := svc.Presets.ItemIDs(ctx, weekend.ID)
	require.NoError(t, err)
	require.Equal(t, []string{database.ItemID("Banana"), database.ItemID("Pumpkin")}, ids)
}

func TestCreatePreset(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t, false)
	require.NoError(t, svc.Create(ctx, "Lunch"))
	require.ErrorIs(t, svc.Create(ctx, "Lunch"), ErrPresetExists)
	require.Error(t, svc.Create(ctx, "  "))

	names, err := svc.Names(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Empty", "Favourites", "Lunch", "Weekend"}, names)

	lunch, err := svc.Open(ctx, "Lunch")
	require.NoError(t, err)
	require.Zero(t, lunch.Items.Len())
}

func TestSuggestPresetName(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t, false)

	got, ok := svc.Suggest(ctx, "favorites")
	require.True(t, ok)
	require.Equal(t, "Favourites", got)

	got, ok = svc.Suggest(ctx, "WEEKEND")
	require.True(t, ok)
	require.Equal(t, "Weekend", got)

	_, ok = svc.Suggest(ctx, "completely different")
	require.False(t, ok)
}

func TestOpenLoadsItemsAddedAfterCatalog(t *testing.T) {
	t.Parallel()

	svc, ctx := newTestService(t, false)
	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	before := len(catalog)

	quinoa := repository.Item{ID: database.ItemID("Quinoa"), Label: "Quinoa", Section: "Grain", SortOrder: 99}
	require.NoError(t, svc.Items.Upsert(ctx, quinoa))
	require.NoError(t, svc.Presets.SetItems(ctx, database.PresetID("Empty"), []string{quinoa.ID, database.ItemID("Rice")}, database.Now()))

	p, err := svc.Open(ctx, "Empty")
	require.NoError(t, err)
	require.Equal(t, []string{"Quinoa", "Rice"}, labels(p.Items.Items()))

	catalog, err = svc.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog, before+1)
	require.Same(t, catalog[before], p.Items.Items()[0])

	again, err := svc.Open(ctx, "Empty")
	require.NoError(t, err)
	require.Same(t, p.Items.Items()[0], again.Items.Items()[0])
}
