package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/selsync/internal/collection"
	"github.com/jask/selsync/internal/database"
	"github.com/jask/selsync/internal/database/repository"
)

var (
	// ErrPresetNotFound is returned when no preset has the requested name.
	ErrPresetNotFound = errors.New("preset not found")
	// ErrPresetExists is returned by Create for a duplicate name.
	ErrPresetExists = errors.New("preset already exists")
)

// PresetService loads stored selections as mirror collections and writes
// them back when they change.
type PresetService struct {
	DB       *sql.DB
	Items    *repository.ItemRepo
	Presets  *repository.PresetRepo
	Autosave bool
	Log      *slog.Logger

	catalog []*repository.Item
	byID    map[string]*repository.Item
}

// Preset is an opened preset. Items is the mirror collection.
type Preset struct {
	ID    string
	Name  string
	Items *collection.List[*repository.Item]

	svc *PresetService
	ctx context.Context
	sub collection.Subscription
}

// Catalog returns every selectable item. The pointers are loaded once so that
// the same item is the same reference in every preset.
func (s *PresetService) Catalog(ctx context.Context) ([]*repository.Item, error) {
	if s.catalog != nil {
		return s.catalog, nil
	}
	rows, err := s.Items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	s.catalog = make([]*repository.Item, 0, len(rows))
	s.byID = make(map[string]*repository.Item, len(rows))
	for i := range rows {
		it := &rows[i]
		s.catalog = append(s.catalog, it)
		s.byID[it.ID] = it
	}
	return s.catalog, nil
}

// Names lists preset names in order.
func (s *PresetService) Names(ctx context.Context) ([]string, error) {
	presets, err := s.Presets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	out := make([]string, 0, len(presets))
	for _, p := range presets {
		out = append(out, p.Name)
	}
	return out, nil
}

// Suggest returns the stored preset name closest to name, if any is close
// enough to be a plausible typo.
func (s *PresetService) Suggest(ctx context.Context, name string) (string, bool) {
	names, err := s.Names(ctx)
	if err != nil {
		return "", false
	}
	query := strings.ToLower(strings.TrimSpace(name))
	best, bestDist := "", -1
	for _, n := range names {
		d := levenshtein.ComputeDistance(query, strings.ToLower(n))
		if bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	if bestDist < 0 {
		return "", false
	}
	limit := len(query) / 3
	if limit < 2 {
		limit = 2
	}
	return best, bestDist <= limit
}

// Create stores an empty preset.
func (s *PresetService) Create(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("create preset: empty name")
	}
	existing, err := s.Presets.ByName(ctx, name)
	if err != nil {
		return fmt.Errorf("lookup preset: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrPresetExists, name)
	}
	return s.Presets.Upsert(ctx, repository.Preset{ID: uuid.NewString(), Name: name, UpdatedAt: database.Now()})
}

// Open loads a preset into a new mirror collection. With Autosave set every
// change of the collection is written back until Close.
func (s *PresetService) Open(ctx context.Context, name string) (*Preset, error) {
	if _, err := s.Catalog(ctx); err != nil {
		return nil, err
	}
	p, err := s.Presets.ByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup preset: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	ids, err := s.Presets.ItemIDs(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("preset items: %w", err)
	}

	members := make([]*repository.Item, 0, len(ids))
	for _, id := range ids {
		it, err := s.item(ctx, id)
		if err != nil {
			return nil, err
		}
		if it == nil {
			s.logger().Warn("preset references unknown item", "preset", p.Name, "item", id)
			continue
		}
		members = append(members, it)
	}

	out := &Preset{
		ID:    p.ID,
		Name:  p.Name,
		Items: collection.New(members...),
		svc:   s,
		ctx:   ctx,
	}
	if s.Autosave {
		out.sub = out.Items.Subscribe(func(collection.Change[*repository.Item]) error {
			return out.Save(out.ctx)
		})
	}
	s.logger().Debug("preset opened", "preset", p.Name, "items", len(members), "autosave", s.Autosave)
	return out, nil
}

// item returns the shared catalog pointer for id. Items stored after the
// catalog was loaded are fetched and added to it.
func (s *PresetService) item(ctx context.Context, id string) (*repository.Item, error) {
	if it, ok := s.byID[id]; ok {
		return it, nil
	}
	it, err := s.Items.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load item %s: %w", id, err)
	}
	if it == nil {
		return nil, nil
	}
	s.catalog = append(s.catalog, it)
	s.byID[it.ID] = it
	return it, nil
}

// Save writes the current membership.
func (p *Preset) Save(ctx context.Context) error {
	items := p.Items.Items()
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	err := database.WithTx(ctx, p.svc.DB, func(tx *sql.Tx) error {
		return repository.NewPresetRepo(tx).SetItems(ctx, p.ID, ids, database.Now())
	})
	if err != nil {
		return fmt.Errorf("save preset %s: %w", p.Name, err)
	}
	return nil
}

// Close stops autosaving.
func (p *Preset) Close() {
	if p == nil {
		return
	}
	p.Items.Unsubscribe(p.sub)
	p.sub = collection.Subscription{}
	if n := p.Items.Subscribers(); n > 0 && p.svc != nil {
		p.svc.logger().Debug("preset closed while still bound", "preset", p.Name, "subscribers", n)
	}
}

func (s *PresetService) logger() *slog.Logger {
	if s.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Log
}
