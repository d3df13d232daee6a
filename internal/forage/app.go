// Package forage wires the snapshot store to the scheduling core and is
// the entry point commands and the board consume.
package forage

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/forage/internal/core/config"
	"github.com/colonyops/forage/internal/core/graph"
	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/schedule"
	"github.com/colonyops/forage/internal/data/snapshot"
	"github.com/colonyops/forage/pkg/randid"
)

// App is the central entry point for all forage operations.
// Commands and the board consume App instead of raw dependencies.
type App struct {
	Config config.Config

	store *snapshot.Store
	log   zerolog.Logger
}

// NewApp constructs an App from explicit dependencies.
func NewApp(cfg config.Config, store *snapshot.Store, log zerolog.Logger) *App {
	return &App{
		Config: cfg,
		store:  store,
		log:    log.With().Str("component", "forage").Logger(),
	}
}

// Next loads a snapshot and runs the full scheduling pipeline.
func (a *App) Next(ctx context.Context) (schedule.Result, error) {
	snap, err := a.store.Load(ctx)
	if err != nil {
		return schedule.Result{}, fmt.Errorf("load snapshot: %w", err)
	}

	res := schedule.Pick(snap.Items, snap.KnownCompleted)
	a.log.Debug().
		Str("kind", string(res.Kind)).
		Int("items", len(snap.Items)).
		Msg("scheduling run")

	return res, nil
}

// Check loads a snapshot and returns the validation report alone, without
// attempting any selection.
func (a *App) Check(ctx context.Context) (schedule.ValidationReport, error) {
	snap, err := a.store.Load(ctx)
	if err != nil {
		return schedule.ValidationReport{}, fmt.Errorf("load snapshot: %w", err)
	}

	g := graph.Build(snap.Items)
	return schedule.Validate(snap.Items, g, snap.KnownCompleted), nil
}

// Explain answers why a single item is or is not workable.
func (a *App) Explain(ctx context.Context, id string) (schedule.Explanation, error) {
	snap, err := a.store.Load(ctx)
	if err != nil {
		return schedule.Explanation{}, fmt.Errorf("load snapshot: %w", err)
	}

	return schedule.Explain(snap.Items, snap.KnownCompleted, id)
}

// ListEntry pairs an annotated item with its readiness for display.
type ListEntry struct {
	Item  item.Item `json:"item"`
	Ready bool      `json:"ready"`
}

// List returns every item annotated with effective priority, in
// dependency order so blockers print before the items waiting on them.
func (a *App) List(ctx context.Context) ([]ListEntry, error) {
	snap, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	g := graph.Build(snap.Items)
	if report := schedule.Validate(snap.Items, g, snap.KnownCompleted); !report.Empty() {
		return nil, fmt.Errorf("snapshot invalid:\n%s", report.Summary())
	}

	annotated := schedule.Propagate(snap.Items, g)
	byID := make(map[string]item.Item, len(annotated))
	for _, it := range annotated {
		byID[it.ID] = it
	}

	ready := map[string]bool{}
	for _, id := range g.ReadySet(snap.KnownCompleted) {
		ready[id] = true
	}

	entries := make([]ListEntry, 0, len(annotated))
	for _, id := range g.TopoOrder(snap.KnownCompleted) {
		entries = append(entries, ListEntry{Item: byID[id], Ready: ready[id]})
	}
	// completed items last, for reference
	for _, it := range annotated {
		if it.Completed() {
			entries = append(entries, ListEntry{Item: it})
		}
	}

	return entries, nil
}

// ReadyItems returns the annotated ready set in selection order, the view
// the board renders.
func (a *App) ReadyItems(ctx context.Context) ([]item.Item, error) {
	snap, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	g := graph.Build(snap.Items)
	if report := schedule.Validate(snap.Items, g, snap.KnownCompleted); !report.Empty() {
		return nil, fmt.Errorf("snapshot invalid:\n%s", report.Summary())
	}

	annotated := schedule.Propagate(snap.Items, g)
	byID := make(map[string]item.Item, len(annotated))
	for _, it := range annotated {
		byID[it.ID] = it
	}

	var ready []item.Item
	for _, id := range g.ReadySet(snap.KnownCompleted) {
		ready = append(ready, byID[id])
	}
	schedule.SortItems(ready)

	return ready, nil
}

// Show returns a single item with its markdown body.
func (a *App) Show(ctx context.Context, id string) (item.Item, string, error) {
	snap, err := a.store.Load(ctx)
	if err != nil {
		return item.Item{}, "", fmt.Errorf("load snapshot: %w", err)
	}

	for _, it := range snap.Items {
		if it.ID == id {
			return it, snap.Bodies[id], nil
		}
	}
	return item.Item{}, "", fmt.Errorf("%w: %s", snapshot.ErrNotFound, id)
}

// CreateOptions are the authored fields for a new item.
type CreateOptions struct {
	Title     string
	Priority  item.Priority
	Override  bool
	BlockedBy []string
	Related   []string
	Body      string
}

// Create authors a new item file. The id is derived from the title slug
// plus a random suffix so ids stay unique and stable without coordination.
func (a *App) Create(ctx context.Context, opts CreateOptions) (item.Item, error) {
	if opts.Priority == "" {
		opts.Priority = a.Config.DefaultPriority
	}

	it := item.Item{
		ID:        slugID(opts.Title),
		Title:     opts.Title,
		Status:    item.StatusTodo,
		Priority:  opts.Priority,
		Override:  opts.Override,
		Order:     item.OrderNone,
		BlockedBy: opts.BlockedBy,
		Related:   opts.Related,
	}
	it.Normalize()

	path, err := a.store.Create(ctx, it, opts.Body)
	if err != nil {
		return item.Item{}, err
	}

	a.log.Info().Str("id", it.ID).Str("path", path).Msg("item created")
	return it, nil
}

// SetStatus applies a state-machine-checked transition to the item file.
func (a *App) SetStatus(ctx context.Context, id string, to item.Status) error {
	if err := a.store.UpdateStatus(ctx, id, to); err != nil {
		return err
	}
	a.log.Info().Str("id", id).Str("status", string(to)).Msg("status updated")
	return nil
}

// slugID converts a title into a file-safe id with a random suffix.
func slugID(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_', r == '.':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if len(slug) > 40 {
		slug = slug[:40]
	}
	if slug == "" {
		slug = "item"
	}
	return slug + "-" + randid.Generate(6)
}
