package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"lensgallery/internal/catalog"

	"github.com/google/uuid"
)

var (
	// ErrViewNotFound is returned for unknown view IDs.
	ErrViewNotFound = errors.New("view not found")
	// ErrTooManyViews is returned by Create when the live view cap is reached.
	ErrTooManyViews = errors.New("too many live views")
)

// Limits bounds the views a registry keeps alive.
type Limits struct {
	// IdleTTL is how long a view may go without a Get before Reap tears it
	// down. Zero keeps views until they are deleted.
	IdleTTL time.Duration
	// MaxViews caps the live views. Zero means no cap.
	MaxViews int
}

type entry struct {
	view     *View
	lastSeen time.Time
}

// Registry keeps one gallery view per visitor.
type Registry struct {
	mu      sync.RWMutex
	views   map[string]*entry
	catalog *catalog.Catalog
	opts    ViewOptions
	limits  Limits
	logger  *slog.Logger
	now     func() time.Time
}

// NewRegistry creates an empty registry whose views share cat and opts.
func NewRegistry(cat *catalog.Catalog, opts ViewOptions, limits Limits, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		views:   make(map[string]*entry),
		catalog: cat,
		opts:    opts,
		limits:  limits,
		logger:  logger,
		now:     time.Now,
	}
}

// Create mounts a new view and returns its ID. ctx bounds the view's rotation timer.
func (r *Registry) Create(ctx context.Context) (string, *View, error) {
	id := uuid.NewString()
	v := NewView(r.catalog, r.opts, r.logger.With("view", id))

	r.mu.Lock()
	if r.limits.MaxViews > 0 && len(r.views) >= r.limits.MaxViews {
		r.mu.Unlock()
		return "", nil, ErrTooManyViews
	}
	r.views[id] = &entry{view: v, lastSeen: r.now()}
	r.mu.Unlock()

	v.Mount(ctx)
	r.logger.Info("Mounted gallery view", "view", id, "catalog", r.catalog.Len())
	return id, v, nil
}

// Get returns the view with the given ID and marks it as recently used.
func (r *Registry) Get(id string) (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if !ok {
		return nil, ErrViewNotFound
	}
	e.lastSeen = r.now()
	return e.view, nil
}

// Delete tears the view down and forgets it.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	e, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return ErrViewNotFound
	}
	e.view.Teardown()
	r.logger.Info("Tore down gallery view", "view", id)
	return nil
}

// Reap tears down views idle for longer than IdleTTL and returns how many it removed.
func (r *Registry) Reap() int {
	if r.limits.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.limits.IdleTTL)

	r.mu.Lock()
	var idle []*View
	for id, e := range r.views {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.view)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range idle {
		v.Teardown()
	}
	if len(idle) > 0 {
		r.logger.Info("Reaped idle gallery views", "count", len(idle))
	}
	return len(idle)
}

// RunReaper calls Reap every half IdleTTL until ctx is done. It returns
// at once when no IdleTTL is set.
func (r *Registry) RunReaper(ctx context.Context) {
	if r.limits.IdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(r.limits.IdleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap()
		}
	}
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Catalog returns the catalog views are built from.
func (r *Registry) Catalog() *catalog.Catalog { return r.catalog }

// CloseAll tears down every view.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range views {
		e.view.Teardown()
	}
}
