package tables

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"tably/pkg/logger"

	"github.com/google/uuid"
)

// Catalog serves read-only table lookups from an immutable snapshot.
// The snapshot is replaced wholesale on refresh; readers never observe
// a partially updated catalog.
type Catalog interface {
	List(zone *Zone) []Table
	Get(id uuid.UUID) (Table, bool)
	Refresh(ctx context.Context) error
}

type snapshot struct {
	tables []Table
	byID   map[uuid.UUID]Table
}

type catalog struct {
	repo    Repository
	current atomic.Pointer[snapshot]
}

// NewCatalog creates a catalog and loads the initial snapshot.
func NewCatalog(ctx context.Context, repo Repository) (Catalog, error) {
	c := &catalog{repo: repo}
	c.current.Store(&snapshot{byID: map[uuid.UUID]Table{}})
	if err := c.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial catalog load failed: %w", err)
	}
	return c, nil
}

func (c *catalog) List(zone *Zone) []Table {
	snap := c.current.Load()
	if zone == nil {
		out := make([]Table, len(snap.tables))
		copy(out, snap.tables)
		return out
	}
	var out []Table
	for _, t := range snap.tables {
		if t.Zone == *zone {
			out = append(out, t)
		}
	}
	return out
}

func (c *catalog) Get(id uuid.UUID) (Table, bool) {
	snap := c.current.Load()
	t, ok := snap.byID[id]
	return t, ok
}

func (c *catalog) Refresh(ctx context.Context) error {
	list, err := c.repo.ListTables(ctx)
	if err != nil {
		return fmt.Errorf("catalog refresh failed: %w", err)
	}

	byID := make(map[uuid.UUID]Table, len(list))
	for _, t := range list {
		byID[t.ID] = t
	}

	c.current.Store(&snapshot{tables: list, byID: byID})
	return nil
}

// Refresher reloads the catalog periodically in the background. A failed
// reload keeps serving the previous snapshot.
type Refresher struct {
	catalog  Catalog
	interval time.Duration
	done     chan struct{}
}

// NewRefresher creates a periodic catalog refresher
func NewRefresher(catalog Catalog, interval time.Duration) *Refresher {
	return &Refresher{
		catalog:  catalog,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start starts the background refresh loop
func (r *Refresher) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := r.catalog.Refresh(ctx); err != nil {
					logger.GetDefault().LogDegraded(ctx, "catalog", err)
				}
			case <-r.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the background refresh loop
func (r *Refresher) Stop() {
	close(r.done)
}
