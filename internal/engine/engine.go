// Package engine derives aggregate views over the expense collection: the
// filtered list, per-month sums, per-category sums with percentages, and
// the running total. Snapshots are memoized per store version and filter,
// so repeated reads between mutations never recompute.
package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/store"
)

const (
	snapshotCacheSize = 64
	snapshotCacheTTL  = 5 * time.Minute
)

// Snapshot is one consistent derived view of the collection. MonthlyData is
// computed over the whole collection regardless of the active filter;
// CategoryData and TotalAmountCents follow the filtered list.
type Snapshot struct {
	FilteredExpenses []core.Expense     `json:"filteredExpenses"`
	MonthlyData      []core.MonthlySum  `json:"monthlyData"`
	CategoryData     []core.CategorySum `json:"categoryData"`
	TotalAmountCents int64              `json:"totalAmountCents"`
}

// Engine holds the current filter state and computes snapshots on demand.
type Engine struct {
	store  *store.Store
	logger *applog.Logger

	mu     sync.Mutex
	filter core.Filter

	snapshots *cache.LRU[Snapshot]
}

func New(s *store.Store, logger *applog.Logger) *Engine {
	return &Engine{
		store:     s,
		logger:    logger.WithComponent(applog.ComponentEngine),
		snapshots: cache.NewLRU[Snapshot](snapshotCacheSize, snapshotCacheTTL),
	}
}

// SetFilter replaces the active filter. The next Snapshot call reflects it.
func (e *Engine) SetFilter(f core.Filter) {
	e.mu.Lock()
	e.filter = f
	e.mu.Unlock()
}

// Filter returns the active filter.
func (e *Engine) Filter() core.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Snapshot computes the derived view for the active filter against the
// current store state. Results are cached per store version and filter, so
// a hit costs one map lookup.
func (e *Engine) Snapshot() Snapshot {
	return e.SnapshotFor(e.Filter())
}

// SnapshotFor computes the derived view for an explicit filter without
// touching the engine's filter state.
func (e *Engine) SnapshotFor(f core.Filter) Snapshot {
	expenses, version := e.store.State()

	key := snapshotKey(version, f)
	if snap, ok := e.snapshots.Get(key); ok {
		return snap
	}

	filtered := core.ApplyFilter(expenses, f)
	snap := Snapshot{
		FilteredExpenses: filtered,
		MonthlyData:      core.MonthlySums(expenses),
		CategoryData:     core.CategorySums(filtered),
		TotalAmountCents: core.Total(filtered),
	}
	e.snapshots.Set(key, snap)
	e.logger.Debug("Computed snapshot",
		applog.FieldVersion, version,
		"filtered", len(filtered),
		"total", len(expenses))
	return snap
}

// CleanExpired drops expired snapshot cache entries. It satisfies
// cache.Cleaner for the cleanup manager.
func (e *Engine) CleanExpired() int {
	return e.snapshots.CleanExpired()
}

// snapshotKey fingerprints a store version plus filter. Search is folded to
// lower case because matching is case-insensitive, so "Taxi" and "taxi"
// share an entry.
func snapshotKey(version uint64, f core.Filter) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s",
		version, f.StartDate, f.EndDate, f.Category, strings.ToLower(f.Search))
}
