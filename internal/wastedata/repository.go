package wastedata

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("waste entry not found")

// Repository stores waste entries. Implementations return entries ordered by
// date, newest first.
type Repository interface {
	List(ctx context.Context) ([]WasteEntry, error)
	Get(ctx context.Context, id string) (WasteEntry, error)
	Create(ctx context.Context, e WasteEntry) (WasteEntry, error)
	Update(ctx context.Context, e WasteEntry) (WasteEntry, error)
	Delete(ctx context.Context, id string) error
}

// MemoryRepository keeps entries in process memory. It backs the admin grid
// when no database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []WasteEntry
	now     func() time.Time
}

// NewMemoryRepository returns a repository holding a copy of entries.
func NewMemoryRepository(entries ...WasteEntry) *MemoryRepository {
	return &MemoryRepository{
		entries: slices.Clone(entries),
		now:     time.Now,
	}
}

// DemoEntries returns the three sample days shown on a fresh install.
func DemoEntries() []WasteEntry {
	return []WasteEntry{
		{ID: "1", Date: "2025-05-01", PetAmount: 65, CardboardAmount: 45, CansAmount: 28, GlassAmount: 32, OtherAmount: 15, ParticipationRate: 68, MisclassificationRate: 12, CampaignReach: 320, Costs: 285},
		{ID: "2", Date: "2025-05-02", PetAmount: 72, CardboardAmount: 51, CansAmount: 31, GlassAmount: 28, OtherAmount: 18, ParticipationRate: 70, MisclassificationRate: 10, CampaignReach: 345, Costs: 275},
		{ID: "3", Date: "2025-05-03", PetAmount: 68, CardboardAmount: 48, CansAmount: 29, GlassAmount: 35, OtherAmount: 14, ParticipationRate: 71, MisclassificationRate: 11, CampaignReach: 355, Costs: 290},
	}
}

func sortNewestFirst(entries []WasteEntry) {
	slices.SortStableFunc(entries, func(a, b WasteEntry) int {
		return strings.Compare(b.Date, a.Date)
	})
}

func (r *MemoryRepository) List(_ context.Context) ([]WasteEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := slices.Clone(r.entries)
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (WasteEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return WasteEntry{}, ErrNotFound
}

// Create stores e under a new id.
func (r *MemoryRepository) Create(_ context.Context, e WasteEntry) (WasteEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uuid.NewString()
	e.CreatedAt = r.now().UTC()
	r.entries = append(r.entries, e)
	return e, nil
}

// Update replaces the entry with the same id, keeping its creation time.
func (r *MemoryRepository) Update(_ context.Context, e WasteEntry) (WasteEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.IndexFunc(r.entries, func(x WasteEntry) bool { return x.ID == e.ID })
	if idx < 0 {
		return WasteEntry{}, ErrNotFound
	}
	e.CreatedAt = r.entries[idx].CreatedAt
	r.entries[idx] = e
	return e, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.entries)
	r.entries = slices.DeleteFunc(r.entries, func(x WasteEntry) bool { return x.ID == id })
	if len(r.entries) == before {
		return ErrNotFound
	}
	return nil
}
