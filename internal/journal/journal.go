// Package journal owns the canonical in-memory collection of sale
// records. The blob store is a passive mirror, rewritten after every
// successful mutation. A failed mirror write is logged and otherwise
// indistinguishable from success: the journal must stay usable even
// when persistence is flaky.
package journal

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Mih-kelo/sales-journal/internal/domain"
	"github.com/Mih-kelo/sales-journal/internal/store"
)

type Repository struct {
	mu      sync.RWMutex
	blobs   store.Blob
	records map[string]domain.SaleRecord
	log     zerolog.Logger
}

func New(blobs store.Blob, log zerolog.Logger) *Repository {
	return &Repository{
		blobs:   blobs,
		records: make(map[string]domain.SaleRecord),
		log:     log,
	}
}

// Load replaces the collection with whatever the store holds. A
// corrupt or absent blob yields an empty collection, never an error.
func (r *Repository) Load(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]domain.SaleRecord)

	raw, ok, err := r.blobs.Get(ctx, store.RecordsKey)
	if err != nil {
		r.log.Warn().Err(err).Msg("journal: load failed, starting empty")
		return
	}
	if !ok {
		return
	}

	var decoded []domain.SaleRecord
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		r.log.Warn().Err(err).Msg("journal: stored blob is corrupt, starting empty")
		return
	}
	for _, rec := range decoded {
		if rec.ID == "" {
			continue
		}
		r.records[rec.ID] = rec
	}
}

// Create validates the input, assigns a fresh unique id, stores the
// record, and mirrors the collection. Existing ids are never
// overwritten, even across delete/recreate cycles.
func (r *Repository) Create(ctx context.Context, in domain.SaleInput) (domain.SaleRecord, error) {
	if verr := domain.ValidateInput(in); verr != nil {
		return domain.SaleRecord{}, verr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rec := in.Record(r.freshIDLocked())
	r.records[rec.ID] = rec
	r.persistLocked(ctx)
	return rec, nil
}

// Update replaces the entire record, preserving its id. An unknown id
// is a silent no-op; the UI only ever offers ids it was handed, so
// absence is not an error here.
func (r *Repository) Update(ctx context.Context, id string, in domain.SaleInput) error {
	if verr := domain.ValidateInput(in); verr != nil {
		return verr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return nil
	}
	r.records[id] = in.Record(id)
	r.persistLocked(ctx)
	return nil
}

// Delete removes the record with the matching id if present, silent
// no-op otherwise.
func (r *Repository) Delete(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return
	}
	delete(r.records, id)
	r.persistLocked(ctx)
}

func (r *Repository) FindByID(id string) (domain.SaleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return domain.SaleRecord{}, store.ErrNotFound
	}
	return rec, nil
}

// ReadAll returns a copy of the full collection. Insertion order is
// not preserved across loads.
func (r *Repository) ReadAll() []domain.SaleRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.SaleRecord, 0, len(r.records))
	for _, rec := range r.records {
		all = append(all, rec)
	}
	return all
}

func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.records)
}

// Reset clears the collection and mirrors the empty state.
func (r *Repository) Reset(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]domain.SaleRecord)
	r.persistLocked(ctx)
}

// Ingest appends already-formed records (the migrator's output),
// assigning each a fresh id, and mirrors once at the end.
func (r *Repository) Ingest(ctx context.Context, records []domain.SaleRecord) []domain.SaleRecord {
	if len(records) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]domain.SaleRecord, 0, len(records))
	for _, rec := range records {
		rec.ID = r.freshIDLocked()
		r.records[rec.ID] = rec
		stored = append(stored, rec)
	}
	r.persistLocked(ctx)
	return stored
}

func (r *Repository) freshIDLocked() string {
	for {
		id := uuid.NewString()
		if _, exists := r.records[id]; !exists {
			return id
		}
	}
}

func (r *Repository) persistLocked(ctx context.Context) {
	all := make([]domain.SaleRecord, 0, len(r.records))
	for _, rec := range r.records {
		all = append(all, rec)
	}

	payload, err := json.Marshal(all)
	if err != nil {
		r.log.Warn().Err(err).Msg("journal: encode for mirror failed")
		return
	}
	if err := r.blobs.Set(ctx, store.RecordsKey, string(payload)); err != nil {
		r.log.Warn().Err(err).Msg("journal: mirror write failed")
	}
}
