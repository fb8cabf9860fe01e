package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Mih-kelo/sales-journal/internal/domain"
	"github.com/Mih-kelo/sales-journal/internal/store"
	"github.com/Mih-kelo/sales-journal/internal/store/memory"
)

func soapInput() domain.SaleInput {
	return domain.SaleInput{
		Date:          "2025-01-01",
		CustomerType:  domain.CustomerNew,
		ItemName:      "Soap",
		Quantity:      2,
		UnitPrice:     500,
		PaymentMethod: domain.PaymentCash,
	}
}

func newTestRepo() (*Repository, *memory.Store) {
	blobs := memory.New()
	return New(blobs, zerolog.Nop()), blobs
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	first, err := repo.Create(ctx, soapInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(ctx, soapInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Fatalf("expected non-empty ids, got %q and %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both were %q", first.ID)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo, _ := newTestRepo()

	bad := soapInput()
	bad.Quantity = 0

	_, err := repo.Create(context.Background(), bad)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.Len() != 0 {
		t.Fatalf("invalid record must never be admitted, have %d records", repo.Len())
	}
}

func TestPersistLoadRoundTrip(t *testing.T) {
	repo, blobs := newTestRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, soapInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	reloaded := New(blobs, zerolog.Nop())
	reloaded.Load(ctx)

	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 record after reload, got %d", reloaded.Len())
	}
	got, err := reloaded.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find after reload: %v", err)
	}
	if got != created {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, created)
	}
}

func TestLoadCorruptBlobYieldsEmptyCollection(t *testing.T) {
	repo, blobs := newTestRepo()
	ctx := context.Background()

	if err := blobs.Set(ctx, store.RecordsKey, "{not json"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	repo.Load(ctx)
	if repo.Len() != 0 {
		t.Fatalf("expected empty collection from corrupt blob, got %d records", repo.Len())
	}
}

func TestUpdateReplacesWholeRecordPreservingID(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, soapInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	replacement := soapInput()
	replacement.ItemName = "Cream"
	replacement.Quantity = 5
	replacement.Notes = "restock"

	if err := repo.Update(ctx, created.ID, replacement); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := repo.FindByID(created.ID)
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("update must preserve id, got %q", got.ID)
	}
	if got.ItemName != "Cream" || got.Quantity != 5 || got.Notes != "restock" {
		t.Fatalf("update did not replace fields: %+v", got)
	}
}

func TestUpdateUnknownIDIsSilentNoop(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	if _, err := repo.Create(ctx, soapInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Update(ctx, "no-such-id", soapInput()); err != nil {
		t.Fatalf("update of unknown id must not error, got %v", err)
	}
	if repo.Len() != 1 {
		t.Fatalf("update of unknown id must not change the collection, got %d records", repo.Len())
	}
}

func TestDeleteUnknownIDIsSilentNoop(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()

	created, err := repo.Create(ctx, soapInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	repo.Delete(ctx, "no-such-id")
	if repo.Len() != 1 {
		t.Fatalf("collection changed after deleting unknown id, got %d records", repo.Len())
	}

	repo.Delete(ctx, created.ID)
	if repo.Len() != 0 {
		t.Fatalf("expected empty collection after delete, got %d records", repo.Len())
	}
	if _, err := repo.FindByID(created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestResetClearsCollectionAndMirror(t *testing.T) {
	repo, blobs := newTestRepo()
	ctx := context.Background()

	if _, err := repo.Create(ctx, soapInput()); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	repo.Reset(ctx)
	if repo.Len() != 0 {
		t.Fatalf("expected empty collection after reset, got %d records", repo.Len())
	}

	reloaded := New(blobs, zerolog.Nop())
	reloaded.Load(ctx)
	if reloaded.Len() != 0 {
		t.Fatalf("expected empty mirror after reset, got %d records", reloaded.Len())
	}
}

func TestIngestAssignsIDsAndPersistsOnce(t *testing.T) {
	repo, blobs := newTestRepo()
	ctx := context.Background()

	stored := repo.Ingest(ctx, []domain.SaleRecord{
		{Date: "2024-05-01", CustomerType: domain.CustomerReturning, ItemName: "Sale", Quantity: 1, UnitPrice: 150, PaymentMethod: domain.PaymentCash},
		{Date: "2024-05-02", CustomerType: domain.CustomerNew, ItemName: "Sale", Quantity: 1, UnitPrice: 80, PaymentMethod: domain.PaymentCash},
	})
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored records, got %d", len(stored))
	}
	for _, rec := range stored {
		if rec.ID == "" {
			t.Fatalf("ingest must assign ids, got %+v", rec)
		}
	}

	reloaded := New(blobs, zerolog.Nop())
	reloaded.Load(ctx)
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 records in mirror, got %d", reloaded.Len())
	}
}

// failingBlob accepts reads but rejects every write.
type failingBlob struct {
	inner *memory.Store
}

func (f *failingBlob) Get(ctx context.Context, key string) (string, bool, error) {
	return f.inner.Get(ctx, key)
}

func (f *failingBlob) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func (f *failingBlob) Remove(context.Context, string) error {
	return errors.New("disk full")
}

func TestMirrorWriteFailureIsInvisibleToCallers(t *testing.T) {
	repo := New(&failingBlob{inner: memory.New()}, zerolog.Nop())

	created, err := repo.Create(context.Background(), soapInput())
	if err != nil {
		t.Fatalf("create must succeed despite mirror failure, got %v", err)
	}
	if _, err := repo.FindByID(created.ID); err != nil {
		t.Fatalf("record must be readable despite mirror failure, got %v", err)
	}
}
