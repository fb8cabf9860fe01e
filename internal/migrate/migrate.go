// Package migrate converts blobs left behind by the deprecated sales
// tracker into current-schema records. The conversion itself is a
// pure function; Run wires it to the store and runs at most once per
// store lifetime, because it erases the deprecated keys when done.
package migrate

import (
	"context"
	"encoding/json"
	"math"

	"github.com/rs/zerolog"

	"github.com/Mih-kelo/sales-journal/internal/domain"
	"github.com/Mih-kelo/sales-journal/internal/journal"
	"github.com/Mih-kelo/sales-journal/internal/store"
)

// MigratedNote marks records converted from the deprecated tracker.
const MigratedNote = "Migrated from sales tracker"

// FromLegacy converts deprecated tracker entries into sale records.
// Revenue is abs(pnl) with non-numeric pnl already coerced to 0.
// Only an explicit "returningcustomers" result maps to returning;
// null and "newcustomers" both land on new. The old tool recorded
// those two interchangeably and the conflation is kept as-is rather
// than guessed at.
func FromLegacy(legacy []domain.LegacyRecord, today string, defaultPayment string) []domain.SaleRecord {
	out := make([]domain.SaleRecord, 0, len(legacy))
	for _, l := range legacy {
		revenue := math.Abs(l.PnL.Float())

		customerType := domain.CustomerNew
		if l.Result == "returningcustomers" {
			customerType = domain.CustomerReturning
		}

		date := l.LaunchDate
		if date == "" {
			date = today
		}

		out = append(out, domain.SaleRecord{
			Date:          date,
			CustomerType:  customerType,
			ItemName:      "Sale",
			Quantity:      1,
			UnitPrice:     domain.Number(revenue),
			Discount:      0,
			PaymentMethod: defaultPayment,
			Notes:         MigratedNote,
		})
	}
	return out
}

// Run performs the one-shot migration: read the deprecated data key,
// ingest the converted records through the journal, then erase every
// deprecated key. Once the keys are gone a second run finds nothing
// and does nothing, which makes the migration idempotent in effect.
// It is a no-op when the deprecated data key holds nothing.
func Run(ctx context.Context, blobs store.Blob, repo *journal.Repository, today string, defaultPayment string, log zerolog.Logger) error {
	raw, ok, err := blobs.Get(ctx, store.LegacyDataKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var legacy []domain.LegacyRecord
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		log.Warn().Err(err).Msg("migrate: deprecated blob is corrupt, discarding")
		legacy = nil
	}

	stored := repo.Ingest(ctx, FromLegacy(legacy, today, defaultPayment))
	log.Info().Int("records", len(stored)).Msg("migrate: imported deprecated tracker data")

	for _, key := range []string{store.LegacyDataKey, store.LegacyThemeKey, store.LegacySettingsKey} {
		if err := blobs.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
