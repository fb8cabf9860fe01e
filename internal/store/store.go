package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Store keys. RecordsKey holds the full current-schema collection as
// one JSON blob. The salesTracker* keys belong to the deprecated tool
// and are erased wholesale after migration.
const (
	RecordsKey        = "salesJournalRecords"
	LegacyDataKey     = "salesTrackerData"
	LegacyThemeKey    = "salesTrackerTheme"
	LegacySettingsKey = "salesTrackerSettings"
)

// Blob is a string-keyed blob store. Get reports an absent key as
// ("", false, nil); only transport-level failures surface as errors.
type Blob interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
