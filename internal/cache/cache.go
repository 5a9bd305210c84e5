package cache

import (
	"time"

	"trend-intel/pkg/models"
)

// TrendCache defines the operations of the trend intelligence cache.
type TrendCache interface {
	// Keyed operations
	Set(keyword string, period models.Period, data []models.TrendSummary, metadata map[string]string)
	Get(keyword string, period models.Period, metadata map[string]string) ([]models.TrendSummary, bool)
	Has(keyword string, period models.Period, metadata map[string]string) bool
	Delete(keyword string, period models.Period, metadata map[string]string) bool

	// Maintenance operations
	Cleanup() int
	Clear()

	// Diagnostics
	Stats() Stats
	ExportSnapshot() Export
}

// StoreConfig configuration for the in-memory store
type StoreConfig struct {
	MaxEntries      int           `mapstructure:"max_entries"`
	EvictFraction   float64       `mapstructure:"evict_fraction"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DefaultStoreConfig returns the default configuration
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		MaxEntries:      1000,
		EvictFraction:   0.10,
		CleanupInterval: 30 * time.Minute,
	}
}

// TTLForPeriod maps an analysis window to its cache TTL. Larger windows
// change more slowly, so they cache longer. Callers must not override
// this mapping; the orchestrator relies on it.
func TTLForPeriod(p models.Period) time.Duration {
	switch p {
	case models.Period1D:
		return 2 * time.Hour
	case models.Period3D:
		return 4 * time.Hour
	case models.Period7D:
		return 8 * time.Hour
	case models.Period14D:
		return 12 * time.Hour
	case models.Period30D:
		return 24 * time.Hour
	}
	return 2 * time.Hour
}

// Stats is a point-in-time view of cache effectiveness. ExpiredEntries
// is a scan-time count only; lazy deletion may remove entries between
// calls.
type Stats struct {
	TotalEntries    int       `json:"total_entries"`
	ExpiredEntries  int       `json:"expired_entries"`
	Hits            uint64    `json:"hits"`
	Misses          uint64    `json:"misses"`
	HitRatePercent  float64   `json:"hit_rate_percent"`
	OldestEntry     time.Time `json:"oldest_entry,omitempty"`
	NewestEntry     time.Time `json:"newest_entry,omitempty"`
	ApproxSizeBytes int64     `json:"approx_size_bytes"`
}

// Export is a diagnostic dump of entry metadata, without payloads.
type Export struct {
	ExportedAt time.Time     `json:"exported_at"`
	Entries    []ExportEntry `json:"entries"`
}

// ExportEntry describes one cached entry for diagnostics.
type ExportEntry struct {
	Key         string        `json:"key"`
	Keyword     string        `json:"keyword"`
	Period      models.Period `json:"period"`
	Fingerprint string        `json:"fingerprint"`
	CreatedAt   time.Time     `json:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at"`
	Expired     bool          `json:"expired"`
	SizeBytes   int64         `json:"size_bytes"`
	Summaries   int           `json:"summaries"`
}
