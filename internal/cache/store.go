package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"trend-intel/pkg/models"
)

// Entry is one immutable cache record. Entries are replaced, never
// mutated in place.
type Entry struct {
	Key         string                `json:"key"`
	Keyword     string                `json:"keyword"`
	Period      models.Period         `json:"period"`
	Fingerprint string                `json:"fingerprint"`
	Data        []models.TrendSummary `json:"data"`
	CreatedAt   time.Time             `json:"created_at"`
	ExpiresAt   time.Time             `json:"expires_at"`
	SizeBytes   int64                 `json:"size_bytes"`
}

// IsExpired checks if the entry has expired at the given instant.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store is the in-memory TTL cache for trend summaries. A single mutex
// guards the table and the hit/miss counters; expected load is tens to
// low hundreds of entries, so per-key locking is not worth it.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry
	hits    uint64
	misses  uint64

	config    *StoreConfig
	clock     clock.Clock
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewStore creates a store and warm-starts it from the snapshot slot.
// A missing or corrupt snapshot means a cold start, never an error.
func NewStore(config *StoreConfig, snapshots SnapshotStore, clk clock.Clock, logger *zap.Logger) *Store {
	if config == nil {
		config = DefaultStoreConfig()
	}
	if snapshots == nil {
		snapshots = NoopSnapshots{}
	}
	if clk == nil {
		clk = clock.New()
	}

	s := &Store{
		entries:   make(map[string]*Entry),
		config:    config,
		clock:     clk,
		snapshots: snapshots,
		logger:    logger,
	}
	s.restore()
	return s
}

// Set stores a summary list under its derived key. The TTL always comes
// from the period mapping. At capacity, the oldest entries by creation
// time are evicted first. Set never fails for valid inputs.
func (s *Store) Set(keyword string, period models.Period, data []models.TrendSummary, metadata map[string]string) {
	key := Key(keyword, period, metadata)
	now := s.clock.Now()
	ttl := TTLForPeriod(period)

	payload, err := json.Marshal(data)
	size := int64(len(payload))
	if err != nil {
		size = 0
	}

	entry := &Entry{
		Key:         key,
		Keyword:     NormalizeKeyword(keyword),
		Period:      period,
		Fingerprint: Fingerprint(metadata),
		Data:        models.CloneSummaries(data),
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		SizeBytes:   size,
	}

	s.mu.Lock()
	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.config.MaxEntries {
		evicted := s.evictOldestLocked()
		s.logger.Debug("cache at capacity, evicted oldest cohort",
			zap.Int("evicted", evicted),
			zap.Int("max_entries", s.config.MaxEntries))
	}
	s.entries[key] = entry
	state := s.marshalStateLocked()
	s.mu.Unlock()

	s.logger.Debug("cache entry set",
		zap.String("key", key),
		zap.String("keyword", entry.Keyword),
		zap.String("period", string(period)),
		zap.Duration("ttl", ttl))

	s.persist(state)
}

// Get returns the cached summaries for a key, or false on a miss.
// An expired entry is lazily deleted and counted as a miss. The
// returned data is a deep copy; the store keeps ownership of entries.
func (s *Store) Get(keyword string, period models.Period, metadata map[string]string) ([]models.TrendSummary, bool) {
	key := Key(keyword, period, metadata)

	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		s.misses++
		state := s.marshalStateLocked()
		s.mu.Unlock()
		s.persist(state)
		return nil, false
	}
	if entry.IsExpired(s.clock.Now()) {
		delete(s.entries, key)
		s.misses++
		state := s.marshalStateLocked()
		s.mu.Unlock()
		s.logger.Debug("cache entry expired, removed", zap.String("key", key))
		s.persist(state)
		return nil, false
	}
	s.hits++
	data := models.CloneSummaries(entry.Data)
	state := s.marshalStateLocked()
	s.mu.Unlock()

	s.persist(state)
	return data, true
}

// Has reports whether a live entry exists for the key, with the same
// lazy-expiry and hit/miss accounting as Get.
func (s *Store) Has(keyword string, period models.Period, metadata map[string]string) bool {
	_, ok := s.Get(keyword, period, metadata)
	return ok
}

// Delete invalidates one key. Deleting an absent key is a no-op.
func (s *Store) Delete(keyword string, period models.Period, metadata map[string]string) bool {
	key := Key(keyword, period, metadata)

	s.mu.Lock()
	_, existed := s.entries[key]
	delete(s.entries, key)
	state := s.marshalStateLocked()
	s.mu.Unlock()

	if existed {
		s.logger.Debug("cache entry invalidated", zap.String("key", key))
		s.persist(state)
	}
	return existed
}

// DeleteKeyword invalidates every entry for a normalized keyword,
// optionally restricted to one period. Returns the number removed.
func (s *Store) DeleteKeyword(keyword string, period models.Period) int {
	normalized := NormalizeKeyword(keyword)

	s.mu.Lock()
	removed := 0
	for key, entry := range s.entries {
		if entry.Keyword != normalized {
			continue
		}
		if period != "" && entry.Period != period {
			continue
		}
		delete(s.entries, key)
		removed++
	}
	state := s.marshalStateLocked()
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Debug("cache keyword invalidated",
			zap.String("keyword", normalized),
			zap.String("period", string(period)),
			zap.Int("removed", removed))
		s.persist(state)
	}
	return removed
}

// Cleanup removes all expired entries in one scan. It runs on a timer
// and tolerates reads doing their own lazy deletion in between.
func (s *Store) Cleanup() int {
	now := s.clock.Now()

	s.mu.Lock()
	removed := 0
	for key, entry := range s.entries {
		if entry.IsExpired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	state := s.marshalStateLocked()
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Info("cache cleanup removed expired entries", zap.Int("removed", removed))
		s.persist(state)
	}
	return removed
}

// Clear drops all entries and resets the hit/miss counters.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.hits = 0
	s.misses = 0
	state := s.marshalStateLocked()
	s.mu.Unlock()

	s.logger.Info("cache cleared")
	s.persist(state)
}

// Stats computes current cache statistics.
func (s *Store) Stats() Stats {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		TotalEntries: len(s.entries),
		Hits:         s.hits,
		Misses:       s.misses,
	}
	if total := s.hits + s.misses; total > 0 {
		stats.HitRatePercent = float64(s.hits) / float64(total) * 100
	}
	for _, entry := range s.entries {
		if entry.IsExpired(now) {
			stats.ExpiredEntries++
		}
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
		stats.ApproxSizeBytes += entry.SizeBytes
	}
	return stats
}

// ExportSnapshot dumps entry metadata for diagnostics. It does not
// touch the hit/miss counters.
func (s *Store) ExportSnapshot() Export {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	export := Export{
		ExportedAt: now,
		Entries:    make([]ExportEntry, 0, len(s.entries)),
	}
	for _, entry := range s.entries {
		export.Entries = append(export.Entries, ExportEntry{
			Key:         entry.Key,
			Keyword:     entry.Keyword,
			Period:      entry.Period,
			Fingerprint: entry.Fingerprint,
			CreatedAt:   entry.CreatedAt,
			ExpiresAt:   entry.ExpiresAt,
			Expired:     entry.IsExpired(now),
			SizeBytes:   entry.SizeBytes,
			Summaries:   len(entry.Data),
		})
	}
	sort.Slice(export.Entries, func(i, j int) bool {
		return export.Entries[i].CreatedAt.Before(export.Entries[j].CreatedAt)
	})
	return export
}

// StartCleanup runs Cleanup on the configured interval until the
// returned stop function is called.
func (s *Store) StartCleanup() (stop func()) {
	ticker := s.clock.Ticker(s.config.CleanupInterval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// evictOldestLocked removes the oldest EvictFraction of entries by
// creation time. Caller holds the lock.
func (s *Store) evictOldestLocked() int {
	count := int(float64(s.config.MaxEntries) * s.config.EvictFraction)
	if count < 1 {
		count = 1
	}

	type aged struct {
		key       string
		createdAt time.Time
	}
	all := make([]aged, 0, len(s.entries))
	for key, entry := range s.entries {
		all = append(all, aged{key: key, createdAt: entry.CreatedAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].createdAt.Before(all[j].createdAt)
	})

	if count > len(all) {
		count = len(all)
	}
	for _, candidate := range all[:count] {
		delete(s.entries, candidate.key)
	}
	return count
}
