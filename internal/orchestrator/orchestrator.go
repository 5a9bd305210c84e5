// Package orchestrator coordinates the trend pipeline: cache lookups,
// external collection for the misses, scoring, aggregation and cache
// write-back. Nothing here surfaces a hard failure to the caller; the
// worst observable outcome is clearly-tagged degraded data.
package orchestrator

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"trend-intel/internal/cache"
	"trend-intel/internal/provider"
	"trend-intel/pkg/models"
)

// Orchestrator owns the cache store and the provider client. Instances
// are constructed explicitly and injected; there is no package-level
// singleton.
type Orchestrator struct {
	cache    *cache.Store
	provider provider.ContentProvider
	clock    clock.Clock
	logger   *zap.Logger

	// jitter is cosmetic noise for placeholder scores only. The
	// scoring engine itself stays deterministic.
	jitterMu sync.Mutex
	jitter   *rand.Rand
}

// New creates an orchestrator around an existing store and provider.
func New(store *cache.Store, contentProvider provider.ContentProvider, clk clock.Clock, logger *zap.Logger) *Orchestrator {
	if clk == nil {
		clk = clock.New()
	}
	return &Orchestrator{
		cache:    store,
		provider: contentProvider,
		clock:    clk,
		logger:   logger,
		jitter:   rand.New(rand.NewSource(clk.Now().UnixNano())),
	}
}

// Scrape returns one ranked TrendSummary per requested keyword,
// serving from cache where possible and collecting only the misses.
// Keywords that yield zero items are silently dropped. The returned
// error is reserved for future use; every failure mode today degrades
// instead of failing.
func (o *Orchestrator) Scrape(ctx context.Context, cfg models.ScrapeConfig) ([]models.TrendSummary, error) {
	cfg = cfg.Normalized()
	metadata := cfg.Metadata()

	var cached []models.TrendSummary
	var toFetch []string
	for _, keyword := range cfg.Keywords {
		if data, ok := o.cache.Get(keyword, cfg.Period, metadata); ok {
			cached = append(cached, data...)
		} else {
			toFetch = append(toFetch, keyword)
		}
	}

	if len(toFetch) == 0 {
		o.logger.Debug("scrape served entirely from cache",
			zap.Int("keywords", len(cfg.Keywords)))
		sortByScore(cached)
		return cached, nil
	}

	o.logger.Info("scraping trends",
		zap.Int("cached", len(cached)),
		zap.Strings("to_fetch", toFetch),
		zap.String("period", string(cfg.Period)))

	// Provider calls happen outside any cache critical section; a hung
	// provider must not block reads for unrelated keywords.
	items, err := o.provider.Search(ctx, toFetch, cfg)

	var fresh []models.TrendSummary
	if err != nil {
		o.logger.Warn("provider search failed, generating fallback data",
			zap.Error(err),
			zap.Strings("keywords", toFetch))
		fresh = o.fallbackSummaries(toFetch)
	} else {
		fresh = aggregate(toFetch, items, cfg, o.clock.Now())
	}

	for _, summary := range fresh {
		o.cache.Set(summary.Keyword, cfg.Period, []models.TrendSummary{summary}, metadata)
	}

	merged := append(cached, fresh...)
	sortByScore(merged)
	return merged, nil
}

// ForceRefresh invalidates the requested keys and then scrapes,
// guaranteeing a live collection call.
func (o *Orchestrator) ForceRefresh(ctx context.Context, cfg models.ScrapeConfig) ([]models.TrendSummary, error) {
	cfg = cfg.Normalized()
	metadata := cfg.Metadata()
	for _, keyword := range cfg.Keywords {
		o.cache.Delete(keyword, cfg.Period, metadata)
	}
	return o.Scrape(ctx, cfg)
}

// CacheStats returns current cache statistics.
func (o *Orchestrator) CacheStats() cache.Stats {
	return o.cache.Stats()
}

// ClearCache drops all cached entries and resets counters.
func (o *Orchestrator) ClearCache() {
	o.cache.Clear()
}

// InvalidateCache removes cached entries for a keyword. An empty
// period invalidates the keyword across all periods.
func (o *Orchestrator) InvalidateCache(keyword string, period models.Period) int {
	return o.cache.DeleteKeyword(keyword, period)
}

// ExportCache dumps cache entry metadata for diagnostics.
func (o *Orchestrator) ExportCache() cache.Export {
	return o.cache.ExportSnapshot()
}

// fallbackSummaries produces clearly-tagged placeholder data when live
// collection fails. Scores sit at the neutral midpoint with a little
// display jitter so rows don't render as identical.
func (o *Orchestrator) fallbackSummaries(keywords []string) []models.TrendSummary {
	summaries := make([]models.TrendSummary, 0, len(keywords))
	for _, keyword := range keywords {
		summaries = append(summaries, models.TrendSummary{
			Keyword:       cache.NormalizeKeyword(keyword),
			Score:         round1(5.0 + o.jitterValue(0.3)),
			Sentiment:     0.5,
			Volume:        0,
			GrowthPercent: 0,
			Sources:       []string{models.FallbackSource},
			Degraded:      true,
		})
	}
	return summaries
}

// jitterValue returns a value in [-spread, spread].
func (o *Orchestrator) jitterValue(spread float64) float64 {
	o.jitterMu.Lock()
	defer o.jitterMu.Unlock()
	return (o.jitter.Float64()*2 - 1) * spread
}

func sortByScore(summaries []models.TrendSummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Score > summaries[j].Score
	})
}
