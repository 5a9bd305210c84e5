package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"trend-intel/internal/cache"
	"trend-intel/pkg/models"
)

type fakeProvider struct {
	items        []models.RawItem
	err          error
	calls        int
	lastKeywords []string
}

func (f *fakeProvider) Search(ctx context.Context, keywords []string, cfg models.ScrapeConfig) ([]models.RawItem, error) {
	f.calls++
	f.lastKeywords = append([]string(nil), keywords...)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func setupOrchestrator(t *testing.T, fake *fakeProvider) (*Orchestrator, *cache.Store, *clock.Mock) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	logger := zaptest.NewLogger(t)
	store := cache.NewStore(nil, cache.NoopSnapshots{}, mock, logger)
	return New(store, fake, mock, logger), store, mock
}

func rawItem(keyword, title string, publishedAt time.Time, engagement int) models.RawItem {
	return models.RawItem{
		ID:          keyword + "-" + title,
		Title:       title,
		Snippet:     "Some snippet text about " + keyword + ".",
		URL:         "https://www.techcrunch.com/" + keyword,
		Source:      "techcrunch",
		PublishedAt: publishedAt,
		Engagement:  engagement,
		Keyword:     keyword,
	}
}

func TestScrape_MergesCachedAndFetched(t *testing.T) {
	fake := &fakeProvider{}
	orch, store, mock := setupOrchestrator(t, fake)

	cfg := models.ScrapeConfig{
		Keywords: []string{"alpha", "beta", "gamma", "delta"},
		Period:   models.Period7D,
	}.Normalized()
	metadata := cfg.Metadata()

	// Half the keywords are pre-seeded cache hits.
	store.Set("alpha", cfg.Period, []models.TrendSummary{{
		Keyword: "alpha", Score: 9.0, Items: []models.ScoredItem{{ID: "a1"}},
	}}, metadata)
	store.Set("beta", cfg.Period, []models.TrendSummary{{
		Keyword: "beta", Score: 4.0, Items: []models.ScoredItem{{ID: "b1"}},
	}}, metadata)

	now := mock.Now()
	fake.items = []models.RawItem{
		rawItem("gamma", "Gamma rises fast", now.Add(-time.Hour), 100),
		rawItem("gamma", "More gamma news", now.Add(-2*time.Hour), 50),
		rawItem("delta", "Delta holds steady", now.Add(-time.Hour), 30),
	}

	summaries, err := orch.Scrape(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, []string{"gamma", "delta"}, fake.lastKeywords,
		"only the misses go to the provider")

	require.Len(t, summaries, 4)
	seen := make(map[string]models.TrendSummary)
	for _, s := range summaries {
		seen[s.Keyword] = s
		assert.NotEmpty(t, s.Items, "every summary carries its items")
	}
	require.Len(t, seen, 4, "exactly one summary per keyword")
	assert.Len(t, seen["gamma"].Items, 2)

	for i := 1; i < len(summaries); i++ {
		assert.GreaterOrEqual(t, summaries[i-1].Score, summaries[i].Score,
			"output must be sorted by score descending")
	}

	// Fresh results are written back: a second scrape is cache-only.
	_, err = orch.Scrape(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestScrape_AllCachedSkipsProvider(t *testing.T) {
	fake := &fakeProvider{}
	orch, store, _ := setupOrchestrator(t, fake)

	cfg := models.ScrapeConfig{Keywords: []string{"alpha"}, Period: models.Period1D}.Normalized()
	store.Set("alpha", cfg.Period, []models.TrendSummary{{Keyword: "alpha", Score: 6.0}}, cfg.Metadata())

	summaries, err := orch.Scrape(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, fake.calls)
	require.Len(t, summaries, 1)
	assert.Equal(t, "alpha", summaries[0].Keyword)
}

func TestScrape_ZeroResultKeywordDropped(t *testing.T) {
	fake := &fakeProvider{}
	orch, _, mock := setupOrchestrator(t, fake)

	fake.items = []models.RawItem{
		rawItem("alpha", "Alpha in the news", mock.Now().Add(-time.Hour), 10),
	}

	cfg := models.ScrapeConfig{Keywords: []string{"alpha", "ghost"}, Period: models.Period7D}
	summaries, err := orch.Scrape(context.Background(), cfg)
	require.NoError(t, err, "an empty keyword is not a batch error")
	require.Len(t, summaries, 1)
	assert.Equal(t, "alpha", summaries[0].Keyword)
}

func TestScrape_FallbackOnProviderFailure(t *testing.T) {
	fake := &fakeProvider{err: errors.New("provider outage")}
	orch, _, _ := setupOrchestrator(t, fake)

	cfg := models.ScrapeConfig{Keywords: []string{"alpha", "beta"}, Period: models.Period7D}
	summaries, err := orch.Scrape(context.Background(), cfg)
	require.NoError(t, err, "provider failure must not surface as an error")

	require.Len(t, summaries, 2)
	for _, s := range summaries {
		assert.True(t, s.Degraded, "fallback data must carry the degraded flag")
		assert.Equal(t, []string{models.FallbackSource}, s.Sources)
		assert.InDelta(t, 5.0, s.Score, 0.3, "placeholder scores sit near the neutral midpoint")
	}

	// Degraded data is cached like real data, still tagged.
	fake.err = nil
	cached, err := orch.Scrape(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls, "second scrape is served from cache")
	for _, s := range cached {
		assert.True(t, s.Degraded)
	}
}

func TestForceRefresh_BypassesCache(t *testing.T) {
	fake := &fakeProvider{}
	orch, _, mock := setupOrchestrator(t, fake)

	fake.items = []models.RawItem{
		rawItem("alpha", "Alpha in the news", mock.Now().Add(-time.Hour), 10),
	}
	cfg := models.ScrapeConfig{Keywords: []string{"alpha"}, Period: models.Period7D}

	_, err := orch.Scrape(context.Background(), cfg)
	require.NoError(t, err)
	_, err = orch.Scrape(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)

	_, err = orch.ForceRefresh(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls, "force refresh must hit the provider")
}

func TestCachePassThroughs(t *testing.T) {
	fake := &fakeProvider{}
	orch, _, mock := setupOrchestrator(t, fake)

	fake.items = []models.RawItem{
		rawItem("alpha", "Alpha in the news", mock.Now().Add(-time.Hour), 10),
	}
	cfg := models.ScrapeConfig{Keywords: []string{"alpha"}, Period: models.Period7D}
	_, err := orch.Scrape(context.Background(), cfg)
	require.NoError(t, err)

	stats := orch.CacheStats()
	assert.Equal(t, 1, stats.TotalEntries)

	export := orch.ExportCache()
	require.Len(t, export.Entries, 1)
	assert.Equal(t, "alpha", export.Entries[0].Keyword)

	removed := orch.InvalidateCache("alpha", "")
	assert.Equal(t, 1, removed)

	orch.ClearCache()
	stats = orch.CacheStats()
	assert.Equal(t, 0, stats.TotalEntries)
	assert.Equal(t, uint64(0), stats.Hits+stats.Misses)
}
