package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trend-intel/pkg/models"
)

func TestGrowthPercent(t *testing.T) {
	assert.Equal(t, 0.0, growthPercent(0, 0))
	assert.Equal(t, 100.0, growthPercent(4, 4))
	assert.Equal(t, -100.0, growthPercent(0, 4))
	assert.Equal(t, 0.0, growthPercent(1, 2))
	assert.Equal(t, 50.0, growthPercent(3, 4))
	assert.Equal(t, -50.0, growthPercent(1, 4))
}

func TestSummarize_Aggregates(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	items := []models.RawItem{
		rawItem("alpha", "Alpha surges in popularity", now.Add(-time.Hour), 120),
		rawItem("alpha", "Another alpha piece", now.Add(-2*24*time.Hour), 80),
		{
			ID: "neg", Title: "Negative engagement item", Keyword: "alpha",
			URL: "https://example.com", Source: "reddit",
			PublishedAt: now.Add(-10 * 24 * time.Hour), Engagement: -5,
		},
	}

	summary := summarize("alpha", items, now)

	assert.Equal(t, "alpha", summary.Keyword)
	assert.Equal(t, 200, summary.Volume, "negative engagement never subtracts from volume")
	assert.Equal(t, []string{"reddit", "techcrunch"}, summary.Sources)
	require.Len(t, summary.Items, 3)

	for i := 1; i < len(summary.Items); i++ {
		assert.GreaterOrEqual(t,
			summary.Items[i-1].Analysis.OverallScore,
			summary.Items[i].Analysis.OverallScore,
			"items are ranked by overall score")
	}

	assert.GreaterOrEqual(t, summary.Score, 0.0)
	assert.LessOrEqual(t, summary.Score, 10.0)
	assert.GreaterOrEqual(t, summary.Sentiment, 0.0)
	assert.LessOrEqual(t, summary.Sentiment, 1.0)

	// 2 of 3 items inside the 3-day window: (2/3 - 0.5) * 200.
	assert.Equal(t, 33.3, summary.GrowthPercent)
}

func TestTemporalPattern(t *testing.T) {
	// A Saturday noon reference point.
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	items := []models.RawItem{
		{PublishedAt: now},                           // today -> bucket 29
		{PublishedAt: now.Add(-time.Hour)},           // today -> bucket 29
		{PublishedAt: now.Add(-5 * 24 * time.Hour)},  // bucket 24
		{PublishedAt: now.Add(-40 * 24 * time.Hour)}, // outside the histogram
	}

	pattern := temporalPattern(items, now)
	require.NotNil(t, pattern)
	require.Len(t, pattern.DailyVolume, 30)
	assert.Equal(t, 2, pattern.DailyVolume[29])
	assert.Equal(t, 1, pattern.DailyVolume[24])

	total := 0
	for _, v := range pattern.DailyVolume {
		total += v
	}
	assert.Equal(t, 3, total, "items older than 30 days stay out of the histogram")

	// Two items on Saturday, two on Mondays: a tie, broken by weekday
	// order, and only weekdays with items are reported.
	require.Len(t, pattern.PeakDays, 2)
	assert.Equal(t, []string{"Monday", "Saturday"}, pattern.PeakDays)

	// 2 of 4 items are recent: growth 0, inside the stable band.
	assert.Equal(t, models.DirectionStable, pattern.Direction)
}

func TestTemporalPattern_Directions(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	rising := temporalPattern([]models.RawItem{
		{PublishedAt: now.Add(-time.Hour)},
		{PublishedAt: now.Add(-2 * time.Hour)},
	}, now)
	assert.Equal(t, models.DirectionRising, rising.Direction)

	falling := temporalPattern([]models.RawItem{
		{PublishedAt: now.Add(-20 * 24 * time.Hour)},
		{PublishedAt: now.Add(-25 * 24 * time.Hour)},
	}, now)
	assert.Equal(t, models.DirectionFalling, falling.Direction)
}

func TestGroupByKeyword(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	keywords := []string{"Machine Learning", "golang"}

	items := []models.RawItem{
		// Tagged by the provider.
		rawItem("machine learning", "ML everywhere", now, 10),
		// Untagged, attributed by title match.
		{ID: "u1", Title: "Why Golang keeps winning", PublishedAt: now, Engagement: 10},
		// Unattributable, skipped.
		{ID: "u2", Title: "Completely unrelated", PublishedAt: now, Engagement: 10},
		// Below the engagement floor, skipped.
		rawItem("golang", "Low engagement golang", now, 1),
	}

	groups := groupByKeyword(keywords, items, 5)
	require.Len(t, groups, 2)
	assert.Len(t, groups["machine learning"], 1)
	require.Len(t, groups["golang"], 1)
	assert.Equal(t, "u1", groups["golang"][0].ID)
}

func TestAggregate_PreservesKeywordUniqueness(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	cfg := models.ScrapeConfig{Keywords: []string{"alpha", "beta"}, Period: models.Period7D}.Normalized()

	items := []models.RawItem{
		rawItem("alpha", "First alpha story", now.Add(-time.Hour), 10),
		rawItem("alpha", "Second alpha story", now.Add(-time.Hour), 20),
		rawItem("beta", "Only beta story", now.Add(-time.Hour), 5),
	}

	summaries := aggregate([]string{"alpha", "beta"}, items, cfg, now)
	require.Len(t, summaries, 2)
	assert.Equal(t, "alpha", summaries[0].Keyword)
	assert.Len(t, summaries[0].Items, 2)
	assert.Equal(t, "beta", summaries[1].Keyword)
	assert.Len(t, summaries[1].Items, 1)
}
