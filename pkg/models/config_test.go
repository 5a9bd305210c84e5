package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrapeConfig_Normalized(t *testing.T) {
	cfg := ScrapeConfig{
		Keywords: []string{" OpenAI ", "openai", "", "golang", "rust", "zig", "python",
			"java", "kotlin", "swift", "elixir"},
	}.Normalized()

	assert.Equal(t, Period7D, cfg.Period, "missing period defaults to 7d")
	assert.Equal(t, DepthDetailed, cfg.AnalysisDepth)
	assert.Equal(t, 10, cfg.MaxItemsPerSource)

	// Trimmed, case-insensitively de-duplicated, truncated to 8.
	assert.Len(t, cfg.Keywords, 8)
	assert.Equal(t, "OpenAI", cfg.Keywords[0])
	assert.NotContains(t, cfg.Keywords, "openai")
	assert.NotContains(t, cfg.Keywords, "")
}

func TestScrapeConfig_NormalizedRejectsBadPeriod(t *testing.T) {
	cfg := ScrapeConfig{Keywords: []string{"a"}, Period: "2w"}.Normalized()
	assert.Equal(t, Period7D, cfg.Period)
}

func TestScrapeConfig_MetadataCoversAllOptions(t *testing.T) {
	a := ScrapeConfig{Keywords: []string{"x"}}.Normalized()
	b := a
	b.IncludeVideos = true

	assert.NotEqual(t, a.Metadata(), b.Metadata(),
		"every non-keyword option must participate in the fingerprint")
	assert.Equal(t, a.Metadata(), a.Metadata())
}

func TestPeriod(t *testing.T) {
	assert.True(t, Period7D.Valid())
	assert.False(t, Period("2w").Valid())
	assert.Equal(t, 7, Period7D.Days())
	assert.Equal(t, 0, Period("2w").Days())
}

func TestTrendSummary_Clone(t *testing.T) {
	original := TrendSummary{
		Keyword: "alpha",
		Score:   8.0,
		Sources: []string{"news"},
		Items: []ScoredItem{{
			ID:       "1",
			Analysis: ViralAnalysis{Strengths: []string{"clear, well-sized title"}},
		}},
		Temporal: &TemporalPattern{DailyVolume: make([]int, 30), Direction: DirectionStable},
	}

	clone := original.Clone()
	clone.Sources[0] = "mutated"
	clone.Items[0].Analysis.Strengths[0] = "mutated"
	clone.Temporal.Direction = DirectionRising

	assert.Equal(t, "news", original.Sources[0])
	assert.Equal(t, "clear, well-sized title", original.Items[0].Analysis.Strengths[0])
	assert.Equal(t, DirectionStable, original.Temporal.Direction)
}
