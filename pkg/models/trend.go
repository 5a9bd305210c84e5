package models

import (
	"time"
)

// Period is the analysis time window for a trend request.
type Period string

const (
	Period1D  Period = "1d"
	Period3D  Period = "3d"
	Period7D  Period = "7d"
	Period14D Period = "14d"
	Period30D Period = "30d"
)

// Valid reports whether p is one of the supported windows.
func (p Period) Valid() bool {
	switch p {
	case Period1D, Period3D, Period7D, Period14D, Period30D:
		return true
	}
	return false
}

// Days returns the window length in days (0 for an invalid period).
func (p Period) Days() int {
	switch p {
	case Period1D:
		return 1
	case Period3D:
		return 3
	case Period7D:
		return 7
	case Period14D:
		return 14
	case Period30D:
		return 30
	}
	return 0
}

// Trend direction tags produced by temporal aggregation.
const (
	DirectionRising  = "rising"
	DirectionFalling = "falling"
	DirectionStable  = "stable"
)

// FallbackSource tags placeholder data produced when live collection fails.
// Downstream consumers must never confuse it with a real source.
const FallbackSource = "fallback"

// RawItem is one content unit as returned by a content provider,
// before scoring.
type RawItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Engagement  int       `json:"engagement"`
	ImageCount  int       `json:"image_count"`
	Keyword     string    `json:"keyword"`
}

// ViralAnalysis holds the five sub-scores, the weighted overall score
// and the advisory qualitative assessment for one item.
type ViralAnalysis struct {
	EmotionScore      float64 `json:"emotion_score"`
	ClarityScore      float64 `json:"clarity_score"`
	CarouselPotential float64 `json:"carousel_potential"`
	TrendScore        float64 `json:"trend_score"`
	AuthorityScore    float64 `json:"authority_score"`
	OverallScore      float64 `json:"overall_score"`

	EmotionTags     []string `json:"emotion_tags,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Weaknesses      []string `json:"weaknesses,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// ScoredItem is one collected content unit plus its viral analysis.
type ScoredItem struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Snippet     string        `json:"snippet"`
	URL         string        `json:"url"`
	Source      string        `json:"source"`
	PublishedAt time.Time     `json:"published_at"`
	Engagement  int           `json:"engagement"`
	Sentiment   float64       `json:"sentiment"`
	Analysis    ViralAnalysis `json:"analysis"`
}

// TemporalPattern describes how item volume is distributed over the
// trailing 30 days.
type TemporalPattern struct {
	DailyVolume []int    `json:"daily_volume"`
	PeakDays    []string `json:"peak_days"`
	Direction   string   `json:"direction"`
}

// TrendSummary aggregates all scored items for one keyword.
type TrendSummary struct {
	Keyword       string           `json:"keyword"`
	Score         float64          `json:"score"`
	Sentiment     float64          `json:"sentiment"`
	Volume        int              `json:"volume"`
	GrowthPercent float64          `json:"growth_percent"`
	Sources       []string         `json:"sources"`
	Items         []ScoredItem     `json:"items"`
	Temporal      *TemporalPattern `json:"temporal,omitempty"`
	Degraded      bool             `json:"degraded,omitempty"`
}

// Clone returns a deep copy so cached summaries stay immutable when
// handed to callers.
func (ts TrendSummary) Clone() TrendSummary {
	out := ts
	out.Sources = append([]string(nil), ts.Sources...)
	out.Items = make([]ScoredItem, len(ts.Items))
	for i, item := range ts.Items {
		out.Items[i] = item
		out.Items[i].Analysis.EmotionTags = append([]string(nil), item.Analysis.EmotionTags...)
		out.Items[i].Analysis.Strengths = append([]string(nil), item.Analysis.Strengths...)
		out.Items[i].Analysis.Weaknesses = append([]string(nil), item.Analysis.Weaknesses...)
		out.Items[i].Analysis.Recommendations = append([]string(nil), item.Analysis.Recommendations...)
	}
	if ts.Temporal != nil {
		t := TemporalPattern{
			DailyVolume: append([]int(nil), ts.Temporal.DailyVolume...),
			PeakDays:    append([]string(nil), ts.Temporal.PeakDays...),
			Direction:   ts.Temporal.Direction,
		}
		out.Temporal = &t
	}
	return out
}

// CloneSummaries deep-copies a summary list.
func CloneSummaries(in []TrendSummary) []TrendSummary {
	out := make([]TrendSummary, len(in))
	for i, ts := range in {
		out[i] = ts.Clone()
	}
	return out
}
