package orchestrator

import (
	"math"
	"sort"
	"strings"
	"time"

	"trend-intel/internal/cache"
	"trend-intel/internal/scoring"
	"trend-intel/pkg/models"
)

const (
	// recentWindow is the slice of the period treated as "recent" by
	// the growth heuristic.
	recentWindow = 3 * 24 * time.Hour

	temporalBuckets = 30

	// directionThreshold is the growth percentage beyond which a trend
	// counts as rising or falling.
	directionThreshold = 20.0
)

// aggregate scores every collected item and folds them into one
// TrendSummary per keyword. Keywords with no matching items produce
// nothing.
func aggregate(keywords []string, items []models.RawItem, cfg models.ScrapeConfig, now time.Time) []models.TrendSummary {
	groups := groupByKeyword(keywords, items, cfg.MinEngagement)

	summaries := make([]models.TrendSummary, 0, len(keywords))
	for _, keyword := range keywords {
		normalized := cache.NormalizeKeyword(keyword)
		group := groups[normalized]
		if len(group) == 0 {
			continue
		}
		summaries = append(summaries, summarize(normalized, group, now))
	}
	return summaries
}

// groupByKeyword attributes items to requested keywords. Items tagged
// by the provider win; untagged items fall back to a substring match
// over title and snippet. Unattributable items are skipped.
func groupByKeyword(keywords []string, items []models.RawItem, minEngagement int) map[string][]models.RawItem {
	requested := make(map[string]bool, len(keywords))
	for _, keyword := range keywords {
		requested[cache.NormalizeKeyword(keyword)] = true
	}

	groups := make(map[string][]models.RawItem, len(keywords))
	for _, item := range items {
		if item.Engagement < minEngagement {
			continue
		}

		keyword := cache.NormalizeKeyword(item.Keyword)
		if !requested[keyword] {
			keyword = ""
			text := strings.ToLower(item.Title + " " + item.Snippet)
			for _, candidate := range keywords {
				normalized := cache.NormalizeKeyword(candidate)
				if strings.Contains(text, normalized) {
					keyword = normalized
					break
				}
			}
		}
		if keyword == "" {
			continue
		}
		groups[keyword] = append(groups[keyword], item)
	}
	return groups
}

// summarize folds one keyword's items into a TrendSummary.
func summarize(keyword string, items []models.RawItem, now time.Time) models.TrendSummary {
	scored := make([]models.ScoredItem, 0, len(items))
	sourceSet := make(map[string]bool)

	var scoreSum, sentimentSum float64
	volume := 0
	recent := 0

	for _, item := range items {
		analysis := scoring.Score(scoring.Input{
			Title:       item.Title,
			Description: item.Snippet,
			URL:         item.URL,
			Keywords:    []string{keyword},
			ImageCount:  item.ImageCount,
		})
		sentiment := round2(analysis.EmotionScore / 10)

		scored = append(scored, models.ScoredItem{
			ID:          item.ID,
			Title:       item.Title,
			Snippet:     item.Snippet,
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: item.PublishedAt,
			Engagement:  item.Engagement,
			Sentiment:   sentiment,
			Analysis:    analysis,
		})

		scoreSum += analysis.OverallScore
		sentimentSum += sentiment
		if item.Engagement > 0 {
			volume += item.Engagement
		}
		if item.Source != "" {
			sourceSet[item.Source] = true
		}
		if now.Sub(item.PublishedAt) <= recentWindow {
			recent++
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Analysis.OverallScore > scored[j].Analysis.OverallScore
	})

	sources := make([]string, 0, len(sourceSet))
	for source := range sourceSet {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	count := float64(len(items))
	return models.TrendSummary{
		Keyword:       keyword,
		Score:         round1(scoreSum / count),
		Sentiment:     round2(sentimentSum / count),
		Volume:        volume,
		GrowthPercent: growthPercent(recent, len(items)),
		Sources:       sources,
		Items:         scored,
		Temporal:      temporalPattern(items, now),
	}
}

// growthPercent is the recency-fraction heuristic: items concentrated
// in the last ~3 days read as growth, a recent-light window as decline.
// It has no historical baseline; keep the numeric behavior as-is.
func growthPercent(recent, total int) float64 {
	if total == 0 {
		return 0
	}
	fraction := float64(recent) / float64(total)
	return round1((fraction - 0.5) * 200)
}

// temporalPattern builds the trailing-30-day histogram, the top-3 peak
// weekdays by item count and the direction tag.
func temporalPattern(items []models.RawItem, now time.Time) *models.TemporalPattern {
	daily := make([]int, temporalBuckets)
	weekdayCounts := make(map[time.Weekday]int)

	recent := 0
	for _, item := range items {
		age := now.Sub(item.PublishedAt)
		if age < 0 {
			age = 0
		}
		daysAgo := int(age.Hours() / 24)
		if daysAgo < temporalBuckets {
			daily[temporalBuckets-1-daysAgo]++
		}
		weekdayCounts[item.PublishedAt.Weekday()]++
		if age <= recentWindow {
			recent++
		}
	}

	type weekdayCount struct {
		day   time.Weekday
		count int
	}
	ranked := make([]weekdayCount, 0, len(weekdayCounts))
	for day, count := range weekdayCounts {
		ranked = append(ranked, weekdayCount{day: day, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].day < ranked[j].day
	})

	peaks := make([]string, 0, 3)
	for _, wc := range ranked {
		if len(peaks) == 3 {
			break
		}
		peaks = append(peaks, wc.day.String())
	}

	growth := growthPercent(recent, len(items))
	direction := models.DirectionStable
	switch {
	case growth > directionThreshold:
		direction = models.DirectionRising
	case growth < -directionThreshold:
		direction = models.DirectionFalling
	}

	return &models.TemporalPattern{
		DailyVolume: daily,
		PeakDays:    peaks,
		Direction:   direction,
	}
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
