package models

import (
	"strconv"
	"strings"
)

// Analysis depth levels accepted in a scrape request.
const (
	DepthBasic         = "basic"
	DepthDetailed      = "detailed"
	DepthComprehensive = "comprehensive"
)

// MaxKeywordsPerScrape bounds how many keywords one request may carry.
const MaxKeywordsPerScrape = 8

// ScrapeConfig is one trend collection request. Everything except
// Keywords and Period participates in the cache metadata fingerprint.
type ScrapeConfig struct {
	Keywords           []string `json:"keywords"`
	Period             Period   `json:"period"`
	AnalysisDepth      string   `json:"analysis_depth"`
	IncludeFullContent bool     `json:"include_full_content"`
	SourcePriority     string   `json:"source_priority"`
	MinEngagement      int      `json:"min_engagement"`
	MaxItemsPerSource  int      `json:"max_items_per_source"`
	IncludeVideos      bool     `json:"include_videos"`
	VideoTranscription bool     `json:"video_transcription"`
}

// Normalized returns a copy with defaults applied and the keyword list
// trimmed, de-duplicated and truncated to MaxKeywordsPerScrape.
func (c ScrapeConfig) Normalized() ScrapeConfig {
	out := c
	if out.Period == "" || !out.Period.Valid() {
		out.Period = Period7D
	}
	if out.AnalysisDepth == "" {
		out.AnalysisDepth = DepthDetailed
	}
	if out.MaxItemsPerSource <= 0 {
		out.MaxItemsPerSource = 10
	}

	seen := make(map[string]bool, len(c.Keywords))
	keywords := make([]string, 0, len(c.Keywords))
	for _, kw := range c.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		keywords = append(keywords, kw)
		if len(keywords) == MaxKeywordsPerScrape {
			break
		}
	}
	out.Keywords = keywords
	return out
}

// Metadata returns the option fields that disambiguate cache keys.
// The map is canonical: same options in, same pairs out.
func (c ScrapeConfig) Metadata() map[string]string {
	return map[string]string{
		"analysis_depth":       c.AnalysisDepth,
		"include_full_content": strconv.FormatBool(c.IncludeFullContent),
		"source_priority":      c.SourcePriority,
		"min_engagement":       strconv.Itoa(c.MinEngagement),
		"max_items_per_source": strconv.Itoa(c.MaxItemsPerSource),
		"include_videos":       strconv.FormatBool(c.IncludeVideos),
		"video_transcription":  strconv.FormatBool(c.VideoTranscription),
	}
}
