// Package scoring computes the viral potential of one content item.
// It is pure and deterministic: no network access, no randomness, no
// shared state. Scoring never fails; missing inputs contribute nothing
// and a malformed URL degrades the authority factor instead of erroring.
package scoring

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"trend-intel/pkg/models"
)

// Input holds the data needed to score an item.
type Input struct {
	Title       string
	Description string
	URL         string
	Keywords    []string
	ImageCount  int
}

// Factor weights. They must sum to exactly 1.0; changing the
// distribution is a behavior change, not a bug fix.
const (
	weightEmotion   = 0.25
	weightClarity   = 0.20
	weightCarousel  = 0.25
	weightTrend     = 0.20
	weightAuthority = 0.10
)

const (
	baseScore = 5.0
	minScore  = 0.0
	maxScore  = 10.0
)

var (
	listMarkerRe    = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]\s|[-*•]\s)`)
	percentRe       = regexp.MustCompile(`\d+(?:\.\d+)?%`)
	bigNumberRe     = regexp.MustCompile(`\b\d{4,}\b`)
	listicleTitleRe = regexp.MustCompile(`(?i)\b\d+\s+(?:ways|tips|reasons|steps|secrets|hacks|mistakes|lessons|ideas|rules)\b`)
)

// Score computes the five-factor viral analysis for one item.
func Score(input Input) models.ViralAnalysis {
	titleTokens := tokenize(input.Title)
	bodyTokens := tokenize(input.Description)
	allTokens := append(append([]string(nil), titleTokens...), bodyTokens...)

	a := models.ViralAnalysis{
		EmotionScore:      emotionScore(input.Title, allTokens),
		ClarityScore:      clarityScore(input.Title, titleTokens),
		CarouselPotential: carouselScore(input.Title, input.Description, bodyTokens, input.ImageCount),
		TrendScore:        trendScore(allTokens),
		AuthorityScore:    authorityScore(input.URL, allTokens),
	}
	a.OverallScore = round1(a.EmotionScore*weightEmotion +
		a.ClarityScore*weightClarity +
		a.CarouselPotential*weightCarousel +
		a.TrendScore*weightTrend +
		a.AuthorityScore*weightAuthority)

	assess(&a)
	return a
}

// emotionScore rewards emotional trigger words, exclamations and
// all-caps emphasis; flat corporate phrasing pulls it down.
func emotionScore(title string, tokens []string) float64 {
	score := baseScore

	score += float64(countMatches(tokens, highImpactWords)) * 0.8
	score += float64(countMatches(tokens, mediumImpactWords)) * 0.4
	score -= float64(countMatches(tokens, flatWords)) * 0.5

	exclamations := strings.Count(title, "!")
	score += capped(float64(exclamations)*0.3, 1.5)

	score += capped(float64(capsTokens(title))*0.4, 1.2)

	return clamp(score)
}

// clarityScore rewards titles in the ideal length band with concrete,
// actionable framing; jargon and extreme lengths penalize it.
func clarityScore(title string, titleTokens []string) float64 {
	score := baseScore

	length := len([]rune(title))
	switch {
	case length >= 30 && length <= 60:
		score += 1.5
	case length > 0 && length < 20:
		score -= 1.5
	case length > 80:
		score -= 1.0
	}

	digits := 0
	for _, r := range title {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	score += capped(float64(digits)*0.25, 1.0)

	score += capped(float64(countMatches(titleTokens, actionableWords))*0.5, 1.5)
	score -= float64(countMatches(titleTokens, jargonWords)) * 0.6

	if strings.ContainsAny(title, ":-—") {
		score += 0.5
	}

	return clamp(score)
}

// carouselScore estimates how naturally the body splits into slides.
func carouselScore(title, body string, bodyTokens []string, imageCount int) float64 {
	score := baseScore

	score += capped(float64(len(listMarkerRe.FindAllString(body, -1)))*0.5, 2.0)
	score += capped(float64(countMatches(bodyTokens, transitionWords))*0.3, 1.5)

	length := len(body)
	switch {
	case length > 3000:
		score += 2.0
	case length >= 500:
		score += 1.5
	}

	score += capped(float64(imageCount)*0.4, 1.6)

	stats := len(percentRe.FindAllString(body, -1)) +
		len(bigNumberRe.FindAllString(body, -1)) +
		countMatches(bodyTokens, statisticWords)
	score += capped(float64(stats)*0.4, 2.0)

	score += float64(len(listicleTitleRe.FindAllString(title, -1))) * 1.0

	return clamp(score)
}

// trendScore rewards hot topics, novelty, current-year references and
// forward-looking language.
func trendScore(tokens []string) float64 {
	score := baseScore

	score += capped(float64(countMatches(tokens, trendingWords))*0.5, 2.0)
	score += capped(float64(countMatches(tokens, noveltyWords))*0.4, 1.6)
	score += capped(float64(countMatches(tokens, futurityWords))*0.3, 1.2)

	year := currentYear()
	current := strconv.Itoa(year)
	previous := strconv.Itoa(year - 1)
	for _, token := range tokens {
		if token == current || token == previous {
			score += 0.75
		}
	}

	return clamp(score)
}

// authorityScore judges the source domain and research-style language.
// A URL that does not parse degrades the score rather than erroring.
func authorityScore(rawURL string, tokens []string) float64 {
	score := baseScore

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		score -= 1.5
	} else {
		host := strings.ToLower(parsed.Host)
		domain := strings.TrimPrefix(host, "www.")

		switch {
		case matchesDomain(domain, highAuthorityDomains):
			score += 2.0
		case matchesDomain(domain, mediumAuthorityDomains):
			score += 1.0
		case containsAny(host, lowAuthoritySubstrings):
			score -= 1.5
		}

		if parsed.Scheme == "https" {
			score += 0.3
		}
		if strings.HasPrefix(host, "www.") {
			score += 0.2
		}
	}

	score += capped(float64(countMatches(tokens, authorityWords))*0.4, 1.2)

	return clamp(score)
}

// assess derives the advisory qualitative layer from the sub-scores.
// A factor at 7 or above is a strength; below 5 it becomes a weakness
// with a matching recommendation.
func assess(a *models.ViralAnalysis) {
	if a.EmotionScore >= 7 {
		a.EmotionTags = append(a.EmotionTags, "high-emotion")
		a.Strengths = append(a.Strengths, "strong emotional hooks")
	} else if a.EmotionScore < 5 {
		a.Weaknesses = append(a.Weaknesses, "flat emotional tone")
		a.Recommendations = append(a.Recommendations, "add emotional trigger words to the title")
	}

	if a.ClarityScore >= 7 {
		a.Strengths = append(a.Strengths, "clear, well-sized title")
	} else if a.ClarityScore < 5 {
		a.Weaknesses = append(a.Weaknesses, "title is unclear or poorly sized")
		a.Recommendations = append(a.Recommendations, "rewrite the title into the 30-60 character band")
	}

	if a.CarouselPotential >= 7 {
		a.Strengths = append(a.Strengths, "splits naturally into slides")
	} else if a.CarouselPotential < 5 {
		a.Weaknesses = append(a.Weaknesses, "body lacks slide structure")
		a.Recommendations = append(a.Recommendations, "restructure the body into numbered points")
	}

	if a.TrendScore >= 7 {
		a.EmotionTags = append(a.EmotionTags, "trending")
		a.Strengths = append(a.Strengths, "rides a current topic")
	} else if a.TrendScore < 5 {
		a.Weaknesses = append(a.Weaknesses, "no trending angle")
		a.Recommendations = append(a.Recommendations, "connect the topic to a current development")
	}

	if a.AuthorityScore >= 7 {
		a.Strengths = append(a.Strengths, "authoritative source")
	} else if a.AuthorityScore < 5 {
		a.Weaknesses = append(a.Weaknesses, "weak source authority")
		a.Recommendations = append(a.Recommendations, "cite research or primary sources")
	}
}

func currentYear() int {
	return time.Now().Year()
}

// capsTokens counts all-caps words of 3+ letters in the title.
func capsTokens(title string) int {
	count := 0
	for _, field := range strings.Fields(title) {
		letters := 0
		upper := true
		for _, r := range field {
			if unicode.IsLetter(r) {
				letters++
				if !unicode.IsUpper(r) {
					upper = false
					break
				}
			}
		}
		if upper && letters >= 3 {
			count++
		}
	}
	return count
}

func matchesDomain(domain string, list []string) bool {
	for _, candidate := range list {
		if domain == candidate || strings.HasSuffix(domain, "."+candidate) {
			return true
		}
	}
	return false
}

func containsAny(host string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(host, sub) {
			return true
		}
	}
	return false
}

func capped(value, limit float64) float64 {
	if value > limit {
		return limit
	}
	return value
}

func clamp(score float64) float64 {
	return math.Min(maxScore, math.Max(minScore, score))
}

func round1(score float64) float64 {
	return math.Round(score*10) / 10
}
