package scoring

import (
	"strings"
	"unicode"
)

// highImpactWords are strong emotional triggers.
var highImpactWords = map[string]bool{
	"shocking": true, "unbelievable": true, "insane": true, "incredible": true,
	"amazing": true, "stunning": true, "devastating": true, "explosive": true,
	"outrageous": true, "jaw-dropping": true, "terrifying": true, "mind-blowing": true,
	"epic": true, "genius": true, "disaster": true, "scandal": true,
}

// mediumImpactWords carry moderate emotional weight.
var mediumImpactWords = map[string]bool{
	"surprising": true, "powerful": true, "huge": true, "massive": true,
	"critical": true, "urgent": true, "exciting": true, "remarkable": true,
	"impressive": true, "alarming": true, "dramatic": true, "bold": true,
	"secret": true, "hidden": true, "proven": true, "essential": true,
}

// flatWords signal dry, low-engagement phrasing.
var flatWords = map[string]bool{
	"whitepaper": true, "memorandum": true, "heretofore": true, "aforementioned": true,
	"pursuant": true, "quarterly": true, "compliance": true, "procedural": true,
	"miscellaneous": true, "administrative": true,
}

// actionableWords signal practical, how-to framing in titles.
var actionableWords = map[string]bool{
	"how": true, "why": true, "guide": true, "tips": true,
	"steps": true, "learn": true, "tutorial": true, "checklist": true,
}

// jargonWords penalize clarity when they appear in titles.
var jargonWords = map[string]bool{
	"synergy": true, "paradigm": true, "leverage": true, "holistic": true,
	"ideation": true, "verticals": true, "stakeholder": true, "operationalize": true,
	"scalability": true, "monetization": true,
}

// transitionWords mark sequential structure that splits into slides.
var transitionWords = map[string]bool{
	"first": true, "second": true, "third": true, "next": true,
	"then": true, "finally": true, "lastly": true, "meanwhile": true,
}

// trendingWords mark currently hot topics.
var trendingWords = map[string]bool{
	"ai": true, "viral": true, "trending": true, "breaking": true,
	"chatgpt": true, "llm": true, "crypto": true, "blockchain": true,
	"metaverse": true, "sustainability": true, "automation": true, "robotics": true,
}

// noveltyWords mark fresh announcements.
var noveltyWords = map[string]bool{
	"new": true, "launch": true, "launches": true, "unveiled": true,
	"announced": true, "announces": true, "release": true, "releases": true,
	"latest": true, "debut": true, "introducing": true,
}

// futurityWords mark forward-looking content.
var futurityWords = map[string]bool{
	"future": true, "upcoming": true, "prediction": true, "predictions": true,
	"forecast": true, "tomorrow": true, "next-gen": true, "roadmap": true,
}

// authorityWords mark research-backed content.
var authorityWords = map[string]bool{
	"research": true, "study": true, "professor": true, "phd": true,
	"university": true, "scientist": true, "scientists": true, "peer-reviewed": true,
	"journal": true, "clinical": true,
}

// statisticWords mark evidence-style language counted alongside
// numeric statistic patterns.
var statisticWords = map[string]bool{
	"study": true, "research": true, "survey": true, "data": true,
	"statistics": true, "percent": true,
}

// highAuthorityDomains get the full authority bonus.
var highAuthorityDomains = []string{
	"nytimes.com", "reuters.com", "bbc.com", "bbc.co.uk", "theguardian.com",
	"nature.com", "sciencedaily.com", "scientificamerican.com",
	"harvard.edu", "mit.edu", "stanford.edu",
	"techcrunch.com", "wired.com", "theverge.com", "arstechnica.com",
}

// mediumAuthorityDomains get a smaller bonus.
var mediumAuthorityDomains = []string{
	"forbes.com", "businessinsider.com", "cnet.com", "engadget.com",
	"vox.com", "fastcompany.com", "inc.com", "entrepreneur.com",
	"mashable.com", "zdnet.com",
}

// lowAuthoritySubstrings identify free blog platforms; a host containing
// one is penalized.
var lowAuthoritySubstrings = []string{
	"blogspot", "wordpress", "tumblr", "weebly", "wixsite", "medium.com",
}

// tokenize splits text into lowercase tokens stripped of surrounding
// punctuation. Inner hyphens survive, so "peer-reviewed" is one token.
func tokenize(text string) []string {
	var tokens []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		field = strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// countMatches counts how many tokens appear in the lexicon.
func countMatches(tokens []string, lexicon map[string]bool) int {
	count := 0
	for _, token := range tokens {
		if lexicon[token] {
			count++
		}
	}
	return count
}
