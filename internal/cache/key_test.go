package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trend-intel/pkg/models"
)

func TestNormalizeKeyword(t *testing.T) {
	assert.Equal(t, "openai", NormalizeKeyword("  OpenAI "))
	assert.Equal(t, "machine learning", NormalizeKeyword("Machine   Learning"))
	assert.Equal(t, "a b c", NormalizeKeyword("\tA  B\nC "))
	assert.Equal(t, "", NormalizeKeyword("   "))
}

func TestKey_IdempotentAcrossCaseAndWhitespace(t *testing.T) {
	metadata := map[string]string{"analysis_depth": "detailed"}

	a := Key("OpenAI", models.Period7D, metadata)
	b := Key("  openai ", models.Period7D, metadata)
	c := Key("OPENAI", models.Period7D, metadata)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestKey_DiffersByPeriod(t *testing.T) {
	metadata := map[string]string{"analysis_depth": "detailed"}

	assert.NotEqual(t,
		Key("openai", models.Period7D, metadata),
		Key("openai", models.Period30D, metadata))
}

func TestKey_DiffersByAnyOption(t *testing.T) {
	base := map[string]string{
		"analysis_depth": "detailed",
		"include_videos": "false",
		"min_engagement": "0",
	}
	baseKey := Key("openai", models.Period7D, base)

	for field, changed := range map[string]string{
		"analysis_depth": "comprehensive",
		"include_videos": "true",
		"min_engagement": "100",
	} {
		metadata := make(map[string]string, len(base))
		for k, v := range base {
			metadata[k] = v
		}
		metadata[field] = changed
		assert.NotEqual(t, baseKey, Key("openai", models.Period7D, metadata),
			"changing %s must produce a different key", field)
	}
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	// Maps iterate in random order; repeated calls exercise that.
	metadata := map[string]string{
		"analysis_depth":       "detailed",
		"include_full_content": "true",
		"source_priority":      "news",
		"min_engagement":       "50",
		"include_videos":       "false",
	}

	first := Fingerprint(metadata)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Fingerprint(metadata))
	}
}

func TestFingerprint_Empty(t *testing.T) {
	assert.Equal(t, "0", Fingerprint(nil))
	assert.Equal(t, "0", Fingerprint(map[string]string{}))
}
