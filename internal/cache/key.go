package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"trend-intel/pkg/models"
)

// NormalizeKeyword canonicalizes a keyword for key derivation: trimmed,
// lowercased, inner whitespace collapsed to single spaces.
func NormalizeKeyword(keyword string) string {
	return strings.Join(strings.Fields(strings.ToLower(keyword)), " ")
}

// Fingerprint derives an order-independent 64-bit hash of the request
// options, so the same options always produce the same fingerprint
// regardless of map iteration order.
func Fingerprint(metadata map[string]string) string {
	if len(metadata) == 0 {
		return "0"
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := xxhash.New()
	for _, k := range keys {
		h.WriteString(k)
		h.WriteString("=")
		h.WriteString(metadata[k])
		h.WriteString("\n")
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Key derives the cache key for a (keyword, period, options) triple.
// Identical inputs always map to the same key; any differing option
// yields a different key.
func Key(keyword string, period models.Period, metadata map[string]string) string {
	canonical := NormalizeKeyword(keyword) + "_" + string(period) + "_" + Fingerprint(metadata)
	return fmt.Sprintf("%016x", xxhash.Sum64String(canonical))
}
