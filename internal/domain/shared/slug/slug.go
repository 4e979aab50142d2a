// Package slug produces normalized URL-safe identifiers from free text.
package slug

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Checker reports whether a slug is already taken. tenantID is nil for
// globally-sluggable entities; excludeID (>0) skips the record being
// updated.
type Checker interface {
	SlugExists(ctx context.Context, tenantID *int64, slug string, excludeID int64) (bool, error)
}

// Generator turns free text into slugs, consulting a term translation
// dictionary before falling back to generic normalization.
type Generator struct {
	translations map[string]string
	keywords     []string
}

// NewGenerator creates a generator with the given translation
// dictionary. Keys are matched case-insensitively; keyword fallback
// prefers longer keys so "analista financeiro" beats "analista".
func NewGenerator(translations map[string]string) *Generator {
	lowered := make(map[string]string, len(translations))
	keywords := make([]string, 0, len(translations))
	for k, v := range translations {
		key := strings.ToLower(strings.TrimSpace(k))
		lowered[key] = v
		keywords = append(keywords, key)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})
	return &Generator{translations: lowered, keywords: keywords}
}

// Generate returns the slug for the given text. An exact dictionary
// match wins, then a keyword contained in the text, then the generic
// normalized form.
func (g *Generator) Generate(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if translated, ok := g.translations[lowered]; ok {
		return translated
	}
	for _, keyword := range g.keywords {
		if strings.Contains(lowered, keyword) {
			return g.translations[keyword]
		}
	}
	return Normalize(text)
}

// GenerateUnique returns the slug for text, appending an incrementing
// numeric suffix until the checker reports it free. The sequence is
// deterministic: base, base-1, base-2, ...
func (g *Generator) GenerateUnique(ctx context.Context, text string, tenantID *int64, excludeID int64, checker Checker) (string, error) {
	base := g.Generate(text)
	candidate := base
	for counter := 1; ; counter++ {
		taken, err := checker.SlugExists(ctx, tenantID, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the text, strips diacritics and collapses every
// run of non-alphanumeric characters into a single hyphen.
func Normalize(text string) string {
	flattened, _, err := transform.String(stripAccents, text)
	if err != nil {
		flattened = text
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(flattened) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
