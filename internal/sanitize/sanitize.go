// Package sanitize turns raw RSS text (HTML fragments, entities, decorative
// glyphs) into plain display text.
package sanitize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalEntity = regexp.MustCompile(`&#(\d+);`)
	hexEntity     = regexp.MustCompile(`&#x([0-9a-fA-F]+);`)
	htmlTag       = regexp.MustCompile(`<[^>]*>`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// namedEntities is the fixed table of named entities we decode, applied in
// declaration order so output is deterministic for double-encoded input like
// "&amp;nbsp;". RSS titles and descriptions from the configured feeds only
// ever carry these; decoding the full HTML5 set would change output for text
// containing literal sequences like "&lt;".
var namedEntities = []struct {
	entity      string
	replacement string
}{
	{"&nbsp;", " "},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&quot;", `"`},
	{"&#39;", "'"},
	{"&apos;", "'"},
	{"&copy;", "©"},
	{"&reg;", "®"},
	{"&trade;", "™"},
}

// decorativeGlyphs are marker characters some publishers prefix headlines
// with (stock tickers, breaking-news arrows).
const decorativeGlyphs = "▲▼"

// Clean sanitizes raw feed text: entities decoded, tags stripped, decorative
// glyphs removed, runs of whitespace collapsed to single spaces, and the
// result trimmed. Empty input yields the empty string. Clean is a pure
// function and idempotent on its own output.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	cleaned := decodeEntities(text)
	cleaned = htmlTag.ReplaceAllString(cleaned, "")

	for _, glyph := range decorativeGlyphs {
		cleaned = strings.ReplaceAll(cleaned, string(glyph), "")
	}

	cleaned = whitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Truncate shortens sanitized content to max runes, appending an ellipsis
// marker when anything was cut. Feed descriptions can run to whole article
// bodies; the dashboard shows at most a card-sized excerpt.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

func decodeEntities(text string) string {
	decoded := decimalEntity.ReplaceAllStringFunc(text, func(match string) string {
		digits := decimalEntity.FindStringSubmatch(match)[1]
		code, err := strconv.ParseInt(digits, 10, 32)
		if err != nil {
			return match
		}
		return string(rune(code))
	})

	decoded = hexEntity.ReplaceAllStringFunc(decoded, func(match string) string {
		digits := hexEntity.FindStringSubmatch(match)[1]
		code, err := strconv.ParseInt(digits, 16, 32)
		if err != nil {
			return match
		}
		return string(rune(code))
	})

	for _, e := range namedEntities {
		decoded = strings.ReplaceAll(decoded, e.entity, e.replacement)
	}

	return decoded
}
