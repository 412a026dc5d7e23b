package prompt

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Finding text is attacker-influenced: package names and advisory
// descriptions flow straight from the scanned artifact. Anything that looks
// like instruction syntax is neutralized before it is embedded in the prompt.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)^\s*(system|assistant|user)\s*:`),
	regexp.MustCompile("```"),
	regexp.MustCompile(`(?i)<\|[^|]*\|>`),
}

const redacted = "[removed]"

// sanitize neutralizes control characters and instruction-like sequences in
// a finding text field. The output is deterministic for a given input.
func sanitize(s string) string {
	// Drop control characters; newlines collapse to spaces so a field can
	// never fake a new prompt section.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			b.WriteRune(' ')
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()

	for _, re := range injectionPatterns {
		out = re.ReplaceAllString(out, redacted)
	}

	return strings.Join(strings.Fields(out), " ")
}

// truncate caps s at max bytes, appending an explicit ellipsis marker when
// anything was cut. The budget is in bytes because the prompt feeds a sized
// service payload; the cut never splits a multibyte rune.
func truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	if max <= len(ellipsis) {
		return ellipsis[:max], true
	}
	cut := max - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis, true
}

const ellipsis = "..."
