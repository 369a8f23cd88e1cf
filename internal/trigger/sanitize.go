package trigger

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Trigger patterns come from catalog data and are untrusted. The sanitizer
// is a restrictive allow-list: lookaround, backreference and comment
// constructs are removed, and pattern length and quantifier magnitude are
// capped before compiling.
const (
	maxPatternLength = 200
	maxQuantifier    = 50
)

var (
	lookaroundRe = regexp.MustCompile(`\(\?<?[=!]`)
	commentRe    = regexp.MustCompile(`\(\?#[^)]*\)`)
	backrefRe    = regexp.MustCompile(`\\[1-9]`)
	quantifierRe = regexp.MustCompile(`\{(\d+)(?:,(\d*))?\}`)
)

// sanitize rewrites a raw trigger pattern into its allowed form. It returns
// false when the pattern cannot be made safe at all.
func sanitize(pattern string) (string, bool) {
	if pattern == "" || len(pattern) > maxPatternLength {
		return "", false
	}

	p := commentRe.ReplaceAllString(pattern, "")
	p = lookaroundRe.ReplaceAllString(p, "(?:")
	p = backrefRe.ReplaceAllString(p, "")
	p = quantifierRe.ReplaceAllStringFunc(p, clampQuantifier)

	if strings.TrimSpace(p) == "" {
		return "", false
	}
	return p, true
}

// clampQuantifier rewrites {m}, {m,} and {m,n} so no bound exceeds the cap
func clampQuantifier(q string) string {
	match := quantifierRe.FindStringSubmatch(q)
	if match == nil {
		return q
	}
	low, err := strconv.Atoi(match[1])
	if err != nil || low > maxQuantifier {
		low = maxQuantifier
	}
	if !strings.Contains(q, ",") {
		return fmt.Sprintf("{%d}", low)
	}
	if match[2] == "" {
		return fmt.Sprintf("{%d,}", low)
	}
	high, err := strconv.Atoi(match[2])
	if err != nil || high > maxQuantifier {
		high = maxQuantifier
	}
	if high < low {
		high = low
	}
	return fmt.Sprintf("{%d,%d}", low, high)
}

// compilePattern sanitizes and compiles one trigger pattern. A pattern that
// fails sanitization or compilation is treated as never matching.
func compilePattern(pattern string) (*regexp.Regexp, bool) {
	safe, ok := sanitize(pattern)
	if !ok {
		return nil, false
	}
	re, err := regexp.Compile("(?i)" + safe)
	if err != nil {
		return nil, false
	}
	return re, true
}
