package trigger

import (
	"strings"
	"testing"
)

func TestSanitizeStripsLookaround(t *testing.T) {
	safe, ok := sanitize(`(?=foo)bar`)
	if !ok {
		t.Fatal("sanitize rejected a recoverable pattern")
	}
	if strings.Contains(safe, "(?=") {
		t.Errorf("lookahead survived sanitization: %q", safe)
	}
	if _, ok := compilePattern(`(?=foo)bar`); !ok {
		t.Error("sanitized lookahead pattern failed to compile")
	}
	if _, ok := compilePattern(`(?<!x)y`); !ok {
		t.Error("sanitized lookbehind pattern failed to compile")
	}
}

func TestSanitizeStripsBackreferencesAndComments(t *testing.T) {
	safe, ok := sanitize(`(аа)\1(?#note)б`)
	if !ok {
		t.Fatal("sanitize rejected a recoverable pattern")
	}
	if strings.Contains(safe, `\1`) || strings.Contains(safe, "(?#") {
		t.Errorf("forbidden construct survived: %q", safe)
	}
}

func TestSanitizeClampsQuantifiers(t *testing.T) {
	safe, ok := sanitize(`а{2,10000}`)
	if !ok {
		t.Fatal("sanitize rejected a recoverable pattern")
	}
	if safe != "а{2,50}" {
		t.Errorf("clamped pattern = %q, want а{2,50}", safe)
	}

	safe, _ = sanitize(`б{9999}`)
	if safe != "б{50}" {
		t.Errorf("clamped pattern = %q, want б{50}", safe)
	}

	safe, _ = sanitize(`в{60,}`)
	if safe != "в{50,}" {
		t.Errorf("clamped pattern = %q, want в{50,}", safe)
	}
}

func TestSanitizeRejectsOversizedAndEmptyPatterns(t *testing.T) {
	if _, ok := sanitize(""); ok {
		t.Error("empty pattern accepted")
	}
	if _, ok := sanitize(strings.Repeat("a", maxPatternLength+1)); ok {
		t.Error("oversized pattern accepted")
	}
}

func TestCompilePatternTreatsMalformedAsNonMatching(t *testing.T) {
	if _, ok := compilePattern(`[unclosed`); ok {
		t.Error("malformed pattern compiled")
	}
}

func TestCompilePatternIsCaseInsensitive(t *testing.T) {
	re, ok := compilePattern(`bg\.future\.shte`)
	if !ok {
		t.Fatal("pattern failed to compile")
	}
	if !re.MatchString("BG.Future.Shte") {
		t.Error("case-insensitive match failed")
	}
}
