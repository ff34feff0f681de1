package reading

import (
	"testing"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	return a
}

func TestAnalyzeBaseForm(t *testing.T) {
	a := newAnalyzer(t)
	tokens := a.Analyze("食べた")
	if len(tokens) == 0 {
		t.Fatal("no tokens")
	}
	if tokens[0].BaseForm != "食べる" {
		t.Errorf("expected base form 食べる, got %q", tokens[0].BaseForm)
	}
}

func TestReading(t *testing.T) {
	a := newAnalyzer(t)
	cases := map[string]string{
		"水": "みず",
		"猫": "ねこ",
		"犬": "いぬ",
	}
	for in, want := range cases {
		if got := a.Reading(in); got != want {
			t.Errorf("Reading(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadingSkipsWhitespace(t *testing.T) {
	a := newAnalyzer(t)
	if got := a.Reading("  "); got != "" {
		t.Errorf("expected empty reading, got %q", got)
	}
}
