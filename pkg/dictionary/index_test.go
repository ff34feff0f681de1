package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleDict = `
{
  "words": [
    {
      "id": "1",
      "kanji": [{"text": "犬", "common": true}],
      "kana": [{"text": "いぬ", "common": true}],
      "sense": [{"gloss": [{"text": "dog"}], "partOfSpeech": ["n"]}]
    },
    {
      "id": "2",
      "kanji": [{"text": "走る", "common": true}],
      "kana": [{"text": "はしる", "common": true}],
      "sense": [{"gloss": [{"text": "to run"}], "partOfSpeech": ["v5r"]}]
    },
    {
      "id": "3",
      "kanji": [{"text": "日", "common": true}],
      "kana": [{"text": "にち", "common": false}, {"text": "ひ", "common": true}],
      "sense": [{"gloss": [{"text": "day"}], "partOfSpeech": ["n"]}]
    },
    {
      "id": "4",
      "kanji": [],
      "kana": [{"text": "テスト", "common": true}],
      "sense": [{"gloss": [{"text": "test"}], "partOfSpeech": ["n", "vs"]}]
    }
  ]
}
`

func loadSample(t *testing.T) *Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jmdict.json")
	if err := os.WriteFile(path, []byte(sampleDict), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	entries, err := LoadJMdictSimplified(path)
	if err != nil {
		t.Fatalf("load dict: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	return NewIndex(entries)
}

func TestLoadBareArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arr.json")
	if err := os.WriteFile(path, []byte(`[{"id":"9","kana":[{"text":"あ"}]}]`), 0644); err != nil {
		t.Fatal(err)
	}
	entries, err := LoadJMdictSimplified(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 1 || entries[0].Id != "9" {
		t.Fatalf("unexpected entries %+v", entries)
	}
}

func TestIndexLookup(t *testing.T) {
	ix := loadSample(t)

	if got := ix.Lookup("犬", ""); len(got) != 1 || got[0].Id != "1" {
		t.Fatalf("lookup 犬: %+v", got)
	}
	if got := ix.Lookup("犬", "イヌ"); len(got) != 1 {
		t.Fatalf("katakana reading should match: %+v", got)
	}
	if got := ix.Lookup("犬", "ねこ"); len(got) != 0 {
		t.Fatalf("mismatched reading should not match: %+v", got)
	}
	if got := ix.Lookup("未知", ""); got != nil {
		t.Fatalf("unknown word: %+v", got)
	}
	var nilIndex *Index
	if got := nilIndex.Lookup("犬", ""); got != nil {
		t.Fatalf("nil index: %+v", got)
	}
}

func TestPrimaryReadingPrefersCommon(t *testing.T) {
	ix := loadSample(t)
	if r, ok := ix.PrimaryReading("日"); !ok || r != "ひ" {
		t.Errorf("PrimaryReading(日) = %q, %v", r, ok)
	}
	if r, ok := ix.PrimaryReading("テスト"); !ok || r != "てすと" {
		t.Errorf("PrimaryReading(テスト) = %q, %v", r, ok)
	}
	if _, ok := ix.PrimaryReading("未知"); ok {
		t.Error("expected no reading for unknown word")
	}
}

func TestPrimaryGloss(t *testing.T) {
	ix := loadSample(t)
	if g, ok := ix.PrimaryGloss("走る", ""); !ok || g != "to run" {
		t.Errorf("PrimaryGloss(走る) = %q, %v", g, ok)
	}
	if g, ok := ix.PrimaryGloss("日", "にち"); !ok || g != "day" {
		t.Errorf("PrimaryGloss(日, にち) = %q, %v", g, ok)
	}
	if _, ok := ix.PrimaryGloss("犬", "ねこ"); ok {
		t.Error("reading mismatch should not produce a gloss")
	}
}

func TestToHiragana(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"ア", "あ"},
		{"カ", "か"},
		{"ガ", "が"},
		{"パ", "ぱ"},
		{"ン", "ん"},
		{"ー", "ー"},
		{"abc", "abc"},
		{"あいう", "あいう"},
	}
	for _, tt := range tests {
		if got := ToHiragana(tt.in); got != tt.out {
			t.Errorf("ToHiragana(%q) = %q; want %q", tt.in, got, tt.out)
		}
	}
}
