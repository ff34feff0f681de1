package dictionary

import (
	"sort"
)

// Index is an in-memory lookup over JMdict entries keyed by every kanji and
// kana spelling. It is read-only after construction and safe for concurrent use.
type Index struct {
	byText map[string][]JMdictEntry
}

// NewIndex builds an index of the provided entries.
func NewIndex(entries []JMdictEntry) *Index {
	idx := make(map[string][]JMdictEntry)
	for _, e := range entries {
		for _, k := range e.Kanji {
			idx[k.Text] = append(idx[k.Text], e)
		}
		for _, k := range e.Kana {
			if containsEntry(idx[k.Text], e.Id) {
				continue
			}
			idx[k.Text] = append(idx[k.Text], e)
		}
	}
	for k := range idx {
		sort.Slice(idx[k], func(i, j int) bool { return idx[k][i].Id < idx[k][j].Id })
	}
	return &Index{byText: idx}
}

func containsEntry(list []JMdictEntry, id string) bool {
	for _, e := range list {
		if e.Id == id {
			return true
		}
	}
	return false
}

// Len returns the number of distinct spellings indexed.
func (ix *Index) Len() int { return len(ix.byText) }

// Lookup finds entries spelled as text. When reading is set, only entries
// with a matching kana element are kept.
func (ix *Index) Lookup(text, reading string) []JMdictEntry {
	if ix == nil || text == "" {
		return nil
	}
	candidates := ix.byText[text]
	if reading == "" {
		return candidates
	}
	want := ToHiragana(reading)
	var out []JMdictEntry
	for _, e := range candidates {
		for _, k := range e.Kana {
			if ToHiragana(k.Text) == want {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// PrimaryReading returns the hiragana reading of the first matching entry,
// preferring a kana element marked common.
func (ix *Index) PrimaryReading(text string) (string, bool) {
	matches := ix.Lookup(text, "")
	if len(matches) == 0 || len(matches[0].Kana) == 0 {
		return "", false
	}
	kana := matches[0].Kana[0].Text
	for _, k := range matches[0].Kana {
		if k.Common {
			kana = k.Text
			break
		}
	}
	return ToHiragana(kana), true
}

// PrimaryGloss returns the first gloss of the first entry matching text and
// (optionally) reading.
func (ix *Index) PrimaryGloss(text, reading string) (string, bool) {
	for _, e := range ix.Lookup(text, reading) {
		for _, s := range e.Sense {
			for _, g := range s.Gloss {
				if g.Text != "" {
					return g.Text, true
				}
			}
		}
	}
	return "", false
}

// ToHiragana converts Katakana to Hiragana.
func ToHiragana(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if r >= 0x30A1 && r <= 0x30F6 {
			runes[i] = r - 0x60
		}
	}
	return string(runes)
}
