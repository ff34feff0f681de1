// Package importer stages bulk word data coming from external sources (OCR,
// spreadsheet parsing) and merges it into a word set buffer exactly once per
// batch.
package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/japaniel/vocanote/pkg/wordset"
)

// Source names an external import source.
type Source int

const (
	OCR Source = iota
	Spreadsheet
)

func (s Source) String() string {
	switch s {
	case OCR:
		return "ocr"
	case Spreadsheet:
		return "spreadsheet"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// ImportBatch is the raw output of one import source. A nil cell is a null
// coming from the parser. The JSON names match the backend's column names.
type ImportBatch struct {
	Script   []*string `json:"kanji"`
	Meaning  []*string `json:"meaning"`
	Phonetic []*string `json:"gana"`
}

// Present reports whether any of the three sequences is non-empty.
func (b ImportBatch) Present() bool {
	return len(b.Script) > 0 || len(b.Meaning) > 0 || len(b.Phonetic) > 0
}

// DecodeBatch reads a JSON batch such as {"kanji":["水",null],"meaning":[...],"gana":[...]}.
func DecodeBatch(r io.Reader) (ImportBatch, error) {
	var b ImportBatch
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return ImportBatch{}, fmt.Errorf("decode import batch: %w", err)
	}
	return b, nil
}

// Normalize picks the batch to merge for one detection cycle and rewrites
// null cells to empty strings. OCR wins when both sources hold data; the
// spreadsheet batch is dropped for that cycle. Column lengths are passed
// through as-is. ok is false when neither batch is present.
func Normalize(ocr, sheet ImportBatch) (cols wordset.Columns, src Source, ok bool) {
	var chosen ImportBatch
	switch {
	case ocr.Present():
		chosen, src = ocr, OCR
	case sheet.Present():
		chosen, src = sheet, Spreadsheet
	default:
		return wordset.Columns{}, 0, false
	}
	return wordset.Columns{
		Script:   nullToEmpty(chosen.Script),
		Meaning:  nullToEmpty(chosen.Meaning),
		Phonetic: nullToEmpty(chosen.Phonetic),
	}, src, true
}

func nullToEmpty(in []*string) []string {
	out := make([]string, len(in))
	for i, p := range in {
		if p != nil {
			out[i] = *p
		}
	}
	return out
}
