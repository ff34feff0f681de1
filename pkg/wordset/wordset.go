package wordset

import (
	"errors"
	"fmt"
)

// DefaultRows is the number of blank rows a fresh buffer starts with.
const DefaultRows = 10

// ErrOutOfRange is returned when a row index does not address an existing row.
var ErrOutOfRange = errors.New("row index out of range")

// Column identifies one of the three aligned columns of a word set.
type Column int

const (
	Script Column = iota
	Meaning
	Phonetic
)

func (c Column) String() string {
	switch c {
	case Script:
		return "script"
	case Meaning:
		return "meaning"
	case Phonetic:
		return "phonetic"
	}
	return fmt.Sprintf("Column(%d)", int(c))
}

// WordRow is one vocabulary entry.
type WordRow struct {
	Script   string
	Meaning  string
	Phonetic string
}

// Empty reports whether all three fields are blank.
func (r WordRow) Empty() bool {
	return r.Script == "" && r.Meaning == "" && r.Phonetic == ""
}

// Columns is the column-wise form of a run of rows.
// The three slices are expected, but not required, to have equal length.
type Columns struct {
	Script   []string
	Meaning  []string
	Phonetic []string
}

// Len returns the length of the longest column.
func (c Columns) Len() int {
	n := len(c.Script)
	if len(c.Meaning) > n {
		n = len(c.Meaning)
	}
	if len(c.Phonetic) > n {
		n = len(c.Phonetic)
	}
	return n
}

// Buffer is an editable word set held as three parallel columns.
// All mutators keep the columns the same length.
// A Buffer is not safe for concurrent use; it belongs to the view that created it.
type Buffer struct {
	title    string
	script   []string
	meaning  []string
	phonetic []string
}

// New creates a buffer with n blank rows.
func New(n int) *Buffer {
	if n < 0 {
		n = 0
	}
	return &Buffer{
		script:   make([]string, n),
		meaning:  make([]string, n),
		phonetic: make([]string, n),
	}
}

// NewDefault creates a buffer with DefaultRows blank rows.
func NewDefault() *Buffer { return New(DefaultRows) }

// FromRows builds a buffer from an existing title and rows.
func FromRows(title string, rows []WordRow) *Buffer {
	b := New(len(rows))
	b.title = title
	for i, r := range rows {
		b.script[i] = r.Script
		b.meaning[i] = r.Meaning
		b.phonetic[i] = r.Phonetic
	}
	return b
}

// Title returns the set title.
func (b *Buffer) Title() string { return b.title }

// SetTitle replaces the title. Validation happens at submit time.
func (b *Buffer) SetTitle(title string) { b.title = title }

// Len returns the number of rows.
func (b *Buffer) Len() int { return len(b.script) }

// Row returns the row at index i.
func (b *Buffer) Row(i int) (WordRow, error) {
	if i < 0 || i >= b.Len() {
		return WordRow{}, fmt.Errorf("row %d of %d: %w", i, b.Len(), ErrOutOfRange)
	}
	return WordRow{Script: b.script[i], Meaning: b.meaning[i], Phonetic: b.phonetic[i]}, nil
}

// Rows returns a copy of the rows in order.
func (b *Buffer) Rows() []WordRow {
	rows := make([]WordRow, b.Len())
	for i := range rows {
		rows[i] = WordRow{Script: b.script[i], Meaning: b.meaning[i], Phonetic: b.phonetic[i]}
	}
	return rows
}

// Columns returns copies of the three columns.
func (b *Buffer) Columns() Columns {
	return Columns{
		Script:   append([]string(nil), b.script...),
		Meaning:  append([]string(nil), b.meaning...),
		Phonetic: append([]string(nil), b.phonetic...),
	}
}

// AppendRow adds one blank row to the end.
func (b *Buffer) AppendRow() {
	b.script = append(b.script, "")
	b.meaning = append(b.meaning, "")
	b.phonetic = append(b.phonetic, "")
}

// RemoveRowAt deletes row i from all three columns.
func (b *Buffer) RemoveRowAt(i int) error {
	if i < 0 || i >= b.Len() {
		return fmt.Errorf("remove row %d of %d: %w", i, b.Len(), ErrOutOfRange)
	}
	b.script = append(b.script[:i], b.script[i+1:]...)
	b.meaning = append(b.meaning[:i], b.meaning[i+1:]...)
	b.phonetic = append(b.phonetic[:i], b.phonetic[i+1:]...)
	return nil
}

// UpdateCell replaces a single cell.
func (b *Buffer) UpdateCell(i int, col Column, value string) error {
	if i < 0 || i >= b.Len() {
		return fmt.Errorf("update row %d of %d: %w", i, b.Len(), ErrOutOfRange)
	}
	switch col {
	case Script:
		b.script[i] = value
	case Meaning:
		b.meaning[i] = value
	case Phonetic:
		b.phonetic[i] = value
	default:
		return fmt.Errorf("update row %d: unknown column %v", i, col)
	}
	return nil
}

// MergeExternal appends incoming columns below the existing rows and then
// purges every all-blank row. Ragged input is padded with blanks to the
// longest incoming column. An empty input leaves the buffer untouched.
func (b *Buffer) MergeExternal(in Columns) {
	n := in.Len()
	if n == 0 {
		return
	}
	b.script = append(b.script, pad(in.Script, n)...)
	b.meaning = append(b.meaning, pad(in.Meaning, n)...)
	b.phonetic = append(b.phonetic, pad(in.Phonetic, n)...)
	b.Purge()
}

// Purge removes every row whose three fields are empty and returns the
// number of rows removed.
func (b *Buffer) Purge() int {
	kept := 0
	for i := range b.script {
		if b.script[i] == "" && b.meaning[i] == "" && b.phonetic[i] == "" {
			continue
		}
		b.script[kept] = b.script[i]
		b.meaning[kept] = b.meaning[i]
		b.phonetic[kept] = b.phonetic[i]
		kept++
	}
	removed := len(b.script) - kept
	b.script = b.script[:kept]
	b.meaning = b.meaning[:kept]
	b.phonetic = b.phonetic[:kept]
	return removed
}

func pad(col []string, n int) []string {
	out := make([]string, n)
	copy(out, col)
	return out
}

// RowLabel formats the 1-based row number of index i, zero-padded to three digits.
func RowLabel(i int) string {
	return fmt.Sprintf("%03d", i+1)
}
