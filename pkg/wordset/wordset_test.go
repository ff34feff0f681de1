package wordset

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertAligned(t *testing.T, b *Buffer) {
	t.Helper()
	c := b.Columns()
	require.Equal(t, len(c.Script), len(c.Meaning), "script/meaning length")
	require.Equal(t, len(c.Script), len(c.Phonetic), "script/phonetic length")
}

func TestNewDefaultHasTenBlankRows(t *testing.T) {
	b := NewDefault()
	assert.Equal(t, 10, b.Len())
	assert.Equal(t, "", b.Title())
	for _, r := range b.Rows() {
		assert.True(t, r.Empty())
	}
	assertAligned(t, b)
}

func TestColumnsStayAlignedUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewDefault()
	for step := 0; step < 500; step++ {
		switch rng.Intn(3) {
		case 0:
			b.AppendRow()
		case 1:
			n := b.Len()
			idx := rng.Intn(n + 2)
			err := b.RemoveRowAt(idx)
			if idx >= n {
				require.ErrorIs(t, err, ErrOutOfRange)
			} else {
				require.NoError(t, err)
			}
		case 2:
			idx := rng.Intn(b.Len() + 2)
			err := b.UpdateCell(idx, Column(rng.Intn(3)), "x")
			if idx >= b.Len() {
				require.ErrorIs(t, err, ErrOutOfRange)
			} else {
				require.NoError(t, err)
			}
		}
		assertAligned(t, b)
	}
}

func TestRemoveRowAtOutOfRange(t *testing.T) {
	b := New(2)
	err := b.RemoveRowAt(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	require.ErrorIs(t, b.RemoveRowAt(-1), ErrOutOfRange)
	assert.Equal(t, 2, b.Len())
}

func TestRemoveRowAtKeepsRowsTogether(t *testing.T) {
	b := FromRows("t", []WordRow{
		{"一", "one", "いち"},
		{"二", "two", "に"},
		{"三", "three", "さん"},
	})
	require.NoError(t, b.RemoveRowAt(1))
	assert.Equal(t, []WordRow{{"一", "one", "いち"}, {"三", "three", "さん"}}, b.Rows())
}

func TestUpdateCell(t *testing.T) {
	b := New(1)
	require.NoError(t, b.UpdateCell(0, Script, "山"))
	require.NoError(t, b.UpdateCell(0, Meaning, "mountain"))
	require.NoError(t, b.UpdateCell(0, Phonetic, "やま"))
	row, err := b.Row(0)
	require.NoError(t, err)
	assert.Equal(t, WordRow{"山", "mountain", "やま"}, row)

	require.ErrorIs(t, b.UpdateCell(1, Script, "x"), ErrOutOfRange)
	require.Error(t, b.UpdateCell(0, Column(7), "x"))
}

func TestMergeExternalEmptyIsNoop(t *testing.T) {
	b := NewDefault()
	b.MergeExternal(Columns{})
	assert.Equal(t, 10, b.Len(), "blank rows must survive an empty merge")
}

func TestMergeExternalPurgesBlankRows(t *testing.T) {
	b := NewDefault()
	b.MergeExternal(Columns{
		Script:   []string{"水", "火"},
		Meaning:  []string{"water", "fire"},
		Phonetic: []string{"みず", "ひ"},
	})
	require.Equal(t, 2, b.Len())
	row, err := b.Row(0)
	require.NoError(t, err)
	assert.Equal(t, WordRow{"水", "water", "みず"}, row)
	assertAligned(t, b)
}

func TestMergeExternalKeepsPartialRows(t *testing.T) {
	b := New(3)
	require.NoError(t, b.UpdateCell(1, Meaning, "kept"))
	b.MergeExternal(Columns{
		Script:   []string{"", "木"},
		Meaning:  []string{"", ""},
		Phonetic: []string{"", ""},
	})
	assert.Equal(t, []WordRow{{Meaning: "kept"}, {Script: "木"}}, b.Rows())
	for _, r := range b.Rows() {
		assert.False(t, r.Empty())
	}
}

func TestMergeExternalPadsRaggedInput(t *testing.T) {
	b := New(0)
	b.MergeExternal(Columns{
		Script:  []string{"金", "土", "日"},
		Meaning: []string{"gold"},
	})
	assertAligned(t, b)
	assert.Equal(t, []WordRow{{"金", "gold", ""}, {Script: "土"}, {Script: "日"}}, b.Rows())
}

func TestRowLabel(t *testing.T) {
	assert.Equal(t, "001", RowLabel(0))
	assert.Equal(t, "010", RowLabel(9))
	assert.Equal(t, "100", RowLabel(99))
	assert.Equal(t, "1000", RowLabel(999))
}

func TestColumnsReturnsCopies(t *testing.T) {
	b := New(1)
	c := b.Columns()
	c.Script[0] = "changed"
	row, _ := b.Row(0)
	assert.Equal(t, "", row.Script)
}
