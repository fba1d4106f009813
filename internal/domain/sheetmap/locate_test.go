package sheetmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocateSuppliedRowWins(t *testing.T) {
	// A caller-supplied row skips the scan entirely, even when the id is
	// nowhere in the data.
	row, ok := Locate(nil, DefaultMapping(), "T99", 7, 2)

	assert.True(t, ok)
	assert.Equal(t, 7, row)
}

func TestLocateByIDColumn(t *testing.T) {
	rows := [][]string{
		{"T1", "first"},
		{"T2", "second"},
		{"T3", "third"},
	}

	row, ok := Locate(rows, DefaultMapping(), "T2", 0, 2)

	assert.True(t, ok)
	assert.Equal(t, 3, row)
}

func TestLocateHeaderlessOffset(t *testing.T) {
	rows := [][]string{
		{"T1", "first"},
		{"T2", "second"},
	}

	row, ok := Locate(rows, DefaultMapping(), "T2", 0, 1)

	assert.True(t, ok)
	assert.Equal(t, 2, row)
}

func TestLocateNumericCoercion(t *testing.T) {
	// The spreadsheet reformats bare numbers: "007" and "7.0" both still
	// match a task whose id is "7".
	rows := [][]string{
		{"007", "padded"},
		{"8.0", "floaty"},
	}

	row, ok := Locate(rows, DefaultMapping(), "7", 0, 2)
	assert.True(t, ok)
	assert.Equal(t, 2, row)

	row, ok = Locate(rows, DefaultMapping(), "8", 0, 2)
	assert.True(t, ok)
	assert.Equal(t, 3, row)
}

func TestLocateFirstMatchWins(t *testing.T) {
	rows := [][]string{
		{"T1", "dup one"},
		{"T1", "dup two"},
	}

	row, ok := Locate(rows, DefaultMapping(), "T1", 0, 2)

	assert.True(t, ok)
	assert.Equal(t, 2, row)
}

func TestLocateFullScanWithoutIDColumn(t *testing.T) {
	mapping := DefaultMapping()
	mapping.ID = 0

	rows := [][]string{
		{"alpha", "beta"},
		{"gamma", "T5", "delta"},
	}

	row, ok := Locate(rows, mapping, "T5", 0, 2)

	assert.True(t, ok)
	assert.Equal(t, 3, row)
}

func TestLocateNotFound(t *testing.T) {
	rows := [][]string{
		{"T1", "only"},
	}

	_, ok := Locate(rows, DefaultMapping(), "T9", 0, 2)
	assert.False(t, ok)

	_, ok = Locate(rows, DefaultMapping(), "", 0, 2)
	assert.False(t, ok)
}

func TestCellMatchesID(t *testing.T) {
	assert.True(t, cellMatchesID(" T1 ", "T1"))
	assert.True(t, cellMatchesID("007", "7"))
	assert.True(t, cellMatchesID("7.0", "7"))
	assert.False(t, cellMatchesID("", "T1"))
	assert.False(t, cellMatchesID("T10", "T1"))
	assert.False(t, cellMatchesID("seven", "7"))
}
