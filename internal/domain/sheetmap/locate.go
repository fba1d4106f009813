package sheetmap

import (
	"strconv"
	"strings"
)

// Locate finds the absolute sheet row holding the task with the given id.
// rows are data rows only; firstRow is the absolute sheet row number of
// rows[0] (2 when the sheet has a header, 1 otherwise).
//
// A suppliedRow greater than 1 is returned as-is: the caller override exists
// because id search is unreliable when the id column is ambiguous. Otherwise
// rows are scanned top to bottom against the mapped id column, tolerating the
// spreadsheet's habit of reformatting ids as numbers. When the mapping has no
// id column at all, every cell of every row is checked for an exact match.
// The first match wins; the ok result is false when nothing matches.
func Locate(rows [][]string, mapping ColumnMapping, id string, suppliedRow, firstRow int) (int, bool) {
	if suppliedRow > 1 {
		return suppliedRow, true
	}

	target := strings.TrimSpace(id)
	if target == "" {
		return 0, false
	}

	if mapping.ID > 0 {
		for i, row := range rows {
			if cellMatchesID(cellAt(row, mapping.ID), target) {
				return firstRow + i, true
			}
		}
		return 0, false
	}

	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) == target {
				return firstRow + i, true
			}
		}
	}
	return 0, false
}

// cellMatchesID compares a cell against the target id, both as the trimmed
// string and as its numeric rendering, so "007" still matches an id of "7"
// after the sheet auto-formats it.
func cellMatchesID(cell, target string) bool {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return false
	}
	if trimmed == target {
		return true
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if strconv.FormatFloat(f, 'f', -1, 64) == target {
			return true
		}
	}
	return false
}

// cellAt reads the 1-based column from a row, empty when out of range.
func cellAt(row []string, column int) string {
	if column < 1 || column > len(row) {
		return ""
	}
	return row[column-1]
}
