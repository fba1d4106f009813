// Package sheetmap translates between raw spreadsheet rows and canonical task
// records: resolving which column holds which field, normalizing free-text
// cell values, locating rows by task id, and mapping rows to and from tasks.
// Everything here is pure; the sync service threads the resolved mapping
// through each operation explicitly.
package sheetmap

import (
	"strings"
)

// ColumnMapping maps each logical task field to a 1-based column index in the
// backing sheet. A zero index means the field has no column.
type ColumnMapping struct {
	ID          int
	Description int
	AssignedTo  int
	Priority    int
	Status      int
	RequestedBy int
	Deadline    int
	Notes       int
	SubmittedBy int
}

// DefaultMapping is the fixed A..H layout assumed when a sheet has no
// recognizable header row. SubmittedBy has no column in this layout.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{
		ID:          1,
		Description: 2,
		AssignedTo:  3,
		Priority:    4,
		Status:      5,
		RequestedBy: 6,
		Deadline:    7,
		Notes:       8,
	}
}

// Header synonyms, normalized form. Editors rename columns freely, so each
// field accepts the variants seen in the wild.
var fieldSynonyms = []struct {
	assign   func(*ColumnMapping, int)
	assigned func(ColumnMapping) int
	names    []string
}{
	{func(m *ColumnMapping, c int) { m.ID = c }, func(m ColumnMapping) int { return m.ID },
		[]string{"id", "task id", "taskid", "task"}},
	{func(m *ColumnMapping, c int) { m.Description = c }, func(m ColumnMapping) int { return m.Description },
		[]string{"description", "task description", "task desc"}},
	{func(m *ColumnMapping, c int) { m.AssignedTo = c }, func(m ColumnMapping) int { return m.AssignedTo },
		[]string{"assigned to", "assigned", "assignee"}},
	{func(m *ColumnMapping, c int) { m.Priority = c }, func(m ColumnMapping) int { return m.Priority },
		[]string{"priority"}},
	{func(m *ColumnMapping, c int) { m.Status = c }, func(m ColumnMapping) int { return m.Status },
		[]string{"status"}},
	{func(m *ColumnMapping, c int) { m.RequestedBy = c }, func(m ColumnMapping) int { return m.RequestedBy },
		[]string{"requested by", "requester", "requestedby"}},
	{func(m *ColumnMapping, c int) { m.Deadline = c }, func(m ColumnMapping) int { return m.Deadline },
		[]string{"deadline", "due", "due date", "date"}},
	{func(m *ColumnMapping, c int) { m.Notes = c }, func(m ColumnMapping) int { return m.Notes },
		[]string{"notes", "note", "remarks"}},
	{func(m *ColumnMapping, c int) { m.SubmittedBy = c }, func(m ColumnMapping) int { return m.SubmittedBy },
		[]string{"submitted by", "submittedby", "submitter"}},
}

// DetectHeader reports whether the first sheet row is a header. At least two
// cells must match known field keywords; otherwise the row is task data and
// the fixed default layout applies, with row 1 counted as data.
func DetectHeader(headerRow []string) bool {
	recognized := 0
	for _, cell := range headerRow {
		norm := normalizeHeaderCell(cell)
		if norm == "" {
			continue
		}
		for _, field := range fieldSynonyms {
			if matchesSynonym(norm, field.names) {
				recognized++
				break
			}
		}
	}
	return recognized >= 2
}

// Resolve inspects a header row and builds the field-to-column mapping.
// Undetected headers yield the fixed default layout. Detected headers win
// per-field on a first-column basis; fields absent from the header keep their
// default column.
func Resolve(headerRow []string) ColumnMapping {
	if !DetectHeader(headerRow) {
		return DefaultMapping()
	}

	mapping := ColumnMapping{}
	for i, cell := range headerRow {
		norm := normalizeHeaderCell(cell)
		if norm == "" {
			continue
		}
		for _, field := range fieldSynonyms {
			if !matchesSynonym(norm, field.names) {
				continue
			}
			if field.assigned(mapping) == 0 {
				field.assign(&mapping, i+1)
			}
			break
		}
	}

	defaults := DefaultMapping()
	if mapping.ID == 0 {
		mapping.ID = defaults.ID
	}
	if mapping.Description == 0 {
		mapping.Description = defaults.Description
	}
	if mapping.AssignedTo == 0 {
		mapping.AssignedTo = defaults.AssignedTo
	}
	if mapping.Priority == 0 {
		mapping.Priority = defaults.Priority
	}
	if mapping.Status == 0 {
		mapping.Status = defaults.Status
	}
	if mapping.RequestedBy == 0 {
		mapping.RequestedBy = defaults.RequestedBy
	}
	if mapping.Deadline == 0 {
		mapping.Deadline = defaults.Deadline
	}
	if mapping.Notes == 0 {
		mapping.Notes = defaults.Notes
	}
	return mapping
}

// MaxColumn returns the highest mapped column index.
func (m ColumnMapping) MaxColumn() int {
	max := 0
	for _, c := range []int{m.ID, m.Description, m.AssignedTo, m.Priority, m.Status, m.RequestedBy, m.Deadline, m.Notes, m.SubmittedBy} {
		if c > max {
			max = c
		}
	}
	return max
}

func matchesSynonym(norm string, names []string) bool {
	for _, n := range names {
		if norm == n {
			return true
		}
	}
	return false
}

// normalizeHeaderCell lowercases, folds hyphens/underscores into spaces,
// strips everything but letters, digits and spaces, and collapses runs of
// whitespace.
func normalizeHeaderCell(cell string) string {
	lower := strings.ToLower(strings.TrimSpace(cell))
	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '-', r == '_':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
