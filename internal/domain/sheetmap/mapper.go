package sheetmap

import (
	"strings"

	"github.com/thaiba/mediatasks/internal/domain/entities"
)

// RowToTask reads a sheet row into a canonical task. Status and deadline go
// through the normalizer; every other field is trimmed as-is. Columns past
// the end of the row read as empty.
func RowToTask(row []string, mapping ColumnMapping, sheetRow int) entities.Task {
	return entities.Task{
		ID:          strings.TrimSpace(cellAt(row, mapping.ID)),
		Description: strings.TrimSpace(cellAt(row, mapping.Description)),
		AssignedTo:  strings.TrimSpace(cellAt(row, mapping.AssignedTo)),
		Priority:    NormalizePriority(cellAt(row, mapping.Priority)),
		Status:      NormalizeStatus(cellAt(row, mapping.Status)),
		RequestedBy: strings.TrimSpace(cellAt(row, mapping.RequestedBy)),
		Deadline:    ParseDate(cellAt(row, mapping.Deadline)),
		Notes:       strings.TrimSpace(cellAt(row, mapping.Notes)),
		SubmittedBy: strings.TrimSpace(cellAt(row, mapping.SubmittedBy)),
		SheetRow:    sheetRow,
	}
}

// TaskToRow renders a task as an ordered cell slice of at least columnCount
// cells. Unmapped columns stay blank rather than being truncated, so a write
// never narrows the sheet. The mapper itself is lossless; only the read side
// normalizes values.
func TaskToRow(task entities.Task, mapping ColumnMapping, columnCount int) []string {
	width := columnCount
	if max := mapping.MaxColumn(); max > width {
		width = max
	}
	row := make([]string, width)

	setCell(row, mapping.ID, task.ID)
	setCell(row, mapping.Description, task.Description)
	setCell(row, mapping.AssignedTo, task.AssignedTo)
	setCell(row, mapping.Priority, task.Priority)
	setCell(row, mapping.Status, task.Status)
	setCell(row, mapping.RequestedBy, task.RequestedBy)
	setCell(row, mapping.Deadline, task.Deadline)
	setCell(row, mapping.Notes, task.Notes)
	setCell(row, mapping.SubmittedBy, task.SubmittedBy)
	return row
}

func setCell(row []string, column int, value string) {
	if column >= 1 && column <= len(row) {
		row[column-1] = value
	}
}
