package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thaiba/mediatasks/internal/domain/entities"
	"github.com/thaiba/mediatasks/internal/domain/sheetmap"
	"github.com/thaiba/mediatasks/internal/infrastructure/logger"
	"github.com/thaiba/mediatasks/internal/ports"
)

// SyncConfig carries the sheet identifiers and policies the engine needs.
// Constructed once per process from the loaded configuration and shared by
// reference; no component reads the environment on its own.
type SyncConfig struct {
	TasksSheet string
	// AuditSheet enables the audit trail when non-empty.
	AuditSheet string
	// IDPrefix is the allocation scheme prefix, "T" by default.
	IDPrefix string
	// FilterFields are the task fields ListTasks matches an email filter
	// against. Defaults to assignedTo and submittedBy.
	FilterFields []string
}

func (c *SyncConfig) applyDefaults() {
	if c.TasksSheet == "" {
		c.TasksSheet = "Sheet1"
	}
	if c.IDPrefix == "" {
		c.IDPrefix = "T"
	}
	if len(c.FilterFields) == 0 {
		c.FilterFields = []string{ports.FilterFieldAssignedTo, ports.FilterFieldSubmittedBy}
	}
}

// SyncService reconciles the external spreadsheet with the task model. It is
// the only writer the application has; all three operations resolve the
// column layout fresh from the header row, so a reordered sheet keeps
// working without a restart.
type SyncService struct {
	store  ports.SheetStore
	config SyncConfig
	logger *logger.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(store ports.SheetStore, cfg SyncConfig, logger *logger.Logger) *SyncService {
	cfg.applyDefaults()
	return &SyncService{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// sheetState is one consistent read of the tasks tab: the resolved layout and
// every data row with its absolute position.
type sheetState struct {
	mapping   sheetmap.ColumnMapping
	hasHeader bool
	firstRow  int
	header    []string
	rows      [][]string
}

func (st *sheetState) columnCount() int {
	count := len(st.header)
	if count < 8 {
		count = 8
	}
	if max := st.mapping.MaxColumn(); max > count {
		count = max
	}
	return count
}

// readSheet loads the header and data rows. Reads are retried once on a
// transient store failure; writes never are (see the update path).
func (s *SyncService) readSheet(ctx context.Context) (*sheetState, error) {
	header, err := s.readHeaderRetry(ctx)
	if err != nil {
		return nil, err
	}

	st := &sheetState{
		header:    header,
		hasHeader: sheetmap.DetectHeader(header),
		mapping:   sheetmap.Resolve(header),
		firstRow:  1,
	}
	if st.hasHeader {
		st.firstRow = 2
	}

	rows, err := s.readRowsRetry(ctx, st.firstRow)
	if err != nil {
		return nil, err
	}
	st.rows = rows
	return st, nil
}

func (s *SyncService) readHeaderRetry(ctx context.Context) ([]string, error) {
	header, err := s.store.HeaderRow(ctx, s.config.TasksSheet)
	if isTransient(err) {
		s.logger.Warnw("Retrying header read after transient store failure", "error", err)
		header, err = s.store.HeaderRow(ctx, s.config.TasksSheet)
	}
	return header, err
}

func (s *SyncService) readRowsRetry(ctx context.Context, firstRow int) ([][]string, error) {
	rows, err := s.store.Rows(ctx, s.config.TasksSheet, firstRow)
	if isTransient(err) {
		s.logger.Warnw("Retrying row read after transient store failure", "error", err)
		rows, err = s.store.Rows(ctx, s.config.TasksSheet, firstRow)
	}
	return rows, err
}

// isTransient reports whether a retry could plausibly succeed. Only store
// availability problems qualify; a cancelled context does not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var su *entities.StoreUnavailableError
	return errors.As(err, &su)
}

// ListTasks reads every data row as a task, optionally filtered by email.
func (s *SyncService) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	st, err := s.readSheet(ctx)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(filter.Email))
	fields := filter.Fields
	if len(fields) == 0 {
		fields = s.config.FilterFields
	}

	tasks := make([]entities.Task, 0, len(st.rows))
	for i, row := range st.rows {
		task := sheetmap.RowToTask(row, st.mapping, st.firstRow+i)
		if email != "" && !matchesEmail(task, row, email, fields) {
			continue
		}
		tasks = append(tasks, task)
	}

	s.logger.Debugw("Listed tasks", "count", len(tasks), "filtered", email != "")
	return tasks, nil
}

// matchesEmail checks the configured task fields (substring, case-folded —
// assignee cells hold comma-separated lists) and falls back to an exact match
// on any raw cell.
func matchesEmail(task entities.Task, row []string, email string, fields []string) bool {
	for _, field := range fields {
		var value string
		switch field {
		case ports.FilterFieldAssignedTo:
			value = task.AssignedTo
		case ports.FilterFieldSubmittedBy:
			value = task.SubmittedBy
		case ports.FilterFieldRequestedBy:
			value = task.RequestedBy
		}
		if value != "" && strings.Contains(strings.ToLower(value), email) {
			return true
		}
	}
	for _, cell := range row {
		if strings.ToLower(strings.TrimSpace(cell)) == email {
			return true
		}
	}
	return false
}

// CreateTask validates the request, allocates the next task id, and appends
// the task to the sheet. The append is never retried: without an idempotency
// key a blind retry risks duplicate rows.
func (s *SyncService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, &entities.ValidationError{Field: "description", Reason: "must not be empty"}
	}

	st, err := s.readSheet(ctx)
	if err != nil {
		return nil, err
	}

	task := entities.Task{
		ID:          s.nextTaskID(st),
		Description: strings.TrimSpace(req.Description),
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
		Priority:    sheetmap.NormalizePriority(req.Priority),
		Status:      sheetmap.NormalizeStatus(req.Status),
		RequestedBy: strings.TrimSpace(req.RequestedBy),
		Deadline:    sheetmap.ParseDate(req.Deadline),
		Notes:       strings.TrimSpace(req.Notes),
		SubmittedBy: strings.TrimSpace(req.SubmittedBy),
	}

	row := sheetmap.TaskToRow(task, st.mapping, st.columnCount())
	rowNum, err := s.store.AppendRow(ctx, s.config.TasksSheet, row)
	if err != nil {
		return nil, err
	}
	task.SheetRow = rowNum

	s.logger.Infow("Task created", "task_id", task.ID, "sheet_row", rowNum)
	return &task, nil
}

var trailingDigits = regexp.MustCompile(`[0-9]+$`)

// nextTaskID allocates prefix + (max trailing-digit suffix seen) + 1 over the
// ids already in the sheet. When ids exist but none follow the scheme, the
// sheet's row count seeds the counter instead; an empty sheet starts at 1.
func (s *SyncService) nextTaskID(st *sheetState) string {
	existing := make([]string, 0, len(st.rows))
	for _, row := range st.rows {
		task := sheetmap.RowToTask(row, st.mapping, 0)
		if task.ID != "" {
			existing = append(existing, task.ID)
		}
	}
	return NextTaskID(existing, s.config.IDPrefix)
}

// NextTaskID computes the next id in the monotonic-suffix scheme. Shared with
// the metadata service so the form's preview id and the created id agree.
func NextTaskID(existing []string, prefix string) string {
	maxNum := 0
	matched := false
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		digits := trailingDigits.FindString(id)
		if digits == "" {
			continue
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			continue
		}
		matched = true
		if n > maxNum {
			maxNum = n
		}
	}
	if !matched && len(existing) > 0 {
		// Inherited quirk: with ids present but none matching the scheme,
		// the count of existing ids seeds the counter.
		maxNum = len(existing)
	}
	return prefix + strconv.Itoa(maxNum+1)
}

// patchField pairs a normalized value with its column.
type patchField struct {
	name   string
	column int
	value  string
}

// UpdateTask locates the task's row and writes only the columns the patch
// names. Concurrent edits to other columns of the same row survive; two
// writers on the same column race last-write-wins, which is the accepted cost
// of a spreadsheet store. The audit append is best-effort.
func (s *SyncService) UpdateTask(ctx context.Context, id string, patch entities.TaskPatch, actor string) (*entities.Task, error) {
	if patch.IsEmpty() {
		return nil, &entities.ValidationError{Field: "patch", Reason: "at least one field must be supplied"}
	}

	st, err := s.readSheet(ctx)
	if err != nil {
		return nil, err
	}

	rowNum, ok := sheetmap.Locate(st.rows, st.mapping, id, patch.Row, st.firstRow)
	if !ok {
		return nil, &entities.NotFoundError{TaskID: id}
	}

	fields := normalizePatch(patch, st.mapping)

	task := s.taskAtRow(st, rowNum, id)
	for _, f := range fields {
		applyField(&task, f)
	}

	// One bounded write per changed column, awaited in order. No retries:
	// re-running a partially applied multi-column write is worse than
	// surfacing the failure.
	for _, f := range fields {
		if f.column == 0 {
			continue
		}
		if err := s.store.WriteRange(ctx, s.config.TasksSheet, rowNum, f.column, []string{f.value}); err != nil {
			return nil, err
		}
	}

	s.appendAudit(ctx, id, rowNum, actor, fields)

	s.logger.Infow("Task updated", "task_id", id, "sheet_row", rowNum, "fields", len(fields))
	return &task, nil
}

// taskAtRow rebuilds the task from the sheet state, tolerating a supplied-row
// override pointing outside the scanned range.
func (s *SyncService) taskAtRow(st *sheetState, rowNum int, id string) entities.Task {
	idx := rowNum - st.firstRow
	if idx >= 0 && idx < len(st.rows) {
		return sheetmap.RowToTask(st.rows[idx], st.mapping, rowNum)
	}
	return entities.Task{ID: id, SheetRow: rowNum}
}

// normalizePatch runs each supplied patch field through the same
// normalization the read path uses and resolves its column.
func normalizePatch(patch entities.TaskPatch, m sheetmap.ColumnMapping) []patchField {
	var fields []patchField
	add := func(name string, column int, raw *string, norm func(string) string) {
		if raw == nil {
			return
		}
		fields = append(fields, patchField{name: name, column: column, value: norm(*raw)})
	}
	trim := strings.TrimSpace
	add("description", m.Description, patch.Description, trim)
	add("assignedTo", m.AssignedTo, patch.AssignedTo, trim)
	add("priority", m.Priority, patch.Priority, sheetmap.NormalizePriority)
	add("status", m.Status, patch.Status, sheetmap.NormalizeStatus)
	add("requestedBy", m.RequestedBy, patch.RequestedBy, trim)
	add("deadline", m.Deadline, patch.Deadline, sheetmap.ParseDate)
	add("notes", m.Notes, patch.Notes, trim)
	return fields
}

func applyField(task *entities.Task, f patchField) {
	switch f.name {
	case "description":
		task.Description = f.value
	case "assignedTo":
		task.AssignedTo = f.value
	case "priority":
		task.Priority = f.value
	case "status":
		task.Status = f.value
	case "requestedBy":
		task.RequestedBy = f.value
	case "deadline":
		task.Deadline = f.value
	case "notes":
		task.Notes = f.value
	}
}

// appendAudit records who changed what. Failures are logged and swallowed;
// the update already happened and must still be reported as a success.
func (s *SyncService) appendAudit(ctx context.Context, id string, rowNum int, actor string, fields []patchField) {
	if s.config.AuditSheet == "" {
		return
	}

	summary := make([]string, 0, len(fields))
	for _, f := range fields {
		summary = append(summary, fmt.Sprintf("%s=%s", f.name, f.value))
	}

	entry := entities.AuditEntry{
		EntryID:   uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor:     actor,
		TaskID:    id,
		SheetRow:  rowNum,
		Changes:   strings.Join(summary, ", "),
	}

	if err := s.store.AppendAudit(ctx, s.config.AuditSheet, entry.Row()); err != nil {
		auditErr := &entities.AuditWriteError{Err: err}
		s.logger.Warnw("Audit append failed, update still applied",
			"task_id", id, "sheet_row", rowNum, "error", auditErr)
	}
}
