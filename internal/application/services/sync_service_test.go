package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaiba/mediatasks/internal/adapters/memory"
	"github.com/thaiba/mediatasks/internal/domain/entities"
	"github.com/thaiba/mediatasks/internal/infrastructure/logger"
	"github.com/thaiba/mediatasks/internal/ports"
)

var taskHeader = []string{"Task ID", "Task Description", "Assigned To", "Priority", "Status", "Requested By", "Deadline", "Notes"}

func newTestService(t *testing.T, rows [][]string) (*SyncService, *memory.Store) {
	t.Helper()
	store := memory.NewStore("test sheet")
	store.Seed("Sheet1", rows)
	svc := NewSyncService(store, SyncConfig{AuditSheet: "Audit"}, logger.NewNop())
	return svc, store
}

func strPtr(s string) *string { return &s }

func TestListTasksNormalizesRows(t *testing.T) {
	svc, _ := newTestService(t, [][]string{
		taskHeader,
		{"T1", "Fix the banner", "Alice", "High", "working on", "Bob", "2024-03-01", "urgent"},
		{"T2", "Cut the promo", "Carol", "", "done", "", "15/01/2024", ""},
	})

	tasks, err := svc.ListTasks(context.Background(), ports.TaskFilter{})

	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "T1", tasks[0].ID)
	assert.Equal(t, entities.StatusInProgress, tasks[0].Status)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", tasks[0].Deadline)
	assert.Equal(t, 2, tasks[0].SheetRow)

	assert.Equal(t, entities.StatusCompleted, tasks[1].Status)
	assert.Equal(t, "2024-01-15T00:00:00.000Z", tasks[1].Deadline)
	assert.Equal(t, 3, tasks[1].SheetRow)
}

func TestListTasksHeaderlessSheet(t *testing.T) {
	// No recognizable header: row 1 is data and the fixed layout applies.
	svc, _ := newTestService(t, [][]string{
		{"T1", "First task", "Alice", "High", "open", "", "", ""},
		{"T2", "Second task", "Bob", "", "", "", "", ""},
	})

	tasks, err := svc.ListTasks(context.Background(), ports.TaskFilter{})

	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].SheetRow)
	assert.Equal(t, entities.StatusPending, tasks[0].Status)
	assert.Equal(t, 2, tasks[1].SheetRow)
}

func TestListTasksEmailFilter(t *testing.T) {
	svc, _ := newTestService(t, [][]string{
		taskHeader,
		{"T1", "One", "alice@example.com, bob@example.com", "", "", "", "", ""},
		{"T2", "Two", "carol@example.com", "", "", "", "", ""},
		{"T3", "Three", "", "", "", "dan@example.com", "", ""},
	})

	// Substring match on the assignee list, case-folded.
	tasks, err := svc.ListTasks(context.Background(), ports.TaskFilter{Email: "Bob@Example.com"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T1", tasks[0].ID)

	// requestedBy is not a default filter field, but an exact raw-cell match
	// still counts.
	tasks, err = svc.ListTasks(context.Background(), ports.TaskFilter{Email: "dan@example.com"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "T3", tasks[0].ID)

	// No match at all.
	tasks, err = svc.ListTasks(context.Background(), ports.TaskFilter{Email: "nobody@example.com"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestListTasksFilterFieldsOverride(t *testing.T) {
	svc, _ := newTestService(t, [][]string{
		taskHeader,
		{"T1", "One", "", "", "", "team alias alice@example.com", "", ""},
	})

	// With requestedBy in the field set the substring hits.
	tasks, err := svc.ListTasks(context.Background(), ports.TaskFilter{
		Email:  "alice@example.com",
		Fields: []string{ports.FilterFieldRequestedBy},
	})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	// Without it, only an exact cell match would count, and the cell has
	// extra text.
	tasks, err = svc.ListTasks(context.Background(), ports.TaskFilter{Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTaskAllocatesNextID(t *testing.T) {
	svc, store := newTestService(t, [][]string{
		taskHeader,
		{"T3", "Old", "", "", "", "", "", ""},
		{"T7", "Newest", "", "", "", "", "", ""},
	})

	task, err := svc.CreateTask(context.Background(), ports.CreateTaskRequest{
		Description: "  Subtitle the launch video ",
		AssignedTo:  "alice@example.com",
		Status:      "working on",
		Deadline:    "01/06/2024",
	})

	require.NoError(t, err)
	assert.Equal(t, "T8", task.ID)
	assert.Equal(t, "Subtitle the launch video", task.Description)
	assert.Equal(t, entities.StatusInProgress, task.Status)
	assert.Equal(t, "2024-06-01T00:00:00.000Z", task.Deadline)
	assert.Equal(t, 4, task.SheetRow)

	rows := store.Snapshot("Sheet1")
	require.Len(t, rows, 4)
	assert.Equal(t, "T8", rows[3][0])
	assert.Equal(t, entities.StatusInProgress, rows[3][4])
}

func TestCreateTaskEmptySheet(t *testing.T) {
	svc, store := newTestService(t, nil)

	task, err := svc.CreateTask(context.Background(), ports.CreateTaskRequest{Description: "First ever"})

	require.NoError(t, err)
	assert.Equal(t, "T1", task.ID)
	assert.Equal(t, entities.StatusPending, task.Status)
	assert.Equal(t, 1, task.SheetRow)

	rows := store.Snapshot("Sheet1")
	require.Len(t, rows, 1)
	assert.Equal(t, "T1", rows[0][0])
}

func TestCreateTaskRequiresDescription(t *testing.T) {
	svc, store := newTestService(t, [][]string{taskHeader})

	_, err := svc.CreateTask(context.Background(), ports.CreateTaskRequest{Description: "   "})

	var ve *entities.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "description", ve.Field)
	assert.Len(t, store.Snapshot("Sheet1"), 1)
}

func TestNextTaskID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		prefix   string
		want     string
	}{
		{"empty sheet", nil, "T", "T1"},
		{"sequential", []string{"T1", "T2", "T3"}, "T", "T4"},
		{"gap does not matter", []string{"T1", "T9"}, "T", "T10"},
		{"zero padded", []string{"T003"}, "T", "T4"},
		{"other prefixes ignored", []string{"X5", "T2"}, "T", "T3"},
		{"no digits after prefix", []string{"Tfoo"}, "T", "T2"},
		{"no scheme match seeds from count", []string{"alpha", "beta", "gamma"}, "T", "T4"},
		{"custom prefix", []string{"MT7"}, "MT", "MT8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTaskID(tt.existing, tt.prefix))
		})
	}
}

func TestUpdateTaskWritesOnlyPatchedColumns(t *testing.T) {
	svc, store := newTestService(t, [][]string{
		taskHeader,
		{"T1", "Fix the banner", "Alice", "High", "working on", "Bob", "2024-03-01", "urgent"},
	})

	task, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{
		Status: strPtr("done"),
	}, "admin@example.com")

	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, task.Status)
	assert.Equal(t, 2, task.SheetRow)

	rows := store.Snapshot("Sheet1")
	// Only the status cell changed; the raw deadline text survives.
	assert.Equal(t, []string{"T1", "Fix the banner", "Alice", "High", entities.StatusCompleted, "Bob", "2024-03-01", "urgent"}, rows[1])
}

func TestUpdateTaskMultipleFields(t *testing.T) {
	svc, store := newTestService(t, [][]string{
		taskHeader,
		{"T1", "Fix the banner", "Alice", "High", "open", "Bob", "", ""},
	})

	task, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{
		AssignedTo: strPtr(" carol@example.com "),
		Deadline:   strPtr("15/04/2024"),
		Notes:      strPtr("reshoot approved"),
	}, "admin@example.com")

	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", task.AssignedTo)
	assert.Equal(t, "2024-04-15T00:00:00.000Z", task.Deadline)

	rows := store.Snapshot("Sheet1")
	assert.Equal(t, "carol@example.com", rows[1][2])
	assert.Equal(t, "2024-04-15T00:00:00.000Z", rows[1][6])
	assert.Equal(t, "reshoot approved", rows[1][7])
	assert.Equal(t, "Fix the banner", rows[1][1])
}

func TestUpdateTaskSuppliedRowOverride(t *testing.T) {
	svc, store := newTestService(t, [][]string{
		taskHeader,
		{"T1", "one", "", "", "", "", "", ""},
		{"T1", "duplicate id", "", "", "", "", "", ""},
	})

	_, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{
		Status: strPtr("done"),
		Row:    3,
	}, "admin@example.com")

	require.NoError(t, err)
	rows := store.Snapshot("Sheet1")
	assert.Equal(t, "", rows[1][4])
	assert.Equal(t, entities.StatusCompleted, rows[2][4])
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc, store := newTestService(t, [][]string{
		taskHeader,
		{"T1", "only", "", "", "", "", "", ""},
	})
	before := store.Snapshot("Sheet1")

	_, err := svc.UpdateTask(context.Background(), "T99", entities.TaskPatch{Status: strPtr("done")}, "admin@example.com")

	var nf *entities.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "T99", nf.TaskID)
	assert.Equal(t, before, store.Snapshot("Sheet1"))
	assert.Empty(t, store.Audits)
}

func TestUpdateTaskEmptyPatch(t *testing.T) {
	svc, _ := newTestService(t, [][]string{taskHeader})

	_, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{}, "admin@example.com")

	var ve *entities.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "patch", ve.Field)
}

func TestUpdateTaskAppendsAudit(t *testing.T) {
	svc, store := newTestService(t, [][]string{
		taskHeader,
		{"T1", "task", "", "", "", "", "", ""},
	})

	_, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{
		Status: strPtr("done"),
	}, "admin@example.com")

	require.NoError(t, err)
	require.Len(t, store.Audits, 1)
	entry := store.Audits[0]
	require.Len(t, entry, 6)
	assert.Equal(t, "admin@example.com", entry[1])
	assert.Equal(t, "T1", entry[2])
	assert.Equal(t, "2", entry[3])
	assert.Equal(t, "status=Completed", entry[4])
	assert.NotEmpty(t, entry[5])
}

func TestUpdateTaskAuditDisabledWithoutTab(t *testing.T) {
	store := memory.NewStore("test sheet")
	store.Seed("Sheet1", [][]string{taskHeader, {"T1", "task", "", "", "", "", "", ""}})
	svc := NewSyncService(store, SyncConfig{}, logger.NewNop())

	_, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{Status: strPtr("done")}, "admin@example.com")

	require.NoError(t, err)
	assert.Empty(t, store.Audits)
}

// auditFailStore fails every audit append while delegating everything else.
type auditFailStore struct {
	*memory.Store
}

func (s *auditFailStore) AppendAudit(ctx context.Context, sheet string, entry []string) error {
	return &entities.StoreUnavailableError{Op: "audit append", Err: errors.New("quota exceeded")}
}

func TestUpdateTaskSurvivesAuditFailure(t *testing.T) {
	inner := memory.NewStore("test sheet")
	inner.Seed("Sheet1", [][]string{taskHeader, {"T1", "task", "", "", "", "", "", ""}})
	svc := NewSyncService(&auditFailStore{inner}, SyncConfig{AuditSheet: "Audit"}, logger.NewNop())

	task, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{Status: strPtr("done")}, "admin@example.com")

	require.NoError(t, err)
	assert.Equal(t, entities.StatusCompleted, task.Status)
	assert.Equal(t, entities.StatusCompleted, inner.Snapshot("Sheet1")[1][4])
}

// flakyStore fails reads a set number of times before delegating.
type flakyStore struct {
	*memory.Store
	headerFailures int
	rowFailures    int
	headerReads    int
	rowReads       int
}

func (s *flakyStore) HeaderRow(ctx context.Context, sheet string) ([]string, error) {
	s.headerReads++
	if s.headerFailures > 0 {
		s.headerFailures--
		return nil, &entities.StoreUnavailableError{Op: "header read", Err: errors.New("backend error")}
	}
	return s.Store.HeaderRow(ctx, sheet)
}

func (s *flakyStore) Rows(ctx context.Context, sheet string, firstRow int) ([][]string, error) {
	s.rowReads++
	if s.rowFailures > 0 {
		s.rowFailures--
		return nil, &entities.StoreUnavailableError{Op: "row read", Err: errors.New("backend error")}
	}
	return s.Store.Rows(ctx, sheet, firstRow)
}

func TestListTasksRetriesTransientReadOnce(t *testing.T) {
	inner := memory.NewStore("test sheet")
	inner.Seed("Sheet1", [][]string{taskHeader, {"T1", "task", "", "", "", "", "", ""}})
	flaky := &flakyStore{Store: inner, headerFailures: 1, rowFailures: 1}
	svc := NewSyncService(flaky, SyncConfig{}, logger.NewNop())

	tasks, err := svc.ListTasks(context.Background(), ports.TaskFilter{})

	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 2, flaky.headerReads)
	assert.Equal(t, 2, flaky.rowReads)
}

func TestListTasksGivesUpAfterSecondFailure(t *testing.T) {
	inner := memory.NewStore("test sheet")
	inner.Seed("Sheet1", [][]string{taskHeader})
	flaky := &flakyStore{Store: inner, headerFailures: 2}
	svc := NewSyncService(flaky, SyncConfig{}, logger.NewNop())

	_, err := svc.ListTasks(context.Background(), ports.TaskFilter{})

	var su *entities.StoreUnavailableError
	require.ErrorAs(t, err, &su)
	assert.Equal(t, 2, flaky.headerReads)
}

// appendFailStore fails appends so the no-write-retry policy is observable.
type appendFailStore struct {
	*memory.Store
	appendCalls int
}

func (s *appendFailStore) AppendRow(ctx context.Context, sheet string, row []string) (int, error) {
	s.appendCalls++
	return 0, &entities.StoreUnavailableError{Op: "append", Err: errors.New("backend error")}
}

func TestCreateTaskNeverRetriesAppend(t *testing.T) {
	inner := memory.NewStore("test sheet")
	inner.Seed("Sheet1", [][]string{taskHeader})
	failing := &appendFailStore{Store: inner}
	svc := NewSyncService(failing, SyncConfig{}, logger.NewNop())

	_, err := svc.CreateTask(context.Background(), ports.CreateTaskRequest{Description: "doomed"})

	var su *entities.StoreUnavailableError
	require.ErrorAs(t, err, &su)
	assert.Equal(t, 1, failing.appendCalls)
}

// writeFailStore fails range writes after a set number of successes.
type writeFailStore struct {
	*memory.Store
	succeedFirst int
	writeCalls   int
}

func (s *writeFailStore) WriteRange(ctx context.Context, sheet string, row, firstColumn int, values []string) error {
	s.writeCalls++
	if s.writeCalls > s.succeedFirst {
		return &entities.StoreUnavailableError{Op: "range write", Err: errors.New("backend error")}
	}
	return s.Store.WriteRange(ctx, sheet, row, firstColumn, values)
}

func TestUpdateTaskStopsOnFirstWriteFailure(t *testing.T) {
	inner := memory.NewStore("test sheet")
	inner.Seed("Sheet1", [][]string{taskHeader, {"T1", "task", "old assignee", "", "open", "", "", ""}})
	failing := &writeFailStore{Store: inner, succeedFirst: 1}
	svc := NewSyncService(failing, SyncConfig{AuditSheet: "Audit"}, logger.NewNop())

	_, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{
		AssignedTo: strPtr("new assignee"),
		Status:     strPtr("done"),
	}, "admin@example.com")

	var su *entities.StoreUnavailableError
	require.ErrorAs(t, err, &su)
	// Exactly two write attempts: the first landed, the second failed and
	// was not retried.
	assert.Equal(t, 2, failing.writeCalls)
	assert.Equal(t, "new assignee", inner.Snapshot("Sheet1")[1][2])
	assert.Equal(t, "open", inner.Snapshot("Sheet1")[1][4])
	assert.Empty(t, inner.Audits)
}

func TestUpdateTaskPatchOrderIsStable(t *testing.T) {
	svc, store := newTestService(t, [][]string{
		taskHeader,
		{"T1", "task", "", "", "", "", "", ""},
	})

	_, err := svc.UpdateTask(context.Background(), "T1", entities.TaskPatch{
		Description: strPtr("renamed"),
		Status:      strPtr("done"),
		Notes:       strPtr("checked"),
	}, "admin@example.com")

	require.NoError(t, err)
	require.Len(t, store.Audits, 1)
	assert.Equal(t, fmt.Sprintf("description=renamed, status=%s, notes=checked", entities.StatusCompleted), store.Audits[0][4])
}
