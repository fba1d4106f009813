package entities

import "strconv"

// Canonical task status values. Free text typed into the sheet is folded into
// one of these on read; anything unrecognized is kept as a title-cased string
// so it stays visible to the user.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusOnHold     = "On Hold"
	StatusCompleted  = "Completed"
)

// Task priority values as the dashboard presents them. Priorities are not
// alias-mapped on read, only trimmed, so arbitrary strings survive.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Task is the canonical in-memory task record.
//
// SheetRow is the 1-based position of the record in the backing sheet. It is a
// positional handle for partial updates, not part of the task's identity, and
// is therefore not serialized with the record.
type Task struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	RequestedBy string `json:"requestedBy"`
	Deadline    string `json:"deadline"`
	Notes       string `json:"notes"`
	SubmittedBy string `json:"submittedBy"`
	SheetRow    int    `json:"-"`
}

// TaskPatch carries a partial update. Nil fields are left untouched in the
// store; Row, when greater than 1, bypasses the id search and targets that
// sheet row directly.
type TaskPatch struct {
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	RequestedBy *string `json:"requestedBy"`
	Deadline    *string `json:"deadline"`
	Notes       *string `json:"notes"`
	Row         int     `json:"row"`
}

// IsEmpty reports whether the patch carries no field changes.
func (p TaskPatch) IsEmpty() bool {
	return p.Description == nil && p.AssignedTo == nil && p.Priority == nil &&
		p.Status == nil && p.RequestedBy == nil && p.Deadline == nil && p.Notes == nil
}

// AuditEntry is an append-only record of an update, written to the audit tab.
// Failures to write it never fail the update itself.
type AuditEntry struct {
	EntryID   string
	Timestamp string
	Actor     string
	TaskID    string
	SheetRow  int
	Changes   string
}

// Row renders the entry in the audit tab's column order.
func (e AuditEntry) Row() []string {
	return []string{e.Timestamp, e.Actor, e.TaskID, strconv.Itoa(e.SheetRow), e.Changes, e.EntryID}
}

// Metadata is what the dashboard needs to populate its create-task form.
type Metadata struct {
	Team         []string `json:"team"`
	Institutions []string `json:"institutions"`
	NextTaskID   string   `json:"nextTaskId"`
}

// RoleSet holds the configured admin and team member emails.
type RoleSet struct {
	Admins []string `json:"admins"`
	Team   []string `json:"team"`
}
