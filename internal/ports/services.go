package ports

import (
	"context"

	"github.com/thaiba/mediatasks/internal/domain/entities"
)

// SyncService is the single authoritative contract for task operations
// against the sheet. Earlier iterations of the dashboard grew several
// near-duplicate handlers for these three operations; they all converge here.
type SyncService interface {
	ListTasks(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	UpdateTask(ctx context.Context, id string, patch entities.TaskPatch, actor string) (*entities.Task, error)
}

// MetadataService supplies form data for the dashboard.
type MetadataService interface {
	GetMetadata(ctx context.Context) (*entities.Metadata, error)
}

// RolesService exposes the configured admin and team member lists.
type RolesService interface {
	Roles() entities.RoleSet
}

// TaskFilter narrows ListTasks results. Email matches case-insensitively
// against the fields named in Fields (assignedTo and submittedBy by default)
// plus exact raw-cell matches; which fields the product actually wants is an
// open question, so the set is configurable rather than hard-coded.
type TaskFilter struct {
	Email  string
	Fields []string
}

// Filterable field names for TaskFilter.Fields.
const (
	FilterFieldAssignedTo  = "assignedTo"
	FilterFieldSubmittedBy = "submittedBy"
	FilterFieldRequestedBy = "requestedBy"
)

// CreateTaskRequest carries a new task from the client. Only the description
// is required; the id is allocated server-side.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	AssignedTo  string `json:"assignedTo"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	RequestedBy string `json:"requestedBy"`
	Deadline    string `json:"deadline"`
	Notes       string `json:"notes"`
	SubmittedBy string `json:"submittedBy"`
}
