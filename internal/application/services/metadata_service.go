package services

import (
	"context"
	"strings"

	"github.com/thaiba/mediatasks/internal/domain/entities"
	"github.com/thaiba/mediatasks/internal/domain/sheetmap"
	"github.com/thaiba/mediatasks/internal/infrastructure/logger"
	"github.com/thaiba/mediatasks/internal/ports"
)

// MetadataConfig names the tabs the metadata endpoint reads from.
type MetadataConfig struct {
	TasksSheet        string
	TeamSheet         string
	InstitutionsSheet string
	IDPrefix          string
}

func (c *MetadataConfig) applyDefaults() {
	if c.TasksSheet == "" {
		c.TasksSheet = "Sheet1"
	}
	if c.TeamSheet == "" {
		c.TeamSheet = "Team"
	}
	if c.InstitutionsSheet == "" {
		c.InstitutionsSheet = "Institutions"
	}
	if c.IDPrefix == "" {
		c.IDPrefix = "T"
	}
}

// MetadataService feeds the dashboard's create-task form: team member names,
// institution names, and a preview of the next task id.
type MetadataService struct {
	store  ports.SheetStore
	config MetadataConfig
	logger *logger.Logger
}

// NewMetadataService creates a new metadata service
func NewMetadataService(store ports.SheetStore, cfg MetadataConfig, logger *logger.Logger) *MetadataService {
	cfg.applyDefaults()
	return &MetadataService{
		store:  store,
		config: cfg,
		logger: logger,
	}
}

// GetMetadata assembles the form lists. A missing Team or Institutions tab is
// not an error, just an empty list; only the tasks tab read can fail the
// request, and only because the next id cannot be previewed without it.
func (m *MetadataService) GetMetadata(ctx context.Context) (*entities.Metadata, error) {
	team := m.columnList(ctx, m.config.TeamSheet)
	institutions := m.columnList(ctx, m.config.InstitutionsSheet)

	nextID, err := m.nextTaskID(ctx)
	if err != nil {
		return nil, err
	}

	return &entities.Metadata{
		Team:         team,
		Institutions: institutions,
		NextTaskID:   nextID,
	}, nil
}

// columnList reads column A of a tab, skipping the header row and blanks.
func (m *MetadataService) columnList(ctx context.Context, sheet string) []string {
	rows, err := m.store.Rows(ctx, sheet, 2)
	if err != nil {
		m.logger.Debugw("Metadata tab unavailable, returning empty list", "sheet", sheet, "error", err)
		return []string{}
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if v := strings.TrimSpace(row[0]); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// nextTaskID runs the same allocator CreateTask uses over the current sheet
// contents, so the form preview and the created id agree.
func (m *MetadataService) nextTaskID(ctx context.Context) (string, error) {
	header, err := m.store.HeaderRow(ctx, m.config.TasksSheet)
	if err != nil {
		return "", err
	}

	mapping := sheetmap.Resolve(header)
	firstRow := 1
	if sheetmap.DetectHeader(header) {
		firstRow = 2
	}

	rows, err := m.store.Rows(ctx, m.config.TasksSheet, firstRow)
	if err != nil {
		return "", err
	}

	existing := make([]string, 0, len(rows))
	for _, row := range rows {
		task := sheetmap.RowToTask(row, mapping, 0)
		if task.ID != "" {
			existing = append(existing, task.ID)
		}
	}
	return NextTaskID(existing, m.config.IDPrefix), nil
}
