// Package memory provides an in-memory SheetStore used by tests and local
// development. It mimics spreadsheet addressing: tabs of rows of cells, all
// 1-based.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/thaiba/mediatasks/internal/domain/entities"
	"github.com/thaiba/mediatasks/internal/ports"
)

// Store holds sheet tabs in memory behind a mutex.
type Store struct {
	mu    sync.RWMutex
	title string
	tabs  map[string][][]string
	order []string
	// Audits collects audit appends separately for easy assertions.
	Audits [][]string
}

// NewStore creates an empty store.
func NewStore(title string) *Store {
	return &Store{
		title: title,
		tabs:  make(map[string][][]string),
	}
}

// Seed replaces a tab's contents. Row 1 is rows[0].
func (s *Store) Seed(sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tabs[sheet]; !ok {
		s.order = append(s.order, sheet)
	}
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	s.tabs[sheet] = copied
}

// Snapshot returns a copy of a tab's rows.
func (s *Store) Snapshot(sheet string) [][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.tabs[sheet]
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied
}

func (s *Store) HeaderRow(ctx context.Context, sheet string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.tabs[sheet]
	if !ok {
		return nil, s.missing("header read", sheet)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return append([]string(nil), rows[0]...), nil
}

func (s *Store) Rows(ctx context.Context, sheet string, firstRow int) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, ok := s.tabs[sheet]
	if !ok {
		return nil, s.missing("row read", sheet)
	}
	if firstRow < 1 {
		firstRow = 1
	}
	if firstRow > len(rows) {
		return nil, nil
	}
	out := make([][]string, 0, len(rows)-firstRow+1)
	for _, row := range rows[firstRow-1:] {
		out = append(out, append([]string(nil), row...))
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, sheet string, row []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tabs[sheet]; !ok {
		s.order = append(s.order, sheet)
	}
	s.tabs[sheet] = append(s.tabs[sheet], append([]string(nil), row...))
	return len(s.tabs[sheet]), nil
}

func (s *Store) WriteRange(ctx context.Context, sheet string, row, firstColumn int, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[sheet]
	if !ok || row < 1 {
		return s.missing("range write", sheet)
	}
	for len(rows) < row {
		rows = append(rows, []string{})
	}
	target := rows[row-1]
	needed := firstColumn - 1 + len(values)
	for len(target) < needed {
		target = append(target, "")
	}
	copy(target[firstColumn-1:], values)
	rows[row-1] = target
	s.tabs[sheet] = rows
	return nil
}

func (s *Store) AppendAudit(ctx context.Context, sheet string, entry []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Audits = append(s.Audits, append([]string(nil), entry...))
	if _, ok := s.tabs[sheet]; !ok {
		s.order = append(s.order, sheet)
	}
	s.tabs[sheet] = append(s.tabs[sheet], append([]string(nil), entry...))
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Describe(ctx context.Context) (ports.SheetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ports.SheetInfo{
		Title: s.title,
		Tabs:  append([]string(nil), s.order...),
	}, nil
}

func (s *Store) missing(op, sheet string) error {
	return &entities.StoreUnavailableError{
		Op:  op,
		Err: fmt.Errorf("no tab named %q", sheet),
	}
}
