package reconcile

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"employee-sync/feature/employees/codec"
	"employee-sync/feature/employees/models"

	"github.com/shopspring/decimal"
)

var testTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory store.Repository.
type fakeRepo struct {
	rows        map[int64]models.Record
	upserts     []int64
	deletes     []int64
	failUpsert  map[int64]error
	failDelete  map[int64]error
	selectErr   error
	selectCalls int
	// failSelectAt fails the nth SelectAll call (1-based) when set.
	failSelectAt int
}

func newFakeRepo(records ...models.Record) *fakeRepo {
	r := &fakeRepo{
		rows:       map[int64]models.Record{},
		failUpsert: map[int64]error{},
		failDelete: map[int64]error{},
	}
	for _, rec := range records {
		r.rows[rec.ID] = rec
	}
	return r
}

func (r *fakeRepo) SelectAll(ctx context.Context) (models.Snapshot, error) {
	r.selectCalls++
	if r.selectErr != nil {
		return nil, r.selectErr
	}
	if r.failSelectAt > 0 && r.selectCalls == r.failSelectAt {
		return nil, errors.New("connection reset")
	}
	return models.SnapshotFromIndex(r.rows), nil
}

func (r *fakeRepo) Upsert(ctx context.Context, record models.Record) error {
	if err := r.failUpsert[record.ID]; err != nil {
		return err
	}
	r.upserts = append(r.upserts, record.ID)
	r.rows[record.ID] = record
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error {
	if err := r.failDelete[id]; err != nil {
		return err
	}
	r.deletes = append(r.deletes, id)
	delete(r.rows, id)
	return nil
}

// fakeSheet is an in-memory sheets.Client that returns grids the way the API does.
type fakeSheet struct {
	grid     [][]string
	writes   [][][]string
	readErr  error
	writeErr error
	reads    int
}

func newFakeSheet(rows ...[]string) *fakeSheet {
	return &fakeSheet{grid: rows}
}

func (s *fakeSheet) GetAllRows(ctx context.Context, readRange string) ([][]string, error) {
	s.reads++
	if s.readErr != nil {
		return nil, s.readErr
	}
	return codec.NormalizeGrid(s.grid), nil
}

func (s *fakeSheet) OverwriteRange(ctx context.Context, writeRange string, grid [][]string) (int64, error) {
	if s.writeErr != nil {
		return 0, s.writeErr
	}
	s.writes = append(s.writes, grid)
	s.grid = grid
	var cells int64
	for _, row := range grid {
		cells += int64(len(row))
	}
	return cells, nil
}

// data returns the normalized sheet content without the header.
func (s *fakeSheet) data() [][]string {
	grid := codec.NormalizeGrid(s.grid)
	if len(grid) == 0 {
		return nil
	}
	return grid[1:]
}

func header() []string {
	return slices.Clone(models.Header)
}

func rec(id int64, name, role, salary string) models.Record {
	r := models.Record{ID: id}
	if name != "" {
		r.Name = models.Text(name)
	}
	if role != "" {
		r.Role = models.Text(role)
	}
	if salary != "" {
		r.Salary = models.Salary(decimal.RequireFromString(salary))
	}
	return r
}

func renderGrid(grid [][]string) []byte {
	var b strings.Builder
	for _, row := range grid {
		b.WriteString(strings.Join(row, "|"))
		b.WriteString("\n")
	}
	return []byte(b.String())
}
