package reconcile

import (
	"slices"

	"employee-sync/feature/employees/codec"
	"employee-sync/feature/employees/models"
)

// pendingUnits holds the ids whose database mutation failed this cycle.
type pendingUnits struct {
	upserts map[int64]struct{}
	deletes map[int64]struct{}
}

func (p pendingUnits) isPendingUpsert(id int64) bool {
	_, ok := p.upserts[id]
	return ok
}

func (p pendingUnits) isPendingDelete(id int64) bool {
	_, ok := p.deletes[id]
	return ok
}

type mergeInput struct {
	sheet            codec.Decoded
	db               map[int64]models.Record
	pending          pendingUnits
	propagateDeletes bool
}

// buildMergedGrid returns the grid the spreadsheet should hold: the live header (regenerated when
// missing or blank), one row per id sorted ascending, then the rows with invalid ids in their
// original order.
//
// The database value wins unless the sheet row already decodes to it without rounding, in which
// case the raw cells are kept. Rows of pending upserts keep the user's cells and rows of pending deletes stay gone.
// Sheet-only ids are kept unless propagateDeletes is set.
func buildMergedGrid(in mergeInput) [][]string {
	sheetIndex := in.sheet.Index()
	ids := make([]int64, 0, len(in.db)+len(sheetIndex))
	for id := range in.db {
		ids = append(ids, id)
	}
	for id := range sheetIndex {
		if _, inDB := in.db[id]; !inDB {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	grid := codec.EncodeSheet(in.sheet.Header, nil)

	for _, id := range ids {
		if in.pending.isPendingDelete(id) {
			continue
		}

		sheetRecord, inSheet := sheetIndex[id]
		if in.pending.isPendingUpsert(id) && inSheet {
			grid = append(grid, in.sheet.Rows[id])
			continue
		}

		dbRecord, inDB := in.db[id]
		switch {
		case inDB && inSheet && dbRecord.Equal(sheetRecord) && codec.Lossless(in.sheet.Rows[id]):
			grid = append(grid, in.sheet.Rows[id])
		case inDB:
			grid = append(grid, codec.EncodeRecord(dbRecord))
		case !in.propagateDeletes:
			grid = append(grid, in.sheet.Rows[id])
		}
	}

	for _, row := range in.sheet.Invalid {
		grid = append(grid, row.Cells)
	}

	return grid
}
