package codec

import (
	"slices"

	"employee-sync/feature/employees/models"
)

// Decoded is the result of decoding a whole spreadsheet grid.
type Decoded struct {
	// HasHeader is false for a completely empty grid.
	HasHeader bool
	// Header is the live header row.
	Header []string
	// Records holds the valid rows in sheet order. A duplicated id appears once, with the later row.
	Records models.Snapshot
	// Rows maps each valid id to the raw cells of its winning row.
	Rows map[int64][]string
	// Invalid holds the rows rejected by DecodeRow, in sheet order.
	Invalid []*RowError
	// Duplicates lists ids that appeared on more than one row.
	Duplicates []int64
}

// Index returns the valid records keyed by id.
func (d Decoded) Index() map[int64]models.Record {
	return d.Records.Index()
}

// DecodeSheet decodes a grid whose first row is the header.
// Blank rows are ignored.
func DecodeSheet(grid [][]string) Decoded {
	decoded := Decoded{Rows: make(map[int64][]string)}
	if len(grid) == 0 {
		return decoded
	}

	decoded.HasHeader = true
	decoded.Header = grid[0]

	position := make(map[int64]int)
	for i, cells := range grid[1:] {
		if isBlankRow(cells) {
			continue
		}

		record, err := DecodeRow(cells)
		if err != nil {
			decoded.Invalid = append(decoded.Invalid, &RowError{Row: i + 2, Cells: cells, Err: err})
			continue
		}

		if at, seen := position[record.ID]; seen {
			decoded.Duplicates = append(decoded.Duplicates, record.ID)
			decoded.Records = slices.Delete(decoded.Records, at, at+1)
			for id, p := range position {
				if p > at {
					position[id] = p - 1
				}
			}
		}

		position[record.ID] = len(decoded.Records)
		decoded.Records = append(decoded.Records, record)
		decoded.Rows[record.ID] = cells
	}

	return decoded
}

// EncodeSheet builds a grid from a header and records, keeping the record order.
// A missing or blank header is replaced by models.Header.
func EncodeSheet(header []string, records models.Snapshot) [][]string {
	if isBlankRow(header) {
		header = models.Header
	}
	grid := make([][]string, 0, len(records)+1)
	grid = append(grid, slices.Clone(header))
	for _, r := range records {
		grid = append(grid, EncodeRecord(r))
	}
	return grid
}

// NormalizeGrid drops trailing empty cells of every row and then trailing empty rows.
// The Sheets API omits both, so normalized grids compare cell-for-cell.
func NormalizeGrid(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	for i, row := range grid {
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		out[i] = slices.Clone(row[:end])
	}

	end := len(out)
	for end > 0 && len(out[end-1]) == 0 {
		end--
	}
	return out[:end]
}

// GridsEqual compares two grids after normalization.
func GridsEqual(a, b [][]string) bool {
	na, nb := NormalizeGrid(a), NormalizeGrid(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if !slices.Equal(na[i], nb[i]) {
			return false
		}
	}
	return true
}

// PadGrid extends grid with empty cells so it covers at least rows x cols.
// Overwriting a range with the padded grid clears cells the new grid no longer uses.
func PadGrid(grid [][]string, rows, cols int) [][]string {
	width := cols
	for _, row := range grid {
		width = max(width, len(row))
	}

	out := make([][]string, 0, max(rows, len(grid)))
	for _, row := range grid {
		padded := make([]string, width)
		copy(padded, row)
		out = append(out, padded)
	}
	for len(out) < rows {
		out = append(out, make([]string, width))
	}
	return out
}

// Extent returns the number of rows and the widest row of grid.
func Extent(grid [][]string) (rows, cols int) {
	for _, row := range grid {
		cols = max(cols, len(row))
	}
	return len(grid), cols
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
