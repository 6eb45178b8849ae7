// Package codec converts between spreadsheet cells and employee records.
//
// All coercion lives here: ids must be positive integers, salaries are decimals rounded to two
// places and rendered without scientific notation, and empty cells are absent fields. Rows with
// an invalid id are reported as RowError values wrapping ErrInvalidID; other malformed cells
// decode softly to absent.
//
// The grid helpers treat the first row as the header, ignore blank rows, and compare grids the
// way the Sheets API returns them, without trailing empty cells or rows.
package codec
