package codec

import (
	"errors"
	"fmt"
)

// ErrInvalidID is returned for a row whose id cell is missing, blank, non-numeric or not positive.
var ErrInvalidID = errors.New("invalid id")

// RowError describes a spreadsheet row that could not be decoded.
type RowError struct {
	// Row is the 1-based spreadsheet row number, header included.
	Row int `json:"row"`
	// Cells holds the raw cells of the row.
	Cells []string `json:"cells"`
	// Err is the underlying cause.
	Err error `json:"-"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Reason returns the cause as text.
func (e *RowError) Reason() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
