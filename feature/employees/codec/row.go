package codec

import (
	"fmt"
	"strconv"
	"strings"

	"employee-sync/core/utils"
	"employee-sync/feature/employees/models"

	"github.com/shopspring/decimal"
)

const (
	colID = iota
	colName
	colRole
	colSalary
)

// DecodeRow converts spreadsheet cells into a record.
// Only the id is mandatory; a bad salary decodes as absent and missing trailing cells are absent.
func DecodeRow(cells []string) (models.Record, error) {
	raw, ok := utils.CellAt(cells, colID)
	if !ok {
		return models.Record{}, fmt.Errorf("%w: missing id cell", ErrInvalidID)
	}

	id, err := ParseID(raw)
	if err != nil {
		return models.Record{}, err
	}

	record := models.Record{ID: id}
	if v, ok := utils.CellAt(cells, colName); ok && v != "" {
		record.Name = models.Text(v)
	}
	if v, ok := utils.CellAt(cells, colRole); ok && v != "" {
		record.Role = models.Text(v)
	}
	if v, ok := utils.CellAt(cells, colSalary); ok {
		record.Salary = ParseSalary(v)
	}

	return record, nil
}

// EncodeRecord converts a record into spreadsheet cells, one per column.
func EncodeRecord(r models.Record) []string {
	row := make([]string, models.ColumnCount)
	row[colID] = strconv.FormatInt(r.ID, 10)
	if r.Name != nil {
		row[colName] = *r.Name
	}
	if r.Role != nil {
		row[colRole] = *r.Role
	}
	row[colSalary] = FormatSalary(r.Salary)
	return row
}

// ParseID parses a trimmed, all-digit, positive id.
func ParseID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: blank", ErrInvalidID)
	}
	if !utils.IsDigits(s) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidID, s)
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidID, s)
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: must be positive", ErrInvalidID)
	}

	return id, nil
}

// ParseSalary parses a non-negative decimal with at most one decimal point, rounded to two places.
// Anything else, including blank text, is absent.
func ParseSalary(raw string) decimal.NullDecimal {
	d, ok := parseDecimal(raw)
	if !ok {
		return decimal.NullDecimal{}
	}
	return models.Salary(d)
}

// SalaryExact reports whether the salary cell holds exactly the value it decodes to.
// A blank cell is exact; a rounded or unparsable one is not.
func SalaryExact(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	d, ok := parseDecimal(raw)
	return ok && d.Equal(d.Round(2))
}

// Lossless reports whether the row's cells show the same values the record decoded from them holds,
// so keeping the cells in place never hides a database value.
func Lossless(cells []string) bool {
	raw, _ := utils.CellAt(cells, colSalary)
	return SalaryExact(raw)
}

func parseDecimal(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Count(s, ".") > 1 {
		return decimal.Decimal{}, false
	}
	if !utils.IsDigits(strings.Replace(s, ".", "", 1)) {
		return decimal.Decimal{}, false
	}

	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// FormatSalary renders a salary with exactly two fractional digits, or empty text when absent.
func FormatSalary(s decimal.NullDecimal) string {
	if !s.Valid {
		return ""
	}
	return s.Decimal.StringFixed(2)
}
