package models

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Header is the column marker kept in the first spreadsheet row.
var Header = []string{"ID", "NAME", "ROLE", "SALARY_USD"}

// ColumnCount is the number of data columns of a row.
const ColumnCount = 4

// Record represents a row of the 'employees' table.
// It is the single representation shared by the database and the spreadsheet.
type Record struct {
	ID           int64               `gorm:"column:ID;primaryKey;autoIncrement:false" json:"id"`
	Name         *string             `gorm:"column:NAME" json:"name"`
	Role         *string             `gorm:"column:ROLE" json:"role"`
	Salary       decimal.NullDecimal `gorm:"column:SALARY_USD;type:decimal(10,2)" json:"salary"`
	LastModified time.Time           `gorm:"column:LAST_UPDATED;autoUpdateTime" json:"last_modified"`
}

// TableName overrides the table name.
func (Record) TableName() string {
	return "employees"
}

// Equal compares the data fields of two records.
// ID and LastModified do not take part. Empty text equals absent text.
func (r Record) Equal(o Record) bool {
	return equalText(r.Name, o.Name) && equalText(r.Role, o.Role) && equalSalary(r.Salary, o.Salary)
}

func equalText(a, b *string) bool {
	return deref(a) == deref(b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func equalSalary(a, b decimal.NullDecimal) bool {
	if !a.Valid || !b.Valid {
		return a.Valid == b.Valid
	}
	return a.Decimal.Equal(b.Decimal)
}

// EqualRecords adapts Equal to the comparator signature used by the differ.
func EqualRecords(a, b Record) bool {
	return a.Equal(b)
}

// Text returns a pointer to s, for optional text fields.
func Text(s string) *string {
	return &s
}

// Salary returns a present salary rounded to two places.
func Salary(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d.Round(2))
}

// Snapshot is a full read of one side's table.
type Snapshot []Record

// Index returns the snapshot keyed by id. A later record wins over an earlier one with the same id.
func (s Snapshot) Index() map[int64]Record {
	index := make(map[int64]Record, len(s))
	for _, r := range s {
		index[r.ID] = r
	}
	return index
}

// IDs returns the ids of the snapshot in ascending order.
func (s Snapshot) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for _, r := range s {
		ids = append(ids, r.ID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// SnapshotFromIndex builds a snapshot sorted by id.
func SnapshotFromIndex(index map[int64]Record) Snapshot {
	snap := make(Snapshot, 0, len(index))
	for _, r := range index {
		snap = append(snap, r)
	}
	slices.SortFunc(snap, func(a, b Record) int { return cmp.Compare(a.ID, b.ID) })
	return snap
}
