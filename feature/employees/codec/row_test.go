package codec

import (
	"testing"

	"employee-sync/feature/employees/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRow(t *testing.T) {
	tests := []struct {
		name   string
		cells  []string
		want   models.Record
		errSub string
	}{
		{
			name:  "full row",
			cells: []string{"1", "Bob", "Eng", "90000.00"},
			want:  models.Record{ID: 1, Name: models.Text("Bob"), Role: models.Text("Eng"), Salary: models.Salary(decimal.RequireFromString("90000"))},
		},
		{
			name:  "padded id and salary",
			cells: []string{" 42 ", "Ann", "", " 12.5 "},
			want:  models.Record{ID: 42, Name: models.Text("Ann"), Salary: models.Salary(decimal.RequireFromString("12.50"))},
		},
		{
			name:  "short row",
			cells: []string{"3", "Cy"},
			want:  models.Record{ID: 3, Name: models.Text("Cy")},
		},
		{
			name:  "id only",
			cells: []string{"4"},
			want:  models.Record{ID: 4},
		},
		{
			name:  "bad salary is absent",
			cells: []string{"5", "Di", "Ops", "1.2.3"},
			want:  models.Record{ID: 5, Name: models.Text("Di"), Role: models.Text("Ops")},
		},
		{
			name:  "extra cells ignored",
			cells: []string{"6", "Ed", "QA", "10", "note"},
			want:  models.Record{ID: 6, Name: models.Text("Ed"), Role: models.Text("QA"), Salary: models.Salary(decimal.RequireFromString("10"))},
		},
		{name: "blank id", cells: []string{"", "Alice", "Eng", "100.00"}, errSub: "blank"},
		{name: "missing id cell", cells: []string{}, errSub: "missing id"},
		{name: "non numeric id", cells: []string{"abc", "X"}, errSub: "not a number"},
		{name: "negative id", cells: []string{"-1"}, errSub: "not a number"},
		{name: "decimal id", cells: []string{"1.0"}, errSub: "not a number"},
		{name: "zero id", cells: []string{"0"}, errSub: "positive"},
		{name: "overflow id", cells: []string{"99999999999999999999"}, errSub: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRow(tt.cells)
			if tt.errSub != "" {
				require.ErrorIs(t, err, ErrInvalidID)
				assert.Contains(t, err.Error(), tt.errSub)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
			assert.True(t, tt.want.Equal(got), "want %+v got %+v", tt.want, got)
			assert.Equal(t, tt.want.Salary.Valid, got.Salary.Valid)
		})
	}
}

func TestParseSalary(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		valid bool
	}{
		{in: "100", want: "100.00", valid: true},
		{in: "100.456", want: "100.46", valid: true},
		{in: ".5", want: "0.50", valid: true},
		{in: "7.", want: "7.00", valid: true},
		{in: "0", want: "0.00", valid: true},
		{in: "", valid: false},
		{in: "   ", valid: false},
		{in: "-5", valid: false},
		{in: "1e5", valid: false},
		{in: "1,000", valid: false},
		{in: "1.2.3", valid: false},
		{in: ".", valid: false},
		{in: "$10", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseSalary(tt.in)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, FormatSalary(got))
			}
		})
	}
}

func TestSalaryExact(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "", want: true},
		{in: "  ", want: true},
		{in: "100", want: true},
		{in: "100.5", want: true},
		{in: "100.50", want: true},
		{in: "100.500", want: true},
		{in: "12.345", want: false},
		{in: "abc", want: false},
		{in: "-5", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SalaryExact(tt.in))
		})
	}
}

func TestLossless(t *testing.T) {
	assert.True(t, Lossless([]string{"1", "Bob", "Eng", "90000"}))
	assert.True(t, Lossless([]string{"1", "Bob"}))
	assert.False(t, Lossless([]string{"1", "Bob", "Eng", "12.345"}))
}

func TestEncodeRecord(t *testing.T) {
	big := decimal.RequireFromString("123456789.1")
	r := models.Record{ID: 12, Name: models.Text("Bob"), Salary: models.Salary(big)}

	assert.Equal(t, []string{"12", "Bob", "", "123456789.10"}, EncodeRecord(r))
	assert.Equal(t, []string{"1", "", "", ""}, EncodeRecord(models.Record{ID: 1}))
}

func TestRoundTrip(t *testing.T) {
	records := []models.Record{
		{ID: 1, Name: models.Text("Bob"), Role: models.Text("Eng"), Salary: models.Salary(decimal.RequireFromString("90000"))},
		{ID: 2, Name: models.Text("  spaced  "), Salary: models.Salary(decimal.RequireFromString("0.1"))},
		{ID: 3},
		{ID: 4, Role: models.Text("Manager"), Salary: models.Salary(decimal.RequireFromString("1e3"))},
	}

	for _, r := range records {
		got, err := DecodeRow(EncodeRecord(r))
		require.NoError(t, err)
		assert.Equal(t, r.ID, got.ID)
		assert.True(t, r.Equal(got), "round trip of %d", r.ID)
	}
}
