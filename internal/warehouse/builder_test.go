package warehouse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-salarywh/internal/datagen"
	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/identity"
	"github.com/pgEdge/pgedge-salarywh/internal/source"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

type fixedNames struct{}

func (fixedNames) FirstName(identity.Gender) string { return "Sam" }
func (fixedNames) LastName() string                 { return "Doe" }

var finance = source.Department{Abbreviation: "FIN", Name: "Finance", Division: "DivX"}

func scenarioRows() []source.Row {
	return []source.Row{
		{
			Line: 2, Gender: identity.Male, Department: finance,
			BaseSalary: 120000, OvertimePay: 0, LongevityPay: 0,
			Grade: source.Grade{Value: "G1", Valid: true},
		},
		{
			Line: 3, Gender: identity.Female, Department: finance,
			BaseSalary: 60000, OvertimePay: 1200, LongevityPay: 600,
			Grade: source.Grade{Value: "G2", Valid: true},
		},
	}
}

func newBuilder(t *testing.T, opts Options, r datagen.Rand) *Builder {
	t.Helper()
	synth := identity.NewSynthesizer(identity.NewFakerSource(datagen.NewFakerWithSeed(11)), 0)
	b, err := NewBuilder(opts, r, synth)
	require.NoError(t, err)
	return b
}

func TestBuildScenario(t *testing.T) {
	b := newBuilder(t, DefaultOptions(), constRand(0.5))

	wh, err := b.Build(scenarioRows())
	require.NoError(t, err)

	require.Len(t, wh.Dates, 12)
	for i, d := range wh.Dates {
		assert.Equal(t, int64(i+1), d.ID)
		assert.Equal(t, i+1, d.Month)
		assert.Equal(t, 2023, d.Year)
		assert.Equal(t, i/3+1, d.Quarter)
	}

	require.Len(t, wh.Departments, 1)
	assert.Equal(t, DepartmentDim{ID: 1, Abbreviation: "FIN", Name: "Finance", Division: "DivX"}, wh.Departments[0])

	require.Len(t, wh.Employees, 2)
	assert.Equal(t, "M", wh.Employees[0].Gender)
	assert.Equal(t, "F", wh.Employees[1].Gender)
	assert.NotEqual(t,
		[2]string{wh.Employees[0].FirstName, wh.Employees[0].LastName},
		[2]string{wh.Employees[1].FirstName, wh.Employees[1].LastName})

	require.Len(t, wh.Salaries, 2)
	assert.Equal(t, 120000.0, wh.Salaries[0].BaseSalary)
	require.NotNil(t, wh.Salaries[1].Grade)
	assert.Equal(t, "G2", *wh.Salaries[1].Grade)

	require.Len(t, wh.Facts, 24)
	for i, f := range wh.Facts {
		assert.Equal(t, int64(i+1), f.ID)
		assert.Equal(t, int64(i%12+1), f.DateID)
		assert.Equal(t, int64(1), f.DepartmentID)
	}

	for _, f := range wh.Facts[:12] {
		assert.Equal(t, int64(1), f.EmployeeID)
		assert.Equal(t, int64(1), f.SalaryID)
		assert.Equal(t, 10000.0, f.Amount)
		assert.Equal(t, 10000.0, f.MinimumSalary)
		assert.Equal(t, 10000.0, f.AverageSalary)
		assert.Equal(t, 10000.0, f.MaximumSalary)
	}
	for _, f := range wh.Facts[12:] {
		assert.Equal(t, int64(2), f.EmployeeID)
		assert.Equal(t, int64(2), f.SalaryID)
		assert.Equal(t, 5150.0, f.Amount)
		assert.Equal(t, 5000.0, f.MinimumSalary)
		assert.Equal(t, 5000.0, f.AverageSalary)
		assert.Equal(t, 5000.0, f.MaximumSalary)
	}
}

func TestBuildRandomSplitInvariants(t *testing.T) {
	rows := scenarioRows()
	b := newBuilder(t, DefaultOptions(), datagen.NewFakerWithSeed(3))

	wh, err := b.Build(rows)
	require.NoError(t, err)

	for r, row := range rows {
		facts := wh.Facts[r*12 : (r+1)*12]
		var sum float64
		for _, f := range facts {
			assert.GreaterOrEqual(t, f.Amount, 0.0)
			assert.Equal(t, facts[0].MinimumSalary, f.MinimumSalary)
			assert.Equal(t, facts[0].AverageSalary, f.AverageSalary)
			assert.Equal(t, facts[0].MaximumSalary, f.MaximumSalary)
			assert.LessOrEqual(t, f.MinimumSalary, f.AverageSalary)
			assert.LessOrEqual(t, f.AverageSalary, f.MaximumSalary)
			sum += f.Amount
		}
		annual := row.BaseSalary + datagen.Round2(row.OvertimePay/12)*12 + datagen.Round2(row.LongevityPay/12)*12
		assert.InDelta(t, annual, sum, 2*datagen.RoundingTolerance(12), "row %d", r)
	}
}

func TestBuildFractionalCents(t *testing.T) {
	b := newBuilder(t, DefaultOptions(), datagen.NewFakerWithSeed(5))

	rows := scenarioRows()
	rows[1].BaseSalary = 60000.333
	wh, err := b.Build(rows)
	require.NoError(t, err)

	var sum float64
	for _, f := range wh.Facts[12:] {
		assert.InDelta(t, datagen.Round2(f.Amount), f.Amount, 1e-9, "amounts carry whole cents")
		sum += f.Amount
	}
	assert.InDelta(t, 60000.333+1200+600, sum, 2*datagen.RoundingTolerance(12))
	assert.Equal(t, 60000.33, wh.Salaries[1].BaseSalary)
}

func TestBuildDeduplicatesDimensions(t *testing.T) {
	rows := append(scenarioRows(), scenarioRows()...)
	b := newBuilder(t, DefaultOptions(), constRand(0.5))

	wh, err := b.Build(rows)
	require.NoError(t, err)

	assert.Len(t, wh.Departments, 1)
	assert.Len(t, wh.Salaries, 2)
	assert.Len(t, wh.Employees, 4, "one employee per source row")
	assert.Len(t, wh.Facts, 48)

	for _, f := range wh.Facts[24:36] {
		assert.Equal(t, int64(3), f.EmployeeID)
		assert.Equal(t, int64(1), f.SalaryID)
	}
}

func TestBuildSalaryKeyedByCents(t *testing.T) {
	rows := scenarioRows()[:1]
	dup := rows[0]
	dup.BaseSalary = 120000.001
	noGrade := rows[0]
	noGrade.Grade = source.Grade{}
	rows = append(rows, dup, noGrade)

	b := newBuilder(t, DefaultOptions(), constRand(0.5))
	wh, err := b.Build(rows)
	require.NoError(t, err)

	require.Len(t, wh.Salaries, 2)
	assert.Nil(t, wh.Salaries[1].Grade)
	assert.Equal(t, int64(1), wh.Facts[12].SalaryID)
	assert.Equal(t, int64(2), wh.Facts[24].SalaryID)
}

func TestBuildForeignKeysResolve(t *testing.T) {
	b := newBuilder(t, Options{Year: 2024, StartYear: 2022, EndYear: 2025}, datagen.NewFaker())

	wh, err := b.Build(scenarioRows())
	require.NoError(t, err)
	require.Len(t, wh.Dates, 48)

	for _, f := range wh.Facts {
		require.True(t, f.DateID >= 1 && int(f.DateID) <= len(wh.Dates))
		assert.Equal(t, 2024, wh.Dates[f.DateID-1].Year)
		require.True(t, f.EmployeeID >= 1 && int(f.EmployeeID) <= len(wh.Employees))
		require.True(t, f.DepartmentID >= 1 && int(f.DepartmentID) <= len(wh.Departments))
		require.True(t, f.SalaryID >= 1 && int(f.SalaryID) <= len(wh.Salaries))
	}
}

func TestBuildNamespaceExhausted(t *testing.T) {
	synth := identity.NewSynthesizer(fixedNames{}, 3)
	b, err := NewBuilder(DefaultOptions(), constRand(0.5), synth)
	require.NoError(t, err)

	_, err = b.Build(scenarioRows())
	require.Error(t, err)
	assert.True(t, errors.Is(err, etlerr.ErrNamespaceExhausted))
	assert.Contains(t, err.Error(), "line 3")
}

func TestBuildEmpty(t *testing.T) {
	b := newBuilder(t, DefaultOptions(), constRand(0.5))

	wh, err := b.Build(nil)
	require.NoError(t, err)
	assert.Len(t, wh.Dates, 12)
	assert.Empty(t, wh.Facts)
	assert.Empty(t, wh.Employees)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"default", DefaultOptions(), false},
		{"range", Options{Year: 2021, StartYear: 2020, EndYear: 2022}, false},
		{"reversed range", Options{Year: 2021, StartYear: 2022, EndYear: 2020}, true},
		{"year outside", Options{Year: 2030, StartYear: 2020, EndYear: 2022}, true},
		{"zero year", Options{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIndex(t *testing.T) {
	idx := NewIndex[string]()

	id, inserted := idx.Insert("a")
	assert.Equal(t, int64(1), id)
	assert.True(t, inserted)

	id, inserted = idx.Insert("b")
	assert.Equal(t, int64(2), id)
	assert.True(t, inserted)

	id, inserted = idx.Insert("a")
	assert.Equal(t, int64(1), id)
	assert.False(t, inserted)

	_, ok := idx.Lookup("c")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, idx.Keys())
	assert.Equal(t, 2, idx.Len())
}

func TestWarehouseRowsMatchTables(t *testing.T) {
	b := newBuilder(t, DefaultOptions(), constRand(0.5))
	wh, err := b.Build(scenarioRows())
	require.NoError(t, err)

	for _, table := range Tables {
		rows := wh.Rows(table.Name)
		require.Len(t, rows, wh.Counts()[table.Name], table.Name)
		for _, r := range rows {
			assert.Len(t, r, len(table.Columns), table.Name)
		}
	}
	assert.Nil(t, wh.Rows("missing"))
}
