//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"fmt"
	"math"

	"github.com/pgEdge/pgedge-salarywh/internal/datagen"
	"github.com/pgEdge/pgedge-salarywh/internal/identity"
	"github.com/pgEdge/pgedge-salarywh/internal/logging"
	"github.com/pgEdge/pgedge-salarywh/internal/source"
)

// Options controls a warehouse build.
type Options struct {
	// Year is the year the facts are recorded against.
	Year int

	// StartYear and EndYear bound the rows of the date dimension.
	StartYear int
	EndYear   int

	// ProgressInterval is how often fact generation logs progress (in rows).
	ProgressInterval int64
}

// DefaultOptions returns options for a single 2023 calendar year.
func DefaultOptions() Options {
	return Options{
		Year:             2023,
		StartYear:        2023,
		EndYear:          2023,
		ProgressInterval: datagen.DefaultBatchConfig().ProgressInterval,
	}
}

// Validate checks that the options describe a usable date range.
func (o Options) Validate() error {
	if o.StartYear < 1 || o.EndYear < o.StartYear {
		return fmt.Errorf("invalid date range %d-%d", o.StartYear, o.EndYear)
	}
	if o.Year < o.StartYear || o.Year > o.EndYear {
		return fmt.Errorf("fact year %d outside date range %d-%d", o.Year, o.StartYear, o.EndYear)
	}
	return nil
}

// Builder turns source rows into a Warehouse.
type Builder struct {
	opts  Options
	rand  datagen.Rand
	synth *identity.Synthesizer
}

// NewBuilder creates a builder. rand drives the monthly split and synth
// produces employee names.
func NewBuilder(opts Options, rand datagen.Rand, synth *identity.Synthesizer) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{opts: opts, rand: rand, synth: synth}, nil
}

// Build loads the dimensions and generates the facts for rows.
func (b *Builder) Build(rows []source.Row) (*Warehouse, error) {
	wh := &Warehouse{}

	dates := b.buildDates(wh)

	keys, err := b.loadDimensions(wh, rows)
	if err != nil {
		return nil, err
	}

	if err := b.generateFacts(wh, rows, keys, dates); err != nil {
		return nil, err
	}

	logging.Info().
		Int("rows", len(rows)).
		Int("departments", len(wh.Departments)).
		Int("employees", len(wh.Employees)).
		Int("salaries", len(wh.Salaries)).
		Int("facts", len(wh.Facts)).
		Msg("Built warehouse")

	return wh, nil
}

// buildDates fills the date dimension for every month in the configured
// range and returns its index.
func (b *Builder) buildDates(wh *Warehouse) *Index[monthYear] {
	idx := NewIndex[monthYear]()
	for year := b.opts.StartYear; year <= b.opts.EndYear; year++ {
		for month := 1; month <= datagen.MonthsPerYear; month++ {
			id, _ := idx.Insert(monthYear{Month: month, Year: year})
			wh.Dates = append(wh.Dates, DateDim{
				ID:      id,
				Month:   month,
				Year:    year,
				Quarter: (month-1)/3 + 1,
			})
		}
	}
	return idx
}

// loadDimensions deduplicates departments, employees and salaries and
// records, per source row, the keys that row resolved to.
func (b *Builder) loadDimensions(wh *Warehouse, rows []source.Row) ([]RowKeys, error) {
	departments := NewIndex[departmentKey]()
	employees := NewIndex[employeeKey]()
	salaries := NewIndex[salaryKey]()
	issued := identity.NewIssued()

	keys := make([]RowKeys, len(rows))
	for i, row := range rows {
		dk := departmentKey{
			Abbreviation: row.Department.Abbreviation,
			Name:         row.Department.Name,
			Division:     row.Department.Division,
		}
		deptID, inserted := departments.Insert(dk)
		if inserted {
			wh.Departments = append(wh.Departments, DepartmentDim{
				ID:           deptID,
				Abbreviation: dk.Abbreviation,
				Name:         dk.Name,
				Division:     dk.Division,
			})
		}

		person, err := b.synth.SynthesizeUnique(row.Gender, issued)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		ek := employeeKey{Gender: string(person.Gender), First: person.First, Last: person.Last}
		empID, inserted := employees.Insert(ek)
		if inserted {
			wh.Employees = append(wh.Employees, EmployeeDim{
				ID:        empID,
				Gender:    ek.Gender,
				FirstName: ek.First,
				LastName:  ek.Last,
			})
		}

		sk := salaryKey{
			Base:      cents(row.BaseSalary),
			Overtime:  cents(row.OvertimePay),
			Longevity: cents(row.LongevityPay),
			Grade:     row.Grade.Value,
			HasGrade:  row.Grade.Valid,
		}
		salID, inserted := salaries.Insert(sk)
		if inserted {
			s := SalaryDim{
				ID:           salID,
				BaseSalary:   fromCents(sk.Base),
				OvertimePay:  fromCents(sk.Overtime),
				LongevityPay: fromCents(sk.Longevity),
			}
			if sk.HasGrade {
				grade := sk.Grade
				s.Grade = &grade
			}
			wh.Salaries = append(wh.Salaries, s)
		}

		keys[i] = RowKeys{Employee: empID, Department: deptID, Salary: salID}
	}

	logging.Debug().
		Int("departments", departments.Len()).
		Int("employees", employees.Len()).
		Int("salaries", salaries.Len()).
		Int("merged_departments", len(rows)-departments.Len()).
		Int("merged_salaries", len(rows)-salaries.Len()).
		Msg("Loaded dimensions")

	return keys, nil
}

// generateFacts writes twelve facts per source row, in row order and month
// order.
func (b *Builder) generateFacts(wh *Warehouse, rows []source.Row, keys []RowKeys, dates *Index[monthYear]) error {
	var dateIDs [datagen.MonthsPerYear]int64
	for m := range dateIDs {
		id, ok := dates.Lookup(monthYear{Month: m + 1, Year: b.opts.Year})
		if !ok {
			return fmt.Errorf("no date row for %d-%02d", b.opts.Year, m+1)
		}
		dateIDs[m] = id
	}

	total := int64(len(rows) * datagen.MonthsPerYear)
	progress := datagen.NewProgressReporter(TableFact, "Generating facts", total, b.opts.ProgressInterval)

	wh.Facts = make([]SalaryFact, 0, total)
	for i, row := range rows {
		amounts, base := b.monthlyAmounts(row)
		stats := datagen.Summarize(base).Rounded()

		for m := 0; m < datagen.MonthsPerYear; m++ {
			wh.Facts = append(wh.Facts, SalaryFact{
				ID:            int64(len(wh.Facts) + 1),
				DateID:        dateIDs[m],
				EmployeeID:    keys[i].Employee,
				DepartmentID:  keys[i].Department,
				SalaryID:      keys[i].Salary,
				Amount:        amounts[m],
				MinimumSalary: stats.Min,
				AverageSalary: stats.Mean,
				MaximumSalary: stats.Max,
			})
		}
		progress.Update(datagen.MonthsPerYear)
	}
	progress.Done()

	return nil
}

// monthlyAmounts returns the twelve fact amounts of row and the base salary
// fragments they were built from. The base salary is split randomly into
// cent-rounded fragments; overtime and longevity are spread evenly, rounded
// to cents.
func (b *Builder) monthlyAmounts(row source.Row) (amounts, base []float64) {
	const n = datagen.MonthsPerYear

	base = datagen.AllocateRounded(b.rand, row.BaseSalary, n)
	overtime := datagen.Round2(row.OvertimePay / n)
	longevity := datagen.Round2(row.LongevityPay / n)

	amounts = make([]float64, n)
	for m := range amounts {
		amounts[m] = datagen.Round2(base[m] + overtime + longevity)
	}
	return amounts, base
}

func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}
