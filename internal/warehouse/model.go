//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse builds the salary star schema from validated input rows.
//
// Four dimensions (date, department, employee, salary) are deduplicated in
// memory and receive gapless surrogate keys starting at 1. The salary_fact
// table then holds one row per source row and month, referencing the four
// dimensions by key.
package warehouse

// Table names as stored in PostgreSQL.
const (
	TableDate       = "date_dim"
	TableDepartment = "department"
	TableEmployee   = "employee"
	TableSalary     = "salary"
	TableFact       = "salary_fact"
)

// Column maps a store column to its export header.
type Column struct {
	Name   string
	Header string
}

// Table describes one warehouse table.
type Table struct {
	// Name is the PostgreSQL table name.
	Name string

	// Export is the base name of the exported CSV file.
	Export string

	// Columns in store order; the first column is the surrogate key.
	Columns []Column
}

// ColumnNames returns the store column names.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Headers returns the export header row.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	return headers
}

// Tables lists the warehouse tables in load order: dimensions first, then
// the fact table that references them.
var Tables = []Table{
	{
		Name:   TableDate,
		Export: "Date",
		Columns: []Column{
			{"date_id", "Date_ID"},
			{"month", "Month"},
			{"year", "Year"},
			{"quarter", "Quarter"},
		},
	},
	{
		Name:   TableDepartment,
		Export: "Department",
		Columns: []Column{
			{"department_id", "Department_ID"},
			{"department_abbreviation", "Department_Abbreviation"},
			{"department_name", "Department_Name"},
			{"division", "Division"},
		},
	},
	{
		Name:   TableEmployee,
		Export: "Employee",
		Columns: []Column{
			{"employee_id", "Employee_ID"},
			{"gender", "Gender"},
			{"first_name", "First_Name"},
			{"last_name", "Last_Name"},
		},
	},
	{
		Name:   TableSalary,
		Export: "Salary",
		Columns: []Column{
			{"salary_id", "Salary_ID"},
			{"base_salary", "Base_Salary"},
			{"overtime_pay", "Overtime_Pay"},
			{"longevity_pay", "Longevity_Pay"},
			{"grade", "Grade"},
		},
	},
	{
		Name:   TableFact,
		Export: "Salary_Fact",
		Columns: []Column{
			{"salary_fact_id", "Salary_Fact_ID"},
			{"date_id", "Date_ID"},
			{"employee_id", "Employee_ID"},
			{"department_id", "Department_ID"},
			{"salary_id", "Salary_ID"},
			{"amount", "Amount"},
			{"minimum_salary", "Minimum_Salary"},
			{"average_salary", "Average_Salary"},
			{"maximum_salary", "Maximum_Salary"},
		},
	},
}

// LookupTable returns the table definition with the given store name.
func LookupTable(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// DateDim is a row of date_dim.
type DateDim struct {
	ID      int64 `db:"date_id"`
	Month   int   `db:"month"`
	Year    int   `db:"year"`
	Quarter int   `db:"quarter"`
}

// DepartmentDim is a row of department.
type DepartmentDim struct {
	ID           int64  `db:"department_id"`
	Abbreviation string `db:"department_abbreviation"`
	Name         string `db:"department_name"`
	Division     string `db:"division"`
}

// EmployeeDim is a row of employee.
type EmployeeDim struct {
	ID        int64  `db:"employee_id"`
	Gender    string `db:"gender"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
}

// SalaryDim is a row of salary. Grade is nil when the source had none.
type SalaryDim struct {
	ID           int64   `db:"salary_id"`
	BaseSalary   float64 `db:"base_salary"`
	OvertimePay  float64 `db:"overtime_pay"`
	LongevityPay float64 `db:"longevity_pay"`
	Grade        *string `db:"grade"`
}

// SalaryFact is a row of salary_fact.
type SalaryFact struct {
	ID            int64   `db:"salary_fact_id"`
	DateID        int64   `db:"date_id"`
	EmployeeID    int64   `db:"employee_id"`
	DepartmentID  int64   `db:"department_id"`
	SalaryID      int64   `db:"salary_id"`
	Amount        float64 `db:"amount"`
	MinimumSalary float64 `db:"minimum_salary"`
	AverageSalary float64 `db:"average_salary"`
	MaximumSalary float64 `db:"maximum_salary"`
}

func (d DateDim) values() []any {
	return []any{d.ID, d.Month, d.Year, d.Quarter}
}

func (d DepartmentDim) values() []any {
	return []any{d.ID, d.Abbreviation, d.Name, d.Division}
}

func (e EmployeeDim) values() []any {
	return []any{e.ID, e.Gender, e.FirstName, e.LastName}
}

func (s SalaryDim) values() []any {
	return []any{s.ID, s.BaseSalary, s.OvertimePay, s.LongevityPay, s.Grade}
}

func (f SalaryFact) values() []any {
	return []any{
		f.ID, f.DateID, f.EmployeeID, f.DepartmentID, f.SalaryID,
		f.Amount, f.MinimumSalary, f.AverageSalary, f.MaximumSalary,
	}
}

// Warehouse holds the full contents of every table.
type Warehouse struct {
	Dates       []DateDim
	Departments []DepartmentDim
	Employees   []EmployeeDim
	Salaries    []SalaryDim
	Facts       []SalaryFact
}

// Rows returns the rows of the named table as column values in store
// order. Unknown tables yield nil.
func (w *Warehouse) Rows(table string) [][]any {
	switch table {
	case TableDate:
		return collect(w.Dates, DateDim.values)
	case TableDepartment:
		return collect(w.Departments, DepartmentDim.values)
	case TableEmployee:
		return collect(w.Employees, EmployeeDim.values)
	case TableSalary:
		return collect(w.Salaries, SalaryDim.values)
	case TableFact:
		return collect(w.Facts, SalaryFact.values)
	}
	return nil
}

// Counts returns the row count of every table keyed by store name.
func (w *Warehouse) Counts() map[string]int {
	return map[string]int{
		TableDate:       len(w.Dates),
		TableDepartment: len(w.Departments),
		TableEmployee:   len(w.Employees),
		TableSalary:     len(w.Salaries),
		TableFact:       len(w.Facts),
	}
}

func collect[T any](items []T, fn func(T) []any) [][]any {
	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = fn(item)
	}
	return rows
}
