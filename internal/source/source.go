//-------------------------------------------------------------------------
//
// pgEdge Salary Warehouse
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source reads and validates the salary records input file.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/identity"
)

// Columns are the input columns every file must carry. Names are
// case-sensitive; extra columns are ignored.
var Columns = []string{
	"Gender",
	"Department_abbreviation",
	"Department_Name",
	"Division",
	"Base_Salary",
	"Overtime_Pay",
	"Longevity_Pay",
	"Grade",
}

// Record is one raw input line.
type Record struct {
	Gender                 string `csv:"Gender"`
	DepartmentAbbreviation string `csv:"Department_abbreviation"`
	DepartmentName         string `csv:"Department_Name"`
	Division               string `csv:"Division"`
	BaseSalary             string `csv:"Base_Salary"`
	OvertimePay            string `csv:"Overtime_Pay"`
	LongevityPay           string `csv:"Longevity_Pay"`
	Grade                  string `csv:"Grade"`
}

// Department is the department triple of a row.
type Department struct {
	Abbreviation string
	Name         string
	Division     string
}

// Grade is a nullable pay grade.
type Grade struct {
	Value string
	Valid bool
}

// Row is a validated input line.
type Row struct {
	// Line is the 1-based line number in the input file.
	Line int

	Gender       identity.Gender
	Department   Department
	BaseSalary   float64
	OvertimePay  float64
	LongevityPay float64
	Grade        Grade
}

// ReadFile reads and validates all rows of the file at path.
func ReadFile(path string, delimiter rune) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrStoreIO, err, "open input")
	}
	defer f.Close()

	return ReadFrom(f, delimiter)
}

// ReadFrom reads and validates all rows from r. The first record must be a
// header containing every name in Columns.
func ReadFrom(r io.Reader, delimiter rune) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrStoreIO, err, "read input")
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(data))
	if delimiter != 0 {
		reader.Comma = delimiter
	}

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, etlerr.Wrap(etlerr.ErrInputValue, err, "parse input")
	}
	if len(lines) == 0 {
		return nil, etlerr.New(etlerr.ErrInputSchema, "input is empty, expected header %s", strings.Join(Columns, ","))
	}
	if err := checkHeader(lines[0]); err != nil {
		return nil, err
	}

	var records []Record
	if err := gocsv.UnmarshalCSV(&sliceReader{lines: lines}, &records); err != nil {
		return nil, etlerr.Wrap(etlerr.ErrInputValue, err, "decode input")
	}

	rows := make([]Row, 0, len(records))
	for i := range records {
		row, err := parseRecord(&records[i], i+2)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func checkHeader(header []string) error {
	var missing []string
	for _, col := range Columns {
		if !slices.Contains(header, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return etlerr.New(etlerr.ErrInputSchema, "missing column(s) %s", strings.Join(missing, ", "))
	}
	return nil
}

func parseRecord(rec *Record, line int) (Row, error) {
	g, err := identity.ParseGender(rec.Gender)
	if err != nil {
		return Row{}, etlerr.New(etlerr.ErrInputValue, "line %d: unknown gender code %q", line, rec.Gender)
	}

	row := Row{
		Line:   line,
		Gender: g,
		Department: Department{
			Abbreviation: strings.TrimSpace(rec.DepartmentAbbreviation),
			Name:         strings.TrimSpace(rec.DepartmentName),
			Division:     strings.TrimSpace(rec.Division),
		},
	}

	for _, f := range []struct{ col, v string }{
		{"Department_abbreviation", row.Department.Abbreviation},
		{"Department_Name", row.Department.Name},
		{"Division", row.Department.Division},
	} {
		if f.v == "" {
			return Row{}, etlerr.New(etlerr.ErrInputValue, "line %d: %s is empty", line, f.col)
		}
	}

	if row.BaseSalary, err = parseAmount(rec.BaseSalary, "Base_Salary", line); err != nil {
		return Row{}, err
	}
	if row.OvertimePay, err = parseAmount(rec.OvertimePay, "Overtime_Pay", line); err != nil {
		return Row{}, err
	}
	if row.LongevityPay, err = parseAmount(rec.LongevityPay, "Longevity_Pay", line); err != nil {
		return Row{}, err
	}

	if grade := strings.TrimSpace(rec.Grade); grade != "" {
		row.Grade = Grade{Value: grade, Valid: true}
	}
	return row, nil
}

func parseAmount(raw, column string, line int) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, etlerr.New(etlerr.ErrInputValue, "line %d: %s is empty", line, column)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, etlerr.New(etlerr.ErrInputValue, "line %d: %s %q is not a number (%v)", line, column, raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, etlerr.New(etlerr.ErrInputValue, "line %d: %s %q must be a non-negative amount", line, column, raw)
	}
	return v, nil
}

// sliceReader replays records already read by encoding/csv to gocsv.
type sliceReader struct {
	lines [][]string
	pos   int
}

func (r *sliceReader) Read() ([]string, error) {
	if r.pos >= len(r.lines) {
		return nil, io.EOF
	}
	line := r.lines[r.pos]
	r.pos++
	return line, nil
}

func (r *sliceReader) ReadAll() ([][]string, error) {
	rest := r.lines[r.pos:]
	r.pos = len(r.lines)
	return rest, nil
}

// String implements fmt.Stringer for log output.
func (d Department) String() string {
	return fmt.Sprintf("%s/%s/%s", d.Abbreviation, d.Name, d.Division)
}
