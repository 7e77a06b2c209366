package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-salarywh/internal/etlerr"
	"github.com/pgEdge/pgedge-salarywh/internal/identity"
)

const header = "Gender,Department_abbreviation,Department_Name,Division,Base_Salary,Overtime_Pay,Longevity_Pay,Grade\n"

func TestReadFromValid(t *testing.T) {
	input := header +
		"M,FIN,Finance,DivX,120000,0,0,G1\n" +
		"F,FIN,Finance,DivX,60000.50,1200,600,\n"

	rows, err := ReadFrom(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	a, b := rows[0], rows[1]
	if a.Line != 2 || b.Line != 3 {
		t.Errorf("Unexpected line numbers %d, %d", a.Line, b.Line)
	}
	if a.Gender != identity.Male || b.Gender != identity.Female {
		t.Errorf("Unexpected genders %q, %q", a.Gender, b.Gender)
	}
	want := Department{Abbreviation: "FIN", Name: "Finance", Division: "DivX"}
	if a.Department != want {
		t.Errorf("Expected department %v, got %v", want, a.Department)
	}
	if a.BaseSalary != 120000 || b.BaseSalary != 60000.50 {
		t.Errorf("Unexpected base salaries %f, %f", a.BaseSalary, b.BaseSalary)
	}
	if b.OvertimePay != 1200 || b.LongevityPay != 600 {
		t.Errorf("Unexpected pay %f, %f", b.OvertimePay, b.LongevityPay)
	}
	if !a.Grade.Valid || a.Grade.Value != "G1" {
		t.Errorf("Expected grade G1, got %+v", a.Grade)
	}
	if b.Grade.Valid {
		t.Errorf("Empty grade should be NULL, got %+v", b.Grade)
	}
}

func TestReadFromColumnOrderAndExtras(t *testing.T) {
	input := "Grade,Extra,Longevity_Pay,Overtime_Pay,Base_Salary,Division,Department_Name,Department_abbreviation,Gender\n" +
		"G7,ignored,10,20,30,D,Name,ABB,F\n"

	rows, err := ReadFrom(strings.NewReader(input), ',')
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	r := rows[0]
	if r.Gender != identity.Female || r.BaseSalary != 30 || r.OvertimePay != 20 || r.LongevityPay != 10 {
		t.Errorf("Columns mapped incorrectly: %+v", r)
	}
	if r.Department.Abbreviation != "ABB" || r.Grade.Value != "G7" {
		t.Errorf("Columns mapped incorrectly: %+v", r)
	}
}

func TestReadFromDelimiterAndBOM(t *testing.T) {
	input := "\ufeff" + strings.ReplaceAll(header, ",", ";") + "M;HR;Human Resources;Admin;50000;0;0;A\n"

	rows, err := ReadFrom(strings.NewReader(input), ';')
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Department.Name != "Human Resources" {
		t.Errorf("Unexpected rows: %+v", rows)
	}
}

func TestReadFromHeaderOnly(t *testing.T) {
	rows, err := ReadFrom(strings.NewReader(header), ',')
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestReadFromSchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing grade", "Gender,Department_abbreviation,Department_Name,Division,Base_Salary,Overtime_Pay,Longevity_Pay\n"},
		{"wrong case", strings.Replace(header, "Gender", "gender", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(tt.input), ',')
			if !errors.Is(err, etlerr.ErrInputSchema) {
				t.Errorf("Expected ErrInputSchema, got %v", err)
			}
		})
	}
}

func TestReadFromValueErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"unknown gender", "X,FIN,Finance,DivX,1,0,0,G1"},
		{"non numeric base", "M,FIN,Finance,DivX,abc,0,0,G1"},
		{"empty overtime", "M,FIN,Finance,DivX,1,,0,G1"},
		{"negative longevity", "M,FIN,Finance,DivX,1,0,-5,G1"},
		{"infinite base", "M,FIN,Finance,DivX,Inf,0,0,G1"},
		{"empty department", "M,,Finance,DivX,1,0,0,G1"},
		{"short row", "M,FIN,Finance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(header+tt.row+"\n"), ',')
			if !errors.Is(err, etlerr.ErrInputValue) {
				t.Errorf("Expected ErrInputValue, got %v", err)
			}
		})
	}
}

func TestReadFromReportsLine(t *testing.T) {
	input := header + "M,FIN,Finance,DivX,1,0,0,G1\n" + "F,FIN,Finance,DivX,oops,0,0,G1\n"

	_, err := ReadFrom(strings.NewReader(input), ',')
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("Expected error mentioning line 3, got %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salaries.csv")
	if err := os.WriteFile(path, []byte(header+"F,IT,Technology,Ops,70000,0,0,\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadFile(path, ',')
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(rows))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), ','); !errors.Is(err, etlerr.ErrStoreIO) {
		t.Errorf("Expected ErrStoreIO for missing file, got %v", err)
	}
}
