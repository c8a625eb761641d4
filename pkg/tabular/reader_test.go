package tabular

import (
	"errors"
	"strings"
	"testing"

	"github.com/healthtwin-engine/internal/domain"
)

func TestReadParsesRows(t *testing.T) {
	input := "week,heart_rate,weight_kg,notes\n" +
		"1,72,70.5,stable\n" +
		"2,,+0.5,\n"

	rows, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Read() returned %d rows, want 2", len(rows))
	}

	first := rows[0]
	if first.Line != 2 {
		t.Errorf("first row line = %d, want 2", first.Line)
	}
	if week, ok := first.Week(); !ok || week != 1 {
		t.Errorf("first row week = %d, %v, want 1, true", week, ok)
	}
	if cell, _ := first.Get("heart_rate"); cell.Kind != KindNumber || cell.Number != 72 {
		t.Errorf("heart_rate cell = %+v, want Number 72", cell)
	}
	if cell, _ := first.Get("notes"); cell.Kind != KindText || cell.Text != "stable" {
		t.Errorf("notes cell = %+v, want Text %q", cell, "stable")
	}

	second := rows[1]
	if cell, _ := second.Get("heart_rate"); cell.Kind != KindEmpty {
		t.Errorf("blank heart_rate cell = %+v, want Empty", cell)
	}
	if cell, _ := second.Get("weight_kg"); cell.Kind != KindDelta || cell.Delta != 0.5 {
		t.Errorf("weight_kg cell = %+v, want Delta 0.5", cell)
	}

	expected := []string{"week", "heart_rate", "weight_kg", "notes"}
	for i, column := range expected {
		if first.Columns[i] != column {
			t.Errorf("column[%d] = %q, want %q", i, first.Columns[i], column)
		}
	}
}

func TestReadEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"No content", ""},
		{"Header only", "week,heart_rate\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, domain.ErrEmptyInput) {
				t.Errorf("Read() error = %v, want ErrEmptyInput", err)
			}
		})
	}
}

func TestReadRaggedRow(t *testing.T) {
	input := "week,heart_rate\n1,72,extra\n"

	_, err := Read(strings.NewReader(input))
	if err == nil {
		t.Fatal("Read() expected error for mismatched field count")
	}
}
