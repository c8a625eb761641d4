// Package tabular parses CSV health-parameter inputs into typed cells and rows.
package tabular

import (
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the value a Cell carries.
type Kind string

const (
	KindEmpty  Kind = "empty"
	KindNumber Kind = "number"
	KindDelta  Kind = "delta"
	KindBool   Kind = "bool"
	KindText   Kind = "text"
)

// Cell is a single parsed CSV value. Exactly one of Number, Delta, Bool or
// Text is meaningful, selected by Kind. Number is an absolute reading that
// replaces a parameter; Delta is a signed offset added to it.
type Cell struct {
	Kind   Kind
	Number float64
	Delta  float64
	Bool   bool
	Text   string
}

// ParseCell classifies a raw CSV string. The rules apply in order: blank
// cells are Empty; "true"/"false" are Bool; decimal and integer literals are
// Numbers even when negative; an explicit leading sign on anything the
// earlier rules did not consume marks a Delta (in practice "+2", "+0.5");
// everything else is Text.
func ParseCell(raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{Kind: KindEmpty}
	}

	switch strings.ToLower(raw) {
	case "true":
		return Cell{Kind: KindBool, Bool: true}
	case "false":
		return Cell{Kind: KindBool, Bool: false}
	}

	if strings.Contains(raw, ".") && digitsOnly(raw, ".-") {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return Cell{Kind: KindNumber, Number: v}
		}
	} else if digitsOnly(raw, "-") {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return Cell{Kind: KindNumber, Number: v}
		}
	}

	if raw[0] == '+' || raw[0] == '-' {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return Cell{Kind: KindDelta, Delta: v}
		}
	}

	return Cell{Kind: KindText, Text: raw}
}

// digitsOnly reports whether s is ASCII digits once runes in ignore are
// skipped, with at least one digit present.
func digitsOnly(s, ignore string) bool {
	digits := 0
	for _, r := range s {
		if strings.ContainsRune(ignore, r) {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
		digits++
	}
	return digits > 0
}

// Row is one CSV data row: the header columns in file order, the parsed cell
// per column, and the source line for error reporting.
type Row struct {
	Line    int
	Columns []string
	Cells   map[string]Cell
}

// Get returns the cell under a header column.
func (r Row) Get(column string) (Cell, bool) {
	cell, ok := r.Cells[column]
	return cell, ok
}

// Week reads the row's week index from the "week" or "week_number" column.
// Only integral Number cells qualify.
func (r Row) Week() (int, bool) {
	for _, name := range []string{"week", "week_number"} {
		cell, ok := r.Cells[name]
		if !ok || cell.Kind != KindNumber {
			continue
		}
		if cell.Number != math.Trunc(cell.Number) {
			continue
		}
		return int(cell.Number), true
	}
	return 0, false
}
