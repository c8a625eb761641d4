package service

import (
	"fmt"
	"math"
	"strconv"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/reference"
)

// Improvements lists the clinically favourable movements between a baseline
// and a projection, as patient-facing strings. A marker only qualifies when
// both snapshots carry it and the change runs in the desired direction;
// comparing a snapshot against itself yields nothing.
func Improvements(baseline, projected domain.Snapshot) []string {
	var improvements []string

	if d, ok := reduction(baseline, projected, domain.CategoryVitals, "blood_pressure_systolic"); ok {
		improvements = append(improvements, fmt.Sprintf("Blood pressure reduced by %s mmHg systolic", formatAmount(d)))
	}
	if d, ok := reduction(baseline, projected, domain.CategoryVitals, "blood_pressure_diastolic"); ok {
		improvements = append(improvements, fmt.Sprintf("Blood pressure reduced by %s mmHg diastolic", formatAmount(d)))
	}
	if d, ok := reduction(baseline, projected, domain.CategoryMetabolic, "glucose_fasting"); ok {
		improvements = append(improvements, fmt.Sprintf("Fasting glucose reduced by %s mg/dL", formatAmount(d)))
	}
	if d, ok := reduction(baseline, projected, domain.CategoryMetabolic, "hba1c"); ok {
		improvements = append(improvements, fmt.Sprintf("HbA1c reduced by %.1f%%", d))
	}
	if d, ok := reduction(baseline, projected, domain.CategoryLipids, "ldl"); ok {
		improvements = append(improvements, fmt.Sprintf("LDL cholesterol reduced by %s mg/dL", formatAmount(d)))
	}
	if d, ok := increase(baseline, projected, domain.CategoryLipids, "hdl"); ok {
		improvements = append(improvements, fmt.Sprintf("HDL cholesterol increased by %s mg/dL", formatAmount(d)))
	}

	return improvements
}

func reduction(baseline, projected domain.Snapshot, category, field string) (float64, bool) {
	before, ok := baseline.Field(category, field)
	if !ok {
		return 0, false
	}
	after, ok := projected.Field(category, field)
	if !ok || after >= before {
		return 0, false
	}
	return before - after, true
}

func increase(baseline, projected domain.Snapshot, category, field string) (float64, bool) {
	before, ok := baseline.Field(category, field)
	if !ok {
		return 0, false
	}
	after, ok := projected.Field(category, field)
	if !ok || after <= before {
		return 0, false
	}
	return after - before, true
}

// formatAmount renders integral amounts without a decimal point ("8", not
// "8.0") and fractional ones with their natural precision.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ChangesFromBaseline computes per-field movement between the original
// baseline and the current state across the six lab panels. Only fields
// present in both snapshots are reported. RelativeChange is the absolute
// change as a percentage of the baseline, zero when the baseline is zero.
func ChangesFromBaseline(baseline, current domain.Snapshot) map[string]map[string]domain.ChangeStat {
	changes := make(map[string]map[string]domain.ChangeStat)

	for _, category := range reference.PanelCategories() {
		for _, field := range reference.Fields(category) {
			before, ok := baseline.Field(category, field)
			if !ok {
				continue
			}
			after, ok := current.Field(category, field)
			if !ok {
				continue
			}

			relative := 0.0
			if before != 0 {
				relative = round1(math.Abs(after-before) / before * 100)
			}
			if changes[category] == nil {
				changes[category] = make(map[string]domain.ChangeStat)
			}
			changes[category][field] = domain.ChangeStat{
				Baseline:       before,
				Current:        after,
				AbsoluteChange: round2(after - before),
				RelativeChange: relative,
			}
		}
	}

	return changes
}
