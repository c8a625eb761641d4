package service

import (
	"fmt"
	"time"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/reference"
	"github.com/healthtwin-engine/pkg/tabular"
)

// RunWeekly steps the twin through weekly tabular inputs. For each week
// 1..durationWeeks the first matching row (by week column) is applied to
// the running state: Number cells replace the field, Delta cells add to it
// (an absent value counts as 0), everything else is ignored. Weeks without
// a row carry the state forward unchanged but still produce a report.
// Changes are always computed against the original baseline. Rows for
// weeks beyond the duration are ignored.
func RunWeekly(baseline domain.Snapshot, profile domain.PatientProfile, rows []tabular.Row, durationWeeks int, asOf time.Time) ([]domain.WeekEntry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("weekly progression: %w", domain.ErrEmptyInput)
	}
	if durationWeeks <= 0 {
		return nil, fmt.Errorf("weekly progression: duration must be positive, got %d: %w", durationWeeks, domain.ErrValidation)
	}

	entries := make([]domain.WeekEntry, 0, durationWeeks)
	current := baseline.Clone()

	for week := 1; week <= durationWeeks; week++ {
		if row, ok := rowForWeek(rows, week); ok {
			applyRow(&current, row)
		}

		entries = append(entries, domain.WeekEntry{
			Week:                week,
			Parameters:          current.Clone(),
			Report:              BuildReport(current, profile, asOf),
			ChangesFromBaseline: ChangesFromBaseline(baseline, current),
		})
	}

	return entries, nil
}

func rowForWeek(rows []tabular.Row, week int) (tabular.Row, bool) {
	for _, row := range rows {
		if w, ok := row.Week(); ok && w == week {
			return row, true
		}
	}
	return tabular.Row{}, false
}

// applyRow writes a row's mapped cells into the snapshot. When the row
// moved weight or height and both are present afterwards, BMI is
// recomputed.
func applyRow(snap *domain.Snapshot, row tabular.Row) {
	sizeChanged := false

	for _, column := range row.Columns {
		ref, ok := reference.Column(column)
		if !ok {
			continue
		}

		cell := row.Cells[column]
		switch cell.Kind {
		case tabular.KindNumber:
			snap.SetField(ref.Category, ref.Field, cell.Number)
		case tabular.KindDelta:
			current, _ := snap.Field(ref.Category, ref.Field)
			snap.SetField(ref.Category, ref.Field, current+cell.Delta)
		default:
			continue
		}

		if ref.Category == domain.CategoryPhysical {
			sizeChanged = true
		}
	}

	if sizeChanged && snap.Physical != nil && snap.Physical.WeightKg != nil && snap.Physical.HeightCm != nil {
		snap.Physical.BMI = domain.Float(BMI(*snap.Physical.WeightKg, *snap.Physical.HeightCm))
	}
}
