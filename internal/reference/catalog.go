// Package reference owns the reporting reference ranges, units, and flag
// rules for annotated lab panels, plus the canonical CSV column mapping
// used to address snapshot fields from tabular input.
//
// The reporting ranges here are intentionally distinct from the baseline
// generator's draw intervals: a generated value can sit outside its
// reporting range (for example a hypertension override) and will be
// flagged accordingly.
package reference

import (
	"strconv"

	"github.com/healthtwin-engine/internal/domain"
)

// Range is the reporting reference interval for one field.
type Range struct {
	Min  float64
	Max  float64
	Unit string
}

// catalog maps category -> field -> reporting range. Only the six
// annotated panels carry ranges; lifestyle and physical do not.
var catalog = map[string]map[string]Range{
	domain.CategoryVitals: {
		"heart_rate":               {Min: 60, Max: 100, Unit: "BPM"},
		"blood_pressure_systolic":  {Min: 90, Max: 140, Unit: "mmHg"},
		"blood_pressure_diastolic": {Min: 60, Max: 90, Unit: "mmHg"},
		"respiratory_rate":         {Min: 12, Max: 20, Unit: "breaths/min"},
		"body_temperature":         {Min: 36.5, Max: 37.5, Unit: "°C"},
		"oxygen_saturation":        {Min: 95, Max: 100, Unit: "%"},
	},
	domain.CategoryCBC: {
		"hemoglobin":        {Min: 12.0, Max: 16.0, Unit: "g/dL"},
		"white_blood_cells": {Min: 4.0, Max: 11.0, Unit: "K/μL"},
		"platelets":         {Min: 150, Max: 450, Unit: "K/μL"},
		"red_blood_cells":   {Min: 4.0, Max: 5.5, Unit: "M/μL"},
	},
	domain.CategoryMetabolic: {
		"glucose_fasting": {Min: 70, Max: 100, Unit: "mg/dL"},
		"glucose_random":  {Min: 70, Max: 140, Unit: "mg/dL"},
		"hba1c":           {Min: 4.0, Max: 5.7, Unit: "%"},
		"creatinine":      {Min: 0.6, Max: 1.2, Unit: "mg/dL"},
		"bun":             {Min: 7, Max: 20, Unit: "mg/dL"},
		"sodium":          {Min: 135, Max: 145, Unit: "mEq/L"},
		"potassium":       {Min: 3.5, Max: 5.0, Unit: "mEq/L"},
		"chloride":        {Min: 96, Max: 106, Unit: "mEq/L"},
		"bicarbonate":     {Min: 22, Max: 28, Unit: "mEq/L"},
	},
	domain.CategoryLipids: {
		"total_cholesterol": {Min: 0, Max: 200, Unit: "mg/dL"},
		"ldl":               {Min: 0, Max: 100, Unit: "mg/dL"},
		"hdl":               {Min: 40, Max: 60, Unit: "mg/dL"},
		"triglycerides":     {Min: 0, Max: 150, Unit: "mg/dL"},
	},
	domain.CategoryLiver: {
		"alt":       {Min: 7, Max: 55, Unit: "U/L"},
		"ast":       {Min: 8, Max: 48, Unit: "U/L"},
		"bilirubin": {Min: 0.3, Max: 1.2, Unit: "mg/dL"},
		"albumin":   {Min: 3.4, Max: 5.4, Unit: "g/dL"},
	},
	domain.CategoryThyroid: {
		"tsh": {Min: 0.4, Max: 4.0, Unit: "μIU/mL"},
		"t3":  {Min: 2.3, Max: 4.2, Unit: "pg/mL"},
		"t4":  {Min: 0.8, Max: 1.8, Unit: "ng/dL"},
	},
}

// panelCategories is the canonical report order of the annotated panels.
var panelCategories = []string{
	domain.CategoryVitals,
	domain.CategoryCBC,
	domain.CategoryMetabolic,
	domain.CategoryLipids,
	domain.CategoryLiver,
	domain.CategoryThyroid,
}

// PanelCategories returns the annotated panel categories in report order.
func PanelCategories() []string {
	out := make([]string, len(panelCategories))
	copy(out, panelCategories)
	return out
}

// Fields returns the cataloged field names of a category, in no
// particular order. Nil for categories without a cataloged panel.
func Fields(category string) []string {
	fields, ok := catalog[category]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(fields))
	for field := range fields {
		out = append(out, field)
	}
	return out
}

// Lookup returns the reporting range for (category, field).
func Lookup(category, field string) (Range, bool) {
	fields, ok := catalog[category]
	if !ok {
		return Range{}, false
	}
	r, ok := fields[field]
	return r, ok
}

// FlagFor applies the flag rule: nil is N/A, below Min is L, above Max is
// H, anything else is N.
func FlagFor(value *float64, r Range) domain.Flag {
	switch {
	case value == nil:
		return domain.FlagNotAvailable
	case *value < r.Min:
		return domain.FlagLow
	case *value > r.Max:
		return domain.FlagHigh
	default:
		return domain.FlagNormal
	}
}

// Annotate builds the annotated panel for one category from a snapshot.
// Every cataloged field appears in the result; fields the snapshot does
// not carry come back with a nil value and flag N/A. The second return is
// false for categories without a cataloged panel.
func Annotate(category string, snap domain.Snapshot) (map[string]domain.AnnotatedValue, bool) {
	fields, ok := catalog[category]
	if !ok {
		return nil, false
	}

	panel := make(map[string]domain.AnnotatedValue, len(fields))
	for field, r := range fields {
		var value *float64
		if v, present := snap.Field(category, field); present {
			value = &v
		}
		panel[field] = domain.AnnotatedValue{
			Value:          value,
			Unit:           r.Unit,
			ReferenceRange: formatRange(r),
			Flag:           FlagFor(value, r),
		}
	}
	return panel, true
}

func formatRange(r Range) string {
	return formatBound(r.Min) + "-" + formatBound(r.Max)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
