package reference

import "github.com/healthtwin-engine/internal/domain"

// FieldRef addresses one numeric snapshot field.
type FieldRef struct {
	Category string
	Field    string
}

// columns maps a CSV column name to the snapshot field it feeds. Only
// numeric fields are mapped; categorical lifestyle columns and unknown
// columns are ignored by every consumer. Week index columns (week,
// week_number) are handled by the progression engine, not here.
var columns = map[string]FieldRef{
	// Vitals
	"heart_rate":               {domain.CategoryVitals, "heart_rate"},
	"blood_pressure_systolic":  {domain.CategoryVitals, "blood_pressure_systolic"},
	"blood_pressure_diastolic": {domain.CategoryVitals, "blood_pressure_diastolic"},
	"respiratory_rate":         {domain.CategoryVitals, "respiratory_rate"},
	"body_temperature":         {domain.CategoryVitals, "body_temperature"},
	"oxygen_saturation":        {domain.CategoryVitals, "oxygen_saturation"},

	// CBC
	"hemoglobin":        {domain.CategoryCBC, "hemoglobin"},
	"white_blood_cells": {domain.CategoryCBC, "white_blood_cells"},
	"platelets":         {domain.CategoryCBC, "platelets"},
	"red_blood_cells":   {domain.CategoryCBC, "red_blood_cells"},

	// Metabolic
	"glucose_fasting": {domain.CategoryMetabolic, "glucose_fasting"},
	"glucose_random":  {domain.CategoryMetabolic, "glucose_random"},
	"hba1c":           {domain.CategoryMetabolic, "hba1c"},
	"creatinine":      {domain.CategoryMetabolic, "creatinine"},
	"bun":             {domain.CategoryMetabolic, "bun"},
	"sodium":          {domain.CategoryMetabolic, "sodium"},
	"potassium":       {domain.CategoryMetabolic, "potassium"},
	"chloride":        {domain.CategoryMetabolic, "chloride"},
	"bicarbonate":     {domain.CategoryMetabolic, "bicarbonate"},

	// Lipids
	"total_cholesterol": {domain.CategoryLipids, "total_cholesterol"},
	"ldl":               {domain.CategoryLipids, "ldl"},
	"hdl":               {domain.CategoryLipids, "hdl"},
	"triglycerides":     {domain.CategoryLipids, "triglycerides"},

	// Liver
	"alt":       {domain.CategoryLiver, "alt"},
	"ast":       {domain.CategoryLiver, "ast"},
	"bilirubin": {domain.CategoryLiver, "bilirubin"},
	"albumin":   {domain.CategoryLiver, "albumin"},

	// Thyroid
	"tsh": {domain.CategoryThyroid, "tsh"},
	"t3":  {domain.CategoryThyroid, "t3"},
	"t4":  {domain.CategoryThyroid, "t4"},

	// Lifestyle (numeric only)
	"diet_carbs_percent":   {domain.CategoryLifestyle, "diet_carbs_percent"},
	"diet_fats_percent":    {domain.CategoryLifestyle, "diet_fats_percent"},
	"diet_protein_percent": {domain.CategoryLifestyle, "diet_protein_percent"},
	"calorie_intake":       {domain.CategoryLifestyle, "calorie_intake"},
	"exercise_frequency":   {domain.CategoryLifestyle, "exercise_frequency"},
	"exercise_duration":    {domain.CategoryLifestyle, "exercise_duration"},
	"sleep_duration":       {domain.CategoryLifestyle, "sleep_duration"},
	"sleep_quality":        {domain.CategoryLifestyle, "sleep_quality"},
	"stress_level":         {domain.CategoryLifestyle, "stress_level"},

	// Physical
	"weight_kg": {domain.CategoryPhysical, "weight_kg"},
	"height_cm": {domain.CategoryPhysical, "height_cm"},
}

// Column resolves a CSV column name to its snapshot field.
func Column(name string) (FieldRef, bool) {
	ref, ok := columns[name]
	return ref, ok
}
