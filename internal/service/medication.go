package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/healthtwin-engine/internal/domain"
)

// medicationClass couples the name patterns of one drug class with the
// predictor that projects its pharmacological effects.
type medicationClass struct {
	patterns []string
	predict  func(baseline domain.Snapshot, name string, out map[string]domain.MedicationPrediction)
}

// medicationClasses are checked in order; the first class whose pattern
// appears in the lower-cased medication name wins.
var medicationClasses = []medicationClass{
	{
		patterns: []string{"atorvastatin", "simvastatin", "rosuvastatin", "pravastatin", "lovastatin", "statin"},
		predict:  predictStatin,
	},
	{
		patterns: []string{"lisinopril", "enalapril", "captopril", "ramipril", "benazepril", "pril"},
		predict:  predictACEInhibitor,
	},
	{
		patterns: []string{"metformin", "glucophage"},
		predict:  predictMetformin,
	},
	{
		patterns: []string{"metoprolol", "atenolol", "propranolol", "carvedilol", "olol"},
		predict:  predictBetaBlocker,
	},
	{
		patterns: []string{"levothyroxine", "synthroid", "armour"},
		predict:  predictThyroid,
	},
	{
		patterns: []string{"hydrochlorothiazide", "furosemide", "spironolactone", "thiazide"},
		predict:  predictDiuretic,
	},
}

// PredictMedicationEffects projects how a named medication moves the
// affected parameters. The bool is false when the name matches no known
// drug class. A rule only fires when the baseline carries its parameter.
func PredictMedicationEffects(baseline domain.Snapshot, medicationName string) (map[string]domain.MedicationPrediction, bool) {
	name := strings.ToLower(medicationName)
	for _, class := range medicationClasses {
		if !matchesAny(name, class.patterns) {
			continue
		}
		out := make(map[string]domain.MedicationPrediction)
		class.predict(baseline, name, out)
		return out, true
	}
	return nil, false
}

func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}

func predictStatin(baseline domain.Snapshot, _ string, out map[string]domain.MedicationPrediction) {
	if v, ok := baseline.Field(domain.CategoryLipids, "total_cholesterol"); ok {
		out["total_cholesterol"] = prediction(v, math.Max(v*0.7, v-60), "mg/dL", "negative", 85)
	}
	if v, ok := baseline.Field(domain.CategoryLipids, "ldl"); ok {
		out["ldl_cholesterol"] = prediction(v, math.Max(v*0.6, v-50), "mg/dL", "negative", 90)
	}
	// Statins can nudge liver enzymes up.
	if v, ok := baseline.Field(domain.CategoryLiver, "alt"); ok {
		out["alt"] = prediction(v, math.Min(v*1.2, v+10), "U/L", "positive", 70)
	}
}

func predictACEInhibitor(baseline domain.Snapshot, _ string, out map[string]domain.MedicationPrediction) {
	if v, ok := baseline.Field(domain.CategoryVitals, "blood_pressure_systolic"); ok {
		out["blood_pressure_systolic"] = prediction(v, math.Max(v-15, 110), "mmHg", "negative", 85)
	}
	if v, ok := baseline.Field(domain.CategoryVitals, "blood_pressure_diastolic"); ok {
		out["blood_pressure_diastolic"] = prediction(v, math.Max(v-10, 70), "mmHg", "negative", 85)
	}
	// Potassium retention is a known side effect.
	if v, ok := baseline.Field(domain.CategoryMetabolic, "potassium"); ok {
		out["potassium"] = prediction(v, math.Min(v+0.3, 5.0), "mEq/L", "positive", 75)
	}
}

func predictMetformin(baseline domain.Snapshot, _ string, out map[string]domain.MedicationPrediction) {
	if v, ok := baseline.Field(domain.CategoryMetabolic, "glucose_fasting"); ok {
		out["glucose_fasting"] = prediction(v, math.Max(v*0.8, v-30), "mg/dL", "negative", 90)
	}
	if v, ok := baseline.Field(domain.CategoryMetabolic, "hba1c"); ok {
		out["hba1c"] = prediction(v, math.Max(v-0.8, 5.0), "%", "negative", 85)
	}
}

func predictBetaBlocker(baseline domain.Snapshot, _ string, out map[string]domain.MedicationPrediction) {
	if v, ok := baseline.Field(domain.CategoryVitals, "heart_rate"); ok {
		out["heart_rate"] = prediction(v, math.Max(v-15, 55), "BPM", "negative", 90)
	}
	if v, ok := baseline.Field(domain.CategoryVitals, "blood_pressure_systolic"); ok {
		out["blood_pressure_systolic"] = prediction(v, math.Max(v-12, 110), "mmHg", "negative", 80)
	}
}

func predictThyroid(baseline domain.Snapshot, _ string, out map[string]domain.MedicationPrediction) {
	if v, ok := baseline.Field(domain.CategoryThyroid, "tsh"); ok {
		// Replacement therapy titrates TSH toward mid-range.
		out["tsh"] = prediction(v, 2.5, "μIU/mL", "normalize", 85)
	}
}

func predictDiuretic(baseline domain.Snapshot, name string, out map[string]domain.MedicationPrediction) {
	if v, ok := baseline.Field(domain.CategoryVitals, "blood_pressure_systolic"); ok {
		out["blood_pressure_systolic"] = prediction(v, math.Max(v-10, 110), "mmHg", "negative", 80)
	}
	if v, ok := baseline.Field(domain.CategoryMetabolic, "potassium"); ok {
		if strings.Contains(name, "spironolactone") {
			out["potassium"] = prediction(v, math.Min(v+0.4, 5.0), "mEq/L", "positive", 75)
		} else {
			out["potassium"] = prediction(v, math.Max(v-0.3, 3.5), "mEq/L", "negative", 75)
		}
	}
}

func prediction(before, after float64, unit, direction string, confidence int) domain.MedicationPrediction {
	return domain.MedicationPrediction{
		Before:           before,
		After:            round1(after),
		Unit:             unit,
		Direction:        direction,
		PercentageChange: percentageChange(before, after, direction),
		Confidence:       confidence,
	}
}

// percentageChange renders the movement as a signed percentage of the
// before value, one decimal place. The sign follows the direction; a
// normalizing rule keeps the natural sign.
func percentageChange(before, after float64, direction string) string {
	if before == 0 {
		return "0.0%"
	}
	pct := (after - before) / before * 100
	switch direction {
	case "negative":
		return fmt.Sprintf("-%.1f%%", math.Abs(pct))
	case "positive":
		return fmt.Sprintf("+%.1f%%", math.Abs(pct))
	default:
		return fmt.Sprintf("%.1f%%", pct)
	}
}
