package service

import (
	"math"
	"strings"

	"github.com/healthtwin-engine/internal/domain"
)

// hbA1cNormalMax gates the HbA1c effect rules: interventions only move an
// HbA1c that is elevated to begin with.
const hbA1cNormalMax = 5.7

// effectRule shifts a single snapshot field. coef scales with the time
// factor and cap bounds the total effect. Float rules skip the integer
// truncation applied to whole-unit markers and fire only when the original
// baseline value exceeds gateAbove.
type effectRule struct {
	category  string
	field     string
	coef      float64
	cap       float64
	direction float64
	float     bool
	gateAbove float64
}

func lower(category, field string, coef, cap float64) effectRule {
	return effectRule{category: category, field: field, coef: coef, cap: cap, direction: -1}
}

func raise(category, field string, coef, cap float64) effectRule {
	return effectRule{category: category, field: field, coef: coef, cap: cap, direction: +1}
}

func lowerElevatedHbA1c(coef, cap float64) effectRule {
	return effectRule{
		category:  domain.CategoryMetabolic,
		field:     "hba1c",
		coef:      coef,
		cap:       cap,
		direction: -1,
		float:     true,
		gateAbove: hbA1cNormalMax,
	}
}

// ProjectIntervention projects where an intervention plan moves the baseline
// after the given number of weeks. Effects ramp linearly with time and
// saturate at 12 weeks. Every rule computes its shift from the original
// baseline value; shifts from different groups accumulate additively when
// they touch the same field and never compound. Fields absent from the
// baseline are left untouched. Non-positive weeks yield an identity
// projection.
func ProjectIntervention(baseline domain.Snapshot, plan domain.InterventionPlan, weeks int) domain.Snapshot {
	projected := baseline.Clone()

	tf := timeFactor(weeks)
	if tf <= 0 {
		return projected
	}

	groups := [][]effectRule{
		exerciseRules(plan),
		dietRules(plan),
		medicationRules(plan),
		sleepRules(plan),
	}
	for _, rules := range groups {
		for _, rule := range rules {
			applyShift(baseline, &projected, rule, tf)
		}
	}

	return projected
}

// timeFactor maps a duration in weeks onto [0, 1], saturating at 12 weeks.
func timeFactor(weeks int) float64 {
	if weeks <= 0 {
		return 0
	}
	return math.Min(float64(weeks)/12.0, 1.0)
}

func applyShift(baseline domain.Snapshot, projected *domain.Snapshot, rule effectRule, tf float64) {
	original, ok := baseline.Field(rule.category, rule.field)
	if !ok {
		return
	}
	if rule.gateAbove > 0 && original <= rule.gateAbove {
		return
	}

	scaled := rule.coef * tf
	if !rule.float {
		scaled = math.Trunc(scaled)
	}
	shift := math.Min(scaled, rule.cap)

	current, _ := projected.Field(rule.category, rule.field)
	projected.SetField(rule.category, rule.field, current+rule.direction*shift)
}

func exerciseRules(plan domain.InterventionPlan) []effectRule {
	if plan.Exercise == nil {
		return nil
	}
	intensity := plan.Exercise.EffectiveIntensity()
	if intensity != "moderate" && intensity != "vigorous" {
		return nil
	}
	return []effectRule{
		lower(domain.CategoryVitals, "heart_rate", 5, 15),
		lower(domain.CategoryVitals, "blood_pressure_systolic", 8, 20),
		lower(domain.CategoryVitals, "blood_pressure_diastolic", 5, 12),
		raise(domain.CategoryLipids, "hdl", 5, 15),
		lower(domain.CategoryLipids, "triglycerides", 20, 50),
		lower(domain.CategoryMetabolic, "glucose_fasting", 8, 20),
		lowerElevatedHbA1c(0.3, 0.8),
	}
}

func dietRules(plan domain.InterventionPlan) []effectRule {
	if plan.Diet == nil {
		return nil
	}
	switch plan.Diet.EffectiveType() {
	case "low_carb":
		return []effectRule{
			lower(domain.CategoryMetabolic, "glucose_fasting", 10, 25),
			lower(domain.CategoryLipids, "triglycerides", 25, 60),
		}
	case "mediterranean":
		return []effectRule{
			lower(domain.CategoryLipids, "ldl", 15, 35),
			raise(domain.CategoryLipids, "hdl", 8, 20),
		}
	case "low_sodium":
		return []effectRule{
			lower(domain.CategoryVitals, "blood_pressure_systolic", 10, 25),
			lower(domain.CategoryVitals, "blood_pressure_diastolic", 6, 15),
		}
	}
	return nil
}

func medicationRules(plan domain.InterventionPlan) []effectRule {
	if plan.Medication == nil {
		return nil
	}
	name := strings.ToLower(plan.Medication.Name)
	switch {
	case strings.Contains(name, "statin"):
		return []effectRule{
			lower(domain.CategoryLipids, "ldl", 30, 70),
			lower(domain.CategoryLipids, "total_cholesterol", 25, 60),
		}
	case strings.Contains(name, "ace_inhibitor"), strings.Contains(name, "arb"):
		return []effectRule{
			lower(domain.CategoryVitals, "blood_pressure_systolic", 15, 35),
			lower(domain.CategoryVitals, "blood_pressure_diastolic", 8, 20),
		}
	case strings.Contains(name, "metformin"):
		return []effectRule{
			lower(domain.CategoryMetabolic, "glucose_fasting", 20, 45),
			lowerElevatedHbA1c(0.8, 1.5),
		}
	}
	return nil
}

func sleepRules(plan domain.InterventionPlan) []effectRule {
	if plan.Sleep == nil {
		return nil
	}
	improvement := plan.Sleep.EffectiveImprovement()
	if improvement != "moderate" && improvement != "significant" {
		return nil
	}
	return []effectRule{
		lower(domain.CategoryVitals, "blood_pressure_systolic", 5, 12),
		lower(domain.CategoryLifestyle, "stress_level", 2, 5),
	}
}
