package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtwin-engine/internal/domain"
)

func hypertensiveBaseline() domain.Snapshot {
	return domain.Snapshot{
		Vitals: &domain.Vitals{
			HeartRate:              domain.Float(82),
			BloodPressureSystolic:  domain.Float(150),
			BloodPressureDiastolic: domain.Float(95),
		},
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(110),
			HbA1c:          domain.Float(6.5),
		},
		Lipids: &domain.Lipids{
			TotalCholesterol: domain.Float(210),
			LDL:              domain.Float(130),
			HDL:              domain.Float(45),
			Triglycerides:    domain.Float(180),
		},
		Lifestyle: &domain.Lifestyle{
			StressLevel: domain.Float(7),
		},
	}
}

func moderateExercise() domain.InterventionPlan {
	return domain.InterventionPlan{
		Exercise: &domain.ExercisePlan{Type: "aerobic", Intensity: "moderate"},
	}
}

func TestProjectInterventionExerciseTwelveWeeks(t *testing.T) {
	baseline := domain.Snapshot{
		Vitals: &domain.Vitals{BloodPressureSystolic: domain.Float(150)},
	}

	projected := ProjectIntervention(baseline, moderateExercise(), 12)

	require.NotNil(t, projected.Vitals.BloodPressureSystolic)
	assert.InDelta(t, 142, *projected.Vitals.BloodPressureSystolic, 0.001)
}

func TestProjectInterventionZeroDurationIdentity(t *testing.T) {
	baseline := hypertensiveBaseline()

	assert.Equal(t, baseline, ProjectIntervention(baseline, moderateExercise(), 0))
	assert.Equal(t, baseline, ProjectIntervention(baseline, moderateExercise(), -4))
}

func TestProjectInterventionSaturatesAtTwelveWeeks(t *testing.T) {
	baseline := hypertensiveBaseline()
	plan := moderateExercise()

	atTwelve := ProjectIntervention(baseline, plan, 12)
	atTwentyFour := ProjectIntervention(baseline, plan, 24)

	assert.Equal(t, atTwelve, atTwentyFour)
}

func TestProjectInterventionIdempotent(t *testing.T) {
	baseline := hypertensiveBaseline()
	plan := domain.InterventionPlan{
		Exercise:   &domain.ExercisePlan{Intensity: "vigorous"},
		Diet:       &domain.DietPlan{Type: "mediterranean"},
		Medication: &domain.MedicationPlan{Name: "statin"},
	}

	first := ProjectIntervention(baseline, plan, 8)
	second := ProjectIntervention(baseline, plan, 8)

	assert.Equal(t, first, second)
}

func TestProjectInterventionDoesNotMutateBaseline(t *testing.T) {
	baseline := hypertensiveBaseline()

	ProjectIntervention(baseline, moderateExercise(), 12)

	assert.InDelta(t, 150, *baseline.Vitals.BloodPressureSystolic, 0.001)
	assert.InDelta(t, 6.5, *baseline.Metabolic.HbA1c, 0.001)
}

func TestProjectInterventionPartialDurationTruncates(t *testing.T) {
	baseline := hypertensiveBaseline()

	projected := ProjectIntervention(baseline, moderateExercise(), 6)

	// tf = 0.5: whole-unit shifts truncate, 8*0.5 -> 4
	assert.InDelta(t, 146, *projected.Vitals.BloodPressureSystolic, 0.001)
	// 5*0.5 -> 2 off heart rate and diastolic
	assert.InDelta(t, 80, *projected.Vitals.HeartRate, 0.001)
	assert.InDelta(t, 93, *projected.Vitals.BloodPressureDiastolic, 0.001)
}

func TestProjectInterventionShiftsAccumulateAcrossGroups(t *testing.T) {
	baseline := hypertensiveBaseline()
	plan := domain.InterventionPlan{
		Exercise: &domain.ExercisePlan{Intensity: "moderate"},
		Diet:     &domain.DietPlan{Type: "low_sodium"},
	}

	projected := ProjectIntervention(baseline, plan, 12)

	// exercise -8 and low sodium -10 both land on systolic
	assert.InDelta(t, 132, *projected.Vitals.BloodPressureSystolic, 0.001)
	// exercise -5 and low sodium -6 on diastolic
	assert.InDelta(t, 84, *projected.Vitals.BloodPressureDiastolic, 0.001)
}

func TestProjectInterventionHbA1cGate(t *testing.T) {
	tests := []struct {
		name     string
		baseline float64
		weeks    int
		expected float64
	}{
		{name: "Normal HbA1c untouched", baseline: 5.6, weeks: 12, expected: 5.6},
		{name: "Gate boundary untouched", baseline: 5.7, weeks: 12, expected: 5.7},
		{name: "Elevated HbA1c lowered", baseline: 6.5, weeks: 12, expected: 5.7},
		{name: "Float shift not truncated", baseline: 7.0, weeks: 6, expected: 6.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline := domain.Snapshot{
				Metabolic: &domain.Metabolic{HbA1c: domain.Float(tt.baseline)},
			}
			plan := domain.InterventionPlan{
				Medication: &domain.MedicationPlan{Name: "metformin"},
			}

			projected := ProjectIntervention(baseline, plan, tt.weeks)

			assert.InDelta(t, tt.expected, *projected.Metabolic.HbA1c, 0.001)
		})
	}
}

func TestProjectInterventionSkipsAbsentFields(t *testing.T) {
	baseline := domain.Snapshot{
		Vitals: &domain.Vitals{BloodPressureSystolic: domain.Float(150)},
	}

	projected := ProjectIntervention(baseline, moderateExercise(), 12)

	assert.Nil(t, projected.Vitals.HeartRate)
	assert.Nil(t, projected.Lipids)
	assert.Nil(t, projected.Metabolic)
}

func TestProjectInterventionUnrecognizedTiersNoOp(t *testing.T) {
	baseline := hypertensiveBaseline()
	plan := domain.InterventionPlan{
		Exercise: &domain.ExercisePlan{Intensity: "light"},
		Diet:     &domain.DietPlan{Type: "balanced"},
		Sleep:    &domain.SleepPlan{Improvement: "minimal"},
	}

	assert.Equal(t, baseline, ProjectIntervention(baseline, plan, 12))
}

func TestProjectInterventionEmptyPlanIdentity(t *testing.T) {
	baseline := hypertensiveBaseline()

	assert.Equal(t, baseline, ProjectIntervention(baseline, domain.InterventionPlan{}, 12))
}

func TestProjectInterventionDietTypes(t *testing.T) {
	tests := []struct {
		name     string
		dietType string
		check    func(t *testing.T, projected domain.Snapshot)
	}{
		{
			name:     "Low carb moves glucose and triglycerides",
			dietType: "low_carb",
			check: func(t *testing.T, projected domain.Snapshot) {
				assert.InDelta(t, 100, *projected.Metabolic.GlucoseFasting, 0.001)
				assert.InDelta(t, 155, *projected.Lipids.Triglycerides, 0.001)
			},
		},
		{
			name:     "Mediterranean moves LDL and HDL",
			dietType: "mediterranean",
			check: func(t *testing.T, projected domain.Snapshot) {
				assert.InDelta(t, 115, *projected.Lipids.LDL, 0.001)
				assert.InDelta(t, 53, *projected.Lipids.HDL, 0.001)
			},
		},
		{
			name:     "Low sodium moves blood pressure",
			dietType: "low_sodium",
			check: func(t *testing.T, projected domain.Snapshot) {
				assert.InDelta(t, 140, *projected.Vitals.BloodPressureSystolic, 0.001)
				assert.InDelta(t, 89, *projected.Vitals.BloodPressureDiastolic, 0.001)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := domain.InterventionPlan{Diet: &domain.DietPlan{Type: tt.dietType}}
			tt.check(t, ProjectIntervention(hypertensiveBaseline(), plan, 12))
		})
	}
}

func TestProjectInterventionMedicationClasses(t *testing.T) {
	baseline := hypertensiveBaseline()

	t.Run("Statin lowers lipids", func(t *testing.T) {
		plan := domain.InterventionPlan{Medication: &domain.MedicationPlan{Name: "atorvastatin"}}
		projected := ProjectIntervention(baseline, plan, 12)

		assert.InDelta(t, 100, *projected.Lipids.LDL, 0.001)
		assert.InDelta(t, 185, *projected.Lipids.TotalCholesterol, 0.001)
	})

	t.Run("ACE inhibitor lowers blood pressure", func(t *testing.T) {
		plan := domain.InterventionPlan{Medication: &domain.MedicationPlan{Name: "ace_inhibitor"}}
		projected := ProjectIntervention(baseline, plan, 12)

		assert.InDelta(t, 135, *projected.Vitals.BloodPressureSystolic, 0.001)
		assert.InDelta(t, 87, *projected.Vitals.BloodPressureDiastolic, 0.001)
	})

	t.Run("Metformin lowers glucose markers", func(t *testing.T) {
		plan := domain.InterventionPlan{Medication: &domain.MedicationPlan{Name: "metformin"}}
		projected := ProjectIntervention(baseline, plan, 12)

		assert.InDelta(t, 90, *projected.Metabolic.GlucoseFasting, 0.001)
		assert.InDelta(t, 5.7, *projected.Metabolic.HbA1c, 0.001)
	})

	t.Run("Unrecognized medication is a no-op", func(t *testing.T) {
		plan := domain.InterventionPlan{Medication: &domain.MedicationPlan{Name: "aspirin"}}
		assert.Equal(t, baseline, ProjectIntervention(baseline, plan, 12))
	})
}

func TestProjectInterventionSleep(t *testing.T) {
	baseline := hypertensiveBaseline()
	plan := domain.InterventionPlan{Sleep: &domain.SleepPlan{Improvement: "significant"}}

	projected := ProjectIntervention(baseline, plan, 12)

	assert.InDelta(t, 145, *projected.Vitals.BloodPressureSystolic, 0.001)
	assert.InDelta(t, 5, *projected.Lifestyle.StressLevel, 0.001)
}
