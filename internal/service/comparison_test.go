package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtwin-engine/internal/domain"
)

func TestImprovements(t *testing.T) {
	baseline := domain.Snapshot{
		Vitals: &domain.Vitals{
			BloodPressureSystolic:  domain.Float(150),
			BloodPressureDiastolic: domain.Float(95),
		},
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(110),
			HbA1c:          domain.Float(6.5),
		},
		Lipids: &domain.Lipids{
			LDL: domain.Float(130),
			HDL: domain.Float(45),
		},
	}
	projected := domain.Snapshot{
		Vitals: &domain.Vitals{
			BloodPressureSystolic:  domain.Float(142),
			BloodPressureDiastolic: domain.Float(89),
		},
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(102),
			HbA1c:          domain.Float(5.8),
		},
		Lipids: &domain.Lipids{
			LDL: domain.Float(115),
			HDL: domain.Float(50),
		},
	}

	assert.Equal(t, []string{
		"Blood pressure reduced by 8 mmHg systolic",
		"Blood pressure reduced by 6 mmHg diastolic",
		"Fasting glucose reduced by 8 mg/dL",
		"HbA1c reduced by 0.7%",
		"LDL cholesterol reduced by 15 mg/dL",
		"HDL cholesterol increased by 5 mg/dL",
	}, Improvements(baseline, projected))
}

func TestImprovementsSelfComparisonEmpty(t *testing.T) {
	snap := hypertensiveBaseline()
	assert.Empty(t, Improvements(snap, snap))
}

func TestImprovementsFractionalAmounts(t *testing.T) {
	baseline := domain.Snapshot{
		Vitals: &domain.Vitals{BloodPressureSystolic: domain.Float(150)},
	}
	projected := domain.Snapshot{
		Vitals: &domain.Vitals{BloodPressureSystolic: domain.Float(142.5)},
	}

	assert.Equal(t, []string{
		"Blood pressure reduced by 7.5 mmHg systolic",
	}, Improvements(baseline, projected))
}

func TestImprovementsDirectionality(t *testing.T) {
	baseline := domain.Snapshot{
		Metabolic: &domain.Metabolic{GlucoseFasting: domain.Float(100)},
		Lipids:    &domain.Lipids{HDL: domain.Float(55)},
	}
	worse := domain.Snapshot{
		Metabolic: &domain.Metabolic{GlucoseFasting: domain.Float(110)},
		Lipids:    &domain.Lipids{HDL: domain.Float(48)},
	}

	assert.Empty(t, Improvements(baseline, worse), "movement against the desired direction never qualifies")
}

func TestImprovementsRequireBothValues(t *testing.T) {
	baseline := domain.Snapshot{
		Lipids: &domain.Lipids{LDL: domain.Float(130)},
	}
	projected := domain.Snapshot{
		Lipids: &domain.Lipids{HDL: domain.Float(60)},
	}

	assert.Empty(t, Improvements(baseline, projected))
}

func TestChangesFromBaseline(t *testing.T) {
	baseline := domain.Snapshot{
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(100),
			HbA1c:          domain.Float(6.0),
		},
		Lifestyle: &domain.Lifestyle{StressLevel: domain.Float(7)},
	}
	current := domain.Snapshot{
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(90),
			HbA1c:          domain.Float(5.5),
		},
		Lifestyle: &domain.Lifestyle{StressLevel: domain.Float(4)},
	}

	changes := ChangesFromBaseline(baseline, current)

	require.Contains(t, changes, domain.CategoryMetabolic)
	glucose := changes[domain.CategoryMetabolic]["glucose_fasting"]
	assert.InDelta(t, 100, glucose.Baseline, 0.001)
	assert.InDelta(t, 90, glucose.Current, 0.001)
	assert.InDelta(t, -10, glucose.AbsoluteChange, 0.001)
	assert.InDelta(t, 10.0, glucose.RelativeChange, 0.001)

	hba1c := changes[domain.CategoryMetabolic]["hba1c"]
	assert.InDelta(t, -0.5, hba1c.AbsoluteChange, 0.001)
	assert.InDelta(t, 8.3, hba1c.RelativeChange, 0.001)

	assert.NotContains(t, changes, domain.CategoryLifestyle, "only lab panels are compared")
	assert.NotContains(t, changes, domain.CategoryVitals, "categories absent from both sides are omitted")
}

func TestChangesFromBaselineRelativeIsUnsigned(t *testing.T) {
	baseline := domain.Snapshot{
		Lipids: &domain.Lipids{HDL: domain.Float(40)},
	}
	current := domain.Snapshot{
		Lipids: &domain.Lipids{HDL: domain.Float(50)},
	}

	hdl := ChangesFromBaseline(baseline, current)[domain.CategoryLipids]["hdl"]
	assert.InDelta(t, 10, hdl.AbsoluteChange, 0.001)
	assert.InDelta(t, 25.0, hdl.RelativeChange, 0.001, "relative change reports magnitude")
}

func TestChangesFromBaselineZeroBaseline(t *testing.T) {
	baseline := domain.Snapshot{
		Lipids: &domain.Lipids{Triglycerides: domain.Float(0)},
	}
	current := domain.Snapshot{
		Lipids: &domain.Lipids{Triglycerides: domain.Float(80)},
	}

	trig := ChangesFromBaseline(baseline, current)[domain.CategoryLipids]["triglycerides"]
	assert.InDelta(t, 80, trig.AbsoluteChange, 0.001)
	assert.Zero(t, trig.RelativeChange)
}

func TestChangesFromBaselineSkipsOneSidedFields(t *testing.T) {
	baseline := domain.Snapshot{
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(100),
			Sodium:         domain.Float(140),
		},
	}
	current := domain.Snapshot{
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(95),
			Potassium:      domain.Float(4.2),
		},
	}

	changes := ChangesFromBaseline(baseline, current)

	metabolic := changes[domain.CategoryMetabolic]
	assert.Len(t, metabolic, 1)
	assert.Contains(t, metabolic, "glucose_fasting")
}
