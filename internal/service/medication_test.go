package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtwin-engine/internal/domain"
)

func medicationBaseline() domain.Snapshot {
	return domain.Snapshot{
		Vitals: &domain.Vitals{
			HeartRate:              domain.Float(88),
			BloodPressureSystolic:  domain.Float(150),
			BloodPressureDiastolic: domain.Float(95),
		},
		Metabolic: &domain.Metabolic{
			GlucoseFasting: domain.Float(160),
			HbA1c:          domain.Float(8.0),
			Potassium:      domain.Float(4.0),
		},
		Lipids: &domain.Lipids{
			TotalCholesterol: domain.Float(220),
			LDL:              domain.Float(150),
		},
		Liver:   &domain.Liver{ALT: domain.Float(30)},
		Thyroid: &domain.Thyroid{TSH: domain.Float(8.0)},
	}
}

func TestPredictMedicationEffectsStatin(t *testing.T) {
	effects, ok := PredictMedicationEffects(medicationBaseline(), "Atorvastatin 20mg")
	require.True(t, ok)
	require.Len(t, effects, 3)

	total := effects["total_cholesterol"]
	assert.InDelta(t, 220, total.Before, 0.001)
	assert.InDelta(t, 160, total.After, 0.001)
	assert.Equal(t, "mg/dL", total.Unit)
	assert.Equal(t, "negative", total.Direction)
	assert.Equal(t, "-27.3%", total.PercentageChange)
	assert.Equal(t, 85, total.Confidence)

	ldl := effects["ldl_cholesterol"]
	assert.InDelta(t, 100, ldl.After, 0.001)
	assert.Equal(t, "-33.3%", ldl.PercentageChange)
	assert.Equal(t, 90, ldl.Confidence)

	alt := effects["alt"]
	assert.InDelta(t, 36, alt.After, 0.001)
	assert.Equal(t, "positive", alt.Direction)
	assert.Equal(t, "+20.0%", alt.PercentageChange)
	assert.Equal(t, 70, alt.Confidence)
}

func TestPredictMedicationEffectsACEInhibitor(t *testing.T) {
	effects, ok := PredictMedicationEffects(medicationBaseline(), "lisinopril")
	require.True(t, ok)
	require.Len(t, effects, 3)

	assert.InDelta(t, 135, effects["blood_pressure_systolic"].After, 0.001)
	assert.Equal(t, "-10.0%", effects["blood_pressure_systolic"].PercentageChange)
	assert.InDelta(t, 85, effects["blood_pressure_diastolic"].After, 0.001)
	assert.Equal(t, "-10.5%", effects["blood_pressure_diastolic"].PercentageChange)

	potassium := effects["potassium"]
	assert.InDelta(t, 4.3, potassium.After, 0.001)
	assert.Equal(t, "positive", potassium.Direction)
	assert.Equal(t, "+7.5%", potassium.PercentageChange)
}

func TestPredictMedicationEffectsMetformin(t *testing.T) {
	effects, ok := PredictMedicationEffects(medicationBaseline(), "Metformin 500mg")
	require.True(t, ok)
	require.Len(t, effects, 2)

	glucose := effects["glucose_fasting"]
	assert.InDelta(t, 130, glucose.After, 0.001, "the v-30 floor beats the fractional cut at this glucose")
	assert.Equal(t, "-18.8%", glucose.PercentageChange)
	assert.Equal(t, 90, glucose.Confidence)

	hba1c := effects["hba1c"]
	assert.InDelta(t, 7.2, hba1c.After, 0.001)
	assert.Equal(t, "%", hba1c.Unit)
	assert.Equal(t, "-10.0%", hba1c.PercentageChange)
}

func TestPredictMedicationEffectsMetforminFloor(t *testing.T) {
	snap := domain.Snapshot{
		Metabolic: &domain.Metabolic{HbA1c: domain.Float(5.5)},
	}

	effects, ok := PredictMedicationEffects(snap, "metformin")
	require.True(t, ok)

	assert.InDelta(t, 5.0, effects["hba1c"].After, 0.001, "HbA1c never predicted below 5.0")
}

func TestPredictMedicationEffectsBetaBlocker(t *testing.T) {
	effects, ok := PredictMedicationEffects(medicationBaseline(), "Metoprolol")
	require.True(t, ok)
	require.Len(t, effects, 2)

	hr := effects["heart_rate"]
	assert.InDelta(t, 73, hr.After, 0.001)
	assert.Equal(t, "BPM", hr.Unit)
	assert.Equal(t, "-17.0%", hr.PercentageChange)
	assert.Equal(t, 90, hr.Confidence)

	assert.InDelta(t, 138, effects["blood_pressure_systolic"].After, 0.001)
	assert.Equal(t, 80, effects["blood_pressure_systolic"].Confidence)
}

func TestPredictMedicationEffectsThyroid(t *testing.T) {
	t.Run("High TSH titrates down", func(t *testing.T) {
		effects, ok := PredictMedicationEffects(medicationBaseline(), "Levothyroxine 50mcg")
		require.True(t, ok)
		require.Len(t, effects, 1)

		tsh := effects["tsh"]
		assert.InDelta(t, 2.5, tsh.After, 0.001)
		assert.Equal(t, "normalize", tsh.Direction)
		assert.Equal(t, "-68.8%", tsh.PercentageChange)
	})

	t.Run("Low TSH titrates up with natural sign", func(t *testing.T) {
		snap := domain.Snapshot{Thyroid: &domain.Thyroid{TSH: domain.Float(1.0)}}

		effects, ok := PredictMedicationEffects(snap, "synthroid")
		require.True(t, ok)

		assert.Equal(t, "150.0%", effects["tsh"].PercentageChange)
	})
}

func TestPredictMedicationEffectsDiuretics(t *testing.T) {
	t.Run("Thiazide wastes potassium", func(t *testing.T) {
		effects, ok := PredictMedicationEffects(medicationBaseline(), "Hydrochlorothiazide")
		require.True(t, ok)

		assert.InDelta(t, 140, effects["blood_pressure_systolic"].After, 0.001)
		assert.Equal(t, "-6.7%", effects["blood_pressure_systolic"].PercentageChange)

		potassium := effects["potassium"]
		assert.InDelta(t, 3.7, potassium.After, 0.001)
		assert.Equal(t, "negative", potassium.Direction)
		assert.Equal(t, "-7.5%", potassium.PercentageChange)
	})

	t.Run("Spironolactone spares potassium", func(t *testing.T) {
		effects, ok := PredictMedicationEffects(medicationBaseline(), "Spironolactone 25mg")
		require.True(t, ok)

		potassium := effects["potassium"]
		assert.InDelta(t, 4.4, potassium.After, 0.001)
		assert.Equal(t, "positive", potassium.Direction)
		assert.Equal(t, "+10.0%", potassium.PercentageChange)
	})
}

func TestPredictMedicationEffectsUnknown(t *testing.T) {
	effects, ok := PredictMedicationEffects(medicationBaseline(), "aspirin")
	assert.False(t, ok)
	assert.Nil(t, effects)
}

func TestPredictMedicationEffectsMatchedClassEmptyBaseline(t *testing.T) {
	effects, ok := PredictMedicationEffects(domain.Snapshot{}, "atorvastatin")
	assert.True(t, ok, "class recognition does not depend on baseline data")
	assert.Empty(t, effects)
}

func TestPredictMedicationEffectsClassSuffixes(t *testing.T) {
	tests := []struct {
		name       string
		medication string
		wantKey    string
	}{
		{name: "Generic -statin suffix", medication: "pitavastatin", wantKey: "ldl_cholesterol"},
		{name: "Generic -pril suffix", medication: "quinapril", wantKey: "blood_pressure_systolic"},
		{name: "Generic -olol suffix", medication: "bisoprolol", wantKey: "heart_rate"},
		{name: "Mixed case brand", medication: "GLUCOPHAGE XR", wantKey: "glucose_fasting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			effects, ok := PredictMedicationEffects(medicationBaseline(), tt.medication)
			require.True(t, ok)
			assert.Contains(t, effects, tt.wantKey)
		})
	}
}

func TestPercentageChangeZeroBaseline(t *testing.T) {
	snap := domain.Snapshot{
		Metabolic: &domain.Metabolic{Potassium: domain.Float(0)},
	}

	effects, ok := PredictMedicationEffects(snap, "spironolactone")
	require.True(t, ok)

	assert.Equal(t, "0.0%", effects["potassium"].PercentageChange)
}
