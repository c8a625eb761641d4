package service

import (
	"math"
	"math/rand"

	"github.com/healthtwin-engine/internal/domain"
)

// GenerateBaseline draws a complete physiological baseline for a new twin.
// Randomness is injected so callers control seeding; the same rng and
// profile always produce the same snapshot. Gender "F" selects the female
// draw intervals. Condition overrides are applied after the healthy draw in
// the order the conditions are listed; unknown condition tags are ignored.
// The physical category is left nil and filled at twin initialization from
// the profile.
func GenerateBaseline(rng *rand.Rand, profile domain.PatientProfile) domain.Snapshot {
	female := profile.Gender == "F"

	snap := domain.Snapshot{
		Vitals: &domain.Vitals{
			HeartRate:              drawInt(rng, 60, 100),
			BloodPressureSystolic:  drawInt(rng, 110, 140),
			BloodPressureDiastolic: drawInt(rng, 70, 90),
			RespiratoryRate:        drawInt(rng, 12, 20),
			BodyTemperature:        drawFloat(rng, 36.5, 37.5, 1),
			OxygenSaturation:       drawInt(rng, 95, 99),
		},
		BloodCount: &domain.BloodCount{
			Hemoglobin:      drawByGender(rng, female, 12, 16, 14, 18, 1),
			WhiteBloodCells: drawFloat(rng, 4, 11, 1),
			Platelets:       drawInt(rng, 150, 450),
			RedBloodCells:   drawByGender(rng, female, 4.0, 5.5, 4.5, 6.0, 2),
		},
		Metabolic: &domain.Metabolic{
			GlucoseFasting: drawInt(rng, 70, 100),
			GlucoseRandom:  drawInt(rng, 70, 140),
			HbA1c:          drawFloat(rng, 4.0, 5.7, 1),
			Creatinine:     drawFloat(rng, 0.6, 1.2, 2),
			BUN:            drawInt(rng, 7, 20),
			Sodium:         drawInt(rng, 135, 145),
			Potassium:      drawFloat(rng, 3.5, 5.0, 1),
			Chloride:       drawInt(rng, 96, 106),
			Bicarbonate:    drawInt(rng, 22, 28),
		},
		Lipids: &domain.Lipids{
			TotalCholesterol: drawInt(rng, 150, 200),
			LDL:              drawInt(rng, 70, 130),
			HDL:              drawHDL(rng, female),
			Triglycerides:    drawInt(rng, 50, 150),
		},
		Liver: &domain.Liver{
			ALT:       drawInt(rng, 7, 55),
			AST:       drawInt(rng, 8, 48),
			Bilirubin: drawFloat(rng, 0.3, 1.2, 1),
			Albumin:   drawFloat(rng, 3.4, 5.4, 1),
		},
		Thyroid: &domain.Thyroid{
			TSH: drawFloat(rng, 0.4, 4.0, 2),
			T3:  drawFloat(rng, 2.3, 4.2, 1),
			T4:  drawFloat(rng, 0.8, 1.8, 1),
		},
		Lifestyle: &domain.Lifestyle{
			DietCarbsPercent:   drawInt(rng, 40, 60),
			DietFatsPercent:    drawInt(rng, 20, 35),
			DietProteinPercent: drawInt(rng, 15, 25),
			CalorieIntake:      drawInt(rng, 1800, 2500),
			ExerciseFrequency:  drawInt(rng, 0, 7),
			ExerciseDuration:   drawInt(rng, 0, 60),
			SleepDuration:      drawFloat(rng, 6.0, 9.0, 1),
			SleepQuality:       drawInt(rng, 1, 10),
			StressLevel:        drawInt(rng, 1, 10),
			SmokingStatus:      drawSmoking(rng),
			AlcoholConsumption: drawAlcohol(rng),
		},
	}

	for _, condition := range profile.Conditions {
		applyCondition(rng, &snap, condition)
	}

	return snap
}

// applyCondition re-draws the markers a diagnosed condition shifts out of
// the healthy range.
func applyCondition(rng *rand.Rand, snap *domain.Snapshot, condition string) {
	switch condition {
	case domain.ConditionDiabetes:
		snap.Metabolic.GlucoseFasting = drawInt(rng, 126, 200)
		snap.Metabolic.GlucoseRandom = drawInt(rng, 200, 300)
		snap.Metabolic.HbA1c = drawFloat(rng, 6.5, 9.0, 1)
	case domain.ConditionHypertension:
		snap.Vitals.BloodPressureSystolic = drawInt(rng, 140, 180)
		snap.Vitals.BloodPressureDiastolic = drawInt(rng, 90, 110)
	case domain.ConditionCardiovascular:
		snap.Vitals.HeartRate = drawInt(rng, 70, 110)
		snap.Lipids.LDL = drawInt(rng, 100, 160)
	case domain.ConditionKidneyDisease:
		snap.Metabolic.Creatinine = drawFloat(rng, 1.3, 3.0, 2)
		snap.Metabolic.BUN = drawInt(rng, 20, 40)
	}
}

// drawInt draws a uniform integer on [lo, hi] inclusive.
func drawInt(rng *rand.Rand, lo, hi int) *float64 {
	return domain.Float(float64(lo + rng.Intn(hi-lo+1)))
}

// drawFloat draws a uniform float on [lo, hi) rounded to the given decimals.
func drawFloat(rng *rand.Rand, lo, hi float64, decimals int) *float64 {
	pow := math.Pow(10, float64(decimals))
	v := lo + rng.Float64()*(hi-lo)
	return domain.Float(math.Round(v*pow) / pow)
}

func drawByGender(rng *rand.Rand, female bool, fLo, fHi, mLo, mHi float64, decimals int) *float64 {
	if female {
		return drawFloat(rng, fLo, fHi, decimals)
	}
	return drawFloat(rng, mLo, mHi, decimals)
}

func drawHDL(rng *rand.Rand, female bool) *float64 {
	if female {
		return drawInt(rng, 50, 70)
	}
	return drawInt(rng, 40, 60)
}

func drawSmoking(rng *rand.Rand) domain.SmokingStatus {
	options := []domain.SmokingStatus{domain.SmokingNever, domain.SmokingFormer, domain.SmokingCurrent}
	return options[rng.Intn(len(options))]
}

func drawAlcohol(rng *rand.Rand) domain.AlcoholUse {
	options := []domain.AlcoholUse{domain.AlcoholNone, domain.AlcoholModerate, domain.AlcoholHeavy}
	return options[rng.Intn(len(options))]
}
