package service

import "math"

// BMI computes body mass index (kg/m²) rounded to 1 decimal place.
// Non-positive height returns 0.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return round1(weightKg / (heightM * heightM))
}

// EGFR estimates the glomerular filtration rate with the MDRD equation,
// rounded to 1 decimal place. Gender "F" applies the female coefficient.
// Non-positive creatinine or age returns 0.
func EGFR(creatinine float64, age int, gender string) float64 {
	if creatinine <= 0 || age <= 0 {
		return 0
	}
	egfr := 175 * math.Pow(creatinine, -1.154) * math.Pow(float64(age), -0.203)
	if gender == "F" {
		egfr *= 0.742
	}
	return round1(egfr)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
