package service

import "github.com/healthtwin-engine/internal/domain"

// PredefinedScenarios returns the built-in simulation scenarios. IDs are
// stable; custom scenarios created through the repository get generated
// IDs and IsCustom true.
func PredefinedScenarios() []domain.SimulationScenario {
	return []domain.SimulationScenario{
		{
			ID:          "1",
			Name:        "Cardiovascular Health Optimization",
			Description: "Comprehensive cardiovascular improvement program",
			Treatment: domain.InterventionPlan{
				Exercise: &domain.ExercisePlan{
					Type:             "aerobic",
					Intensity:        "moderate",
					DurationMinutes:  domain.Int(45),
					FrequencyPerWeek: domain.Int(5),
				},
				Diet: &domain.DietPlan{Type: "mediterranean"},
				Lifestyle: &domain.LifestylePlan{
					StressManagement:  "daily_meditation",
					SleepOptimization: "consistent_schedule",
				},
			},
			Duration: "12 weeks",
			ExpectedOutcomes: []string{
				"Blood pressure reduction: 8-15 mmHg systolic",
				"Resting heart rate decrease: 5-10 BPM",
				"HDL cholesterol increase: 5-10 mg/dL",
				"Triglycerides reduction: 20-40 mg/dL",
				"Improved cardiovascular fitness",
			},
			RiskLevel: domain.RiskLow,
		},
		{
			ID:          "2",
			Name:        "Metabolic Syndrome Management",
			Description: "Comprehensive approach to metabolic health",
			Treatment: domain.InterventionPlan{
				Diet: &domain.DietPlan{Type: "low_carb"},
				Exercise: &domain.ExercisePlan{
					Type:             "strength_training",
					Intensity:        "moderate",
					DurationMinutes:  domain.Int(30),
					FrequencyPerWeek: domain.Int(4),
				},
				Medication: &domain.MedicationPlan{
					Name:      "metformin",
					Dose:      "standard",
					Frequency: "twice_daily",
				},
			},
			Duration: "16 weeks",
			ExpectedOutcomes: []string{
				"Fasting glucose reduction: 15-30 mg/dL",
				"HbA1c improvement: 0.5-1.2%",
				"Weight loss: 5-10 kg",
				"Triglycerides reduction: 30-60 mg/dL",
				"Improved insulin sensitivity",
			},
			RiskLevel: domain.RiskMedium,
		},
		{
			ID:          "3",
			Name:        "Anti-Aging & Longevity Protocol",
			Description: "Comprehensive wellness optimization program",
			Treatment: domain.InterventionPlan{
				Diet: &domain.DietPlan{Type: "calorie_restriction"},
				Exercise: &domain.ExercisePlan{
					Type:             "mixed",
					Intensity:        "varied",
					DurationMinutes:  domain.Int(60),
					FrequencyPerWeek: domain.Int(6),
				},
				Lifestyle: &domain.LifestylePlan{
					StressManagement:  "comprehensive",
					SleepOptimization: "optimal_duration",
					SocialConnection:  "enhanced",
				},
				Supplements: map[string]string{
					"vitamin_d":   "2000_IU",
					"omega_3":     "2000_mg",
					"resveratrol": "500_mg",
				},
			},
			Duration: "24 weeks",
			ExpectedOutcomes: []string{
				"Improved metabolic markers",
				"Enhanced cognitive function",
				"Better sleep quality",
				"Increased energy levels",
				"Reduced inflammation markers",
				"Improved longevity biomarkers",
			},
			RiskLevel: domain.RiskLow,
		},
	}
}
