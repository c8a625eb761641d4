package service

import "github.com/healthtwin-engine/internal/domain"

// Recommendations assembles the rule-based guidance for an intervention
// plan: one block per plan section that is present, then the general block.
func Recommendations(plan domain.InterventionPlan) []string {
	var recommendations []string

	if plan.Exercise != nil {
		recommendations = append(recommendations,
			"Continue with the prescribed exercise program for optimal results",
			"Monitor heart rate and blood pressure during exercise",
			"Gradually increase intensity as fitness improves",
		)
	}

	if plan.Diet != nil {
		recommendations = append(recommendations,
			"Maintain the dietary changes consistently",
			"Monitor portion sizes and meal timing",
			"Stay hydrated throughout the day",
		)
	}

	if plan.Medication != nil {
		recommendations = append(recommendations,
			"Take medications as prescribed",
			"Monitor for any side effects",
			"Regular follow-up with healthcare provider",
		)
	}

	if plan.Lifestyle != nil {
		recommendations = append(recommendations,
			"Maintain consistent sleep schedule",
			"Practice stress management techniques regularly",
			"Stay socially connected and engaged",
		)
	}

	recommendations = append(recommendations,
		"Schedule regular health check-ups",
		"Track progress and maintain a health journal",
		"Celebrate improvements and stay motivated",
	)

	return recommendations
}
