package narrative

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/healthtwin-engine/internal/domain"
)

// RecommendationsPrompt asks for personalized recommendations from a
// freshly initialized baseline.
func RecommendationsPrompt(profile domain.PatientProfile, baseline domain.Snapshot) string {
	return fmt.Sprintf(`Based on the following health parameters, provide personalized health recommendations:

%s
Health Parameters:
%s

Please provide:
1. Overall health assessment
2. Specific risk factors to address
3. Personalized lifestyle recommendations
4. Suggested monitoring frequency
5. When to consult a healthcare provider

Focus on actionable, evidence-based advice.`, profileBlock(profile), jsonBlock(baseline))
}

// SimulationPrompt asks for an assessment of a projected intervention.
func SimulationPrompt(plan domain.InterventionPlan, weeks int, baseline, projected domain.Snapshot, improvements []string) string {
	improved := "None"
	if len(improvements) > 0 {
		improved = strings.Join(improvements, ", ")
	}

	return fmt.Sprintf(`Analyze the following simulation results and provide comprehensive recommendations:

Simulation Duration: %d weeks
Intervention:
%s

Baseline Health:
%s

Projected Health:
%s

Improvements: %s

Please provide:
1. Simulation Analysis: assessment of the intervention's effectiveness
2. Risk Assessment: potential risks or side effects to monitor
3. Optimization Suggestions: how to improve the intervention
4. Monitoring Plan: what parameters to track and how often
5. Long-term Considerations: sustainability and maintenance strategies

Focus on evidence-based insights and actionable next steps.`, weeks, jsonBlock(plan), jsonBlock(baseline), jsonBlock(projected), improved)
}

// ProgressionPrompt asks for an assessment of measured weekly progression.
func ProgressionPrompt(weeks int, baseline, final domain.Snapshot) string {
	return fmt.Sprintf(`Analyze the following health progression over %d weeks of recorded measurements:

Baseline Health:
%s

Final Health:
%s

Please provide:
1. Progression Analysis: how health parameters changed over time
2. Trend Identification: positive and negative trends
3. Effectiveness Assessment: how well the regimen worked
4. Risk Assessment: concerning patterns or values
5. Maintenance Recommendations: how to sustain improvements

Focus on evidence-based insights and actionable recommendations.`, weeks, jsonBlock(baseline), jsonBlock(final))
}

// MedicationPrompt asks for a population-data analysis of a medication's
// impact on the patient.
func MedicationPrompt(medication string, profile domain.PatientProfile, baseline domain.Snapshot) string {
	return fmt.Sprintf(`Analyze the potential impact of %s on this patient's health parameters using population clinical data:

Patient Profile:
%s
Current Health Parameters:
%s

Please provide:
1. Mechanism of Action: how %s works in the body
2. Expected Parameter Changes: which lab values are likely to change, by how much, and on what timeline
3. Population-Based Predictions: expected response rates and typical effect magnitude in similar patients
4. Patient-Specific Considerations: how age, gender, and existing conditions affect response
5. Monitoring Requirements: which parameters to watch and how often
6. Side Effects and Precautions: common and serious adverse effects

Provide specific numerical predictions where possible.`, medication, profileBlock(profile), jsonBlock(baseline), medication)
}

func profileBlock(profile domain.PatientProfile) string {
	age := "unknown"
	if profile.Age != nil {
		age = strconv.Itoa(*profile.Age)
	}
	gender := profile.Gender
	if gender == "" {
		gender = "unknown"
	}
	conditions := "None"
	if len(profile.Conditions) > 0 {
		conditions = strings.Join(profile.Conditions, ", ")
	}
	return fmt.Sprintf("Age: %s, Gender: %s\nMedical Conditions: %s\n", age, gender, conditions)
}

func jsonBlock(v any) string {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(payload)
}
