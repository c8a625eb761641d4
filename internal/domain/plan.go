package domain

// ExercisePlan describes the exercise section of an intervention.
// Intensity gates the effect rules; duration and frequency ride along for
// narration and scenario display but do not change effect magnitude.
type ExercisePlan struct {
	Type             string `json:"type,omitempty"`
	Intensity        string `json:"intensity,omitempty"`
	DurationMinutes  *int   `json:"duration_minutes,omitempty"`
	FrequencyPerWeek *int   `json:"frequency_per_week,omitempty"`
}

// EffectiveIntensity returns the plan intensity, defaulting to "moderate".
func (e *ExercisePlan) EffectiveIntensity() string {
	if e == nil || e.Intensity == "" {
		return "moderate"
	}
	return e.Intensity
}

// EffectiveDuration returns the session duration in minutes, defaulting to 30.
func (e *ExercisePlan) EffectiveDuration() int {
	if e == nil || e.DurationMinutes == nil {
		return 30
	}
	return *e.DurationMinutes
}

// EffectiveFrequency returns the weekly frequency, defaulting to 5.
func (e *ExercisePlan) EffectiveFrequency() int {
	if e == nil || e.FrequencyPerWeek == nil {
		return 5
	}
	return *e.FrequencyPerWeek
}

// DietPlan describes the diet section of an intervention.
type DietPlan struct {
	Type string `json:"type,omitempty"`
}

// EffectiveType returns the diet type, defaulting to "balanced".
func (d *DietPlan) EffectiveType() string {
	if d == nil || d.Type == "" {
		return "balanced"
	}
	return d.Type
}

// MedicationPlan describes the medication section of an intervention.
// Name is matched by substring against the drug-class tables; dose and
// frequency are descriptive.
type MedicationPlan struct {
	Name      string `json:"name,omitempty"`
	Dose      string `json:"dose,omitempty"`
	Frequency string `json:"frequency,omitempty"`
}

// SleepPlan describes the sleep section of an intervention.
type SleepPlan struct {
	Improvement string `json:"improvement,omitempty"`
}

// EffectiveImprovement returns the improvement tier, defaulting to "moderate".
func (s *SleepPlan) EffectiveImprovement() string {
	if s == nil || s.Improvement == "" {
		return "moderate"
	}
	return s.Improvement
}

// LifestylePlan describes the lifestyle section of an intervention.
// It is consumed by the recommendations generator and scenario display,
// not by the effect model.
type LifestylePlan struct {
	StressManagement  string `json:"stress_management,omitempty"`
	SleepOptimization string `json:"sleep_optimization,omitempty"`
	SocialConnection  string `json:"social_connection,omitempty"`
}

// InterventionPlan is the full intervention an operator asks the twin to
// project. Every section is optional; an absent section contributes no
// effect and no recommendations.
type InterventionPlan struct {
	Exercise    *ExercisePlan     `json:"exercise,omitempty"`
	Diet        *DietPlan         `json:"diet,omitempty"`
	Medication  *MedicationPlan   `json:"medication,omitempty"`
	Sleep       *SleepPlan        `json:"sleep,omitempty"`
	Lifestyle   *LifestylePlan    `json:"lifestyle,omitempty"`
	Supplements map[string]string `json:"supplements,omitempty"`
}

// IsEmpty reports whether the plan has no sections at all.
func (p InterventionPlan) IsEmpty() bool {
	return p.Exercise == nil && p.Diet == nil && p.Medication == nil &&
		p.Sleep == nil && p.Lifestyle == nil && len(p.Supplements) == 0
}
