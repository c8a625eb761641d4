package domain

// Condition tags recognized by the baseline generator. Unknown tags are
// carried on the profile but ignored by every engine.
const (
	ConditionDiabetes       = "diabetes"
	ConditionHypertension   = "hypertension"
	ConditionCardiovascular = "cardiovascular_disease"
	ConditionKidneyDisease  = "kidney_disease"
)

// PatientProfile describes the patient behind a twin. Every field is
// optional; engines that need a missing field degrade (eGFR is omitted
// without age, BMI without height and weight).
type PatientProfile struct {
	Age        *int     `json:"age,omitempty"`
	Gender     string   `json:"gender,omitempty"` // "M", "F", or "" when unknown
	Conditions []string `json:"medical_conditions,omitempty"`
	HeightCm   *float64 `json:"height_cm,omitempty"`
	WeightKg   *float64 `json:"weight_kg,omitempty"`
}

// HasCondition reports whether the profile carries the given condition tag.
func (p PatientProfile) HasCondition(tag string) bool {
	for _, c := range p.Conditions {
		if c == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the profile.
func (p PatientProfile) Clone() PatientProfile {
	out := PatientProfile{
		Gender:   p.Gender,
		HeightCm: cloneFloat(p.HeightCm),
		WeightKg: cloneFloat(p.WeightKg),
	}
	if p.Age != nil {
		age := *p.Age
		out.Age = &age
	}
	if p.Conditions != nil {
		out.Conditions = append([]string(nil), p.Conditions...)
	}
	return out
}
