package domain

import "time"

// AnnotatedValue is one measurement of a lab report panel: the raw value
// with its unit, the reporting reference range, and the L/H/N flag.
// A nil value flags N/A.
type AnnotatedValue struct {
	Value          *float64 `json:"value"`
	Unit           string   `json:"unit"`
	ReferenceRange string   `json:"reference_range"`
	Flag           Flag     `json:"flag"`
}

// PatientInfo heads a lab report with the derived metrics. BMI and EGFR
// are nil when their inputs are absent; they are never fabricated.
type PatientInfo struct {
	ReportDate time.Time `json:"report_date"`
	BMI        *float64  `json:"bmi"`
	EGFR       *float64  `json:"egfr"`
}

// LabReport is a snapshot annotated into lab-report form: six panels with
// reference ranges and flags, the raw lifestyle record, and the scored
// interpretation.
type LabReport struct {
	PatientInfo     PatientInfo               `json:"patient_info"`
	VitalSigns      map[string]AnnotatedValue `json:"vital_signs"`
	BloodCount      map[string]AnnotatedValue `json:"complete_blood_count"`
	MetabolicPanel  map[string]AnnotatedValue `json:"comprehensive_metabolic_panel"`
	LipidPanel      map[string]AnnotatedValue `json:"lipid_panel"`
	LiverFunction   map[string]AnnotatedValue `json:"liver_function"`
	ThyroidFunction map[string]AnnotatedValue `json:"thyroid_function"`
	Lifestyle       *Lifestyle                `json:"lifestyle_assessment,omitempty"`
	Interpretation  HealthScore               `json:"interpretation"`
}

// Panel returns the annotated panel for a category name, or nil for
// categories that are not annotated (lifestyle, physical, unknown).
func (r *LabReport) Panel(category string) map[string]AnnotatedValue {
	switch category {
	case CategoryVitals:
		return r.VitalSigns
	case CategoryCBC:
		return r.BloodCount
	case CategoryMetabolic:
		return r.MetabolicPanel
	case CategoryLipids:
		return r.LipidPanel
	case CategoryLiver:
		return r.LiverFunction
	case CategoryThyroid:
		return r.ThyroidFunction
	default:
		return nil
	}
}

// HealthScore is the weighted 0-100 interpretation of a snapshot.
// Findings, alerts, recommendations, and strengths are deduplicated in
// first-seen order.
type HealthScore struct {
	Overall          int            `json:"overall_health_score"`
	Status           HealthStatus   `json:"health_status"`
	CategoryScores   map[string]int `json:"category_scores"`
	Findings         []string       `json:"findings"`
	Alerts           []string       `json:"alerts"`
	Recommendations  []string       `json:"recommendations"`
	Strengths        []string       `json:"strengths"`
	ImprovementAreas []string       `json:"improvement_areas"`
	NextReviewDate   string         `json:"next_review_date"` // "2006-01-02"
}

// ChangeStat records one field's movement from the simulation baseline.
type ChangeStat struct {
	Baseline       float64 `json:"baseline"`
	Current        float64 `json:"current"`
	AbsoluteChange float64 `json:"absolute_change"`
	RelativeChange float64 `json:"relative_change"` // percent of baseline
}

// WeekEntry is one week of a progression run: the state after applying
// that week's tabular row, its report, and the deltas against the
// original baseline.
type WeekEntry struct {
	Week                int                              `json:"week"`
	Parameters          Snapshot                         `json:"parameters"`
	Report              LabReport                        `json:"lab_report"`
	ChangesFromBaseline map[string]map[string]ChangeStat `json:"changes_from_baseline"`
}

// MedicationPrediction is the projected movement of one parameter under a
// recognized medication class.
type MedicationPrediction struct {
	Before           float64 `json:"before"`
	After            float64 `json:"after"`
	Unit             string  `json:"unit"`
	Direction        string  `json:"direction"` // "positive", "negative", "normalize"
	PercentageChange string  `json:"percentage_change"`
	Confidence       int     `json:"confidence"`
}
