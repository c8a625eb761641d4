package service

import (
	"time"

	"github.com/healthtwin-engine/internal/domain"
	"github.com/healthtwin-engine/internal/reference"
)

// BuildReport renders a snapshot into an annotated lab report: the six
// reference panels with flags, the raw lifestyle assessment, derived BMI
// and eGFR, and the scored interpretation. Derived metrics are omitted
// rather than fabricated when their inputs are absent. Pure; the report
// date comes from the caller.
func BuildReport(snapshot domain.Snapshot, profile domain.PatientProfile, asOf time.Time) domain.LabReport {
	report := domain.LabReport{
		PatientInfo: domain.PatientInfo{
			ReportDate: asOf,
			BMI:        reportBMI(snapshot, profile),
			EGFR:       reportEGFR(snapshot, profile),
		},
		Lifestyle:      snapshot.Lifestyle.Clone(),
		Interpretation: ScoreSnapshot(snapshot, asOf),
	}

	report.VitalSigns, _ = reference.Annotate(domain.CategoryVitals, snapshot)
	report.BloodCount, _ = reference.Annotate(domain.CategoryCBC, snapshot)
	report.MetabolicPanel, _ = reference.Annotate(domain.CategoryMetabolic, snapshot)
	report.LipidPanel, _ = reference.Annotate(domain.CategoryLipids, snapshot)
	report.LiverFunction, _ = reference.Annotate(domain.CategoryLiver, snapshot)
	report.ThyroidFunction, _ = reference.Annotate(domain.CategoryThyroid, snapshot)

	return report
}

// reportBMI prefers the snapshot's physical BMI and falls back to deriving
// one from the profile.
func reportBMI(snapshot domain.Snapshot, profile domain.PatientProfile) *float64 {
	if snapshot.Physical != nil && snapshot.Physical.BMI != nil {
		v := *snapshot.Physical.BMI
		return &v
	}
	if profile.WeightKg != nil && profile.HeightCm != nil {
		return domain.Float(BMI(*profile.WeightKg, *profile.HeightCm))
	}
	return nil
}

// reportEGFR needs the snapshot's creatinine and the profile's age; gender
// selects the MDRD coefficient.
func reportEGFR(snapshot domain.Snapshot, profile domain.PatientProfile) *float64 {
	if snapshot.Metabolic == nil || snapshot.Metabolic.Creatinine == nil || profile.Age == nil {
		return nil
	}
	return domain.Float(EGFR(*snapshot.Metabolic.Creatinine, *profile.Age, profile.Gender))
}
