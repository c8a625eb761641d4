// Package domain contains the core business entities for the digital twin
// engine: physiological snapshots, patient profiles, intervention plans,
// lab reports, health scores, and the persistence entities around them.
//
// All numeric measurements are *float64 where nil means "not measured".
// Absent values are never defaulted; every consumer must handle nil.
package domain

// Vitals holds the vital-sign measurements of a snapshot.
type Vitals struct {
	HeartRate              *float64 `json:"heart_rate,omitempty"`
	BloodPressureSystolic  *float64 `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *float64 `json:"blood_pressure_diastolic,omitempty"`
	RespiratoryRate        *float64 `json:"respiratory_rate,omitempty"`
	BodyTemperature        *float64 `json:"body_temperature,omitempty"`
	OxygenSaturation       *float64 `json:"oxygen_saturation,omitempty"`
}

// BloodCount holds the complete blood count (CBC) panel.
type BloodCount struct {
	Hemoglobin      *float64 `json:"hemoglobin,omitempty"`
	WhiteBloodCells *float64 `json:"white_blood_cells,omitempty"`
	Platelets       *float64 `json:"platelets,omitempty"`
	RedBloodCells   *float64 `json:"red_blood_cells,omitempty"`
}

// Metabolic holds the comprehensive metabolic panel.
type Metabolic struct {
	GlucoseFasting *float64 `json:"glucose_fasting,omitempty"`
	GlucoseRandom  *float64 `json:"glucose_random,omitempty"`
	HbA1c          *float64 `json:"hba1c,omitempty"`
	Creatinine     *float64 `json:"creatinine,omitempty"`
	BUN            *float64 `json:"bun,omitempty"`
	Sodium         *float64 `json:"sodium,omitempty"`
	Potassium      *float64 `json:"potassium,omitempty"`
	Chloride       *float64 `json:"chloride,omitempty"`
	Bicarbonate    *float64 `json:"bicarbonate,omitempty"`
}

// Lipids holds the lipid panel.
type Lipids struct {
	TotalCholesterol *float64 `json:"total_cholesterol,omitempty"`
	LDL              *float64 `json:"ldl,omitempty"`
	HDL              *float64 `json:"hdl,omitempty"`
	Triglycerides    *float64 `json:"triglycerides,omitempty"`
}

// Liver holds the liver function panel.
type Liver struct {
	ALT       *float64 `json:"alt,omitempty"`
	AST       *float64 `json:"ast,omitempty"`
	Bilirubin *float64 `json:"bilirubin,omitempty"`
	Albumin   *float64 `json:"albumin,omitempty"`
}

// Thyroid holds the thyroid function panel.
type Thyroid struct {
	TSH *float64 `json:"tsh,omitempty"`
	T3  *float64 `json:"t3,omitempty"`
	T4  *float64 `json:"t4,omitempty"`
}

// Lifestyle holds self-reported lifestyle factors. SmokingStatus and
// AlcoholConsumption are categorical; the empty string means absent.
type Lifestyle struct {
	DietCarbsPercent   *float64      `json:"diet_carbs_percent,omitempty"`
	DietFatsPercent    *float64      `json:"diet_fats_percent,omitempty"`
	DietProteinPercent *float64      `json:"diet_protein_percent,omitempty"`
	CalorieIntake      *float64      `json:"calorie_intake,omitempty"`
	ExerciseFrequency  *float64      `json:"exercise_frequency,omitempty"`
	ExerciseDuration   *float64      `json:"exercise_duration,omitempty"`
	SleepDuration      *float64      `json:"sleep_duration,omitempty"`
	SleepQuality       *float64      `json:"sleep_quality,omitempty"`
	StressLevel        *float64      `json:"stress_level,omitempty"`
	SmokingStatus      SmokingStatus `json:"smoking_status,omitempty"`
	AlcoholConsumption AlcoholUse    `json:"alcohol_consumption,omitempty"`
}

// Physical holds anthropometric measurements.
type Physical struct {
	HeightCm *float64 `json:"height_cm,omitempty"`
	WeightKg *float64 `json:"weight_kg,omitempty"`
	BMI      *float64 `json:"bmi,omitempty"`
}

// Snapshot is the full physiological state of the twin at one point in
// time. Every category is optional. Engines treat snapshots as immutable:
// transformations clone before writing.
type Snapshot struct {
	Vitals     *Vitals     `json:"vitals,omitempty"`
	BloodCount *BloodCount `json:"cbc,omitempty"`
	Metabolic  *Metabolic  `json:"metabolic,omitempty"`
	Lipids     *Lipids     `json:"lipids,omitempty"`
	Liver      *Liver      `json:"liver,omitempty"`
	Thyroid    *Thyroid    `json:"thyroid,omitempty"`
	Lifestyle  *Lifestyle  `json:"lifestyle,omitempty"`
	Physical   *Physical   `json:"physical,omitempty"`
}

// Float returns a pointer to v. Handy for literal snapshots in callers and tests.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Clone returns a deep copy. A nil receiver yields nil.
func (v *Vitals) Clone() *Vitals {
	if v == nil {
		return nil
	}
	return &Vitals{
		HeartRate:              cloneFloat(v.HeartRate),
		BloodPressureSystolic:  cloneFloat(v.BloodPressureSystolic),
		BloodPressureDiastolic: cloneFloat(v.BloodPressureDiastolic),
		RespiratoryRate:        cloneFloat(v.RespiratoryRate),
		BodyTemperature:        cloneFloat(v.BodyTemperature),
		OxygenSaturation:       cloneFloat(v.OxygenSaturation),
	}
}

// Clone returns a deep copy. A nil receiver yields nil.
func (b *BloodCount) Clone() *BloodCount {
	if b == nil {
		return nil
	}
	return &BloodCount{
		Hemoglobin:      cloneFloat(b.Hemoglobin),
		WhiteBloodCells: cloneFloat(b.WhiteBloodCells),
		Platelets:       cloneFloat(b.Platelets),
		RedBloodCells:   cloneFloat(b.RedBloodCells),
	}
}

// Clone returns a deep copy. A nil receiver yields nil.
func (m *Metabolic) Clone() *Metabolic {
	if m == nil {
		return nil
	}
	return &Metabolic{
		GlucoseFasting: cloneFloat(m.GlucoseFasting),
		GlucoseRandom:  cloneFloat(m.GlucoseRandom),
		HbA1c:          cloneFloat(m.HbA1c),
		Creatinine:     cloneFloat(m.Creatinine),
		BUN:            cloneFloat(m.BUN),
		Sodium:         cloneFloat(m.Sodium),
		Potassium:      cloneFloat(m.Potassium),
		Chloride:       cloneFloat(m.Chloride),
		Bicarbonate:    cloneFloat(m.Bicarbonate),
	}
}

// Clone returns a deep copy. A nil receiver yields nil.
func (l *Lipids) Clone() *Lipids {
	if l == nil {
		return nil
	}
	return &Lipids{
		TotalCholesterol: cloneFloat(l.TotalCholesterol),
		LDL:              cloneFloat(l.LDL),
		HDL:              cloneFloat(l.HDL),
		Triglycerides:    cloneFloat(l.Triglycerides),
	}
}

// Clone returns a deep copy. A nil receiver yields nil.
func (l *Liver) Clone() *Liver {
	if l == nil {
		return nil
	}
	return &Liver{
		ALT:       cloneFloat(l.ALT),
		AST:       cloneFloat(l.AST),
		Bilirubin: cloneFloat(l.Bilirubin),
		Albumin:   cloneFloat(l.Albumin),
	}
}

// Clone returns a deep copy. A nil receiver yields nil.
func (t *Thyroid) Clone() *Thyroid {
	if t == nil {
		return nil
	}
	return &Thyroid{
		TSH: cloneFloat(t.TSH),
		T3:  cloneFloat(t.T3),
		T4:  cloneFloat(t.T4),
	}
}

// Clone returns a deep copy. A nil receiver yields nil.
func (l *Lifestyle) Clone() *Lifestyle {
	if l == nil {
		return nil
	}
	return &Lifestyle{
		DietCarbsPercent:   cloneFloat(l.DietCarbsPercent),
		DietFatsPercent:    cloneFloat(l.DietFatsPercent),
		DietProteinPercent: cloneFloat(l.DietProteinPercent),
		CalorieIntake:      cloneFloat(l.CalorieIntake),
		ExerciseFrequency:  cloneFloat(l.ExerciseFrequency),
		ExerciseDuration:   cloneFloat(l.ExerciseDuration),
		SleepDuration:      cloneFloat(l.SleepDuration),
		SleepQuality:       cloneFloat(l.SleepQuality),
		StressLevel:        cloneFloat(l.StressLevel),
		SmokingStatus:      l.SmokingStatus,
		AlcoholConsumption: l.AlcoholConsumption,
	}
}

// Clone returns a deep copy. A nil receiver yields nil.
func (p *Physical) Clone() *Physical {
	if p == nil {
		return nil
	}
	return &Physical{
		HeightCm: cloneFloat(p.HeightCm),
		WeightKg: cloneFloat(p.WeightKg),
		BMI:      cloneFloat(p.BMI),
	}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Vitals:     s.Vitals.Clone(),
		BloodCount: s.BloodCount.Clone(),
		Metabolic:  s.Metabolic.Clone(),
		Lipids:     s.Lipids.Clone(),
		Liver:      s.Liver.Clone(),
		Thyroid:    s.Thyroid.Clone(),
		Lifestyle:  s.Lifestyle.Clone(),
		Physical:   s.Physical.Clone(),
	}
}

func mergeFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = cloneFloat(src)
	}
}

// Merge overlays the present fields of other onto s: non-nil numeric
// values and non-empty categorical values win, absent ones leave s
// untouched. Used to apply manual parameter overrides on a generated
// baseline.
func (s *Snapshot) Merge(other Snapshot) {
	if other.Vitals != nil {
		s.ensureCategory(CategoryVitals)
		mergeFloat(&s.Vitals.HeartRate, other.Vitals.HeartRate)
		mergeFloat(&s.Vitals.BloodPressureSystolic, other.Vitals.BloodPressureSystolic)
		mergeFloat(&s.Vitals.BloodPressureDiastolic, other.Vitals.BloodPressureDiastolic)
		mergeFloat(&s.Vitals.RespiratoryRate, other.Vitals.RespiratoryRate)
		mergeFloat(&s.Vitals.BodyTemperature, other.Vitals.BodyTemperature)
		mergeFloat(&s.Vitals.OxygenSaturation, other.Vitals.OxygenSaturation)
	}
	if other.BloodCount != nil {
		s.ensureCategory(CategoryCBC)
		mergeFloat(&s.BloodCount.Hemoglobin, other.BloodCount.Hemoglobin)
		mergeFloat(&s.BloodCount.WhiteBloodCells, other.BloodCount.WhiteBloodCells)
		mergeFloat(&s.BloodCount.Platelets, other.BloodCount.Platelets)
		mergeFloat(&s.BloodCount.RedBloodCells, other.BloodCount.RedBloodCells)
	}
	if other.Metabolic != nil {
		s.ensureCategory(CategoryMetabolic)
		mergeFloat(&s.Metabolic.GlucoseFasting, other.Metabolic.GlucoseFasting)
		mergeFloat(&s.Metabolic.GlucoseRandom, other.Metabolic.GlucoseRandom)
		mergeFloat(&s.Metabolic.HbA1c, other.Metabolic.HbA1c)
		mergeFloat(&s.Metabolic.Creatinine, other.Metabolic.Creatinine)
		mergeFloat(&s.Metabolic.BUN, other.Metabolic.BUN)
		mergeFloat(&s.Metabolic.Sodium, other.Metabolic.Sodium)
		mergeFloat(&s.Metabolic.Potassium, other.Metabolic.Potassium)
		mergeFloat(&s.Metabolic.Chloride, other.Metabolic.Chloride)
		mergeFloat(&s.Metabolic.Bicarbonate, other.Metabolic.Bicarbonate)
	}
	if other.Lipids != nil {
		s.ensureCategory(CategoryLipids)
		mergeFloat(&s.Lipids.TotalCholesterol, other.Lipids.TotalCholesterol)
		mergeFloat(&s.Lipids.LDL, other.Lipids.LDL)
		mergeFloat(&s.Lipids.HDL, other.Lipids.HDL)
		mergeFloat(&s.Lipids.Triglycerides, other.Lipids.Triglycerides)
	}
	if other.Liver != nil {
		s.ensureCategory(CategoryLiver)
		mergeFloat(&s.Liver.ALT, other.Liver.ALT)
		mergeFloat(&s.Liver.AST, other.Liver.AST)
		mergeFloat(&s.Liver.Bilirubin, other.Liver.Bilirubin)
		mergeFloat(&s.Liver.Albumin, other.Liver.Albumin)
	}
	if other.Thyroid != nil {
		s.ensureCategory(CategoryThyroid)
		mergeFloat(&s.Thyroid.TSH, other.Thyroid.TSH)
		mergeFloat(&s.Thyroid.T3, other.Thyroid.T3)
		mergeFloat(&s.Thyroid.T4, other.Thyroid.T4)
	}
	if other.Lifestyle != nil {
		s.ensureCategory(CategoryLifestyle)
		mergeFloat(&s.Lifestyle.DietCarbsPercent, other.Lifestyle.DietCarbsPercent)
		mergeFloat(&s.Lifestyle.DietFatsPercent, other.Lifestyle.DietFatsPercent)
		mergeFloat(&s.Lifestyle.DietProteinPercent, other.Lifestyle.DietProteinPercent)
		mergeFloat(&s.Lifestyle.CalorieIntake, other.Lifestyle.CalorieIntake)
		mergeFloat(&s.Lifestyle.ExerciseFrequency, other.Lifestyle.ExerciseFrequency)
		mergeFloat(&s.Lifestyle.ExerciseDuration, other.Lifestyle.ExerciseDuration)
		mergeFloat(&s.Lifestyle.SleepDuration, other.Lifestyle.SleepDuration)
		mergeFloat(&s.Lifestyle.SleepQuality, other.Lifestyle.SleepQuality)
		mergeFloat(&s.Lifestyle.StressLevel, other.Lifestyle.StressLevel)
		if other.Lifestyle.SmokingStatus != "" {
			s.Lifestyle.SmokingStatus = other.Lifestyle.SmokingStatus
		}
		if other.Lifestyle.AlcoholConsumption != "" {
			s.Lifestyle.AlcoholConsumption = other.Lifestyle.AlcoholConsumption
		}
	}
	if other.Physical != nil {
		s.ensureCategory(CategoryPhysical)
		mergeFloat(&s.Physical.HeightCm, other.Physical.HeightCm)
		mergeFloat(&s.Physical.WeightKg, other.Physical.WeightKg)
		mergeFloat(&s.Physical.BMI, other.Physical.BMI)
	}
}

// Field returns the numeric value addressed by (category, field) and whether
// it is present. Unknown addresses and nil values both report false.
func (s *Snapshot) Field(category, field string) (float64, bool) {
	p := s.fieldPtr(category, field)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// SetField writes the numeric value addressed by (category, field),
// allocating the category record when needed. It returns false for
// addresses outside the fixed schema; categorical lifestyle fields are
// not addressable through this path.
func (s *Snapshot) SetField(category, field string, v float64) bool {
	s.ensureCategory(category)
	p := s.fieldPtr(category, field)
	if p == nil {
		return false
	}
	*p = &v
	return true
}

func (s *Snapshot) ensureCategory(category string) {
	switch category {
	case CategoryVitals:
		if s.Vitals == nil {
			s.Vitals = &Vitals{}
		}
	case CategoryCBC:
		if s.BloodCount == nil {
			s.BloodCount = &BloodCount{}
		}
	case CategoryMetabolic:
		if s.Metabolic == nil {
			s.Metabolic = &Metabolic{}
		}
	case CategoryLipids:
		if s.Lipids == nil {
			s.Lipids = &Lipids{}
		}
	case CategoryLiver:
		if s.Liver == nil {
			s.Liver = &Liver{}
		}
	case CategoryThyroid:
		if s.Thyroid == nil {
			s.Thyroid = &Thyroid{}
		}
	case CategoryLifestyle:
		if s.Lifestyle == nil {
			s.Lifestyle = &Lifestyle{}
		}
	case CategoryPhysical:
		if s.Physical == nil {
			s.Physical = &Physical{}
		}
	}
}

// fieldPtr resolves (category, field) to the storage slot for the value.
// Returns nil when the category record is absent or the address is unknown.
func (s *Snapshot) fieldPtr(category, field string) **float64 {
	switch category {
	case CategoryVitals:
		if s.Vitals == nil {
			return nil
		}
		switch field {
		case "heart_rate":
			return &s.Vitals.HeartRate
		case "blood_pressure_systolic":
			return &s.Vitals.BloodPressureSystolic
		case "blood_pressure_diastolic":
			return &s.Vitals.BloodPressureDiastolic
		case "respiratory_rate":
			return &s.Vitals.RespiratoryRate
		case "body_temperature":
			return &s.Vitals.BodyTemperature
		case "oxygen_saturation":
			return &s.Vitals.OxygenSaturation
		}
	case CategoryCBC:
		if s.BloodCount == nil {
			return nil
		}
		switch field {
		case "hemoglobin":
			return &s.BloodCount.Hemoglobin
		case "white_blood_cells":
			return &s.BloodCount.WhiteBloodCells
		case "platelets":
			return &s.BloodCount.Platelets
		case "red_blood_cells":
			return &s.BloodCount.RedBloodCells
		}
	case CategoryMetabolic:
		if s.Metabolic == nil {
			return nil
		}
		switch field {
		case "glucose_fasting":
			return &s.Metabolic.GlucoseFasting
		case "glucose_random":
			return &s.Metabolic.GlucoseRandom
		case "hba1c":
			return &s.Metabolic.HbA1c
		case "creatinine":
			return &s.Metabolic.Creatinine
		case "bun":
			return &s.Metabolic.BUN
		case "sodium":
			return &s.Metabolic.Sodium
		case "potassium":
			return &s.Metabolic.Potassium
		case "chloride":
			return &s.Metabolic.Chloride
		case "bicarbonate":
			return &s.Metabolic.Bicarbonate
		}
	case CategoryLipids:
		if s.Lipids == nil {
			return nil
		}
		switch field {
		case "total_cholesterol":
			return &s.Lipids.TotalCholesterol
		case "ldl":
			return &s.Lipids.LDL
		case "hdl":
			return &s.Lipids.HDL
		case "triglycerides":
			return &s.Lipids.Triglycerides
		}
	case CategoryLiver:
		if s.Liver == nil {
			return nil
		}
		switch field {
		case "alt":
			return &s.Liver.ALT
		case "ast":
			return &s.Liver.AST
		case "bilirubin":
			return &s.Liver.Bilirubin
		case "albumin":
			return &s.Liver.Albumin
		}
	case CategoryThyroid:
		if s.Thyroid == nil {
			return nil
		}
		switch field {
		case "tsh":
			return &s.Thyroid.TSH
		case "t3":
			return &s.Thyroid.T3
		case "t4":
			return &s.Thyroid.T4
		}
	case CategoryLifestyle:
		if s.Lifestyle == nil {
			return nil
		}
		switch field {
		case "diet_carbs_percent":
			return &s.Lifestyle.DietCarbsPercent
		case "diet_fats_percent":
			return &s.Lifestyle.DietFatsPercent
		case "diet_protein_percent":
			return &s.Lifestyle.DietProteinPercent
		case "calorie_intake":
			return &s.Lifestyle.CalorieIntake
		case "exercise_frequency":
			return &s.Lifestyle.ExerciseFrequency
		case "exercise_duration":
			return &s.Lifestyle.ExerciseDuration
		case "sleep_duration":
			return &s.Lifestyle.SleepDuration
		case "sleep_quality":
			return &s.Lifestyle.SleepQuality
		case "stress_level":
			return &s.Lifestyle.StressLevel
		}
	case CategoryPhysical:
		if s.Physical == nil {
			return nil
		}
		switch field {
		case "height_cm":
			return &s.Physical.HeightCm
		case "weight_kg":
			return &s.Physical.WeightKg
		case "bmi":
			return &s.Physical.BMI
		}
	}
	return nil
}
