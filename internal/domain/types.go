package domain

// Category names used for snapshot addressing, reference lookup, and
// report panels. These are the wire names; they never change.
const (
	CategoryVitals    = "vitals"
	CategoryCBC       = "cbc"
	CategoryMetabolic = "metabolic"
	CategoryLipids    = "lipids"
	CategoryLiver     = "liver"
	CategoryThyroid   = "thyroid"
	CategoryLifestyle = "lifestyle"
	CategoryPhysical  = "physical"
)

// SmokingStatus is the categorical smoking field of the lifestyle record.
type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "never"
	SmokingFormer  SmokingStatus = "former"
	SmokingCurrent SmokingStatus = "current"
)

// IsValid reports whether the value is one of the recognized statuses.
func (s SmokingStatus) IsValid() bool {
	switch s {
	case SmokingNever, SmokingFormer, SmokingCurrent:
		return true
	default:
		return false
	}
}

// AlcoholUse is the categorical alcohol field of the lifestyle record.
type AlcoholUse string

const (
	AlcoholNone     AlcoholUse = "none"
	AlcoholModerate AlcoholUse = "moderate"
	AlcoholHeavy    AlcoholUse = "heavy"
)

// IsValid reports whether the value is one of the recognized levels.
func (a AlcoholUse) IsValid() bool {
	switch a {
	case AlcoholNone, AlcoholModerate, AlcoholHeavy:
		return true
	default:
		return false
	}
}

// Flag marks how an annotated value relates to its reference range.
type Flag string

const (
	FlagLow          Flag = "L"
	FlagHigh         Flag = "H"
	FlagNormal       Flag = "N"
	FlagNotAvailable Flag = "N/A"
)

// IsValid reports whether the flag is one of the four recognized markers.
func (f Flag) IsValid() bool {
	switch f {
	case FlagLow, FlagHigh, FlagNormal, FlagNotAvailable:
		return true
	default:
		return false
	}
}

// HealthStatus is the label band of an overall health score.
type HealthStatus string

const (
	StatusExcellent HealthStatus = "Excellent"
	StatusGood      HealthStatus = "Good"
	StatusFair      HealthStatus = "Fair"
	StatusPoor      HealthStatus = "Poor"
	StatusCritical  HealthStatus = "Critical"
)

// IsValid reports whether the status is one of the five score bands.
func (h HealthStatus) IsValid() bool {
	switch h {
	case StatusExcellent, StatusGood, StatusFair, StatusPoor, StatusCritical:
		return true
	default:
		return false
	}
}

// String returns the display label.
func (h HealthStatus) String() string {
	return string(h)
}

// StatusForScore maps an overall 0-100 score to its label band.
func StatusForScore(score int) HealthStatus {
	switch {
	case score >= 90:
		return StatusExcellent
	case score >= 75:
		return StatusGood
	case score >= 60:
		return StatusFair
	case score >= 40:
		return StatusPoor
	default:
		return StatusCritical
	}
}

// RiskLevel grades a simulation scenario.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// IsValid reports whether the level is one of the recognized grades.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}
