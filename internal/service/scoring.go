package service

import (
	"fmt"
	"math"
	"time"

	"github.com/healthtwin-engine/internal/domain"
)

// categoryWeights drive the weighted overall score. Absent categories are
// excluded and the remaining weights renormalized.
var categoryWeights = map[string]float64{
	domain.CategoryVitals:    0.25,
	domain.CategoryMetabolic: 0.25,
	domain.CategoryLipids:    0.20,
	domain.CategoryLifestyle: 0.20,
	domain.CategoryCBC:       0.05,
	domain.CategoryLiver:     0.03,
	domain.CategoryThyroid:   0.02,
}

// scoredCategories fixes the evaluation order so findings and improvement
// areas come out deterministic.
var scoredCategories = []string{
	domain.CategoryVitals,
	domain.CategoryMetabolic,
	domain.CategoryLipids,
	domain.CategoryLifestyle,
	domain.CategoryCBC,
	domain.CategoryLiver,
	domain.CategoryThyroid,
}

// scorecard accumulates the narrative outputs of the grading pass. Each
// list is deduplicated preserving first-seen order.
type scorecard struct {
	findings        []string
	alerts          []string
	recommendations []string
	strengths       []string
}

func (sc *scorecard) finding(s string)   { sc.findings = appendUnique(sc.findings, s) }
func (sc *scorecard) alert(s string)     { sc.alerts = appendUnique(sc.alerts, s) }
func (sc *scorecard) recommend(s string) { sc.recommendations = appendUnique(sc.recommendations, s) }
func (sc *scorecard) strength(s string)  { sc.strengths = appendUnique(sc.strengths, s) }

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// ScoreSnapshot grades a snapshot on a 0-100 scale. Every category starts at
// 100 and walks its deduction ladder; absent fields are skipped entirely and
// a category with a nil record is excluded from the weighted overall. The
// BMI rungs live in the vitals ladder but read the physical record.
func ScoreSnapshot(snapshot domain.Snapshot, asOf time.Time) domain.HealthScore {
	sc := &scorecard{}

	categoryScores := make(map[string]int)
	for _, category := range scoredCategories {
		score, present := scoreCategory(category, snapshot, sc)
		if !present {
			continue
		}
		categoryScores[category] = score
	}

	overall := weightedOverall(categoryScores)

	return domain.HealthScore{
		Overall:          overall,
		Status:           domain.StatusForScore(overall),
		CategoryScores:   categoryScores,
		Findings:         sc.findings,
		Alerts:           sc.alerts,
		Recommendations:  sc.recommendations,
		Strengths:        sc.strengths,
		ImprovementAreas: improvementAreas(categoryScores, overall),
		NextReviewDate:   nextReviewDate(overall, asOf),
	}
}

func scoreCategory(category string, snapshot domain.Snapshot, sc *scorecard) (int, bool) {
	switch category {
	case domain.CategoryVitals:
		return scoreVitals(snapshot, sc)
	case domain.CategoryMetabolic:
		return scoreMetabolic(snapshot.Metabolic, sc)
	case domain.CategoryLipids:
		return scoreLipids(snapshot.Lipids, sc)
	case domain.CategoryLifestyle:
		return scoreLifestyle(snapshot.Lifestyle, sc)
	case domain.CategoryCBC:
		return scoreBloodCount(snapshot.BloodCount, sc)
	case domain.CategoryLiver:
		return scoreLiver(snapshot.Liver, sc)
	case domain.CategoryThyroid:
		return scoreThyroid(snapshot.Thyroid, sc)
	}
	return 0, false
}

func scoreVitals(snapshot domain.Snapshot, sc *scorecard) (int, bool) {
	v := snapshot.Vitals
	if v == nil {
		return 0, false
	}
	score := 100

	if v.BloodPressureSystolic != nil {
		switch systolic := *v.BloodPressureSystolic; {
		case systolic <= 120:
			sc.strength("Optimal systolic blood pressure")
		case systolic <= 129:
			// normal, no penalty
		case systolic <= 139:
			score -= 10
			sc.finding("Elevated systolic blood pressure")
			sc.recommend("Monitor blood pressure regularly")
		case systolic <= 159:
			score -= 20
			sc.finding("High systolic blood pressure (Stage 1)")
			sc.alert("Consider lifestyle modifications")
		case systolic <= 179:
			score -= 35
			sc.finding("High systolic blood pressure (Stage 2)")
			sc.alert("Consult healthcare provider")
		default:
			score -= 50
			sc.finding("Hypertensive crisis")
			sc.alert("Seek immediate medical attention")
		}
	}

	if v.BloodPressureDiastolic != nil {
		switch diastolic := *v.BloodPressureDiastolic; {
		case diastolic <= 80:
			sc.strength("Optimal diastolic blood pressure")
		case diastolic <= 89:
			// normal, no penalty
		case diastolic <= 99:
			score -= 15
			sc.finding("High diastolic blood pressure (Stage 1)")
			sc.recommend("Reduce sodium intake and increase exercise")
		case diastolic <= 109:
			score -= 25
			sc.finding("High diastolic blood pressure (Stage 2)")
			sc.alert("Consult healthcare provider")
		default:
			score -= 40
			sc.finding("Hypertensive crisis (diastolic)")
			sc.alert("Seek immediate medical attention")
		}
	}

	if v.HeartRate != nil {
		switch hr := *v.HeartRate; {
		case hr >= 60 && hr <= 100:
			sc.strength("Normal heart rate")
		case hr < 60:
			score -= 15
			sc.finding("Bradycardia (slow heart rate)")
			sc.recommend("Consult doctor if experiencing symptoms")
		default:
			score -= 15
			sc.finding("Tachycardia (fast heart rate)")
			sc.recommend("Consult doctor if experiencing symptoms")
		}
	}

	if snapshot.Physical != nil && snapshot.Physical.BMI != nil {
		switch bmi := *snapshot.Physical.BMI; {
		case bmi < 18.5:
			score -= 10
			sc.finding("Underweight")
		case bmi <= 24.9:
			sc.strength("Healthy BMI")
		case bmi <= 29.9:
			score -= 15
			sc.finding("Overweight")
			sc.recommend("Consider balanced diet and exercise")
		case bmi <= 34.9:
			score -= 25
			sc.finding("Obesity (Class 1)")
			sc.alert("Weight management recommended")
		case bmi <= 39.9:
			score -= 35
			sc.finding("Obesity (Class 2)")
			sc.alert("Medical weight management advised")
		default:
			score -= 45
			sc.finding("Obesity (Class 3)")
			sc.alert("Urgent medical consultation recommended")
		}
	}

	return clampScore(score), true
}

func scoreMetabolic(m *domain.Metabolic, sc *scorecard) (int, bool) {
	if m == nil {
		return 0, false
	}
	score := 100

	if m.GlucoseFasting != nil {
		switch glucose := *m.GlucoseFasting; {
		case glucose <= 99:
			sc.strength("Normal fasting glucose")
		case glucose <= 125:
			score -= 25
			sc.finding("Prediabetes (elevated fasting glucose)")
			sc.recommend("Reduce sugar intake and increase physical activity")
			sc.alert("Risk of developing diabetes")
		default:
			score -= 45
			sc.finding("Diabetes (elevated fasting glucose)")
			sc.alert("Diabetes management required")
		}
	}

	if m.HbA1c != nil {
		switch hba1c := *m.HbA1c; {
		case hba1c <= 5.6:
			sc.strength("Normal HbA1c")
		case hba1c <= 6.4:
			score -= 30
			sc.finding("Prediabetes (elevated HbA1c)")
			sc.alert("Risk of developing diabetes")
		default:
			score -= 50
			sc.finding("Diabetes (elevated HbA1c)")
			sc.alert("Diabetes management required")
		}
	}

	if m.Creatinine != nil {
		if *m.Creatinine <= 1.2 {
			sc.strength("Normal kidney function")
		} else {
			score -= 20
			sc.finding("Elevated creatinine")
			sc.recommend("Kidney function evaluation recommended")
		}
	}

	return clampScore(score), true
}

func scoreLipids(l *domain.Lipids, sc *scorecard) (int, bool) {
	if l == nil {
		return 0, false
	}
	score := 100

	if l.LDL != nil {
		switch ldl := *l.LDL; {
		case ldl <= 99:
			sc.strength("Optimal LDL cholesterol")
		case ldl <= 129:
			// near optimal, no penalty
		case ldl <= 159:
			score -= 20
			sc.finding("Borderline high LDL cholesterol")
			sc.recommend("Reduce saturated fat intake")
		case ldl <= 189:
			score -= 30
			sc.finding("High LDL cholesterol")
			sc.alert("Cholesterol management needed")
		default:
			score -= 45
			sc.finding("Very high LDL cholesterol")
			sc.alert("Urgent cholesterol management required")
		}
	}

	if l.HDL != nil {
		switch hdl := *l.HDL; {
		case hdl >= 60:
			score += 10
			sc.strength("High HDL cholesterol (protective)")
		case hdl >= 40:
			sc.strength("Normal HDL cholesterol")
		default:
			score -= 20
			sc.finding("Low HDL cholesterol")
			sc.recommend("Increase physical activity and healthy fats")
		}
	}

	if l.Triglycerides != nil {
		switch trig := *l.Triglycerides; {
		case trig <= 149:
			sc.strength("Normal triglycerides")
		case trig <= 199:
			score -= 15
			sc.finding("Borderline high triglycerides")
		case trig <= 499:
			score -= 25
			sc.finding("High triglycerides")
			sc.alert("Lifestyle changes needed")
		default:
			score -= 40
			sc.finding("Very high triglycerides")
			sc.alert("Risk of pancreatitis")
		}
	}

	return clampScore(score), true
}

func scoreLifestyle(l *domain.Lifestyle, sc *scorecard) (int, bool) {
	if l == nil {
		return 0, false
	}
	score := 100

	if l.ExerciseFrequency != nil {
		switch freq := *l.ExerciseFrequency; {
		case freq >= 5:
			score += 10
			sc.strength("Excellent exercise routine")
		case freq >= 3:
			sc.strength("Good exercise habits")
		case freq >= 1:
			score -= 15
			sc.finding("Insufficient physical activity")
			sc.recommend("Aim for at least 3-5 exercise sessions per week")
		default:
			score -= 25
			sc.finding("Sedentary lifestyle")
			sc.recommend("Start with walking 30 minutes daily")
			sc.alert("High risk for chronic diseases")
		}
	}

	if l.SleepDuration != nil {
		switch sleep := *l.SleepDuration; {
		case sleep >= 7 && sleep <= 9:
			sc.strength("Optimal sleep duration")
		case sleep >= 6 && sleep < 7:
			score -= 10
			sc.finding("Slightly insufficient sleep")
			sc.recommend("Aim for 7-9 hours of sleep")
		default:
			score -= 25
			sc.finding("Insufficient sleep")
			sc.alert("Sleep deprivation affects health")
		}
	}

	if l.StressLevel != nil {
		switch stress := *l.StressLevel; {
		case stress <= 3:
			sc.strength("Low stress levels")
		case stress <= 6:
			score -= 10
			sc.finding("Moderate stress levels")
			sc.recommend("Practice stress management techniques")
		default:
			score -= 20
			sc.finding("High stress levels")
			sc.alert("Chronic stress is harmful to health")
		}
	}

	switch l.SmokingStatus {
	case domain.SmokingCurrent:
		score -= 30
		sc.finding("Current smoker")
		sc.alert("Smoking cessation strongly recommended")
	case domain.SmokingFormer:
		score -= 5
		sc.finding("Former smoker")
	case domain.SmokingNever:
		sc.strength("Non-smoker")
	}

	switch l.AlcoholConsumption {
	case domain.AlcoholHeavy:
		score -= 25
		sc.finding("Heavy alcohol consumption")
		sc.alert("Reduce alcohol intake")
	case domain.AlcoholModerate:
		score -= 5
		sc.finding("Moderate alcohol consumption")
	case domain.AlcoholNone:
		sc.strength("No alcohol consumption")
	}

	return clampScore(score), true
}

func scoreBloodCount(b *domain.BloodCount, sc *scorecard) (int, bool) {
	if b == nil {
		return 0, false
	}
	score := 100

	if b.Hemoglobin != nil {
		if *b.Hemoglobin < 12 {
			score -= 15
			sc.finding("Low hemoglobin (possible anemia)")
			sc.recommend("Iron-rich diet recommended")
		} else {
			sc.strength("Normal hemoglobin")
		}
	}

	return clampScore(score), true
}

func scoreLiver(l *domain.Liver, sc *scorecard) (int, bool) {
	if l == nil {
		return 0, false
	}
	score := 100

	if l.ALT != nil {
		if *l.ALT > 55 {
			score -= 15
			sc.finding("Elevated ALT")
			sc.recommend("Liver function follow-up recommended")
		} else {
			sc.strength("Normal liver enzymes")
		}
	}

	return clampScore(score), true
}

func scoreThyroid(t *domain.Thyroid, sc *scorecard) (int, bool) {
	if t == nil {
		return 0, false
	}
	score := 100

	if t.TSH != nil {
		switch tsh := *t.TSH; {
		case tsh > 4.0:
			score -= 15
			sc.finding("Elevated TSH")
			sc.recommend("Thyroid function evaluation recommended")
		case tsh < 0.4:
			score -= 15
			sc.finding("Low TSH")
			sc.recommend("Thyroid function evaluation recommended")
		default:
			sc.strength("Normal thyroid function")
		}
	}

	return clampScore(score), true
}

// weightedOverall renormalizes the weights over the categories that were
// actually scored. An empty snapshot scores 0.
func weightedOverall(scores map[string]int) int {
	var weighted, total float64
	for category, score := range scores {
		weight := categoryWeights[category]
		weighted += float64(score) * weight
		total += weight
	}
	if total == 0 {
		return 0
	}
	return clampScore(int(math.Round(weighted / total)))
}

func improvementAreas(scores map[string]int, overall int) []string {
	var areas []string
	for _, category := range scoredCategories {
		score, ok := scores[category]
		if !ok {
			continue
		}
		if score < 80 {
			areas = append(areas, fmt.Sprintf("Focus on %s improvements (current: %d/100)", category, score))
		}
	}

	switch {
	case overall < 60:
		areas = append(areas, "Consider comprehensive health evaluation")
	case overall < 80:
		areas = append(areas, "Focus on high-impact lifestyle changes")
	default:
		areas = append(areas, "Maintain current healthy habits")
	}
	return areas
}

func nextReviewDate(score int, asOf time.Time) string {
	days := 7
	switch {
	case score >= 90:
		days = 180
	case score >= 75:
		days = 90
	case score >= 60:
		days = 30
	}
	return asOf.AddDate(0, 0, days).Format("2006-01-02")
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
