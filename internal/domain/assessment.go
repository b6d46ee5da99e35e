package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Severity tiers produced by assessment scoring, calmest first.
const (
	TierSafe     = "Aman"
	TierAlert    = "Waspada"
	TierCritical = "Kritis"
)

// AssessmentKind fixes the question set and per-question weights for one
// survey family. Weights are configuration, not runtime input; submissions
// supply only the answers.
type AssessmentKind struct {
	Name    string
	Weights map[string]float64
}

var assessmentKinds = map[string]AssessmentKind{
	"kesehatan": {
		Name: "kesehatan",
		Weights: map[string]float64{
			"p1": 1.0, "p2": 1.0, "p3": 1.0, "p4": 1.5, "p5": 1.5,
		},
	},
	"pendidikan": {
		Name: "pendidikan",
		Weights: map[string]float64{
			"p1": 1.4, "p2": 1.0, "p3": 1.0, "p4": 1.0, "p5": 0.8,
			"p6": 1.5, "p7": 0.9, "p8": 1.3, "p9": 0.8, "p10": 0.9,
		},
	},
}

// KindByName looks up a registered assessment kind, case-insensitively.
func KindByName(name string) (AssessmentKind, error) {
	kind, ok := assessmentKinds[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return AssessmentKind{}, NewValidationError("kind", "unknown assessment kind "+strconv.Quote(name))
	}
	return kind, nil
}

// AssessmentKindNames returns the registered kind names, for CLI listings
// and validation messages.
func AssessmentKindNames() []string {
	names := make([]string, 0, len(assessmentKinds))
	for name := range assessmentKinds {
		names = append(names, name)
	}
	return names
}

// ClampAnswer coerces a raw survey answer onto the 1–5 scale. Out-of-range
// values clamp to the nearest bound; only unparsable input falls back to
// the minimum.
func ClampAnswer(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// Score maps answers through per-question weights onto a 0–100 scale:
//
//	100 × Σ(answer × weight) / Σ(5 × weight)
//
// rounded to two decimals. The denominator spans the full weight set, so a
// partial answer map scores low instead of failing. An empty weight set
// scores zero.
func Score(answers map[string]int, weights map[string]float64) float64 {
	var total, max float64
	for key, weight := range weights {
		max += 5 * weight
		total += float64(answers[key]) * weight
	}
	if max == 0 {
		return 0
	}
	return math.Round(100*total/max*100) / 100
}

// TierFor classifies a 0–100 score into a severity tier.
func TierFor(score float64) string {
	switch {
	case score >= 80:
		return TierCritical
	case score >= 60:
		return TierAlert
	default:
		return TierSafe
	}
}

// Assessment is one scored rapid survey. Rows are append-only; only Active
// may change after the fact, through the moderation ledger.
type Assessment struct {
	ID          int64
	Kind        string
	FacilityID  string
	VolunteerID string
	Answers     map[string]int
	Score       float64
	Tier        string
	Latitude    float64
	Longitude   float64
	RadiusM     *float64
	Note        string
	Active      bool
	CreatedAt   time.Time

	// VolunteerName is resolved from the roster at read time, never stored.
	VolunteerName string
}

// NewAssessment stamps a scored submission with the current time. Answers
// must already be clamped; Score and Tier are derived here so the two can
// never disagree.
func NewAssessment(kind AssessmentKind, volunteerID, facilityID string, answers map[string]int, p Point, radiusM *float64, note string) Assessment {
	score := Score(answers, kind.Weights)
	return Assessment{
		Kind:        kind.Name,
		FacilityID:  facilityID,
		VolunteerID: volunteerID,
		Answers:     answers,
		Score:       score,
		Tier:        TierFor(score),
		Latitude:    p.Lat,
		Longitude:   p.Lon,
		RadiusM:     radiusM,
		Note:        note,
		Active:      true,
		CreatedAt:   clock.Now(),
	}
}
