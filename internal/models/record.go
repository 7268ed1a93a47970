// Package models defines the domain objects of the mindscale client:
// reflection records with their analysis, and accounts with usage limits.
package models

import "time"

// AnalysisKind tags an Analysis so a degraded placeholder can never be
// mistaken for a real all-zero score.
type AnalysisKind string

const (
	AnalysisAnalyzed AnalysisKind = "analyzed"
	AnalysisDegraded AnalysisKind = "degraded"
)

// Scores holds the three affective dimensions, each in [-5, 5].
type Scores struct {
	Calmness  int `json:"calmness"`
	Awareness int `json:"awareness"`
	Energy    int `json:"energy"`
}

type TimeOrientation string

const (
	OrientationPast    TimeOrientation = "Past"
	OrientationPresent TimeOrientation = "Present"
	OrientationFuture  TimeOrientation = "Future"
)

type FocusTarget string

const (
	FocusInternal FocusTarget = "Internal"
	FocusExternal FocusTarget = "External"
)

// FocusAnalysis places the reflection on the time/target coordinate system.
type FocusAnalysis struct {
	TimeOrientation TimeOrientation `json:"time_orientation"`
	FocusTarget     FocusTarget     `json:"focus_target"`
}

// NVCGuide is the non-violent-communication breakdown of the reflection.
type NVCGuide struct {
	Observation     string `json:"observation"`
	Feeling         string `json:"feeling"`
	Need            string `json:"need"`
	EmpathyResponse string `json:"empathy_response"`
}

type Recommendations struct {
	HolisticAdvice string `json:"holistic_advice"`
}

// Analysis is the structured result of the analysis collaborator.
type Analysis struct {
	Kind            AnalysisKind    `json:"kind"`
	Summary         string          `json:"summary"`
	Scores          Scores          `json:"scores"`
	FocusAnalysis   FocusAnalysis   `json:"focus_analysis"`
	NVCGuide        NVCGuide        `json:"nvc_guide"`
	KeyInsights     []string        `json:"key_insights"`
	Recommendations Recommendations `json:"recommendations"`
}

// Degraded reports whether this analysis is a placeholder written after the
// analysis call failed.
func (a Analysis) Degraded() bool {
	return a.Kind == AnalysisDegraded
}

// DegradedAnalysis returns the neutral placeholder stored when the analysis
// call fails: the raw input survives, the scores carry no meaning.
func DegradedAnalysis() Analysis {
	return Analysis{
		Kind:    AnalysisDegraded,
		Summary: "analysis failed",
		FocusAnalysis: FocusAnalysis{
			TimeOrientation: OrientationPresent,
			FocusTarget:     FocusInternal,
		},
		KeyInsights: []string{},
	}
}

// Record is one user reflection plus its (possibly degraded) analysis.
// A Record is never mutated in place; corrections happen by delete+recreate.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserInput string    `json:"user_input"`
	Analysis  Analysis  `json:"analysis"`
}
