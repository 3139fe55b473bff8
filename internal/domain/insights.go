package domain

import (
	"github.com/mindtriage/mindtriage-api/internal/engine"
)

// InsightRequest contains query parameters for the insight endpoint.
type InsightRequest struct {
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	WindowDays int    `json:"window_days" validate:"omitempty,min=7,max=90"`
	// Skip the LLM narrative even when a client is configured
	SkipNarrative bool `json:"skip_narrative"`
}

// LLMNarrativeOutput contains the structured output from the LLM.
// @Description LLM-written narrative over the computed drift report.
type LLMNarrativeOutput struct {
	// Summary of today's signals against baseline (2-3 sentences)
	Summary string `json:"summary" example:"Your mood and energy are close to your two-week baseline..."`
	// Observations about the signal movements (3-6 items)
	Observations []string `json:"observations"`
	// Gentle, non-clinical guidance (3-5 items)
	Guidance []string `json:"guidance"`
}

// InsightContext is the context object sent to the LLM. It carries only
// computed aggregates, never raw journal text.
type InsightContext struct {
	Date     string                                  `json:"date"`
	Baseline map[engine.SignalKey]engine.SignalStats `json:"baseline"`
	Report   engine.DriftReport                      `json:"report"`
}

// InsightResponse is the response body for the insight endpoint.
// @Description Drift report with confidence, recommendations and optional narrative.
type InsightResponse struct {
	// Target date of the report
	Date string `json:"date" example:"2024-05-20"`
	// Baseline window used
	WindowDays int `json:"window_days" example:"14"`
	// Per-signal drift classification
	Drift map[engine.SignalKey]engine.DriftEntry `json:"drift"`
	// Largest movers, up to three
	TopChanges []engine.DriftChange `json:"top_changes"`
	// Report confidence in [0.05, 0.95]
	Confidence float64 `json:"confidence" example:"0.82"`
	// Deterministic recommendations, up to five
	Recommendations []string `json:"recommendations"`
	// LLM narrative, present only when a client is configured
	Narrative *LLMNarrativeOutput `json:"narrative,omitempty"`
	// Trace ID for correlating with telemetry (when tracing is enabled)
	TraceID string `json:"trace_id,omitempty"`
}

// EngagementResponse is the response body for the engagement endpoint.
// @Description Check-in consistency summary.
type EngagementResponse struct {
	AnsweredLast7Days int     `json:"answered_last_7_days" example:"5"`
	StreakDays        int     `json:"streak_days" example:"3"`
	BestStreakDays    int     `json:"best_streak_days" example:"9"`
	ConfidenceBonus   float64 `json:"confidence_bonus" example:"0.05"`
}
