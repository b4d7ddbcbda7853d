package scenario

import (
	"fmt"
	"strings"
)

// IncompleteScenarioError means a payload was parsed but lacks required fields or
// has the wrong shape. The remedy is to regenerate.
type IncompleteScenarioError struct {
	Missing  []string
	Problems []string
	Err      error
}

func (e *IncompleteScenarioError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return "scenario is incomplete: missing " + strings.Join(e.Missing, ", ")
	case len(e.Problems) > 0:
		return "scenario failed validation: " + strings.Join(e.Problems, "; ")
	case e.Err != nil:
		return fmt.Sprintf("scenario failed validation: %v", e.Err)
	default:
		return "scenario is incomplete"
	}
}

func (e *IncompleteScenarioError) Unwrap() error { return e.Err }

func (e *IncompleteScenarioError) ErrorCode() string { return "incomplete_scenario" }

// Warning codes reported by Resolve.
const (
	WarnUnknownFlight        = "unknown_flight_reference"
	WarnUnknownPatient       = "unknown_patient_reference"
	WarnInvalidStatus        = "invalid_flight_status"
	WarnStatusTextMismatch   = "status_text_mismatch"
	WarnHintsTruncated       = "hints_truncated"
	WarnCryoWithoutPatient   = "cryo_minutes_without_patient_flight"
	WarnNegativeCryoMinutes  = "negative_cryo_minutes"
	WarnCryoMinutesCapped    = "cryo_minutes_capped"
	WarnSeverityNotCanonical = "severity_not_canonical"
)

// ConsistencyWarning is a soft violation. The scenario is still delivered.
type ConsistencyWarning struct {
	Code    string `json:"code"`
	Ref     string `json:"ref,omitempty"`
	Message string `json:"message"`
}

func (w ConsistencyWarning) String() string {
	if w.Ref == "" {
		return w.Code + ": " + w.Message
	}
	return w.Code + "[" + w.Ref + "]: " + w.Message
}
