// Package scenario holds the scenario model and the consistency rules applied to
// model-authored scenarios before they reach a trainee.
package scenario

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"
)

type Role string

const (
	RoleSupplyChainPlanner Role = "SupplyChainPlanner"
	RoleQualityEngineer    Role = "QualityEngineer"
)

// ParseRole accepts the enum value or a display label such as
// "Supply Chain Planner (Suzetrigine Launch)".
func ParseRole(s string) (Role, error) {
	key := squash(s)
	switch {
	case strings.HasPrefix(key, "supplychainplanner"), key == "planner", key == "scp":
		return RoleSupplyChainPlanner, nil
	case strings.HasPrefix(key, "qualityengineer"), key == "quality", key == "qe":
		return RoleQualityEngineer, nil
	}
	return "", fmt.Errorf("unknown role %q (want SupplyChainPlanner or QualityEngineer)", s)
}

func (r Role) Label() string {
	switch r {
	case RoleSupplyChainPlanner:
		return "Supply Chain Planner"
	case RoleQualityEngineer:
		return "Quality Engineer"
	default:
		return string(r)
	}
}

type Difficulty string

const (
	Beginner     Difficulty = "Beginner"
	Intermediate Difficulty = "Intermediate"
	Expert       Difficulty = "Expert"
)

func ParseDifficulty(s string) (Difficulty, error) {
	switch squash(s) {
	case "beginner", "easy":
		return Beginner, nil
	case "intermediate", "medium":
		return Intermediate, nil
	case "expert", "hard", "advanced":
		return Expert, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want Beginner, Intermediate or Expert)", s)
}

// Upper is the form used in prompts, e.g. "EXPERT".
func (d Difficulty) Upper() string { return strings.ToUpper(string(d)) }

// HintCap is the maximum number of hints kept for the difficulty; 0 means no cap.
func (d Difficulty) HintCap() int {
	switch d {
	case Beginner:
		return 5
	case Intermediate:
		return 3
	case Expert:
		return 2
	default:
		return 0
	}
}

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
)

var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium}

func normalizeSeverity(s string) string {
	switch squash(s) {
	case "critical", "crit", "severe":
		return string(SeverityCritical)
	case "high":
		return string(SeverityHigh)
	case "medium", "moderate", "med":
		return string(SeverityMedium)
	}
	return strings.ToUpper(strings.TrimSpace(s))
}

type FlightStatus string

const (
	StatusGrounded  FlightStatus = "GROUNDED"
	StatusDelayed   FlightStatus = "DELAYED"
	StatusInTransit FlightStatus = "IN_TRANSIT"
	StatusDiverted  FlightStatus = "DIVERTED"
	StatusArrived   FlightStatus = "ARRIVED"
)

var FlightStatuses = []FlightStatus{StatusGrounded, StatusDelayed, StatusInTransit, StatusDiverted, StatusArrived}

// NormalizeFlightStatus maps spelling variants ("in transit", "InTransit", "landed")
// onto the closed status set. ok is false when nothing matches; the input is then
// returned upper-cased.
func NormalizeFlightStatus(s string) (FlightStatus, bool) {
	switch squash(s) {
	case "grounded":
		return StatusGrounded, true
	case "delayed":
		return StatusDelayed, true
	case "intransit", "airborne", "enroute", "inflight":
		return StatusInTransit, true
	case "diverted":
		return StatusDiverted, true
	case "arrived", "landed", "delivered":
		return StatusArrived, true
	}
	return FlightStatus(strings.ToUpper(strings.TrimSpace(s))), false
}

func (s FlightStatus) Valid() bool {
	for _, v := range FlightStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Scenario is the structured training scenario. Wire keys are snake_case.
type Scenario struct {
	AlertTitle             string        `json:"alert_title"`
	AlertSeverity          Severity      `json:"alert_severity"`
	Briefing               string        `json:"briefing"`
	InitialData            *InitialData  `json:"initial_data"`
	IdealResponseChecklist []string      `json:"ideal_response_checklist"`
	Hints                  []string      `json:"hints"`
	ScenarioData           *ScenarioData `json:"scenario_data"`

	Role       Role       `json:"role,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

type InitialData struct {
	FlightID     string         `json:"flight_id,omitempty"`
	Location     string         `json:"location,omitempty"`
	TimePressure string         `json:"time_pressure,omitempty"`
	KeyMetrics   map[string]any `json:"key_metrics,omitempty"`
}

type ScenarioData struct {
	Flights                    map[string]*Flight `json:"flights"`
	Inventory                  map[string]Record  `json:"inventory,omitempty"`
	Demand                     map[string]Record  `json:"demand,omitempty"`
	CryoExpiryMinutes          *int               `json:"cryo_expiry_minutes"`
	CryoDepots                 []CryoDepot        `json:"cryo_depots,omitempty"`
	ComputedCryoExpiryAbsolute *time.Time         `json:"computed_cryo_expiry_absolute,omitempty"`
}

type Flight struct {
	Status      FlightStatus `json:"status"`
	Location    string       `json:"location,omitempty"`
	Destination string       `json:"destination,omitempty"`
	Cargo       string       `json:"cargo"`
	PatientID   string       `json:"patient_id,omitempty"`
	DelayReason string       `json:"delay_reason,omitempty"`
	EtaOriginal string       `json:"eta_original,omitempty"`
	CryoExpiry  *time.Time   `json:"cryo_expiry"`
}

// Record is an open-ended stock or forecast record authored by the model.
type Record map[string]any

type CryoDepot struct {
	ID               string  `json:"id"`
	Name             string  `json:"name,omitempty"`
	Airport          string  `json:"airport,omitempty"`
	DistanceMiles    float64 `json:"distance_miles,omitempty"`
	AvailableSlots   int     `json:"available_slots,omitempty"`
	DriveTimeMinutes int     `json:"drive_time_minutes,omitempty"`
}

// Request is the per-call input to scenario generation.
type Request struct {
	Role            Role
	Difficulty      Difficulty
	UseRealTimeData bool
	RealTimeFacts   []RealTimeFact
}

// RealTimeFact is one pre-fetched grounding fact. Exactly one of Result or Error is set.
type RealTimeFact struct {
	SourceTool string          `json:"source_tool"`
	Arguments  map[string]any  `json:"arguments,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

func (f RealTimeFact) Failed() bool { return f.Error != "" }

// Turn is one entry of caller-managed conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UnmarshalJSON accepts non-string content (structured blocks) and keeps it as compact JSON text.
func (t *Turn) UnmarshalJSON(b []byte) error {
	var raw struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t.Role = NormalizeTurnRole(raw.Role)
	t.Content = ""
	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Content, &s); err == nil {
		t.Content = s
		return nil
	}
	t.Content = string(raw.Content)
	return nil
}

const (
	TurnUser      = "user"
	TurnAssistant = "assistant"
)

func NormalizeTurnRole(r string) string {
	switch strings.ToLower(strings.TrimSpace(r)) {
	case "assistant", "model", "ai", "gamemaster":
		return TurnAssistant
	default:
		return TurnUser
	}
}

// squash lower-cases and drops everything but letters and digits.
func squash(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
