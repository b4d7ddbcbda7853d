package scenario

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	flightIDPattern  = regexp.MustCompile(`\b[A-Z]{2}-[A-Z]{2,4}-\d{2,4}\b`)
	patientIDPattern = regexp.MustCompile(`\bPT-\d{3,6}\b`)
	patientCargo     = regexp.MustCompile(`(?i)\b(patient|cells?|cell[- ]therapy|gene[- ]therapy|casgevy|autologous|cgt|cryo\w*|apheresis)\b`)
	sentenceSplit    = regexp.MustCompile(`[.!?]\s+|\n+`)
)

// maxCryoExpiryMinutes bounds cryo_expiry_minutes to one week, well past any
// dry shipper hold time.
const maxCryoExpiryMinutes = 7 * 24 * 60

// statusMentions are phrases that imply a status when they appear in free text.
var statusMentions = map[FlightStatus][]string{
	StatusGrounded:  {"grounded", "on the ground", "stuck at"},
	StatusInTransit: {"in transit", "airborne", "in the air", "en route", "in flight", "mid-flight"},
	StatusDiverted:  {"diverted", "rerouted to"},
	StatusArrived:   {"arrived", "landed"},
}

// statusConflicts lists, per status, the statuses whose mention contradicts it.
var statusConflicts = map[FlightStatus][]FlightStatus{
	StatusGrounded:  {StatusInTransit, StatusArrived},
	StatusInTransit: {StatusGrounded, StatusArrived},
	StatusDiverted:  {StatusGrounded, StatusArrived},
	StatusArrived:   {StatusGrounded, StatusInTransit, StatusDiverted},
	StatusDelayed:   {StatusArrived},
}

type ResolveOptions struct {
	Now        time.Time
	Difficulty Difficulty
}

// Resolve enforces the cross-field rules on s in place and returns the soft
// violations it found. It fails only when required fields are missing. For a fixed
// Now, applying Resolve twice yields the same scenario.
func Resolve(s *Scenario, opts ResolveOptions) ([]ConsistencyWarning, error) {
	if err := checkRequired(s); err != nil {
		return nil, err
	}
	sd := s.ScenarioData
	if sd.Flights == nil {
		sd.Flights = map[string]*Flight{}
	}
	var warns []ConsistencyWarning

	if norm := Severity(normalizeSeverity(string(s.AlertSeverity))); norm != s.AlertSeverity {
		s.AlertSeverity = norm
	}
	if !severityValid(s.AlertSeverity) {
		warns = append(warns, ConsistencyWarning{
			Code:    WarnSeverityNotCanonical,
			Ref:     string(s.AlertSeverity),
			Message: "alert severity is not one of CRITICAL, HIGH, MEDIUM",
		})
	}

	ids := sortedFlightIDs(sd.Flights)

	referenced := referencedFlights(s)
	for _, ref := range referenced {
		if _, ok := sd.Flights[ref]; !ok {
			warns = append(warns, ConsistencyWarning{
				Code:    WarnUnknownFlight,
				Ref:     ref,
				Message: fmt.Sprintf("flight %s is referenced but not present in scenario_data.flights", ref),
			})
		}
	}

	warns = append(warns, checkPatients(s, referenced, ids)...)

	for _, id := range ids {
		f := sd.Flights[id]
		if f == nil {
			continue
		}
		if norm, ok := NormalizeFlightStatus(string(f.Status)); ok {
			f.Status = norm
		} else {
			warns = append(warns, ConsistencyWarning{
				Code:    WarnInvalidStatus,
				Ref:     id,
				Message: fmt.Sprintf("flight %s has status %q outside the known set", id, f.Status),
			})
			continue
		}
		if mentioned, ok := conflictingMention(f.Status, flightText(s.Briefing, id, f)); ok {
			warns = append(warns, ConsistencyWarning{
				Code:    WarnStatusTextMismatch,
				Ref:     id,
				Message: fmt.Sprintf("flight %s has status %s but is described as %s", id, f.Status, strings.ToLower(string(mentioned))),
			})
		}
	}

	warns = append(warns, applyCryoExpiry(sd, ids, opts.Now)...)

	if limit := opts.Difficulty.HintCap(); limit > 0 && len(s.Hints) > limit {
		warns = append(warns, ConsistencyWarning{
			Code:    WarnHintsTruncated,
			Ref:     string(opts.Difficulty),
			Message: fmt.Sprintf("%d hints truncated to %d for %s difficulty", len(s.Hints), limit, opts.Difficulty),
		})
		s.Hints = s.Hints[:limit]
	}
	return warns, nil
}

func checkRequired(s *Scenario) error {
	if s == nil {
		return &IncompleteScenarioError{Missing: requiredFields}
	}
	var missing []string
	if strings.TrimSpace(s.AlertTitle) == "" {
		missing = append(missing, "alert_title")
	}
	if strings.TrimSpace(string(s.AlertSeverity)) == "" {
		missing = append(missing, "alert_severity")
	}
	if strings.TrimSpace(s.Briefing) == "" {
		missing = append(missing, "briefing")
	}
	if s.InitialData == nil {
		missing = append(missing, "initial_data")
	}
	if s.IdealResponseChecklist == nil {
		missing = append(missing, "ideal_response_checklist")
	}
	if s.Hints == nil {
		missing = append(missing, "hints")
	}
	if s.ScenarioData == nil {
		missing = append(missing, "scenario_data")
	}
	if len(missing) > 0 {
		return &IncompleteScenarioError{Missing: missing}
	}
	return nil
}

func severityValid(s Severity) bool {
	for _, v := range Severities {
		if v == s {
			return true
		}
	}
	return false
}

// referencedFlights returns flight ids named in the briefing or initial data, in
// first-mention order.
func referencedFlights(s *Scenario) []string {
	seen := map[string]bool{}
	var out []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range flightIDPattern.FindAllString(s.Briefing, -1) {
		add(id)
	}
	if s.InitialData != nil {
		fid := strings.TrimSpace(s.InitialData.FlightID)
		matches := flightIDPattern.FindAllString(fid, -1)
		if len(matches) == 0 && fid != "" && !strings.EqualFold(fid, "n/a") {
			add(fid)
		}
		for _, id := range matches {
			add(id)
		}
	}
	return out
}

// checkPatients verifies that every patient id in the briefing belongs to a
// referenced flight. When the briefing names no flight, every flight counts.
func checkPatients(s *Scenario, referenced, allIDs []string) []ConsistencyWarning {
	patients := patientIDPattern.FindAllString(s.Briefing, -1)
	if len(patients) == 0 {
		return nil
	}
	pool := referenced
	if len(pool) == 0 {
		pool = allIDs
	}
	known := map[string]bool{}
	for _, id := range pool {
		if f := s.ScenarioData.Flights[id]; f != nil && f.PatientID != "" {
			known[strings.TrimSpace(f.PatientID)] = true
		}
	}
	var warns []ConsistencyWarning
	seen := map[string]bool{}
	for _, p := range patients {
		if seen[p] || known[p] {
			continue
		}
		seen[p] = true
		warns = append(warns, ConsistencyWarning{
			Code:    WarnUnknownPatient,
			Ref:     p,
			Message: fmt.Sprintf("patient %s is mentioned in the briefing but carried by no referenced flight", p),
		})
	}
	return warns
}

// CarriesPatientMaterial reports whether a flight's cargo is a cell or gene therapy
// payload. A patient_id only counts when it is a real PT- identifier.
func CarriesPatientMaterial(f *Flight) bool {
	if f == nil {
		return false
	}
	return patientCargo.MatchString(f.Cargo) || patientIDPattern.MatchString(f.PatientID)
}

func applyCryoExpiry(sd *ScenarioData, ids []string, now time.Time) []ConsistencyWarning {
	if sd.CryoExpiryMinutes == nil {
		sd.ComputedCryoExpiryAbsolute = nil
		return nil
	}
	var warns []ConsistencyWarning
	minutes := *sd.CryoExpiryMinutes
	if minutes < 0 {
		warns = append(warns, ConsistencyWarning{
			Code:    WarnNegativeCryoMinutes,
			Ref:     fmt.Sprint(minutes),
			Message: "cryo_expiry_minutes is negative; treated as already expired",
		})
		minutes = 0
	}
	if minutes > maxCryoExpiryMinutes {
		warns = append(warns, ConsistencyWarning{
			Code:    WarnCryoMinutesCapped,
			Ref:     fmt.Sprint(minutes),
			Message: fmt.Sprintf("cryo_expiry_minutes exceeds %d; capped", maxCryoExpiryMinutes),
		})
		minutes = maxCryoExpiryMinutes
	}
	expiry := now.UTC().Add(time.Duration(minutes) * time.Minute)
	sd.ComputedCryoExpiryAbsolute = &expiry

	qualifying := 0
	for _, id := range ids {
		f := sd.Flights[id]
		if f == nil {
			continue
		}
		if CarriesPatientMaterial(f) {
			at := expiry
			f.CryoExpiry = &at
			qualifying++
		} else {
			f.CryoExpiry = nil
		}
	}
	if qualifying == 0 {
		warns = append(warns, ConsistencyWarning{
			Code:    WarnCryoWithoutPatient,
			Message: "cryo_expiry_minutes is set but no flight carries cell or gene therapy cargo",
		})
	}
	return warns
}

// flightText gathers the free text describing a flight: its own location and delay
// reason plus every briefing sentence that names it.
func flightText(briefing, id string, f *Flight) string {
	parts := []string{f.Location, f.DelayReason}
	for _, sentence := range sentenceSplit.Split(briefing, -1) {
		if strings.Contains(sentence, id) {
			parts = append(parts, sentence)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func conflictingMention(status FlightStatus, text string) (FlightStatus, bool) {
	for _, other := range statusConflicts[status] {
		for _, phrase := range statusMentions[other] {
			if strings.Contains(text, phrase) {
				return other, true
			}
		}
	}
	return "", false
}

func sortedFlightIDs(m map[string]*Flight) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
