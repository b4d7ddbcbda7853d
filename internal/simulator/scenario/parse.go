package scenario

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/yungbote/flightsim-backend/internal/simulator/extract"
)

//go:embed schema/scenario.schema.json
var schemaJSON string

const schemaURL = "https://flightsim.local/schema/scenario.schema.json"

var compiledSchema = jsonschema.MustCompileString(schemaURL, schemaJSON)

var requiredFields = []string{
	"alert_title",
	"alert_severity",
	"briefing",
	"initial_data",
	"ideal_response_checklist",
	"hints",
	"scenario_data",
}

// Parse turns raw model output into a schema-valid Scenario. Extraction failures are
// returned as *extract.ExtractionError / *extract.MalformedPayloadError; structural
// problems as *IncompleteScenarioError.
func Parse(raw string) (*Scenario, error) {
	payload, err := extract.Extract(raw, extract.Object)
	if err != nil {
		return nil, err
	}
	return ParsePayload(payload)
}

// ParsePayload validates an already-extracted JSON object.
func ParsePayload(payload []byte) (*Scenario, error) {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &extract.MalformedPayloadError{Shape: extract.Object, Err: err}
	}

	var missing []string
	for _, f := range requiredFields {
		if v, ok := doc[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteScenarioError{Missing: missing}
	}

	normalizeDoc(doc)

	if err := compiledSchema.Validate(doc); err != nil {
		return nil, &IncompleteScenarioError{Problems: schemaProblems(err), Err: err}
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, &IncompleteScenarioError{Err: err}
	}
	var s Scenario
	if err := json.Unmarshal(normalized, &s); err != nil {
		return nil, &IncompleteScenarioError{Err: err}
	}
	if s.ScenarioData.Flights == nil {
		s.ScenarioData.Flights = map[string]*Flight{}
	}
	return &s, nil
}

// normalizeDoc coerces the common spelling and typing slips of model output into the
// schema's canonical forms before validation.
func normalizeDoc(doc map[string]any) {
	if s, ok := doc["alert_severity"].(string); ok {
		doc["alert_severity"] = normalizeSeverity(s)
	}
	for _, k := range []string{"hints", "ideal_response_checklist"} {
		if s, ok := doc[k].(string); ok {
			doc[k] = []any{s}
		}
	}

	sd, ok := doc["scenario_data"].(map[string]any)
	if !ok {
		return
	}
	if v, present := sd["cryo_expiry_minutes"]; present {
		sd["cryo_expiry_minutes"] = coerceMinutes(v)
	}
	flights, ok := sd["flights"].(map[string]any)
	if !ok {
		return
	}
	for _, fv := range flights {
		f, ok := fv.(map[string]any)
		if !ok {
			continue
		}
		if st, ok := f["status"].(string); ok {
			norm, _ := NormalizeFlightStatus(st)
			f["status"] = string(norm)
		}
		if pid, ok := f["patient_id"].(string); ok && isPlaceholderID(pid) {
			delete(f, "patient_id")
		}
		if exp, present := f["cryo_expiry"]; present {
			if s, ok := exp.(string); !ok || !isTimestamp(s) {
				f["cryo_expiry"] = nil
			}
		}
	}
}

// isPlaceholderID matches the filler models write in place of a missing id.
func isPlaceholderID(s string) bool {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), ".")) {
	case "", "n/a", "na", "none", "null", "nil", "-", "--", "tbd", "unknown", "not applicable":
		return true
	}
	return false
}

func coerceMinutes(v any) any {
	switch t := v.(type) {
	case float64:
		return math.Round(t)
	case string:
		if n, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return math.Round(n)
		}
		return nil
	default:
		return v
	}
}

func isTimestamp(s string) bool {
	_, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	return err == nil
}

func schemaProblems(err error) []string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	var out []string
	var walk func(v *jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		if len(v.Causes) == 0 {
			loc := v.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			out = append(out, fmt.Sprintf("%s: %s", loc, v.Message))
			return
		}
		for _, c := range v.Causes {
			walk(c)
		}
	}
	walk(ve)
	sort.Strings(out)
	return out
}
