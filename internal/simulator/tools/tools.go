// Package tools executes the simulator's agent tools against the reference catalog.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
)

const (
	CheckFlightStatus    = "check_flight_status"
	CheckInventoryLevels = "check_inventory_levels"
	GetDemandSignals     = "get_demand_signals"
	FindNearestCryoDepot = "find_nearest_cryo_depot"
	RetrieveSOP          = "retrieve_sop"
)

// Definition describes a tool in the provider-neutral function-calling format.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Result mirrors the tool envelope: Data on success, Error otherwise.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Executor struct {
	catalog *refdata.Catalog
}

func NewExecutor(catalog *refdata.Catalog) *Executor {
	return &Executor{catalog: catalog}
}

func Definitions() []Definition {
	return []Definition{
		{
			Name:        CheckFlightStatus,
			Description: "Check the real-time status of a shipment flight. Returns location, delays, cargo details, and ETAs.",
			InputSchema: stringInput("flight_id", "The flight/shipment ID (e.g., VX-CGT-001)"),
		},
		{
			Name:        CheckInventoryLevels,
			Description: "Check inventory levels at a specific distribution center or depot.",
			InputSchema: stringInput("location_id", "The location ID (e.g., BOS-DC, MEM-HUB, CHI-DEPOT)"),
		},
		{
			Name:        GetDemandSignals,
			Description: "Get demand forecasting signals for a region, including stockout risk assessment.",
			InputSchema: stringInput("region", "The region to check (SOUTHEAST, NORTHEAST, MIDWEST, SOUTHWEST, WEST)"),
		},
		{
			Name:        FindNearestCryoDepot,
			Description: "Find the nearest cryopreservation depot to a given airport for emergency cell storage.",
			InputSchema: stringInput("airport_code", "The 3-letter airport code (e.g., ORD, BOS, LAX)"),
		},
		{
			Name:        RetrieveSOP,
			Description: "Retrieve the relevant Standard Operating Procedure for a given situation.",
			InputSchema: stringInput("sop_type", "Type of SOP needed: CRYO_EMERGENCY, DEMAND_SPIKE, FLIGHT_DELAY, COI_VERIFICATION, TECH_TRANSFER"),
		},
	}
}

func stringInput(field, description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: map[string]any{"type": "string", "description": description},
		},
		"required": []string{field},
	}
}

type depotResult struct {
	Airport      string              `json:"airport"`
	NearbyDepots []refdata.CryoDepot `json:"nearby_depots"`
}

// Execute runs a tool. Unknown tools and lookups that miss are reported in the
// Result, never as a Go error.
func (e *Executor) Execute(name string, input json.RawMessage) Result {
	args := map[string]any{}
	if len(input) > 0 && string(input) != "null" {
		if err := json.Unmarshal(input, &args); err != nil {
			return Result{Error: fmt.Sprintf("invalid input for %s: %v", name, err)}
		}
	}
	arg := func(key string) (string, bool) {
		v, ok := args[key].(string)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	missing := func(key string) Result {
		return Result{Error: fmt.Sprintf("%s requires %q", name, key)}
	}

	switch name {
	case CheckFlightStatus:
		id, ok := arg("flight_id")
		if !ok {
			return missing("flight_id")
		}
		if f, found := e.catalog.Flight(id); found {
			return Result{Success: true, Data: f}
		}
		return Result{Error: fmt.Sprintf("Flight %s not found", id)}

	case CheckInventoryLevels:
		id, ok := arg("location_id")
		if !ok {
			return missing("location_id")
		}
		if s, found := e.catalog.InventorySite(id); found {
			return Result{Success: true, Data: s}
		}
		return Result{Error: fmt.Sprintf("Location %s not found", id)}

	case GetDemandSignals:
		region, ok := arg("region")
		if !ok {
			return missing("region")
		}
		if d, found := e.catalog.DemandSignal(region); found {
			return Result{Success: true, Data: d}
		}
		return Result{Error: fmt.Sprintf("Region %s not found", region)}

	case FindNearestCryoDepot:
		code, ok := arg("airport_code")
		if !ok {
			return missing("airport_code")
		}
		depots := e.catalog.CryoDepots()
		if !strings.EqualFold(code, "ORD") && len(depots) > 1 {
			depots = depots[:1]
		}
		return Result{Success: true, Data: depotResult{Airport: code, NearbyDepots: depots}}

	case RetrieveSOP:
		t, ok := arg("sop_type")
		if !ok {
			return missing("sop_type")
		}
		if s, found := e.catalog.SOP(t); found {
			return Result{Success: true, Data: s}
		}
		return Result{Error: fmt.Sprintf("SOP type %s not found", t)}

	default:
		return Result{Error: fmt.Sprintf("Unknown tool: %s", name)}
	}
}
