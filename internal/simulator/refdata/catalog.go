package refdata

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var referenceYAML []byte

//go:embed data/flashcards.yaml
var flashcardsYAML []byte

// Catalog is the immutable reference data set: mock flight, inventory, demand and
// depot tables, SOPs, airports and the flashcard deck. Every accessor returns a copy,
// so a single Catalog is safe to share across requests.
type Catalog struct {
	flights    map[string]Flight
	inventory  map[string]InventorySite
	demand     map[string]DemandSignal
	depots     []CryoDepot
	sops       map[string]SOP
	airports   map[string]Airport
	flashcards []Flashcard
	categories []string
}

type referenceFile struct {
	Flights    map[string]Flight        `yaml:"flights"`
	Inventory  map[string]InventorySite `yaml:"inventory"`
	Demand     map[string]DemandSignal  `yaml:"demand"`
	CryoDepots []CryoDepot              `yaml:"cryo_depots"`
	SOPs       map[string]SOP           `yaml:"sops"`
	Airports   map[string]Airport       `yaml:"airports"`
}

type flashcardFile struct {
	Flashcards []Flashcard `yaml:"flashcards"`
}

// Load parses the embedded data files.
func Load() (*Catalog, error) {
	return Parse(referenceYAML, flashcardsYAML)
}

func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(reference, flashcards []byte) (*Catalog, error) {
	var ref referenceFile
	if err := yaml.Unmarshal(reference, &ref); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	var deck flashcardFile
	if err := yaml.Unmarshal(flashcards, &deck); err != nil {
		return nil, fmt.Errorf("parse flashcards: %w", err)
	}
	if len(ref.Flights) == 0 {
		return nil, errors.New("reference data has no flights")
	}

	c := &Catalog{
		flights:    ref.Flights,
		inventory:  ref.Inventory,
		demand:     make(map[string]DemandSignal, len(ref.Demand)),
		depots:     ref.CryoDepots,
		sops:       ref.SOPs,
		airports:   make(map[string]Airport, len(ref.Airports)),
		flashcards: deck.Flashcards,
	}
	for k, v := range ref.Demand {
		if v.TrendingStates == nil {
			v.TrendingStates = []string{}
		}
		c.demand[strings.ToUpper(k)] = v
	}
	for code, a := range ref.Airports {
		a.Code = strings.ToUpper(code)
		c.airports[a.Code] = a
	}
	for id, f := range c.flights {
		for _, code := range []string{f.OriginAirport, f.DestinationAirport} {
			if code == "" {
				continue
			}
			if _, ok := c.airports[code]; !ok {
				return nil, fmt.Errorf("flight %s references unknown airport %s", id, code)
			}
		}
	}

	seenID := map[int]bool{}
	seenCat := map[string]bool{}
	for _, f := range c.flashcards {
		if seenID[f.ID] {
			return nil, fmt.Errorf("duplicate flashcard id %d", f.ID)
		}
		seenID[f.ID] = true
		if f.Category == "" || f.Front == "" {
			return nil, fmt.Errorf("flashcard %d missing category or front", f.ID)
		}
		if !seenCat[f.Category] {
			seenCat[f.Category] = true
			c.categories = append(c.categories, f.Category)
		}
	}
	return c, nil
}

func (c *Catalog) Flights() map[string]Flight {
	return maps.Clone(c.flights)
}

func (c *Catalog) Flight(id string) (Flight, bool) {
	f, ok := c.flights[id]
	return f, ok
}

// FlightIDs returns flight ids in sorted order.
func (c *Catalog) FlightIDs() []string {
	return sortedKeys(c.flights)
}

func (c *Catalog) Inventory() map[string]InventorySite {
	return maps.Clone(c.inventory)
}

func (c *Catalog) InventorySite(id string) (InventorySite, bool) {
	s, ok := c.inventory[id]
	return s, ok
}

func (c *Catalog) Demand() map[string]DemandSignal {
	out := make(map[string]DemandSignal, len(c.demand))
	for k, v := range c.demand {
		v.TrendingStates = slices.Clone(v.TrendingStates)
		out[k] = v
	}
	return out
}

// DemandSignal looks up a region case-insensitively.
func (c *Catalog) DemandSignal(region string) (DemandSignal, bool) {
	d, ok := c.demand[strings.ToUpper(strings.TrimSpace(region))]
	if ok {
		d.TrendingStates = slices.Clone(d.TrendingStates)
	}
	return d, ok
}

func (c *Catalog) CryoDepots() []CryoDepot {
	return slices.Clone(c.depots)
}

func (c *Catalog) SOP(sopType string) (SOP, bool) {
	s, ok := c.sops[sopType]
	if ok {
		s.Steps = slices.Clone(s.Steps)
	}
	return s, ok
}

func (c *Catalog) SOPTypes() []string {
	return sortedKeys(c.sops)
}

func (c *Catalog) Airport(code string) (Airport, bool) {
	a, ok := c.airports[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

func (c *Catalog) Flashcards() []Flashcard {
	return slices.Clone(c.flashcards)
}

// Categories returns flashcard categories in deck order.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
