package refdata

// Flight is a shipment in the mock flight-tracking system.
type Flight struct {
	Status             string `yaml:"status" json:"status"`
	Location           string `yaml:"location" json:"location"`
	Destination        string `yaml:"destination" json:"destination"`
	OriginAirport      string `yaml:"origin_airport" json:"-"`
	DestinationAirport string `yaml:"destination_airport" json:"-"`
	EtaOriginal        string `yaml:"eta_original" json:"eta_original"`
	DelayReason        string `yaml:"delay_reason" json:"delay_reason,omitempty"`
	Cargo              string `yaml:"cargo" json:"cargo"`
	PatientID          string `yaml:"patient_id" json:"patient_id,omitempty"`
	CryoExpiry         string `yaml:"cryo_expiry" json:"cryo_expiry,omitempty"`
	WeightKg           int    `yaml:"weight_kg" json:"weight_kg,omitempty"`
	Units              int    `yaml:"units" json:"units,omitempty"`
}

type InventorySite struct {
	Location         string `yaml:"location" json:"location"`
	TrikaftaUnits    int    `yaml:"trikafta_units" json:"trikafta_units"`
	SuzetrigineUnits int    `yaml:"suzetrigine_units" json:"suzetrigine_units"`
	CryoCapacity     int    `yaml:"cryo_capacity" json:"cryo_capacity"`
	CryoAvailable    int    `yaml:"cryo_available" json:"cryo_available"`
}

type DemandSignal struct {
	Region                      string   `yaml:"region" json:"region"`
	Suzetrigine7DayForecast     int      `yaml:"suzetrigine_7day_forecast" json:"suzetrigine_7day_forecast"`
	SuzetrigineCurrentInventory int      `yaml:"suzetrigine_current_inventory" json:"suzetrigine_current_inventory"`
	StockoutRisk                string   `yaml:"stockout_risk" json:"stockout_risk"`
	TrendingStates              []string `yaml:"trending_states" json:"trending_states"`
}

type CryoDepot struct {
	ID               string `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	DistanceFromORD  int    `yaml:"distance_from_ord" json:"distance_from_ord"`
	AvailableSlots   int    `yaml:"available_slots" json:"available_slots"`
	DriveTimeMinutes int    `yaml:"drive_time_minutes" json:"drive_time_minutes"`
}

type SOP struct {
	Title        string   `yaml:"title" json:"title"`
	Steps        []string `yaml:"steps" json:"steps"`
	CriticalNote string   `yaml:"critical_note" json:"critical_note"`
}

type Airport struct {
	Code      string  `yaml:"-" json:"code"`
	Name      string  `yaml:"name" json:"name"`
	City      string  `yaml:"city" json:"city"`
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
}

type Flashcard struct {
	ID       int    `yaml:"id" json:"id"`
	Category string `yaml:"category" json:"category"`
	Front    string `yaml:"front" json:"front"`
	Back     string `yaml:"back" json:"back"`
}
