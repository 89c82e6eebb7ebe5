package siri

// VehicleModeWater is the SIRI vehicle mode for vessels.
const VehicleModeWater = "water"

// VehicleMonitoring represents the VehicleMonitoring delivery
type VehicleMonitoring struct {
	ResponseTimestamp string                 `json:"ResponseTimestamp"`
	ValidUntil        string                 `json:"ValidUntil,omitempty"`
	VehicleActivity   []VehicleActivityEntry `json:"VehicleActivity"`
}

// VehicleActivityEntry represents a single vessel's activity
type VehicleActivityEntry struct {
	RecordedAtTime          string                  `json:"RecordedAtTime"`
	ValidUntilTime          string                  `json:"ValidUntilTime,omitempty"`
	MonitoredVehicleJourney MonitoredVehicleJourney `json:"MonitoredVehicleJourney"`
}

// MonitoredVehicleJourney contains details about a monitored vessel
type MonitoredVehicleJourney struct {
	VehicleMode       string           `json:"VehicleMode"`
	PublishedLineName string           `json:"PublishedLineName,omitempty"` // vessel name
	OperatorRef       string           `json:"OperatorRef,omitempty"`       // flag state
	DestinationName   string           `json:"DestinationName,omitempty"`
	Monitored         bool             `json:"Monitored"`
	DataSource        string           `json:"DataSource"`
	VehicleLocation   *VehicleLocation `json:"VehicleLocation,omitempty"`
	Bearing           *float64         `json:"Bearing,omitempty"`
	Velocity          *int             `json:"Velocity,omitempty"` // knots, rounded
	VehicleStatus     string           `json:"VehicleStatus,omitempty"`
	VehicleRef        string           `json:"VehicleRef"`
	VehicleModel      string           `json:"VehicleModel,omitempty"`
}

// VehicleLocation represents the geographical location of a vessel
type VehicleLocation struct {
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
}
