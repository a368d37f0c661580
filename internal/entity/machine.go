package entity

import "github.com/google/uuid"

// Machine is a declared piece of equipment used for the machine-load
// estimate. Eff is stored as entered; normalization to a fraction happens
// at computation time.
type Machine struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	PowerKW    float64   `json:"kW"`
	Eff        float64   `json:"eff"`
	HoursYear  float64   `json:"hoursYear"`
	Util       float64   `json:"util"`
	ConsFactor float64   `json:"consFactor"`
	Note       string    `json:"note,omitempty"`
}

// AuxProduction is one month of on-site generation (produced and
// self-consumed energy).
type AuxProduction struct {
	ID       uuid.UUID `json:"id"`
	Month    string    `json:"month"`
	Type     string    `json:"type"`
	Produced float64   `json:"produced"`
	Self     float64   `json:"self"`
	Note     string    `json:"note,omitempty"`
}

// ThermalUser is one gas-consuming appliance (boiler, furnace).
type ThermalUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	PowerKW   float64   `json:"power"`
	Eff       float64   `json:"eff"`
	HoursYear float64   `json:"hoursYear"`
	Util      float64   `json:"util"`
	Note      string    `json:"note,omitempty"`
}

// Project is the snapshot's metadata section.
type Project struct {
	Name  string `json:"name"`
	Site  string `json:"site"`
	Year  int    `json:"year"`
	Notes string `json:"notes"`
}
