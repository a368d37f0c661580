package entity

import (
	"github.com/joseph-ayodele/energy-tracker/constants"
)

// ElectricityReading is the kind-specific payload of an electricity meter:
// the three time-of-use bands plus optional power figures.
type ElectricityReading struct {
	F1          float64 `json:"f1"`
	F2          float64 `json:"f2"`
	F3          float64 `json:"f3"`
	ActivePower float64 `json:"activePower,omitempty"`
	PowerFactor float64 `json:"powerFactor,omitempty"`
}

// GasReading is the kind-specific payload of a gas meter.
type GasReading struct {
	Volume float64 `json:"gasVolume"`
}

// MonthlyRecord is one meter's consumption for one canonical month.
// Exactly one of Electricity or Gas is set; Kind dispatches on it.
type MonthlyRecord struct {
	Month       string               `json:"month"` // canonical YYYY-MM
	Electricity *ElectricityReading  `json:"electricity,omitempty"`
	Gas         *GasReading          `json:"gas,omitempty"`
	Note        string               `json:"note,omitempty"`
	Source      constants.Provenance `json:"source"`
}

// Kind reports which payload variant the record carries.
func (r MonthlyRecord) Kind() constants.MeterKind {
	if r.Gas != nil {
		return constants.Gas
	}
	return constants.Electricity
}

// Total is the record's overall consumption (band sum or gas volume).
func (r MonthlyRecord) Total() float64 {
	if r.Gas != nil {
		return r.Gas.Volume
	}
	if r.Electricity != nil {
		return r.Electricity.F1 + r.Electricity.F2 + r.Electricity.F3
	}
	return 0
}

// LogEntry is one line of the append-only audit log.
type LogEntry struct {
	TS  string `json:"ts"` // RFC 3339
	Msg string `json:"msg"`
}
