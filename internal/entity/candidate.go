package entity

import (
	"github.com/joseph-ayodele/energy-tracker/constants"
)

// Candidate is a best-effort normalized energy record produced by the
// column mapper or the document pipeline. It is never persisted directly:
// the caller confirms it into a MonthlyRecord. Pointer fields distinguish
// "absent" from a legitimate zero.
type Candidate struct {
	Origin      string // file name or row label, for review tables
	Month       string // canonical YYYY-MM, or the raw value when invalid
	F1          *float64
	F2          *float64
	F3          *float64
	Gas         *float64
	ActivePower *float64
	PowerFactor *float64
	Note        string
	Valid       bool

	// Document extraction only.
	Method     constants.ExtractionMethod
	Status     constants.CandidateStatus
	Confidence string
}

// Record converts a valid candidate into the monthly record for the given
// meter kind, applying the original zero defaults for absent optionals.
func (c Candidate) Record(kind constants.MeterKind, source constants.Provenance) MonthlyRecord {
	rec := MonthlyRecord{Month: c.Month, Note: c.Note, Source: source}
	if kind == constants.Gas {
		rec.Gas = &GasReading{Volume: deref(c.Gas)}
		return rec
	}
	rec.Electricity = &ElectricityReading{
		F1:          deref(c.F1),
		F2:          deref(c.F2),
		F3:          deref(c.F3),
		ActivePower: deref(c.ActivePower),
		PowerFactor: deref(c.PowerFactor),
	}
	return rec
}

// AuxCandidate is an unconfirmed auxiliary-generation row.
type AuxCandidate struct {
	Month    string
	Type     string
	Produced *float64
	Self     *float64
	Note     string
	Valid    bool
}

// ThermalCandidate is an unconfirmed thermal-user row.
type ThermalCandidate struct {
	Name      string
	Type      string
	PowerKW   *float64
	Eff       *float64
	HoursYear *float64
	Util      *float64
	Note      string
	Valid     bool
}

// Production converts a valid aux candidate into a storable row.
func (c AuxCandidate) Production() AuxProduction {
	return AuxProduction{
		Month:    c.Month,
		Type:     c.Type,
		Produced: deref(c.Produced),
		Self:     deref(c.Self),
		Note:     c.Note,
	}
}

// User converts a valid thermal candidate into a storable row.
// Unentered efficiency and utilization default to 1, as the manual
// entry form does.
func (c ThermalCandidate) User() ThermalUser {
	return ThermalUser{
		Name:      c.Name,
		Type:      c.Type,
		PowerKW:   deref(c.PowerKW),
		Eff:       derefOr(c.Eff, 1),
		HoursYear: deref(c.HoursYear),
		Util:      derefOr(c.Util, 1),
		Note:      c.Note,
	}
}

func derefOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
