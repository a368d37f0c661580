// Package export serializes store contents to the canonical CSV and
// XLSX formats. The CSV column sets are fixed: they are the same
// shapes the tabular importer accepts, so exports round-trip.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/energy-tracker/internal/store"
)

// Fixed header orders. Numeric cells are written without locale
// grouping so re-imports are unambiguous.
var (
	energyHeader  = []string{"year", "month", "f1_kwh", "f2_kwh", "f3_kwh", "potenza_attiva_kw", "cosfi", "gas_kwh", "note"}
	auxHeader     = []string{"year", "month", "type", "produced_kwh", "self_kwh", "note"}
	thermalHeader = []string{"name", "type", "power_kw", "eff", "hoursYear", "util", "note"}
	machineHeader = []string{"name", "kW", "hoursYear", "eff", "util", "consFactor", "note"}
)

type Service struct {
	store  *store.Store
	logger *slog.Logger
}

func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// EnergyCSV serializes every meter's records for one year.
func (s *Service) EnergyCSV(year int) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(energyHeader); err != nil {
		return "", err
	}

	rows := 0
	for _, meter := range s.store.Meters() {
		for _, rec := range s.store.Records(meter.ID, year) {
			y, m, ok := strings.Cut(rec.Month, "-")
			if !ok {
				continue
			}
			var f1, f2, f3, pow, cosfi, gas float64
			if rec.Electricity != nil {
				f1, f2, f3 = rec.Electricity.F1, rec.Electricity.F2, rec.Electricity.F3
				pow, cosfi = rec.Electricity.ActivePower, rec.Electricity.PowerFactor
			}
			if rec.Gas != nil {
				gas = rec.Gas.Volume
			}
			err := w.Write([]string{
				y, m,
				num(f1), num(f2), num(f3),
				num(pow), num(cosfi), num(gas),
				flatten(rec.Note),
			})
			if err != nil {
				return "", err
			}
			rows++
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	s.logger.Info("energy export", "year", year, "rows", rows)
	return buf.String(), nil
}

// AuxCSV serializes the auxiliary-generation rows.
func (s *Service) AuxCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(auxHeader); err != nil {
		return "", err
	}
	for _, a := range s.store.AuxProduction() {
		y, m, ok := strings.Cut(a.Month, "-")
		if !ok {
			continue
		}
		err := w.Write([]string{
			y, m, flatten(a.Type),
			num(a.Produced), num(a.Self),
			flatten(a.Note),
		})
		if err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// ThermalCSV serializes the thermal-user list.
func (s *Service) ThermalCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(thermalHeader); err != nil {
		return "", err
	}
	for _, t := range s.store.ThermalUsers() {
		err := w.Write([]string{
			flatten(t.Name), flatten(t.Type),
			num(t.PowerKW), num(t.Eff), num(t.HoursYear), num(t.Util),
			flatten(t.Note),
		})
		if err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// MachineCSV serializes the equipment list in the import template
// shape, so a tweaked export can be re-imported with --machines.
func (s *Service) MachineCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(machineHeader); err != nil {
		return "", err
	}
	for _, m := range s.store.Machines() {
		err := w.Write([]string{
			flatten(m.Name),
			num(m.PowerKW), num(m.HoursYear), num(m.Eff), num(m.Util), num(m.ConsFactor),
			flatten(m.Note),
		})
		if err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// EnergyTemplate builds a blank energy CSV spanning the three years up
// to and including the given one.
func EnergyTemplate(year int) string {
	var b strings.Builder
	b.WriteString("year,month,f1_kwh,f2_kwh,f3_kwh,gas_kwh\n")
	for y := year - 2; y <= year; y++ {
		for m := 1; m <= 12; m++ {
			fmt.Fprintf(&b, "%d,%02d,,,,\n", y, m)
		}
	}
	return b.String()
}

// AuxTemplate builds a blank auxiliary-generation CSV for one year.
func AuxTemplate(year int) string {
	var b strings.Builder
	b.WriteString("year,month,type,produced_kwh,self_kwh,note\n")
	for m := 1; m <= 12; m++ {
		fmt.Fprintf(&b, "%d,%02d,,0,0,\n", year, m)
	}
	return b.String()
}

// ThermalTemplate builds a blank thermal-user CSV with example rows.
func ThermalTemplate() string {
	var b strings.Builder
	b.WriteString("name,type,power_kw,eff,hoursYear,hoursDay,daysYear,util,note\n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&b, "Impianto %d,Caldaia,,0,,0,,,\n", i)
	}
	return b.String()
}

// MachineTemplate builds a blank equipment CSV (header only).
func MachineTemplate() string {
	return strings.Join(machineHeader, ",") + "\n"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
