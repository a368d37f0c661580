package tabular

import (
	"strings"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/normalize"
)

// Row is one tabular record: column header to raw cell value. Producers
// (CSV, XLSX) are thin decoders; all interpretation happens here.
type Row map[string]string

// Mapper resolves header aliases and normalizes cell values into
// candidates. It never fails a batch: bad rows come back with Valid=false
// so the caller can render a review table.
type Mapper struct {
	Numbers normalize.NumberFormat
	Months  normalize.Strictness
}

// NewMapper returns a mapper with the Italian number convention and
// lenient month validation, matching the historical import behavior.
func NewMapper() *Mapper {
	return &Mapper{Numbers: normalize.Italian, Months: normalize.Lenient}
}

// Alias tables per semantic field. Matching is case-insensitive on
// trimmed headers; first populated alias wins.
var (
	aliasYear  = []string{"year", "anno"}
	aliasMonth = []string{"month", "mese", "period", "periodo", "ym", "anno_mese"}
	aliasF1    = []string{"f1_kwh", "f1", "fascia1", "f1 (kwh)"}
	aliasF2    = []string{"f2_kwh", "f2", "fascia2", "f2 (kwh)"}
	aliasF3    = []string{"f3_kwh", "f3", "fascia3", "f3 (kwh)"}
	aliasGas   = []string{"gas_kwh", "gas", "g_kwh", "gas (kwh)"}
	aliasPow   = []string{"potenza_attiva_kw", "potenza", "active_power_kw", "active_power"}
	aliasCosfi = []string{"cosfi", "cos_fi", "cos_phi", "powerfactor"}
	aliasNote  = []string{"note", "descrizione"}

	aliasType     = []string{"type", "tipo"}
	aliasProduced = []string{"produced_kwh", "prodotta", "produced", "produced kwh", "energia_prodotta"}
	aliasSelf     = []string{"self_kwh", "autoconsumo", "self", "self kwh", "energia_autoconsumata"}

	aliasName      = []string{"name", "nome", "macchinario"}
	aliasPowerKW   = []string{"power_kw", "power", "potenza", "kw", "kw_th"}
	aliasEff       = []string{"eff", "rendimento"}
	aliasHoursYear = []string{"hoursyear", "hours_year", "ore_anno", "oreannue", "hours", "oreanno"}
	aliasHoursDay  = []string{"hoursday", "oregiorno", "ore_giorno"}
	aliasDaysYear  = []string{"daysyear", "days_year", "giornianno", "giorni_anno"}
	aliasUtil      = []string{"util", "fattore_utilizzo", "utilization", "utilizzo"}
	aliasConsFact  = []string{"consfactor", "fattorecons", "fattore_consumo"}
)

// EnergyRows maps energy-consumption rows. A row is valid when the month
// normalizes and all three bands parse; gas and the power fields are
// optional. Invalid rows are retained for review, not dropped.
func (m *Mapper) EnergyRows(rows []Row) []entity.Candidate {
	out := make([]entity.Candidate, 0, len(rows))
	for _, row := range rows {
		f := fields(row)
		monthRaw := f.period()
		month, monthOK := normalize.MonthLevel(monthRaw, m.Months)

		c := entity.Candidate{
			Origin:      monthRaw,
			Month:       month,
			F1:          m.Numbers.Float(f.get(aliasF1)),
			F2:          m.Numbers.Float(f.get(aliasF2)),
			F3:          m.Numbers.Float(f.get(aliasF3)),
			Gas:         m.Numbers.Float(f.get(aliasGas)),
			ActivePower: m.Numbers.Float(f.get(aliasPow)),
			PowerFactor: m.Numbers.Float(f.get(aliasCosfi)),
			Note:        f.get(aliasNote),
		}
		if !monthOK {
			c.Month = monthRaw
		}
		c.Valid = monthOK && c.F1 != nil && c.F2 != nil && c.F3 != nil
		out = append(out, c)
	}
	return out
}

// AuxRows maps auxiliary-generation rows (produced and self-consumed
// energy per month).
func (m *Mapper) AuxRows(rows []Row) []entity.AuxCandidate {
	out := make([]entity.AuxCandidate, 0, len(rows))
	for _, row := range rows {
		f := fields(row)
		monthRaw := f.period()
		month, monthOK := normalize.MonthLevel(monthRaw, m.Months)

		c := entity.AuxCandidate{
			Month:    month,
			Type:     f.get(aliasType),
			Produced: m.Numbers.Float(f.get(aliasProduced)),
			Self:     m.Numbers.Float(f.get(aliasSelf)),
			Note:     f.get(aliasNote),
		}
		if !monthOK {
			c.Month = monthRaw
		}
		c.Valid = monthOK && c.Produced != nil && c.Self != nil
		out = append(out, c)
	}
	return out
}

// ThermalRows maps thermal-user rows. HoursYear falls back to
// hoursDay x daysYear when the direct figure is absent.
func (m *Mapper) ThermalRows(rows []Row) []entity.ThermalCandidate {
	out := make([]entity.ThermalCandidate, 0, len(rows))
	for _, row := range rows {
		f := fields(row)
		hours := m.Numbers.Float(f.get(aliasHoursYear))
		if hours == nil {
			hd := m.Numbers.Float(f.get(aliasHoursDay))
			dy := m.Numbers.Float(f.get(aliasDaysYear))
			if hd != nil && dy != nil {
				h := *hd * *dy
				hours = &h
			}
		}
		c := entity.ThermalCandidate{
			Name:      f.get(aliasName),
			Type:      f.get(aliasType),
			PowerKW:   m.Numbers.Float(f.get(aliasPowerKW)),
			Eff:       m.Numbers.Float(f.get(aliasEff)),
			HoursYear: hours,
			Util:      m.Numbers.Float(f.get(aliasUtil)),
			Note:      f.get(aliasNote),
		}
		c.Valid = c.Name != "" && c.PowerKW != nil && c.HoursYear != nil
		out = append(out, c)
	}
	return out
}

// MachineRows maps equipment rows. Rows without a name, power or yearly
// hours are skipped outright; defaults follow the manual-entry form
// (eff 1, util 1, consumption factor 1).
func (m *Mapper) MachineRows(rows []Row) []entity.Machine {
	var out []entity.Machine
	for _, row := range rows {
		f := fields(row)
		name := f.get(aliasName)
		kw := m.Numbers.Float(f.get(aliasPowerKW))
		hours := m.Numbers.Float(f.get(aliasHoursYear))
		if hours == nil {
			hd := m.Numbers.Float(f.get(aliasHoursDay))
			dy := m.Numbers.Float(f.get(aliasDaysYear))
			if hd != nil && dy != nil {
				h := *hd * *dy
				hours = &h
			}
		}
		if name == "" || kw == nil || hours == nil {
			continue
		}
		out = append(out, entity.Machine{
			ID:         uuid.New(),
			Name:       name,
			PowerKW:    *kw,
			Eff:        orDefault(m.Numbers.Float(f.get(aliasEff)), 1),
			HoursYear:  *hours,
			Util:       orDefault(m.Numbers.Float(f.get(aliasUtil)), 1),
			ConsFactor: orDefault(m.Numbers.Float(f.get(aliasConsFact)), 1),
			Note:       f.get(aliasNote),
		})
	}
	return out
}

// fieldMap is a row with canonicalized headers.
type fieldMap map[string]string

func fields(row Row) fieldMap {
	f := make(fieldMap, len(row))
	for k, v := range row {
		f[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return f
}

func (f fieldMap) get(aliases []string) string {
	for _, a := range aliases {
		if v, ok := f[a]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// period combines a 4-digit year column with a 1-2 digit month column
// when both are present; otherwise it returns the month-like column as-is
// for the normalizer to interpret.
func (f fieldMap) period() string {
	year := f.get(aliasYear)
	month := f.get(aliasMonth)
	if year != "" && month != "" && isDigits(year, 4) && (isDigits(month, 1) || isDigits(month, 2)) {
		if len(month) == 1 {
			month = "0" + month
		}
		return year + "-" + month
	}
	return month
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
