// Package aggregate computes the yearly dashboard figures: the
// zero-filled monthly series, year totals, and the equipment-based
// cross-checks against billed consumption.
package aggregate

import (
	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/normalize"
	"github.com/joseph-ayodele/energy-tracker/internal/store"
)

// MonthTotals is one month of consumption summed across all meters.
type MonthTotals struct {
	Month string  `json:"month"`
	F1    float64 `json:"f1"`
	F2    float64 `json:"f2"`
	F3    float64 `json:"f3"`
	Gas   float64 `json:"gas"`
}

// Totals is the year rollup.
type Totals struct {
	F1  float64 `json:"f1"`
	F2  float64 `json:"f2"`
	F3  float64 `json:"f3"`
	Gas float64 `json:"gas"`
	Tot float64 `json:"tot"`
}

// Result is the full aggregation for one year.
type Result struct {
	Year   int           `json:"year"`
	Series []MonthTotals `json:"series"` // always 12 entries, January first
	Total  Totals        `json:"total"`

	// Averages over electricity records that carry the optional power
	// figures; zero values are treated as "not entered".
	AvgActivePower float64 `json:"avgActivePower"`
	AvgPowerFactor float64 `json:"avgPowerFactor"`

	// Auxiliary generation for the year.
	AuxProduced float64 `json:"auxProduced"`
	AuxSelf     float64 `json:"auxSelf"`
}

// Aggregate sums each band and the gas volume across every registered
// meter, month by month. Months with no data stay in the series as
// zeros.
func Aggregate(s *store.Store, year int) Result {
	res := Result{Year: year, Series: make([]MonthTotals, 12)}
	index := map[string]int{}
	for m := 1; m <= 12; m++ {
		key := normalize.MonthKey(year, m)
		res.Series[m-1] = MonthTotals{Month: key}
		index[key] = m - 1
	}

	var sumPow, sumCosfi float64
	var nPow, nCosfi int
	for _, meter := range s.Meters() {
		for _, rec := range s.Records(meter.ID, year) {
			i, ok := index[rec.Month]
			if !ok {
				continue
			}
			switch meter.Kind {
			case constants.Gas:
				if rec.Gas != nil {
					res.Series[i].Gas += rec.Gas.Volume
				}
			default:
				if rec.Electricity == nil {
					continue
				}
				res.Series[i].F1 += rec.Electricity.F1
				res.Series[i].F2 += rec.Electricity.F2
				res.Series[i].F3 += rec.Electricity.F3
				if rec.Electricity.ActivePower != 0 {
					sumPow += rec.Electricity.ActivePower
					nPow++
				}
				if rec.Electricity.PowerFactor != 0 {
					sumCosfi += rec.Electricity.PowerFactor
					nCosfi++
				}
			}
		}
	}

	for _, mt := range res.Series {
		res.Total.F1 += mt.F1
		res.Total.F2 += mt.F2
		res.Total.F3 += mt.F3
		res.Total.Gas += mt.Gas
	}
	res.Total.Tot = res.Total.F1 + res.Total.F2 + res.Total.F3 + res.Total.Gas

	if nPow > 0 {
		res.AvgActivePower = sumPow / float64(nPow)
	}
	if nCosfi > 0 {
		res.AvgPowerFactor = sumCosfi / float64(nCosfi)
	}

	yearPrefix := normalize.MonthKey(year, 1)[:4]
	for _, a := range s.AuxProduction() {
		if len(a.Month) >= 4 && a.Month[:4] == yearPrefix {
			res.AuxProduced += a.Produced
			res.AuxSelf += a.Self
		}
	}
	return res
}

// LoadEstimate compares the declared-equipment energy estimate with the
// billed total. The ratio is nil when nothing was billed.
type LoadEstimate struct {
	Billed   float64  `json:"billed"`
	Machines float64  `json:"machines"`
	Delta    float64  `json:"delta"`
	Ratio    *float64 `json:"ratio,omitempty"` // machines/billed, percent
}

// MachineLoad builds the cross-validation figures for a year. The
// comparison is advisory: a large delta flags data worth reviewing, it
// is never enforced.
func MachineLoad(s *store.Store, year int) LoadEstimate {
	billed := Aggregate(s, year).Total.Tot
	var machines float64
	for _, m := range s.Machines() {
		machines += MachineEnergy(m)
	}
	est := LoadEstimate{
		Billed:   billed,
		Machines: machines,
		Delta:    billed - machines,
	}
	if billed != 0 {
		ratio := machines / billed * 100
		est.Ratio = &ratio
	}
	return est
}

// NormEff folds an efficiency figure to a usable fraction: values over
// 1.5 are read as percentages, and the result is clamped to
// [0.05, 1.0] so a typo cannot blow up the estimate.
func NormEff(eff float64) float64 {
	if eff > 1.5 {
		eff = eff / 100
	}
	return normalize.Clamp(eff, 0.05, 1.0)
}

// MachineEnergy estimates one machine's yearly draw:
// power x hours x utilization x consumption factor / efficiency.
func MachineEnergy(m entity.Machine) float64 {
	eff := NormEff(m.Eff)
	if eff <= 0 {
		return 0
	}
	util := normalize.Clamp(m.Util, 0, 1)
	return normalize.Round2(m.PowerKW * m.HoursYear * util * m.ConsFactor / eff)
}

// ThermalFigures is the derived output of one thermal user.
type ThermalFigures struct {
	ProducedTh float64 `json:"producedTh"` // thermal output, kWh
	GasKWh     float64 `json:"gasKwh"`     // gas input, kWh
	GasSmc     float64 `json:"gasSmc"`     // gas input, standard cubic meters
}

// Standard conversion used on Italian gas bills: one standard cubic
// meter of natural gas carries about 9.6 kWh.
const kwhPerSmc = 9.6

// ThermalOutput derives a thermal user's yearly production and the gas
// needed to sustain it.
func ThermalOutput(t entity.ThermalUser) ThermalFigures {
	util := normalize.Clamp(t.Util, 0, 1)
	produced := t.PowerKW * t.HoursYear * util
	eff := NormEff(t.Eff)
	var gasKwh float64
	if eff > 0 {
		gasKwh = produced / eff
	}
	return ThermalFigures{
		ProducedTh: produced,
		GasKWh:     gasKwh,
		GasSmc:     gasKwh / kwhPerSmc,
	}
}
