package store

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/normalize"
)

// LoadDemo replaces the current state with a synthetic dataset: two
// meters with twelve months of seasonal consumption each, plus three
// machines. The caller is expected to confirm first, since everything
// present is discarded.
func (s *Store) LoadDemo(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = defaultState(year)
	s.state.Project = entity.Project{
		Name:  "Demo dataset",
		Site:  "Cliente demo - Stabilimento esempio",
		Year:  year,
		Notes: "Dataset fittizio per dimostrazione: 12 mesi + 3 macchinari.",
	}

	elec := entity.Meter{ID: uuid.New(), Kind: constants.Electricity, POD: "IT001E0000000001", Description: "Sede principale - Energia"}
	gas := entity.Meter{ID: uuid.New(), Kind: constants.Gas, PDR: "IT001G0000000001", Description: "Sede principale - Gas"}
	s.state.Meters = []entity.Meter{elec, gas}

	bucket := s.yearBucket(year)
	var elecRecs, gasRecs []entity.MonthlyRecord
	for m := 1; m <= 12; m++ {
		month := normalize.MonthKey(year, m)
		season := math.Sin(float64(m) / 12 * 2 * math.Pi)
		base := 12000 + season*1500
		elecRecs = append(elecRecs, entity.MonthlyRecord{
			Month: month,
			Electricity: &entity.ElectricityReading{
				F1: normalize.Round2(base * 0.45),
				F2: normalize.Round2(base * 0.35),
				F3: normalize.Round2(base * 0.20),
			},
			Source: constants.SourceDemo,
		})
		gasRecs = append(gasRecs, entity.MonthlyRecord{
			Month:  month,
			Gas:    &entity.GasReading{Volume: normalize.Round2(5000 + season*1000)},
			Source: constants.SourceDemo,
		})
	}
	bucket[elec.ID] = elecRecs
	bucket[gas.ID] = gasRecs

	s.state.Machines = []entity.Machine{
		{ID: uuid.New(), Name: "Compressore", PowerKW: 45, Eff: 0.92, HoursYear: 1800, Util: 0.70, ConsFactor: 1.00, Note: "turno singolo"},
		{ID: uuid.New(), Name: "Forno", PowerKW: 80, Eff: 0.88, HoursYear: 1400, Util: 0.60, ConsFactor: 1.05, Note: "ciclo variabile"},
		{ID: uuid.New(), Name: "Linea assemblaggio", PowerKW: 25, Eff: 0.95, HoursYear: 2000, Util: 0.65, ConsFactor: 1.00},
	}

	s.appendLog(fmt.Sprintf("Caricato dataset demo (%d)", year))
	s.logger.Info("demo dataset loaded", "year", year, "meters", 2, "machines", 3)
}
