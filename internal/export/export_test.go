package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/store"
	"github.com/joseph-ayodele/energy-tracker/internal/tabular"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(nil)
	e, err := s.RegisterMeter(constants.Electricity, "pod", "")
	require.NoError(t, err)
	g, err := s.RegisterMeter(constants.Gas, "pdr", "")
	require.NoError(t, err)

	_, err = s.Upsert(e.ID, 2024, entity.MonthlyRecord{
		Month:       "2024-01",
		Electricity: &entity.ElectricityReading{F1: 1234.56, F2: 900, F3: 300.5, ActivePower: 45.5, PowerFactor: 0.95},
		Note:        "gennaio, conguaglio",
		Source:      constants.SourceCSV,
	})
	require.NoError(t, err)
	_, err = s.Upsert(g.ID, 2024, entity.MonthlyRecord{
		Month:  "2024-02",
		Gas:    &entity.GasReading{Volume: 5000},
		Source: constants.SourceManual,
	})
	require.NoError(t, err)
	return s
}

func TestEnergyCSV_RoundTrip(t *testing.T) {
	s := seededStore(t)
	svc := NewService(s, nil)

	out, err := svc.EnergyCSV(2024)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "year,month,f1_kwh,f2_kwh,f3_kwh,potenza_attiva_kw,cosfi,gas_kwh,note"))

	rows, err := tabular.ReadCSV(strings.NewReader(out))
	require.NoError(t, err)
	got := tabular.NewMapper().EnergyRows(rows)
	require.Len(t, got, 2)

	elec := got[0]
	require.True(t, elec.Valid)
	assert.Equal(t, "2024-01", elec.Month)
	assert.InDelta(t, 1234.56, *elec.F1, 1e-9)
	assert.InDelta(t, 900, *elec.F2, 1e-9)
	assert.InDelta(t, 300.5, *elec.F3, 1e-9)
	assert.InDelta(t, 45.5, *elec.ActivePower, 1e-9)
	assert.InDelta(t, 0.95, *elec.PowerFactor, 1e-9)
	assert.Equal(t, "gennaio, conguaglio", elec.Note)

	gas := got[1]
	require.True(t, gas.Valid)
	assert.Equal(t, "2024-02", gas.Month)
	assert.InDelta(t, 5000, *gas.Gas, 1e-9)
}

func TestAuxCSV(t *testing.T) {
	s := store.New(nil)
	s.AddAuxProduction(entity.AuxProduction{Month: "2024-04", Type: "FV", Produced: 500, Self: 420.25, Note: "tetto"})
	svc := NewService(s, nil)

	out, err := svc.AuxCSV()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "year,month,type,produced_kwh,self_kwh,note", lines[0])
	assert.Equal(t, "2024,04,FV,500,420.25,tetto", lines[1])
}

func TestThermalCSV(t *testing.T) {
	s := store.New(nil)
	s.AddThermalUser(entity.ThermalUser{Name: "Caldaia 1", Type: "Caldaia", PowerKW: 120, Eff: 0.9, HoursYear: 1500, Util: 1})
	svc := NewService(s, nil)

	out, err := svc.ThermalCSV()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,type,power_kw,eff,hoursYear,util,note", lines[0])
	assert.Equal(t, "Caldaia 1,Caldaia,120,0.9,1500,1,", lines[1])
}

func TestMachineCSV(t *testing.T) {
	s := store.New(nil)
	s.AddMachine(entity.Machine{Name: "Compressore", PowerKW: 45, HoursYear: 1800, Eff: 0.92, Util: 0.7, ConsFactor: 1})
	svc := NewService(s, nil)

	out, err := svc.MachineCSV()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,kW,hoursYear,eff,util,consFactor,note", lines[0])
	assert.Equal(t, "Compressore,45,1800,0.92,0.7,1,", lines[1])
}

func TestTemplates(t *testing.T) {
	tpl := EnergyTemplate(2024)
	lines := strings.Split(strings.TrimSpace(tpl), "\n")
	assert.Len(t, lines, 1+36, "three years of twelve months")
	assert.Equal(t, "year,month,f1_kwh,f2_kwh,f3_kwh,gas_kwh", lines[0])
	assert.Equal(t, "2022,01,,,,", lines[1])
	assert.Equal(t, "2024,12,,,,", lines[36])

	aux := AuxTemplate(2024)
	assert.Contains(t, aux, "2024,07,,0,0,")

	assert.True(t, strings.HasPrefix(MachineTemplate(), "name,kW,hoursYear"))
	assert.True(t, strings.HasPrefix(ThermalTemplate(), "name,type,power_kw"))
}

func TestEnergyXLSX(t *testing.T) {
	s := seededStore(t)
	svc := NewService(s, nil)

	data, err := svc.EnergyXLSX(2024)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	rows, err := wb.GetRows("Consumi")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "year", rows[0][0])
	assert.Equal(t, "2024", rows[1][0])
	assert.Equal(t, "01", rows[1][1])
	assert.Equal(t, "1234.56", rows[1][2])
}
