package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/common"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
)

func elecRecord(month string, f1, f2, f3 float64) entity.MonthlyRecord {
	return entity.MonthlyRecord{
		Month:       month,
		Electricity: &entity.ElectricityReading{F1: f1, F2: f2, F3: f3},
		Source:      constants.SourceManual,
	}
}

func TestRegisterMeter(t *testing.T) {
	s := New(nil)

	m, err := s.RegisterMeter(constants.Electricity, "IT001E1", "sede")
	require.NoError(t, err)
	assert.Equal(t, "IT001E1", m.POD)
	assert.Empty(t, m.PDR)

	g, err := s.RegisterMeter(constants.Gas, "IT001G1", "")
	require.NoError(t, err)
	assert.Equal(t, "IT001G1", g.PDR)
	assert.Empty(t, g.POD)

	_, err = s.RegisterMeter("water", "x", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	assert.Len(t, s.Meters(), 2)

	byRef, ok := s.MeterByRef("IT001G1")
	require.True(t, ok)
	assert.Equal(t, g.ID, byRef.ID)
}

func TestUpsert(t *testing.T) {
	s := New(nil)
	m, err := s.RegisterMeter(constants.Electricity, "pod", "")
	require.NoError(t, err)

	over, err := s.Upsert(m.ID, 2024, elecRecord("2024-03", 100, 50, 25))
	require.NoError(t, err)
	assert.False(t, over)

	// same payload again still reports overwritten
	over, err = s.Upsert(m.ID, 2024, elecRecord("2024-03", 100, 50, 25))
	require.NoError(t, err)
	assert.True(t, over)

	recs := s.Records(m.ID, 2024)
	require.Len(t, recs, 1)
	assert.Equal(t, 100.0, recs[0].Electricity.F1)

	// full replace, not a merge
	over, err = s.Upsert(m.ID, 2024, elecRecord("2024-03", 1, 2, 3))
	require.NoError(t, err)
	assert.True(t, over)
	recs = s.Records(m.ID, 2024)
	require.Len(t, recs, 1)
	assert.Equal(t, 1.0, recs[0].Electricity.F1)
	assert.Equal(t, 3.0, recs[0].Electricity.F3)
}

func TestUpsert_SortedInsert(t *testing.T) {
	s := New(nil)
	m, _ := s.RegisterMeter(constants.Electricity, "pod", "")

	for _, month := range []string{"2024-07", "2024-01", "2024-12", "2024-03"} {
		_, err := s.Upsert(m.ID, 2024, elecRecord(month, 1, 1, 1))
		require.NoError(t, err)
	}
	recs := s.Records(m.ID, 2024)
	require.Len(t, recs, 4)
	assert.Equal(t, "2024-01", recs[0].Month)
	assert.Equal(t, "2024-03", recs[1].Month)
	assert.Equal(t, "2024-07", recs[2].Month)
	assert.Equal(t, "2024-12", recs[3].Month)
}

func TestUpsert_NormalizesMonthAndRounds(t *testing.T) {
	s := New(nil)
	m, _ := s.RegisterMeter(constants.Electricity, "pod", "")

	_, err := s.Upsert(m.ID, 2024, elecRecord("03/2024", 1.005, 2.339, 0))
	require.NoError(t, err)
	recs := s.Records(m.ID, 2024)
	require.Len(t, recs, 1)
	assert.Equal(t, "2024-03", recs[0].Month)
	assert.InDelta(t, 1.01, recs[0].Electricity.F1, 1e-9)
	assert.InDelta(t, 2.34, recs[0].Electricity.F2, 1e-9)

	_, err = s.Upsert(m.ID, 2024, elecRecord("marzo", 1, 1, 1))
	assert.ErrorIs(t, err, common.ErrInvalidPeriod)

	// digit shape alone is not enough at the store boundary
	_, err = s.Upsert(m.ID, 2024, elecRecord("2024-13", 1, 1, 1))
	assert.ErrorIs(t, err, common.ErrInvalidPeriod)

	_, err = s.Upsert(uuid.New(), 2024, elecRecord("2024-03", 1, 1, 1))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpsert_RegistersYearImplicitly(t *testing.T) {
	s := New(nil)
	m, _ := s.RegisterMeter(constants.Electricity, "pod", "")

	_, err := s.Upsert(m.ID, 1999, elecRecord("1999-05", 1, 1, 1))
	require.NoError(t, err)
	assert.Contains(t, s.Years(), 1999)
}

func TestRegisterYear_IdempotentSorted(t *testing.T) {
	s := New(nil)
	s.RegisterYear(2030)
	s.RegisterYear(2020)
	s.RegisterYear(2030)

	years := s.Years()
	// default year plus the two new ones, ascending, no duplicates
	require.Len(t, years, 3)
	assert.True(t, sortedAsc(years))
	assert.Contains(t, years, 2020)
	assert.Contains(t, years, 2030)
}

func sortedAsc(xs []int) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i-1] > xs[i] {
			return false
		}
	}
	return true
}

func TestRemoveMeter_CascadesAcrossYears(t *testing.T) {
	s := New(nil)
	m, _ := s.RegisterMeter(constants.Electricity, "pod", "")
	keep, _ := s.RegisterMeter(constants.Electricity, "pod2", "")

	_, _ = s.Upsert(m.ID, 2023, elecRecord("2023-01", 1, 1, 1))
	_, _ = s.Upsert(m.ID, 2024, elecRecord("2024-01", 1, 1, 1))
	_, _ = s.Upsert(keep.ID, 2024, elecRecord("2024-01", 9, 9, 9))

	s.RemoveMeter(m.ID)
	assert.Len(t, s.Meters(), 1)
	assert.Empty(t, s.Records(m.ID, 2023))
	assert.Empty(t, s.Records(m.ID, 2024))
	assert.Len(t, s.Records(keep.ID, 2024), 1)

	// unknown id is a no-op
	s.RemoveMeter(uuid.New())
	assert.Len(t, s.Meters(), 1)
}

func TestDeleteRecord(t *testing.T) {
	s := New(nil)
	m, _ := s.RegisterMeter(constants.Electricity, "pod", "")
	_, _ = s.Upsert(m.ID, 2024, elecRecord("2024-01", 1, 1, 1))

	assert.True(t, s.DeleteRecord(m.ID, 2024, "2024-01"))
	assert.False(t, s.DeleteRecord(m.ID, 2024, "2024-01"))
	assert.Empty(t, s.Records(m.ID, 2024))
}

func TestAuditLog_NewestFirst(t *testing.T) {
	s := New(nil)
	s.Log("first")
	s.Log("second")

	entries := s.LogEntries(0)
	require.GreaterOrEqual(t, len(entries), 2)
	assert.Equal(t, "second", entries[0].Msg)
	assert.Equal(t, "first", entries[1].Msg)

	assert.Len(t, s.LogEntries(1), 1)
}

func TestImportMachines_OverwritesByName(t *testing.T) {
	s := New(nil)
	s.AddMachine(entity.Machine{Name: "Compressore", PowerKW: 45, HoursYear: 1800, Eff: 1, Util: 1, ConsFactor: 1})

	n := s.ImportMachines([]entity.Machine{
		{Name: "Compressore", PowerKW: 55, HoursYear: 2000, Eff: 1, Util: 1, ConsFactor: 1},
		{Name: "Forno", PowerKW: 80, HoursYear: 1400, Eff: 1, Util: 1, ConsFactor: 1},
	})
	assert.Equal(t, 2, n)

	machines := s.Machines()
	require.Len(t, machines, 2)
	byName := map[string]entity.Machine{}
	for _, m := range machines {
		byName[m.Name] = m
	}
	assert.Equal(t, 55.0, byName["Compressore"].PowerKW)
	assert.Equal(t, 80.0, byName["Forno"].PowerKW)
}

func TestLoadDemo(t *testing.T) {
	s := New(nil)
	s.LoadDemo(2024)

	meters := s.Meters()
	require.Len(t, meters, 2)
	assert.Len(t, s.Machines(), 3)
	assert.Equal(t, []int{2024}, s.Years())

	for _, m := range meters {
		recs := s.Records(m.ID, 2024)
		require.Len(t, recs, 12)
		assert.Equal(t, "2024-01", recs[0].Month)
		assert.Equal(t, constants.SourceDemo, recs[0].Source)
		assert.Equal(t, m.Kind, recs[0].Kind())
	}
}
