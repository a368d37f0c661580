package archive

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertRecord_Idempotent(t *testing.T) {
	db := openTestDB(t)
	meter := uuid.New()

	rec := entity.MonthlyRecord{
		Month:       "2024-03",
		Electricity: &entity.ElectricityReading{F1: 1200, F2: 900, F3: 300},
		Source:      constants.SourcePDFText,
	}
	require.NoError(t, db.UpsertRecord(meter, 2024, rec))
	require.NoError(t, db.UpsertRecord(meter, 2024, rec))

	n, err := db.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpsertRecord_ReplacesOnConflict(t *testing.T) {
	db := openTestDB(t)
	meter := uuid.New()

	first := entity.MonthlyRecord{
		Month:       "2024-03",
		Electricity: &entity.ElectricityReading{F1: 1},
		Source:      constants.SourceCSV,
	}
	require.NoError(t, db.UpsertRecord(meter, 2024, first))

	second := entity.MonthlyRecord{
		Month:       "2024-03",
		Electricity: &entity.ElectricityReading{F1: 99, F2: 5},
		Note:        "rettifica",
		Source:      constants.SourceManual,
	}
	require.NoError(t, db.UpsertRecord(meter, 2024, second))

	recs, err := db.Records(meter, 2024)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 99.0, recs[0].Electricity.F1)
	assert.Equal(t, 5.0, recs[0].Electricity.F2)
	assert.Equal(t, "rettifica", recs[0].Note)
	assert.Equal(t, constants.SourceManual, recs[0].Source)
}

func TestRecords_OrderedAndKindAware(t *testing.T) {
	db := openTestDB(t)
	elec := uuid.New()
	gas := uuid.New()

	require.NoError(t, db.UpsertRecord(elec, 2024, entity.MonthlyRecord{
		Month:       "2024-07",
		Electricity: &entity.ElectricityReading{F1: 7},
	}))
	require.NoError(t, db.UpsertRecord(elec, 2024, entity.MonthlyRecord{
		Month:       "2024-01",
		Electricity: &entity.ElectricityReading{F1: 1},
	}))
	require.NoError(t, db.UpsertRecord(gas, 2024, entity.MonthlyRecord{
		Month: "2024-01",
		Gas:   &entity.GasReading{Volume: 0}, // zero volume is still a gas record
	}))

	recs, err := db.Records(elec, 2024)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2024-01", recs[0].Month)
	assert.Equal(t, "2024-07", recs[1].Month)

	gasRecs, err := db.Records(gas, 2024)
	require.NoError(t, err)
	require.Len(t, gasRecs, 1)
	require.NotNil(t, gasRecs[0].Gas)
	assert.Nil(t, gasRecs[0].Electricity)
	assert.Equal(t, constants.Gas, gasRecs[0].Kind())
}

func TestRecords_EmptyYear(t *testing.T) {
	db := openTestDB(t)
	recs, err := db.Records(uuid.New(), 1990)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
