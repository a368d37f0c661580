package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/energy-tracker/constants"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")

	s := New(nil)
	s.LoadDemo(2024)
	m := s.Meters()[0]
	require.NoError(t, s.Save(path))

	loaded := New(nil)
	loaded.Load(path)

	assert.Equal(t, s.Project(), loaded.Project())
	assert.Equal(t, s.Years(), loaded.Years())
	require.Len(t, loaded.Meters(), 2)
	assert.Equal(t, s.Records(m.ID, 2024), loaded.Records(m.ID, 2024))
	assert.Len(t, loaded.Machines(), 3)
}

func TestLoad_MissingFileYieldsDefault(t *testing.T) {
	s := New(nil)
	s.Load(filepath.Join(t.TempDir(), "absent.json"))

	assert.Empty(t, s.Meters())
	assert.Len(t, s.Years(), 1)
}

func TestLoad_SchemaInvalidFallsBack(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"missing meters", `{"project": {}}`},
		{"missing project", `{"meters": []}`},
		{"meters wrong type", `{"project": {}, "meters": {}}`},
		{"not json", `{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "snap.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			s := New(nil)
			s.LoadDemo(2024) // something to lose
			s.Load(path)

			assert.Empty(t, s.Meters(), "invalid snapshot must reset to default state")
			assert.Empty(t, s.Machines())
		})
	}
}

func TestLoad_ValidSnapshotKeepsProvenance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")

	s := New(nil)
	s.LoadDemo(2024)
	require.NoError(t, s.Save(path))

	loaded := New(nil)
	loaded.Load(path)
	m := loaded.Meters()[0]
	recs := loaded.Records(m.ID, 2024)
	require.NotEmpty(t, recs)
	assert.Equal(t, constants.SourceDemo, recs[0].Source)
}
