package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/energy-tracker/internal/common"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
)

// snapshotSchema is the minimal sanity gate over a persisted snapshot.
// Only the structural anchors are required; everything else is optional
// so older snapshots keep loading.
const snapshotSchema = `{
  "type": "object",
  "required": ["project", "meters"],
  "properties": {
    "project": {"type": "object"},
    "meters": {"type": "array"},
    "years": {"type": "array", "items": {"type": "integer"}},
    "energyByYear": {"type": "object"},
    "machines": {"type": "array"},
    "autoProduction": {"type": "array"},
    "thermalUsers": {"type": "array"},
    "log": {"type": "array"}
  }
}`

var compiledSnapshotSchema = mustCompileSnapshotSchema()

func mustCompileSnapshotSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("snapshot.json", bytes.NewReader([]byte(snapshotSchema))); err != nil {
		panic(err)
	}
	return compiler.MustCompile("snapshot.json")
}

func validateSnapshot(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := compiledSnapshotSchema.Validate(v); err != nil {
		return fmt.Errorf("snapshot does not match schema: %w", err)
	}
	return nil
}

// Save writes the full state as a JSON snapshot.
func (s *Store) Save(path string) error {
	s.mu.Lock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return common.WrapError(os.WriteFile(path, data, 0o644), "writing snapshot")
}

// Load replaces the state with the snapshot at path. A missing,
// undecodable or schema-invalid snapshot falls back to the empty
// default state instead of failing: losing a corrupt browser-era file
// must never block startup.
func (s *Store) Load(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fallback := func(reason string, err error) {
		s.logger.Warn("snapshot rejected, using default state",
			"path", path, "reason", reason, "error", err)
		s.state = defaultState(time.Now().Year())
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.state = defaultState(time.Now().Year())
		return
	}
	if err != nil {
		fallback("unreadable", err)
		return
	}
	if err := validateSnapshot(data); err != nil {
		fallback("schema", err)
		return
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		fallback("decode", err)
		return
	}
	if st.Energy == nil {
		st.Energy = map[int]map[uuid.UUID][]entity.MonthlyRecord{}
	}
	s.state = st
	s.logger.Info("snapshot loaded", "path", path,
		"meters", len(st.Meters), "years", len(st.Years))
}
