// Package store owns the application state: meters, year buckets with
// their monthly records, equipment lists and the audit log. All
// mutations go through one Store instance and are serialized by its
// mutex; nothing in here is a package-level singleton.
package store

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/common"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/normalize"
)

// State is the complete persisted shape. It round-trips through the
// JSON snapshot, so every field carries a stable tag.
type State struct {
	Project       entity.Project                               `json:"project"`
	Meters        []entity.Meter                               `json:"meters"`
	Years         []int                                        `json:"years"`
	Energy        map[int]map[uuid.UUID][]entity.MonthlyRecord `json:"energyByYear"`
	Machines      []entity.Machine                             `json:"machines"`
	AuxProduction []entity.AuxProduction                       `json:"autoProduction"`
	ThermalUsers  []entity.ThermalUser                         `json:"thermalUsers"`
	Log           []entity.LogEntry                            `json:"log"`
}

func defaultState(year int) State {
	return State{
		Project: entity.Project{Year: year},
		Years:   []int{year},
		Energy:  map[int]map[uuid.UUID][]entity.MonthlyRecord{year: {}},
	}
}

type Store struct {
	mu     sync.Mutex
	state  State
	logger *slog.Logger
	now    func() time.Time
}

func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:  defaultState(time.Now().Year()),
		logger: logger,
		now:    time.Now,
	}
}

// Project returns the project metadata.
func (s *Store) Project() entity.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Project
}

func (s *Store) SetProject(p entity.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Project = p
	s.appendLog(fmt.Sprintf("Aggiornato progetto: %s", p.Name))
}

// RegisterMeter creates a meter and gives it an empty record list in
// every registered year bucket. The external reference lands in POD or
// PDR depending on kind.
func (s *Store) RegisterMeter(kind constants.MeterKind, ref, description string) (entity.Meter, error) {
	if !kind.Valid() {
		return entity.Meter{}, fmt.Errorf("%w: unknown meter kind %q", common.ErrInvalidInput, kind)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := entity.Meter{ID: uuid.New(), Kind: kind, Description: description}
	if kind == constants.Gas {
		m.PDR = ref
	} else {
		m.POD = ref
	}
	s.state.Meters = append(s.state.Meters, m)
	for _, y := range s.state.Years {
		s.yearBucket(y)[m.ID] = []entity.MonthlyRecord{}
	}
	s.appendLog(fmt.Sprintf("Aggiunta utenza: %s (%s)", orStr(description, string(kind)), ref))
	return m, nil
}

// RemoveMeter deletes the meter and its records across every year.
// Unknown identifiers are a no-op.
func (s *Store) RemoveMeter(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Meters[:0]
	found := false
	for _, m := range s.state.Meters {
		if m.ID == id {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	s.state.Meters = kept
	if !found {
		return
	}
	for _, bucket := range s.state.Energy {
		delete(bucket, id)
	}
	s.appendLog("Eliminata utenza")
}

// Meters returns a copy of the registered meters.
func (s *Store) Meters() []entity.Meter {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Meter, len(s.state.Meters))
	copy(out, s.state.Meters)
	return out
}

// MeterByRef finds a meter by its external reference code.
func (s *Store) MeterByRef(ref string) (entity.Meter, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.state.Meters {
		if m.Ref() == ref {
			return m, true
		}
	}
	return entity.Meter{}, false
}

// RegisterYear adds a year to the known set. Idempotent; the years
// list stays sorted and every year always has a bucket.
func (s *Store) RegisterYear(year int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerYear(year)
}

func (s *Store) registerYear(year int) {
	for _, y := range s.state.Years {
		if y == year {
			s.yearBucket(year)
			return
		}
	}
	s.state.Years = append(s.state.Years, year)
	sort.Ints(s.state.Years)
	s.yearBucket(year)
	s.appendLog(fmt.Sprintf("Aggiunto anno di riferimento: %d", year))
}

// Years returns the registered years, ascending.
func (s *Store) Years() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.state.Years))
	copy(out, s.state.Years)
	return out
}

// Upsert writes one monthly record. An existing record for the same
// (meter, year, month) is fully replaced, and the overwritten flag lets
// the caller gate a confirmation prompt. The year bucket is registered
// implicitly.
func (s *Store) Upsert(meterID uuid.UUID, year int, rec entity.MonthlyRecord) (overwritten bool, err error) {
	month, ok := normalize.MonthLevel(rec.Month, normalize.Strict)
	if !ok {
		return false, fmt.Errorf("%w: %q", common.ErrInvalidPeriod, rec.Month)
	}
	rec.Month = month
	roundRecord(&rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasMeter(meterID) {
		return false, fmt.Errorf("%w: meter %s", common.ErrNotFound, meterID)
	}
	s.registerYear(year)
	bucket := s.yearBucket(year)
	list := bucket[meterID]

	for i, r := range list {
		if r.Month == month {
			list[i] = rec
			bucket[meterID] = list
			return true, nil
		}
	}
	list = append(list, rec)
	sort.Slice(list, func(i, j int) bool { return list[i].Month < list[j].Month })
	bucket[meterID] = list
	return false, nil
}

// DeleteRecord removes one month's record; reports whether anything
// was removed.
func (s *Store) DeleteRecord(meterID uuid.UUID, year int, month string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.state.Energy[year]
	if !ok {
		return false
	}
	list := bucket[meterID]
	for i, r := range list {
		if r.Month == month {
			bucket[meterID] = append(list[:i], list[i+1:]...)
			s.appendLog(fmt.Sprintf("Eliminata riga consumi %d: %s", year, month))
			return true
		}
	}
	return false
}

// Records returns a copy of one meter's records for a year, ordered by
// month key.
func (s *Store) Records(meterID uuid.UUID, year int) []entity.MonthlyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.state.Energy[year]
	if !ok {
		return nil
	}
	list := bucket[meterID]
	out := make([]entity.MonthlyRecord, len(list))
	copy(out, list)
	return out
}

// Log appends a timestamped audit message (newest first).
func (s *Store) Log(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendLog(msg)
}

// LogEntries returns up to limit entries, newest first. limit <= 0
// means all.
func (s *Store) LogEntries(limit int) []entity.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.state.Log)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]entity.LogEntry, n)
	copy(out, s.state.Log[:n])
	return out
}

// appendLog assumes the caller holds the mutex.
func (s *Store) appendLog(msg string) {
	entry := entity.LogEntry{TS: s.now().Format(time.RFC3339), Msg: msg}
	s.state.Log = append([]entity.LogEntry{entry}, s.state.Log...)
}

// yearBucket returns the per-meter map for a year, creating it if
// missing. Caller holds the mutex.
func (s *Store) yearBucket(year int) map[uuid.UUID][]entity.MonthlyRecord {
	if s.state.Energy == nil {
		s.state.Energy = map[int]map[uuid.UUID][]entity.MonthlyRecord{}
	}
	bucket, ok := s.state.Energy[year]
	if !ok {
		bucket = map[uuid.UUID][]entity.MonthlyRecord{}
		s.state.Energy[year] = bucket
	}
	return bucket
}

func (s *Store) hasMeter(id uuid.UUID) bool {
	for _, m := range s.state.Meters {
		if m.ID == id {
			return true
		}
	}
	return false
}

func roundRecord(rec *entity.MonthlyRecord) {
	if rec.Electricity != nil {
		e := *rec.Electricity
		e.F1 = normalize.Round2(e.F1)
		e.F2 = normalize.Round2(e.F2)
		e.F3 = normalize.Round2(e.F3)
		e.ActivePower = normalize.Round2(e.ActivePower)
		e.PowerFactor = normalize.Round2(e.PowerFactor)
		rec.Electricity = &e
	}
	if rec.Gas != nil {
		g := *rec.Gas
		g.Volume = normalize.Round2(g.Volume)
		rec.Gas = &g
	}
}

func orStr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
