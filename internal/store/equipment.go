package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/normalize"
)

// AddMachine declares a piece of equipment for the load estimate.
func (s *Store) AddMachine(m entity.Machine) entity.Machine {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Machines = append(s.state.Machines, m)
	s.appendLog(fmt.Sprintf("Aggiunto macchinario: %s", m.Name))
	return m
}

// ImportMachines merges an imported batch: a machine with the same name
// as an existing one replaces it, others are appended. Returns the
// number of rows applied.
func (s *Store) ImportMachines(machines []entity.Machine) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range machines {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		for i, existing := range s.state.Machines {
			if existing.Name == m.Name {
				s.state.Machines = append(s.state.Machines[:i], s.state.Machines[i+1:]...)
				break
			}
		}
		s.state.Machines = append(s.state.Machines, m)
	}
	s.appendLog(fmt.Sprintf("Import macchinari: %d righe", len(machines)))
	return len(machines)
}

// RemoveMachine is idempotent.
func (s *Store) RemoveMachine(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.state.Machines {
		if m.ID == id {
			s.state.Machines = append(s.state.Machines[:i], s.state.Machines[i+1:]...)
			s.appendLog(fmt.Sprintf("Eliminato macchinario: %s", m.Name))
			return
		}
	}
}

// Machines returns a copy of the equipment list.
func (s *Store) Machines() []entity.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Machine, len(s.state.Machines))
	copy(out, s.state.Machines)
	return out
}

// AddAuxProduction records one month of on-site generation.
func (s *Store) AddAuxProduction(a entity.AuxProduction) entity.AuxProduction {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Produced = normalize.Round2(a.Produced)
	a.Self = normalize.Round2(a.Self)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AuxProduction = append(s.state.AuxProduction, a)
	s.appendLog(fmt.Sprintf("Aggiunta autoproduzione %s (%s)", a.Month, a.Type))
	return a
}

// RemoveAuxProduction is idempotent.
func (s *Store) RemoveAuxProduction(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.state.AuxProduction {
		if a.ID == id {
			s.state.AuxProduction = append(s.state.AuxProduction[:i], s.state.AuxProduction[i+1:]...)
			s.appendLog("Eliminata riga autoproduzione")
			return
		}
	}
}

// AuxProduction returns a copy of the auxiliary-generation rows.
func (s *Store) AuxProduction() []entity.AuxProduction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.AuxProduction, len(s.state.AuxProduction))
	copy(out, s.state.AuxProduction)
	return out
}

// AddThermalUser records one gas-consuming appliance.
func (s *Store) AddThermalUser(t entity.ThermalUser) entity.ThermalUser {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.PowerKW = normalize.Round2(t.PowerKW)
	t.HoursYear = normalize.Round2(t.HoursYear)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ThermalUsers = append(s.state.ThermalUsers, t)
	s.appendLog(fmt.Sprintf("Aggiunto utilizzatore termico: %s", t.Name))
	return t
}

// RemoveThermalUser is idempotent.
func (s *Store) RemoveThermalUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.state.ThermalUsers {
		if t.ID == id {
			s.state.ThermalUsers = append(s.state.ThermalUsers[:i], s.state.ThermalUsers[i+1:]...)
			s.appendLog(fmt.Sprintf("Eliminato utilizzatore termico: %s", t.Name))
			return
		}
	}
}

// ThermalUsers returns a copy of the thermal-user list.
func (s *Store) ThermalUsers() []entity.ThermalUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ThermalUser, len(s.state.ThermalUsers))
	copy(out, s.state.ThermalUsers)
	return out
}
