package entity

import (
	"github.com/google/uuid"

	"github.com/joseph-ayodele/energy-tracker/constants"
)

// Meter identifies one utility connection point. Exactly one of POD
// (electricity point of delivery) or PDR (gas point of redelivery) is
// populated, depending on Kind.
type Meter struct {
	ID          uuid.UUID          `json:"id"`
	Kind        constants.MeterKind `json:"kind"`
	POD         string             `json:"pod,omitempty"`
	PDR         string             `json:"pdr,omitempty"`
	Description string             `json:"description"`
}

// Ref returns the populated external reference code.
func (m Meter) Ref() string {
	if m.Kind == constants.Gas {
		return m.PDR
	}
	return m.POD
}
