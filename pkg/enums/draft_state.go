package enums

import "fmt"

// DraftState tracks where an order draft sits in the checkout flow.
type DraftState string

const (
	DraftStateBuilding        DraftState = "building"
	DraftStateAddressSelected DraftState = "address_selected"
	DraftStateReadyToSubmit   DraftState = "ready_to_submit"
	DraftStateSubmitted       DraftState = "submitted"
	DraftStateAbandoned       DraftState = "abandoned"
)

var validDraftStates = []DraftState{
	DraftStateBuilding,
	DraftStateAddressSelected,
	DraftStateReadyToSubmit,
	DraftStateSubmitted,
	DraftStateAbandoned,
}

// String implements fmt.Stringer.
func (d DraftState) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DraftState.
func (d DraftState) IsValid() bool {
	for _, candidate := range validDraftStates {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the draft can no longer be mutated.
func (d DraftState) IsTerminal() bool {
	return d == DraftStateSubmitted || d == DraftStateAbandoned
}

// ParseDraftState converts raw input into a DraftState.
func ParseDraftState(value string) (DraftState, error) {
	for _, candidate := range validDraftStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid draft state %q", value)
}
