package enums

import "fmt"

// Outcome is the lifecycle disposition of a tracked trial. Every outcome
// except active is terminal: the system never reverts a decided trial.
type Outcome string

const (
	OutcomeActive    Outcome = "active"
	OutcomeKept      Outcome = "kept"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeExpired   Outcome = "expired"
)

var validOutcomes = []Outcome{
	OutcomeActive,
	OutcomeKept,
	OutcomeCancelled,
	OutcomeExpired,
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	return string(o)
}

// IsValid reports whether the value is known.
func (o Outcome) IsValid() bool {
	for _, candidate := range validOutcomes {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the outcome can no longer change.
func (o Outcome) IsTerminal() bool {
	switch o {
	case OutcomeKept, OutcomeCancelled, OutcomeExpired:
		return true
	case OutcomeActive:
		return false
	default:
		return false
	}
}

// CountsAsSaved reports whether trials with this outcome contribute to the
// money-saved aggregate.
func (o Outcome) CountsAsSaved() bool {
	switch o {
	case OutcomeCancelled, OutcomeExpired:
		return true
	case OutcomeActive, OutcomeKept:
		return false
	default:
		return false
	}
}

// ParseOutcome converts raw input into an Outcome.
func ParseOutcome(value string) (Outcome, error) {
	// legacy rows predating the outcome column are treated as active
	if value == "" {
		return OutcomeActive, nil
	}
	for _, candidate := range validOutcomes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outcome %q", value)
}
