package domain

// Status is the lifecycle status of an advert.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusAvailable, StatusReserved, StatusSold}
}

// ParseStatus returns the status named s and whether it is a known status.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition may leave the status.
func (s Status) IsTerminal() bool {
	return s == StatusSold
}

// Verdict is the outcome of evaluating a status transition.
type Verdict int

const (
	// Allowed means the transition may be applied.
	Allowed Verdict = iota
	// UnknownTarget means the requested status is not in the status set.
	UnknownTarget
	// Unchanged means the requested status equals the current one.
	Unchanged
	// Terminal means the current status admits no transitions.
	Terminal
)

// Err returns the domain error for a rejecting verdict, nil for Allowed.
func (v Verdict) Err() error {
	switch v {
	case UnknownTarget:
		return ErrUnknownStatus
	case Unchanged:
		return ErrStatusUnchanged
	case Terminal:
		return ErrStatusTerminal
	default:
		return nil
	}
}

// Transition evaluates moving from the current status to target.
//
//	From\To    | Available | Reserved | Sold
//	-----------|-----------|----------|-----
//	Available  | =         | ✓        | ✓
//	Reserved   | ✓         | =        | ✓
//	Sold       | ✗         | ✗        | ✗
//
// An unknown target is reported before the terminal check, so a sold advert
// asked to move to an unknown status yields UnknownTarget.
func Transition(from Status, target string) Verdict {
	to, ok := ParseStatus(target)
	if !ok {
		return UnknownTarget
	}
	if from.IsTerminal() {
		return Terminal
	}
	if to == from {
		return Unchanged
	}
	return Allowed
}
