package flights

// Status is the lifecycle state of a flight instance.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusBoarding  Status = "BOARDING"
	StatusDeparted  Status = "DEPARTED"
	StatusDelayed   Status = "DELAYED"
	StatusArrived   Status = "ARRIVED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the status is a known lifecycle state.
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusBoarding, StatusDeparted, StatusDelayed, StatusArrived, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the instance can advance no further.
func (s Status) IsTerminal() bool {
	return s == StatusArrived || s == StatusCancelled
}

// rank orders the normal progression so that repeated status evaluation can
// never move an instance backwards. DELAYED shares SCHEDULED's rank because a
// delayed flight re-enters the normal sequence.
func (s Status) rank() int {
	switch s {
	case StatusScheduled, StatusDelayed:
		return 0
	case StatusBoarding:
		return 1
	case StatusDeparted:
		return 2
	case StatusArrived:
		return 3
	case StatusCancelled:
		return 4
	}
	return -1
}

// outranks reports whether moving from s to next is a forward transition.
func (next Status) outranks(s Status) bool {
	return next.rank() > s.rank()
}
