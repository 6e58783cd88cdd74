package bookings

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCheckedIn Status = "CHECKED_IN"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsSettleable checks if a booking with this status is eligible for mileage
// settlement. Cancelled bookings never earn points; completed ones may still
// be pending if a previous run skipped them.
func (s Status) IsSettleable() bool {
	switch s {
	case StatusConfirmed, StatusCheckedIn, StatusCompleted:
		return true
	}
	return false
}
