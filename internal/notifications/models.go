package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SettlementEvent announces a loyalty credit to downstream consumers
// (statement emails, the member dashboard feed). The settlement engine
// publishes it after the award commits; delivery is best-effort.
type SettlementEvent struct {
	EventID      uuid.UUID `json:"event_id"`
	BookingRef   string    `json:"booking_ref"`
	UserID       uuid.UUID `json:"user_id"`
	UserEmail    string    `json:"user_email"`
	FlightNumber string    `json:"flight_number"`
	TravelDate   string    `json:"travel_date"`
	CabinClass   string    `json:"cabin_class"`
	Points       int       `json:"points"`
	AwardedAt    time.Time `json:"awarded_at"`
}

// NewSettlementEvent builds an event with a fresh ID and timestamp.
func NewSettlementEvent(bookingRef string, userID uuid.UUID, userEmail, flightNumber, travelDate, cabinClass string, points int) *SettlementEvent {
	return &SettlementEvent{
		EventID:      uuid.New(),
		BookingRef:   bookingRef,
		UserID:       userID,
		UserEmail:    userEmail,
		FlightNumber: flightNumber,
		TravelDate:   travelDate,
		CabinClass:   cabinClass,
		Points:       points,
		AwardedAt:    time.Now(),
	}
}

func (e *SettlementEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey keys the message by user so one member's credits stay
// ordered on a single partition.
func (e *SettlementEvent) GetPartitionKey() string {
	return e.UserID.String()
}
