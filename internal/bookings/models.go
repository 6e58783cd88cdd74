package bookings

import (
	"time"

	"github.com/google/uuid"

	"yellowair/internal/routes"
	"yellowair/internal/users"
)

// Booking is one passenger's seat on one calendar-date occurrence of a route.
// Created by the reservation flow, mutated by check-in and by the loyalty
// settlement engine; never deleted.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingRef string    `gorm:"unique;not null;size:10" json:"booking_ref"`

	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	TemplateID uuid.UUID `gorm:"type:uuid;index;not null" json:"template_id"`

	// TravelDate is the departure calendar date, truncated to midnight.
	TravelDate time.Time         `gorm:"type:date;not null;index" json:"travel_date"`
	CabinClass routes.CabinClass `gorm:"type:varchar(20);not null;default:'ECONOMY'" json:"cabin_class"`

	PassengerName string  `gorm:"not null;size:100" json:"passenger_name"`
	SeatNumber    string  `gorm:"size:5" json:"seat_number"`
	TotalPrice    float64 `gorm:"not null" json:"total_price"`

	// MemberNumber optionally redirects the mileage credit to a loyalty
	// account other than the booking owner (account ID or email).
	MemberNumber string `gorm:"size:100" json:"member_number"`

	CheckedIn     bool   `gorm:"not null;default:false" json:"checked_in"`
	PointsAwarded bool   `gorm:"not null;default:false;index" json:"points_awarded"`
	Status        Status `gorm:"type:varchar(20);default:'CONFIRMED'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User     *users.User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Template *routes.RouteTemplate `json:"template,omitempty" gorm:"foreignKey:TemplateID"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsSettleable reports whether the booking is in a state the settlement
// engine considers at all.
func (b *Booking) IsSettleable() bool {
	return !b.PointsAwarded && b.Status.IsSettleable()
}
