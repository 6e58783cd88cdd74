package routes

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RouteTemplate is the static, date-independent schedule definition for one
// flight. It is the source of truth the daily simulation materializes
// instances from; the core treats it as read-only.
type RouteTemplate struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	FlightNumber string    `json:"flight_number" gorm:"uniqueIndex;not null;size:10"`
	Airline      string    `json:"airline" gorm:"not null;size:100"`
	AirlineCode  string    `json:"airline_code" gorm:"not null;size:3"`

	Origin          string `json:"origin" gorm:"not null;size:3;index"`
	OriginCity      string `json:"origin_city" gorm:"size:100"`
	Destination     string `json:"destination" gorm:"not null;size:3;index"`
	DestinationCity string `json:"destination_city" gorm:"size:100"`

	// Local clock times as "HH:MM"; arrival may carry an overnight marker,
	// e.g. "06:30+1" for next-day arrival.
	DepartureTime string `json:"departure_time" gorm:"not null;size:8"`
	ArrivalTime   string `json:"arrival_time" gorm:"not null;size:8"`
	Duration      string `json:"duration" gorm:"not null;size:10"` // e.g. "8h 30m"

	Aircraft string `json:"aircraft" gorm:"size:50"`

	// OperatingDays is a digit string, 1=Monday .. 7=Sunday, e.g. "1234567".
	OperatingDays string `json:"operating_days" gorm:"not null;size:7"`

	EconomySeats        int     `json:"economy_seats" gorm:"not null;check:economy_seats >= 0"`
	PremiumEconomySeats int     `json:"premium_economy_seats" gorm:"default:0;check:premium_economy_seats >= 0"`
	BusinessSeats       int     `json:"business_seats" gorm:"default:0;check:business_seats >= 0"`
	FirstClassSeats     int     `json:"first_class_seats" gorm:"default:0;check:first_class_seats >= 0"`
	EconomyPrice        float64 `json:"economy_price" gorm:"not null;check:economy_price >= 0"`
	PremiumEconomyPrice float64 `json:"premium_economy_price" gorm:"default:0"`
	BusinessPrice       float64 `json:"business_price" gorm:"default:0"`
	FirstClassPrice     float64 `json:"first_class_price" gorm:"default:0"`

	HasEconomy        bool `json:"has_economy" gorm:"default:true"`
	HasPremiumEconomy bool `json:"has_premium_economy" gorm:"default:false"`
	HasBusiness       bool `json:"has_business" gorm:"default:false"`
	HasFirstClass     bool `json:"has_first_class" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (RouteTemplate) TableName() string {
	return "route_templates"
}

// OperatesOn reports whether the template flies on the given weekday,
// using the ISO numbering stored in OperatingDays (1=Monday .. 7=Sunday).
func (rt *RouteTemplate) OperatesOn(weekday time.Weekday) bool {
	iso := int(weekday)
	if iso == 0 {
		iso = 7 // time.Sunday is 0
	}
	return containsDigit(rt.OperatingDays, iso)
}

func containsDigit(days string, d int) bool {
	target := strconv.Itoa(d)
	for i := 0; i < len(days); i++ {
		if string(days[i]) == target {
			return true
		}
	}
	return false
}

// CabinClass enumerates the bookable cabins.
type CabinClass string

const (
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirstClass     CabinClass = "FIRST_CLASS"
)

// IsValid checks if the cabin class is one of the known cabins.
func (c CabinClass) IsValid() bool {
	switch c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirstClass:
		return true
	}
	return false
}

func (c CabinClass) String() string {
	return string(c)
}

// SeatsFor returns the configured capacity of a cabin, or 0 when the cabin
// is not offered on this route.
func (rt *RouteTemplate) SeatsFor(cabin CabinClass) int {
	switch cabin {
	case CabinEconomy:
		if rt.HasEconomy {
			return rt.EconomySeats
		}
	case CabinPremiumEconomy:
		if rt.HasPremiumEconomy {
			return rt.PremiumEconomySeats
		}
	case CabinBusiness:
		if rt.HasBusiness {
			return rt.BusinessSeats
		}
	case CabinFirstClass:
		if rt.HasFirstClass {
			return rt.FirstClassSeats
		}
	}
	return 0
}

// PriceFor returns the configured fare for a cabin.
func (rt *RouteTemplate) PriceFor(cabin CabinClass) float64 {
	switch cabin {
	case CabinPremiumEconomy:
		return rt.PremiumEconomyPrice
	case CabinBusiness:
		return rt.BusinessPrice
	case CabinFirstClass:
		return rt.FirstClassPrice
	default:
		return rt.EconomyPrice
	}
}

// UpsertRouteRequest is the admin payload for creating or replacing a
// route template.
type UpsertRouteRequest struct {
	FlightNumber string `json:"flight_number" validate:"required,min=3,max=8"`
	Airline      string `json:"airline" validate:"required,max=100"`
	AirlineCode  string `json:"airline_code" validate:"required,len=2"`

	Origin          string `json:"origin" validate:"required,len=3"`
	OriginCity      string `json:"origin_city" validate:"max=100"`
	Destination     string `json:"destination" validate:"required,len=3"`
	DestinationCity string `json:"destination_city" validate:"max=100"`

	DepartureTime string `json:"departure_time" validate:"required"`
	ArrivalTime   string `json:"arrival_time" validate:"required"`
	Duration      string `json:"duration" validate:"required"`
	Aircraft      string `json:"aircraft" validate:"max=50"`
	OperatingDays string `json:"operating_days" validate:"required,min=1,max=7"`

	EconomySeats        int     `json:"economy_seats" validate:"min=0"`
	PremiumEconomySeats int     `json:"premium_economy_seats" validate:"min=0"`
	BusinessSeats       int     `json:"business_seats" validate:"min=0"`
	FirstClassSeats     int     `json:"first_class_seats" validate:"min=0"`
	EconomyPrice        float64 `json:"economy_price" validate:"min=0"`
	PremiumEconomyPrice float64 `json:"premium_economy_price" validate:"min=0"`
	BusinessPrice       float64 `json:"business_price" validate:"min=0"`
	FirstClassPrice     float64 `json:"first_class_price" validate:"min=0"`
}
