package flights

import (
	"time"

	"github.com/google/uuid"

	"yellowair/internal/routes"
)

// Weather codes synthesized per flight instance at creation time.
const (
	WeatherSunny  = "SUNNY"
	WeatherCloudy = "CLOUDY"
	WeatherRainy  = "RAINY"
	WeatherFoggy  = "FOGGY"
	WeatherSnowy  = "SNOWY"
	WeatherStormy = "STORMY"
)

// FlightInstance is one concrete occurrence of a route template on one
// calendar date. Identity is (TemplateID, Date); the unique index on that
// pair is what makes concurrent materialization conflict-free. Instances are
// never deleted, only advanced through the status machine.
type FlightInstance struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TemplateID uuid.UUID `json:"template_id" gorm:"type:uuid;not null;uniqueIndex:idx_instance_template_date,priority:1"`
	Date       time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:idx_instance_template_date,priority:2;index"`

	Status Status `json:"status" gorm:"type:varchar(20);not null;default:'SCHEDULED'"`

	ScheduledDeparture time.Time  `json:"scheduled_departure" gorm:"not null"`
	ScheduledArrival   time.Time  `json:"scheduled_arrival" gorm:"not null"`
	ActualDeparture    *time.Time `json:"actual_departure,omitempty"`
	ActualArrival      *time.Time `json:"actual_arrival,omitempty"`

	// DelayMinutes is the synthetic delay already folded into the scheduled
	// instants. Non-zero means the delay draw was applied; it is never
	// applied twice.
	DelayMinutes int `json:"delay_minutes" gorm:"not null;default:0"`

	AircraftType         string `json:"aircraft_type" gorm:"size:50"`
	AircraftRegistration string `json:"aircraft_registration" gorm:"size:10"`
	Gate                 string `json:"gate" gorm:"size:5"`
	Terminal             string `json:"terminal" gorm:"size:5"`

	WeatherOrigin      string `json:"weather_origin" gorm:"size:10"`
	WeatherDestination string `json:"weather_destination" gorm:"size:10"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Template *routes.RouteTemplate `json:"-" gorm:"foreignKey:TemplateID"`
}

func (FlightInstance) TableName() string {
	return "flight_instances"
}

// InstanceResponse is the read model served to the status board.
type InstanceResponse struct {
	ID                   string     `json:"id"`
	Date                 string     `json:"date"`
	Status               Status     `json:"status"`
	ScheduledDeparture   time.Time  `json:"scheduled_departure"`
	ScheduledArrival     time.Time  `json:"scheduled_arrival"`
	ActualDeparture      *time.Time `json:"actual_departure,omitempty"`
	ActualArrival        *time.Time `json:"actual_arrival,omitempty"`
	DelayMinutes         int        `json:"delay_minutes"`
	AircraftType         string     `json:"aircraft_type,omitempty"`
	AircraftRegistration string     `json:"aircraft_registration,omitempty"`
	Gate                 string     `json:"gate,omitempty"`
	Terminal             string     `json:"terminal,omitempty"`
	WeatherOrigin        string     `json:"weather_origin,omitempty"`
	WeatherDestination   string     `json:"weather_destination,omitempty"`

	FlightNumber    string `json:"flight_number"`
	Airline         string `json:"airline"`
	Origin          string `json:"origin"`
	OriginCity      string `json:"origin_city"`
	Destination     string `json:"destination"`
	DestinationCity string `json:"destination_city"`
	Duration        string `json:"duration"`
}

// ToResponse joins the instance with its template's display fields.
func (fi *FlightInstance) ToResponse() InstanceResponse {
	resp := InstanceResponse{
		ID:                   fi.ID.String(),
		Date:                 fi.Date.Format("2006-01-02"),
		Status:               fi.Status,
		ScheduledDeparture:   fi.ScheduledDeparture,
		ScheduledArrival:     fi.ScheduledArrival,
		ActualDeparture:      fi.ActualDeparture,
		ActualArrival:        fi.ActualArrival,
		DelayMinutes:         fi.DelayMinutes,
		AircraftType:         fi.AircraftType,
		AircraftRegistration: fi.AircraftRegistration,
		Gate:                 fi.Gate,
		Terminal:             fi.Terminal,
		WeatherOrigin:        fi.WeatherOrigin,
		WeatherDestination:   fi.WeatherDestination,
	}
	if fi.Template != nil {
		resp.FlightNumber = fi.Template.FlightNumber
		resp.Airline = fi.Template.Airline
		resp.Origin = fi.Template.Origin
		resp.OriginCity = fi.Template.OriginCity
		resp.Destination = fi.Template.Destination
		resp.DestinationCity = fi.Template.DestinationCity
		resp.Duration = fi.Template.Duration
	}
	return resp
}

// InstanceListQuery filters the status board listing.
type InstanceListQuery struct {
	Status Status `form:"status"`
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
