package routes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	ListRoutes(ctx context.Context) ([]RouteTemplate, error)
	ListRoutesForDate(ctx context.Context, date time.Time) ([]RouteTemplate, error)
	GetRoute(ctx context.Context, id string) (*RouteTemplate, error)
	GetRouteByFlightNumber(ctx context.Context, flightNumber string) (*RouteTemplate, error)
	UpsertRoute(ctx context.Context, req UpsertRouteRequest) (*RouteTemplate, error)
}

type service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) Service {
	return &service{
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *service) ListRoutes(ctx context.Context) ([]RouteTemplate, error) {
	return s.repo.ListAll(ctx)
}

// ListRoutesForDate returns the templates whose operating-days set contains
// the weekday of the given date.
func (s *service) ListRoutesForDate(ctx context.Context, date time.Time) ([]RouteTemplate, error) {
	return s.repo.ListByWeekday(ctx, date.Weekday())
}

func (s *service) GetRoute(ctx context.Context, id string) (*RouteTemplate, error) {
	routeID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid route ID: %w", err)
	}

	template, err := s.repo.GetByID(ctx, routeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("route not found")
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return template, nil
}

func (s *service) GetRouteByFlightNumber(ctx context.Context, flightNumber string) (*RouteTemplate, error) {
	template, err := s.repo.GetByFlightNumber(ctx, flightNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("route %s not found", flightNumber)
		}
		return nil, fmt.Errorf("failed to get route: %w", err)
	}
	return template, nil
}

func (s *service) UpsertRoute(ctx context.Context, req UpsertRouteRequest) (*RouteTemplate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid route payload: %w", err)
	}

	// Reject schedule fields the simulation cannot parse instead of letting
	// them poison the daily materialization later.
	if _, _, err := ParseClock(req.DepartureTime); err != nil {
		return nil, err
	}
	if _, _, err := ParseClock(req.ArrivalTime); err != nil {
		return nil, err
	}
	for i := 0; i < len(req.OperatingDays); i++ {
		if req.OperatingDays[i] < '1' || req.OperatingDays[i] > '7' {
			return nil, fmt.Errorf("invalid operating days %q", req.OperatingDays)
		}
	}

	template := &RouteTemplate{
		FlightNumber:        req.FlightNumber,
		Airline:             req.Airline,
		AirlineCode:         req.AirlineCode,
		Origin:              req.Origin,
		OriginCity:          req.OriginCity,
		Destination:         req.Destination,
		DestinationCity:     req.DestinationCity,
		DepartureTime:       req.DepartureTime,
		ArrivalTime:         req.ArrivalTime,
		Duration:            req.Duration,
		Aircraft:            req.Aircraft,
		OperatingDays:       req.OperatingDays,
		EconomySeats:        req.EconomySeats,
		PremiumEconomySeats: req.PremiumEconomySeats,
		BusinessSeats:       req.BusinessSeats,
		FirstClassSeats:     req.FirstClassSeats,
		EconomyPrice:        req.EconomyPrice,
		PremiumEconomyPrice: req.PremiumEconomyPrice,
		BusinessPrice:       req.BusinessPrice,
		FirstClassPrice:     req.FirstClassPrice,
		HasEconomy:          req.EconomySeats > 0,
		HasPremiumEconomy:   req.PremiumEconomySeats > 0,
		HasBusiness:         req.BusinessSeats > 0,
		HasFirstClass:       req.FirstClassSeats > 0,
	}

	if err := s.repo.Upsert(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to upsert route: %w", err)
	}
	return template, nil
}
