package routes

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	ListAll(ctx context.Context) ([]RouteTemplate, error)
	ListByWeekday(ctx context.Context, weekday time.Weekday) ([]RouteTemplate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*RouteTemplate, error)
	GetByFlightNumber(ctx context.Context, flightNumber string) (*RouteTemplate, error)
	Upsert(ctx context.Context, template *RouteTemplate) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAll(ctx context.Context) ([]RouteTemplate, error) {
	var templates []RouteTemplate
	err := r.db.WithContext(ctx).
		Order("flight_number ASC").
		Find(&templates).Error
	return templates, err
}

func (r *repository) ListByWeekday(ctx context.Context, weekday time.Weekday) ([]RouteTemplate, error) {
	iso := int(weekday)
	if iso == 0 {
		iso = 7
	}

	var templates []RouteTemplate
	err := r.db.WithContext(ctx).
		Where("operating_days LIKE ?", "%"+strconv.Itoa(iso)+"%").
		Order("departure_time ASC").
		Find(&templates).Error
	return templates, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*RouteTemplate, error) {
	var template RouteTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repository) GetByFlightNumber(ctx context.Context, flightNumber string) (*RouteTemplate, error) {
	var template RouteTemplate
	err := r.db.WithContext(ctx).Where("flight_number = ?", flightNumber).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Upsert inserts a template or replaces the schedule fields of an existing
// one, keyed by flight number. The admin collaborator is the only writer.
func (r *repository) Upsert(ctx context.Context, template *RouteTemplate) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "flight_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"airline", "airline_code",
			"origin", "origin_city", "destination", "destination_city",
			"departure_time", "arrival_time", "duration", "aircraft",
			"operating_days",
			"economy_seats", "premium_economy_seats", "business_seats", "first_class_seats",
			"economy_price", "premium_economy_price", "business_price", "first_class_price",
			"has_economy", "has_premium_economy", "has_business", "has_first_class",
			"updated_at",
		}),
	}).Create(template).Error
}
