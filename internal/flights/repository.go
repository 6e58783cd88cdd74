package flights

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// CreateMissing inserts instances, silently skipping any whose
	// (template_id, date) pair already exists. Concurrent callers racing on
	// the same date are resolved by the unique index; the loser's insert is
	// a no-op.
	CreateMissing(ctx context.Context, instances []FlightInstance) error

	ListByDate(ctx context.Context, date time.Time) ([]FlightInstance, error)
	ListByDateWithTemplate(ctx context.Context, date time.Time, query InstanceListQuery) ([]FlightInstance, int64, error)
	GetByTemplateAndDate(ctx context.Context, templateID uuid.UUID, date time.Time) (*FlightInstance, error)

	// UpdateProgress persists a status transition and its derived fields.
	UpdateProgress(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMissing(ctx context.Context, instances []FlightInstance) error {
	if len(instances) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "template_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		CreateInBatches(instances, 50).Error
}

func (r *repository) ListByDate(ctx context.Context, date time.Time) ([]FlightInstance, error) {
	var instances []FlightInstance
	err := r.db.WithContext(ctx).
		Where("date = ?", dateOnly(date)).
		Order("scheduled_departure ASC").
		Find(&instances).Error
	return instances, err
}

func (r *repository) ListByDateWithTemplate(ctx context.Context, date time.Time, query InstanceListQuery) ([]FlightInstance, int64, error) {
	var instances []FlightInstance
	var totalCount int64

	baseQuery := r.db.WithContext(ctx).
		Model(&FlightInstance{}).
		Where("date = ?", dateOnly(date))

	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		baseQuery = baseQuery.
			Joins("JOIN route_templates ON route_templates.id = flight_instances.template_id").
			Where(
				"route_templates.flight_number ILIKE ? OR route_templates.origin ILIKE ? OR route_templates.destination ILIKE ? OR route_templates.origin_city ILIKE ? OR route_templates.destination_city ILIKE ?",
				pattern, pattern, pattern, pattern, pattern,
			)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	q := baseQuery.
		Preload("Template").
		Order("scheduled_departure ASC")
	if query.Limit > 0 {
		q = q.Offset(query.Offset).Limit(query.Limit)
	}

	err := q.Find(&instances).Error
	return instances, totalCount, err
}

func (r *repository) GetByTemplateAndDate(ctx context.Context, templateID uuid.UUID, date time.Time) (*FlightInstance, error) {
	var instance FlightInstance
	err := r.db.WithContext(ctx).
		Where("template_id = ? AND date = ?", templateID, dateOnly(date)).
		First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

func (r *repository) UpdateProgress(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&FlightInstance{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// dateOnly truncates a timestamp to its calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
