package bookings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"yellowair/internal/users"
)

type Repository interface {
	// ListPendingSettlement returns bookings that have not been awarded
	// points and are in a settleable status, with the route template
	// preloaded for schedule arithmetic.
	ListPendingSettlement(ctx context.Context) ([]Booking, error)

	// SettleBooking atomically flags the booking as awarded, marks it
	// COMPLETED and credits the target user's points balance, in one
	// transaction. The flag update is a compare-and-set: if another writer
	// settled the booking first, no rows match, no points are credited, and
	// ErrAlreadySettled is returned.
	SettleBooking(ctx context.Context, bookingID, targetUserID uuid.UUID, points int) error
}

// ErrAlreadySettled signals that the compare-and-set guard found the booking
// already awarded.
var ErrAlreadySettled = fmt.Errorf("booking already settled")

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListPendingSettlement(ctx context.Context) ([]Booking, error) {
	var pending []Booking
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("points_awarded = ?", false).
		Where("status IN ?", []Status{StatusConfirmed, StatusCheckedIn, StatusCompleted}).
		Order("travel_date ASC").
		Find(&pending).Error
	return pending, err
}

func (r *repository) SettleBooking(ctx context.Context, bookingID, targetUserID uuid.UUID, points int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Booking{}).
			Where("id = ? AND points_awarded = ?", bookingID, false).
			Updates(map[string]interface{}{
				"points_awarded": true,
				"status":         StatusCompleted,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadySettled
		}

		return tx.Model(&users.User{}).
			Where("id = ?", targetUserID).
			UpdateColumn("points", gorm.Expr("points + ?", points)).Error
	})
}
