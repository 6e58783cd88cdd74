// Package loyalty implements the mileage settlement engine: a periodically
// triggered batch that converts completed travel into credited points,
// exactly once per booking.
package loyalty

import (
	"context"
	"errors"
	"math"
	"time"

	"yellowair/internal/bookings"
	"yellowair/internal/notifications"
	"yellowair/internal/routes"
	"yellowair/internal/shared/constants"
	"yellowair/internal/users"
	"yellowair/pkg/cache"
	"yellowair/pkg/logger"
)

const (
	// Post-arrival buffer before a booking becomes eligible, emulating
	// downstream ticket-lift processing.
	settlementBuffer = 3 * time.Hour

	// Distance proxy: block hours at an assumed average ground speed.
	averageSpeedMiles = 500.0

	// Lease TTL guarding against overlapping batch passes.
	settlementLeaseTTL = 5 * time.Minute
)

// ErrRunInProgress signals that another settlement pass holds the lease.
var ErrRunInProgress = errors.New("settlement run already in progress")

// Earning coefficients per cabin. Base applies to the distance estimate,
// revenue to the fare paid.
var (
	baseCoefficients = map[routes.CabinClass]float64{
		routes.CabinEconomy:        1.0,
		routes.CabinPremiumEconomy: 1.2,
		routes.CabinBusiness:       1.5,
		routes.CabinFirstClass:     2.0,
	}
	revenueCoefficients = map[routes.CabinClass]float64{
		routes.CabinEconomy:        0.5,
		routes.CabinPremiumEconomy: 0.75,
		routes.CabinBusiness:       1.0,
		routes.CabinFirstClass:     1.5,
	}
)

// RunSummary is the observable output of one settlement pass.
type RunSummary struct {
	Processed    int `json:"processed"`
	TotalPending int `json:"total_pending"`
}

type Service interface {
	// ProcessPendingPoints scans all settleable bookings and credits each
	// eligible one exactly once. Per-booking failures are logged and
	// skipped; the pass always runs to the end of the list.
	ProcessPendingPoints(ctx context.Context) (*RunSummary, error)

	SetProducer(producer notifications.SettlementProducer)
	SetCacheService(cacheSvc cache.Service)
}

type service struct {
	bookingRepo bookings.Repository
	userRepo    users.Repository
	producer    notifications.SettlementProducer
	cacheSvc    cache.Service
	log         *logger.Logger
	now         func() time.Time
}

func NewService(bookingRepo bookings.Repository, userRepo users.Repository) Service {
	return &service{
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		log:         logger.GetDefault(),
		now:         time.Now,
	}
}

// SetProducer enables publishing settlement events after each award.
func (s *service) SetProducer(producer notifications.SettlementProducer) {
	s.producer = producer
}

// SetCacheService enables the distributed run lease. Without it, overlap
// protection falls back to whatever the external scheduler guarantees.
func (s *service) SetCacheService(cacheSvc cache.Service) {
	s.cacheSvc = cacheSvc
}

// WithClock swaps the wall-clock source. Tests use this to step time.
func (s *service) WithClock(now func() time.Time) *service {
	s.now = now
	return s
}

func (s *service) ProcessPendingPoints(ctx context.Context) (*RunSummary, error) {
	if s.cacheSvc != nil {
		acquired, err := s.cacheSvc.AcquireLease(ctx, constants.LOCK_KEY_SETTLEMENT, settlementLeaseTTL)
		if err != nil {
			// Redis being down must not stop settlement; the scheduler is
			// expected not to overlap runs on its own.
			s.log.LogSettlementLeaseUnavailable(ctx, err)
		} else if !acquired {
			return nil, ErrRunInProgress
		} else {
			defer func() {
				if err := s.cacheSvc.ReleaseLease(ctx, constants.LOCK_KEY_SETTLEMENT); err != nil {
					s.log.LogSettlementLeaseUnavailable(ctx, err)
				}
			}()
		}
	}

	pending, err := s.bookingRepo.ListPendingSettlement(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{TotalPending: len(pending)}
	now := s.now()

	for i := range pending {
		booking := &pending[i]

		if s.settleOne(ctx, booking, now) {
			summary.Processed++
		}
	}

	s.log.LogSettlementRun(ctx, summary.Processed, summary.TotalPending)
	return summary, nil
}

// settleOne evaluates and settles a single booking. Returns true when points
// were credited. All failure paths log and leave the booking pending for the
// next run.
func (s *service) settleOne(ctx context.Context, booking *bookings.Booking, now time.Time) bool {
	if booking.Template == nil {
		s.log.LogSettlementSkipped(ctx, booking.BookingRef, "missing route template")
		return false
	}

	arrival, err := booking.Template.ScheduledArrival(booking.TravelDate)
	if err != nil {
		s.log.LogSettlementSkipped(ctx, booking.BookingRef, err.Error())
		return false
	}

	if now.Before(arrival.Add(settlementBuffer)) {
		return false // not yet due; silently retried next run
	}

	target := s.resolveTarget(ctx, booking)
	if target == nil {
		// Left pending indefinitely; the warning is the alerting hook.
		s.log.LogSettlementUnresolved(ctx, booking.BookingRef, booking.MemberNumber)
		return false
	}

	points, err := computePoints(booking)
	if err != nil {
		s.log.LogSettlementSkipped(ctx, booking.BookingRef, err.Error())
		return false
	}

	if err := s.bookingRepo.SettleBooking(ctx, booking.ID, target.ID, points); err != nil {
		if errors.Is(err, bookings.ErrAlreadySettled) {
			return false // another writer won the compare-and-set
		}
		s.log.LogSettlementSkipped(ctx, booking.BookingRef, err.Error())
		return false
	}

	s.log.LogPointsAwarded(ctx, booking.BookingRef, target.Email, points)

	if s.producer != nil {
		event := notifications.NewSettlementEvent(
			booking.BookingRef, target.ID, target.Email,
			booking.Template.FlightNumber, booking.TravelDate.Format("2006-01-02"),
			booking.CabinClass.String(), points,
		)
		if err := s.producer.PublishSettlement(ctx, event); err != nil {
			// Best-effort: the award is committed; the event can be lost.
			s.log.LogSettlementEventFailed(ctx, booking.BookingRef, err)
		}
	}

	return true
}

// resolveTarget picks the account to credit: an explicit member reference
// (account ID or email) wins, otherwise the booking's owner.
func (s *service) resolveTarget(ctx context.Context, booking *bookings.Booking) *users.User {
	if booking.MemberNumber != "" {
		if user, err := s.userRepo.FindByReference(ctx, booking.MemberNumber); err == nil {
			return user
		}
	}

	user, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		return nil
	}
	return user
}

// computePoints applies the earning formula:
// floor(distance×baseCoef + fare×revenueCoef), with distance estimated from
// the template's block time at a fixed average speed.
func computePoints(booking *bookings.Booking) (int, error) {
	hours, err := booking.Template.DurationHours()
	if err != nil {
		return 0, err
	}
	distance := math.Round(hours * averageSpeedMiles)

	baseCoef, ok := baseCoefficients[booking.CabinClass]
	if !ok {
		baseCoef = baseCoefficients[routes.CabinEconomy]
	}
	revenueCoef, ok := revenueCoefficients[booking.CabinClass]
	if !ok {
		revenueCoef = revenueCoefficients[routes.CabinEconomy]
	}

	baseMiles := distance * baseCoef
	revenueBonus := booking.TotalPrice * revenueCoef

	return int(math.Floor(baseMiles + revenueBonus)), nil
}
