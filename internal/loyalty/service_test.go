package loyalty

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yellowair/internal/bookings"
	"yellowair/internal/notifications"
	"yellowair/internal/routes"
	"yellowair/internal/users"
)

// --- fakes ---

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*bookings.Booking
	credits  map[uuid.UUID]int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*bookings.Booking),
		credits:  make(map[uuid.UUID]int),
	}
}

func (f *fakeBookingRepo) ListPendingSettlement(ctx context.Context) ([]bookings.Booking, error) {
	var out []bookings.Booking
	for _, b := range f.bookings {
		if b.IsSettleable() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) SettleBooking(ctx context.Context, bookingID, targetUserID uuid.UUID, points int) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if b.PointsAwarded {
		return bookings.ErrAlreadySettled
	}
	b.PointsAwarded = true
	b.Status = bookings.StatusCompleted
	f.credits[targetUserID] += points
	return nil
}

type fakeUserRepo struct {
	byID  map[uuid.UUID]*users.User
	byRef map[string]*users.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:  make(map[uuid.UUID]*users.User),
		byRef: make(map[string]*users.User),
	}
}

func (f *fakeUserRepo) add(u *users.User) {
	f.byID[u.ID] = u
	f.byRef[u.Email] = u
	f.byRef[u.ID.String()] = u
	if u.MemberNumber != "" {
		f.byRef[u.MemberNumber] = u
	}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByReference(ctx context.Context, ref string) (*users.User, error) {
	u, ok := f.byRef[ref]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type fakeProducer struct {
	published []*notifications.SettlementEvent
	fail      bool
}

func (f *fakeProducer) PublishSettlement(ctx context.Context, event *notifications.SettlementEvent) error {
	if f.fail {
		return errors.New("broker unavailable")
	}
	f.published = append(f.published, event)
	return nil
}

func (f *fakeProducer) Close() error                        { return nil }
func (f *fakeProducer) HealthCheck(ctx context.Context) error { return nil }

// --- fixtures ---

var (
	ownerID  = uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-111111111111")
	memberID = uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-222222222222")
)

func businessTemplate() *routes.RouteTemplate {
	return &routes.RouteTemplate{
		ID:            uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-aaaaaaaaaaaa"),
		FlightNumber:  "YA101",
		DepartureTime: "09:00",
		ArrivalTime:   "17:00",
		Duration:      "8h 0m",
		OperatingDays: "1234567",
	}
}

func pendingBooking(id uuid.UUID, travelDate time.Time) *bookings.Booking {
	tmpl := businessTemplate()
	return &bookings.Booking{
		ID:            id,
		BookingRef:    "REF" + id.String()[:5],
		UserID:        ownerID,
		TemplateID:    tmpl.ID,
		TravelDate:    travelDate,
		CabinClass:    routes.CabinBusiness,
		PassengerName: "Avery Chen",
		TotalPrice:    10000,
		Status:        bookings.StatusConfirmed,
		Template:      tmpl,
	}
}

func newTestService(bookingRepo *fakeBookingRepo, userRepo *fakeUserRepo, now time.Time) *service {
	svc := NewService(bookingRepo, userRepo).(*service)
	return svc.WithClock(func() time.Time { return now })
}

// --- tests ---

func TestProcessPendingPoints_AwardsFormula(t *testing.T) {
	// 8h at 500mph = 4000 distance; BUSINESS: 4000*1.5 + 10000*1.0 = 16000.
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-333333333333"), travelDate)
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)

	summary, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.TotalPending)
	assert.Equal(t, 16000, bookingRepo.credits[ownerID])
	assert.True(t, bookingRepo.bookings[booking.ID].PointsAwarded)
	assert.Equal(t, bookings.StatusCompleted, bookingRepo.bookings[booking.ID].Status)
}

func TestProcessPendingPoints_SecondRunAwardsNothing(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-444444444444"), travelDate)
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)

	_, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)

	summary, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 0, summary.TotalPending)
	assert.Equal(t, 16000, bookingRepo.credits[ownerID], "points credited exactly once")
}

func TestProcessPendingPoints_NotYetEligible(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	// Arrival is 17:00; buffer ends 20:00. One minute early.
	now := time.Date(2026, 6, 20, 19, 59, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-555555555555"), travelDate)
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)

	summary, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.TotalPending)
	assert.False(t, bookingRepo.bookings[booking.ID].PointsAwarded)

	// Cross the buffer boundary and it settles.
	svc.WithClock(func() time.Time { return time.Date(2026, 6, 20, 20, 0, 0, 0, time.UTC) })
	summary, err = svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
}

func TestProcessPendingPoints_OvernightArrivalShiftsEligibility(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-666666666666"), travelDate)
	booking.Template.DepartureTime = "23:45"
	booking.Template.ArrivalTime = "06:30+1"
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	// Same-day evening: arrival is tomorrow morning, so nothing settles.
	svc := newTestService(bookingRepo, userRepo, time.Date(2026, 6, 20, 23, 0, 0, 0, time.UTC))
	summary, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)

	// Next day 09:30 = arrival 06:30 + 3h buffer.
	svc.WithClock(func() time.Time { return time.Date(2026, 6, 21, 9, 30, 0, 0, time.UTC) })
	summary, err = svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
}

func TestProcessPendingPoints_MemberReferenceRedirectsCredit(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-777777777777"), travelDate)
	booking.MemberNumber = "member@example.com"
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})
	userRepo.add(&users.User{ID: memberID, Email: "member@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)

	_, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16000, bookingRepo.credits[memberID])
	assert.Zero(t, bookingRepo.credits[ownerID])
}

func TestProcessPendingPoints_UnknownReferenceFallsBackToOwner(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-888888888888"), travelDate)
	booking.MemberNumber = "nobody@example.com"
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)

	_, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 16000, bookingRepo.credits[ownerID])
}

func TestProcessPendingPoints_UnresolvableStaysPending(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-999999999999"), travelDate)
	bookingRepo.bookings[booking.ID] = booking

	// No users at all: neither the reference nor the owner resolves.
	svc := newTestService(bookingRepo, newFakeUserRepo(), now)

	summary, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.TotalPending)
	assert.False(t, bookingRepo.bookings[booking.ID].PointsAwarded)
}

func TestProcessPendingPoints_PublishesSettlementEvents(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-aaaaaaaa1111"), travelDate)
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)
	producer := &fakeProducer{}
	svc.SetProducer(producer)

	_, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, producer.published, 1)
	assert.Equal(t, booking.BookingRef, producer.published[0].BookingRef)
	assert.Equal(t, 16000, producer.published[0].Points)
	assert.Equal(t, "YA101", producer.published[0].FlightNumber)
}

func TestProcessPendingPoints_PublishFailureDoesNotBlockAward(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-aaaaaaaa2222"), travelDate)
	bookingRepo.bookings[booking.ID] = booking

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)
	svc.SetProducer(&fakeProducer{fail: true})

	summary, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 16000, bookingRepo.credits[ownerID])
}

func TestComputePoints_PerCabin(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		cabin routes.CabinClass
		price float64
		want  int
	}{
		{routes.CabinEconomy, 10000, 4000*1 + 5000},
		{routes.CabinPremiumEconomy, 10000, 4800 + 7500},
		{routes.CabinBusiness, 10000, 6000 + 10000},
		{routes.CabinFirstClass, 10000, 8000 + 15000},
	}

	for _, tc := range cases {
		t.Run(string(tc.cabin), func(t *testing.T) {
			booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-aaaaaaaa3333"), travelDate)
			booking.CabinClass = tc.cabin
			booking.TotalPrice = tc.price

			points, err := computePoints(booking)
			require.NoError(t, err)
			assert.Equal(t, tc.want, points)
		})
	}
}

func TestComputePoints_FlooredFractionalResult(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	booking := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-aaaaaaaa4444"), travelDate)
	booking.Template.Duration = "1h 30m"
	booking.CabinClass = routes.CabinPremiumEconomy
	booking.TotalPrice = 333

	// distance = round(1.5*500) = 750; 750*1.2 + 333*0.75 = 900 + 249.75.
	points, err := computePoints(booking)
	require.NoError(t, err)
	assert.Equal(t, 1149, points)
}

func TestProcessPendingPoints_MalformedDurationSkipped(t *testing.T) {
	travelDate := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC)

	bookingRepo := newFakeBookingRepo()
	bad := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-aaaaaaaa5555"), travelDate)
	bad.Template.Duration = "eight hours"
	good := pendingBooking(uuid.MustParse("7f9c24e5-2c31-4a3b-9b1e-aaaaaaaa6666"), travelDate)
	bookingRepo.bookings[bad.ID] = bad
	bookingRepo.bookings[good.ID] = good

	userRepo := newFakeUserRepo()
	userRepo.add(&users.User{ID: ownerID, Email: "owner@example.com"})

	svc := newTestService(bookingRepo, userRepo, now)

	summary, err := svc.ProcessPendingPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed, "healthy sibling settles despite the malformed one")
	assert.False(t, bookingRepo.bookings[bad.ID].PointsAwarded)
	assert.True(t, bookingRepo.bookings[good.ID].PointsAwarded)
}
