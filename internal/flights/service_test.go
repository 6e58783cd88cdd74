package flights

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yellowair/internal/routes"
)

// --- in-memory fakes ---

type fakeRouteRepo struct {
	templates []routes.RouteTemplate
}

func (f *fakeRouteRepo) ListAll(_ context.Context) ([]routes.RouteTemplate, error) {
	return f.templates, nil
}

func (f *fakeRouteRepo) ListByWeekday(_ context.Context, weekday time.Weekday) ([]routes.RouteTemplate, error) {
	var out []routes.RouteTemplate
	for _, t := range f.templates {
		if t.OperatesOn(weekday) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRouteRepo) GetByID(_ context.Context, id uuid.UUID) (*routes.RouteTemplate, error) {
	for i := range f.templates {
		if f.templates[i].ID == id {
			return &f.templates[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRouteRepo) GetByFlightNumber(_ context.Context, fn string) (*routes.RouteTemplate, error) {
	for i := range f.templates {
		if f.templates[i].FlightNumber == fn {
			return &f.templates[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRouteRepo) Upsert(_ context.Context, t *routes.RouteTemplate) error {
	f.templates = append(f.templates, *t)
	return nil
}

type fakeInstanceRepo struct {
	instances map[string]*FlightInstance
	updates   int
}

func newFakeInstanceRepo() *fakeInstanceRepo {
	return &fakeInstanceRepo{instances: make(map[string]*FlightInstance)}
}

func instanceKey(templateID uuid.UUID, date time.Time) string {
	return templateID.String() + "|" + date.Format("2006-01-02")
}

func (f *fakeInstanceRepo) CreateMissing(_ context.Context, instances []FlightInstance) error {
	for i := range instances {
		inst := instances[i]
		key := instanceKey(inst.TemplateID, inst.Date)
		if _, exists := f.instances[key]; exists {
			continue // unique index: second writer is a no-op
		}
		inst.ID = uuid.New()
		f.instances[key] = &inst
	}
	return nil
}

func (f *fakeInstanceRepo) ListByDate(_ context.Context, date time.Time) ([]FlightInstance, error) {
	var out []FlightInstance
	for _, inst := range f.instances {
		if inst.Date.Equal(dateOnly(date)) {
			out = append(out, *inst)
		}
	}
	return out, nil
}

func (f *fakeInstanceRepo) ListByDateWithTemplate(ctx context.Context, date time.Time, _ InstanceListQuery) ([]FlightInstance, int64, error) {
	out, err := f.ListByDate(ctx, date)
	return out, int64(len(out)), err
}

func (f *fakeInstanceRepo) GetByTemplateAndDate(_ context.Context, templateID uuid.UUID, date time.Time) (*FlightInstance, error) {
	if inst, ok := f.instances[instanceKey(templateID, dateOnly(date))]; ok {
		return inst, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeInstanceRepo) UpdateProgress(_ context.Context, id uuid.UUID, updates map[string]interface{}) error {
	f.updates++
	for _, inst := range f.instances {
		if inst.ID != id {
			continue
		}
		applyUpdates(inst, updates)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func applyUpdates(inst *FlightInstance, updates map[string]interface{}) {
	if v, ok := updates["status"]; ok {
		inst.Status = v.(Status)
	}
	if v, ok := updates["scheduled_departure"]; ok {
		inst.ScheduledDeparture = v.(time.Time)
	}
	if v, ok := updates["scheduled_arrival"]; ok {
		inst.ScheduledArrival = v.(time.Time)
	}
	if v, ok := updates["delay_minutes"]; ok {
		inst.DelayMinutes = v.(int)
	}
	if v, ok := updates["actual_departure"]; ok {
		if v == nil {
			inst.ActualDeparture = nil
		} else {
			t := v.(time.Time)
			inst.ActualDeparture = &t
		}
	}
	if v, ok := updates["actual_arrival"]; ok {
		if v == nil {
			inst.ActualArrival = nil
		} else {
			t := v.(time.Time)
			inst.ActualArrival = &t
		}
	}
}

// --- fixtures ---

func template(id string, flightNumber, depTime, arrTime, operatingDays string) routes.RouteTemplate {
	return routes.RouteTemplate{
		ID:            uuid.MustParse(id),
		FlightNumber:  flightNumber,
		Airline:       "Yellow Airlines",
		AirlineCode:   "YA",
		Origin:        "HKG",
		Destination:   "NRT",
		DepartureTime: depTime,
		ArrivalTime:   arrTime,
		Duration:      "4h 30m",
		Aircraft:      "A350-900",
		OperatingDays: operatingDays,
		EconomySeats:  180,
		EconomyPrice:  2800,
		HasEconomy:    true,
	}
}

const (
	templateA = "11111111-1111-1111-1111-111111111111"
	templateB = "22222222-2222-2222-2222-222222222222"
)

// 2026-06-20 is a Saturday (ISO weekday 6).
var saturday = time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)

func newTestService(templates ...routes.RouteTemplate) (*service, *fakeInstanceRepo) {
	instRepo := newFakeInstanceRepo()
	svc := NewService(instRepo, &fakeRouteRepo{templates: templates}).(*service)
	return svc, instRepo
}

// --- EnsureDailyFlights ---

func TestEnsureDailyFlights_CreatesInstancesOnce(t *testing.T) {
	svc, repo := newTestService(
		template(templateA, "YA101", "09:30", "14:00", "1234567"),
		template(templateB, "YA202", "18:00", "22:30", "1234567"),
	)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))
	assert.Len(t, repo.instances, 2)

	// Second call must not duplicate or perturb anything.
	before := make(map[string]FlightInstance, len(repo.instances))
	for k, v := range repo.instances {
		before[k] = *v
	}
	require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))
	assert.Len(t, repo.instances, 2)
	for k, v := range repo.instances {
		assert.Equal(t, before[k], *v)
	}
}

func TestEnsureDailyFlights_SkipsNonOperatingDays(t *testing.T) {
	// Weekdays only; Saturday is ISO 6.
	svc, repo := newTestService(template(templateA, "YA101", "09:30", "14:00", "12345"))

	require.NoError(t, svc.EnsureDailyFlights(context.Background(), saturday))
	assert.Empty(t, repo.instances)

	monday := saturday.AddDate(0, 0, 2)
	require.NoError(t, svc.EnsureDailyFlights(context.Background(), monday))
	assert.Len(t, repo.instances, 1)
}

func TestEnsureDailyFlights_OvernightArrival(t *testing.T) {
	svc, repo := newTestService(template(templateA, "YA880", "23:45", "06:30+1", "1234567"))
	ctx := context.Background()

	require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))
	require.Len(t, repo.instances, 1)

	inst, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.June, 20, 23, 45, 0, 0, time.UTC), inst.ScheduledDeparture)
	assert.Equal(t, time.Date(2026, time.June, 21, 6, 30, 0, 0, time.UTC), inst.ScheduledArrival)
}

func TestEnsureDailyFlights_ImplicitOvernightRollover(t *testing.T) {
	// No "+1" marker, but arrival clock precedes departure clock.
	svc, repo := newTestService(template(templateA, "YA881", "22:00", "01:15", "1234567"))
	ctx := context.Background()

	require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))
	inst, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, time.June, 21, 1, 15, 0, 0, time.UTC), inst.ScheduledArrival)
}

func TestEnsureDailyFlights_MalformedTemplateSkipped(t *testing.T) {
	svc, repo := newTestService(
		template(templateA, "YA101", "not-a-time", "14:00", "1234567"),
		template(templateB, "YA202", "18:00", "22:30", "1234567"),
	)

	require.NoError(t, svc.EnsureDailyFlights(context.Background(), saturday))
	// The malformed template is skipped; its sibling still materializes.
	assert.Len(t, repo.instances, 1)
}

func TestEnsureDailyFlights_DerivedFieldsStable(t *testing.T) {
	ctx := context.Background()

	build := func() FlightInstance {
		svc, repo := newTestService(template(templateA, "YA101", "09:30", "14:00", "1234567"))
		require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))
		inst, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
		require.NoError(t, err)
		return *inst
	}

	first := build()
	second := build()

	// Weather, gate and registration come from the instance identity, not
	// from process state.
	assert.Equal(t, first.WeatherOrigin, second.WeatherOrigin)
	assert.Equal(t, first.WeatherDestination, second.WeatherDestination)
	assert.Equal(t, first.Gate, second.Gate)
	assert.Equal(t, first.Terminal, second.Terminal)
	assert.Equal(t, first.AircraftRegistration, second.AircraftRegistration)
}

// --- UpdateFlightStatuses ---

func TestUpdateFlightStatuses_MonotonicProgression(t *testing.T) {
	svc, repo := newTestService(template(templateA, "YA101", "09:30", "14:00", "1234567"))
	ctx := context.Background()
	require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))

	var clock time.Time
	svc.WithClock(func() time.Time { return clock })

	lastRank := -1
	// Sweep from well before departure to well past arrival in 15-minute
	// steps; the status rank must never decrease.
	for offset := -4 * time.Hour; offset <= 10*time.Hour; offset += 15 * time.Minute {
		clock = time.Date(2026, time.June, 20, 9, 30, 0, 0, time.UTC).Add(offset)
		require.NoError(t, svc.UpdateFlightStatuses(ctx, saturday))

		inst, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
		require.NoError(t, err)
		rank := statusRankForTest(inst.Status)
		require.GreaterOrEqual(t, rank, lastRank, "status regressed to %s at clock %s", inst.Status, clock)
		lastRank = rank
	}

	inst, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
	require.NoError(t, err)
	assert.True(t, inst.Status.IsTerminal(), "expected a terminal status, got %s", inst.Status)

	if inst.Status == StatusArrived {
		require.NotNil(t, inst.ActualDeparture)
		require.NotNil(t, inst.ActualArrival)
		assert.True(t, inst.ActualArrival.After(*inst.ActualDeparture))
	}
}

func TestUpdateFlightStatuses_IdempotentBeforeThreshold(t *testing.T) {
	svc, repo := newTestService(template(templateA, "YA101", "09:30", "14:00", "1234567"))
	ctx := context.Background()
	require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))

	clock := time.Date(2026, time.June, 20, 6, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return clock })

	require.NoError(t, svc.UpdateFlightStatuses(ctx, saturday))
	after, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
	require.NoError(t, err)
	snapshot := *after

	// No threshold is crossed between repeated invocations: no flapping, no
	// double-applied delay.
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.UpdateFlightStatuses(ctx, saturday))
		again, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
		require.NoError(t, err)
		assert.Equal(t, snapshot, *again)
	}
}

func TestUpdateFlightStatuses_DelayAppliedAtMostOnce(t *testing.T) {
	// Sweep many template identities; wherever the seeded delay fires, the
	// schedule must shift exactly once.
	ctx := context.Background()

	for i := 0; i < 40; i++ {
		id := uuid.MustParse(fmt.Sprintf("%08d-0000-0000-0000-000000000000", i))
		tmpl := template(templateA, fmt.Sprintf("YA%03d", i), "09:30", "14:00", "1234567")
		tmpl.ID = id

		svc, repo := newTestService(tmpl)
		require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))

		clock := time.Date(2026, time.June, 20, 6, 0, 0, 0, time.UTC)
		svc.WithClock(func() time.Time { return clock })

		require.NoError(t, svc.UpdateFlightStatuses(ctx, saturday))
		first, err := repo.GetByTemplateAndDate(ctx, id, saturday)
		require.NoError(t, err)

		require.NoError(t, svc.UpdateFlightStatuses(ctx, saturday))
		second, err := repo.GetByTemplateAndDate(ctx, id, saturday)
		require.NoError(t, err)

		assert.Equal(t, first.DelayMinutes, second.DelayMinutes)
		assert.Equal(t, first.ScheduledDeparture, second.ScheduledDeparture)
		if first.DelayMinutes > 0 {
			assert.GreaterOrEqual(t, first.DelayMinutes, 30)
			assert.Less(t, first.DelayMinutes, 120)
		}
	}
}

func TestUpdateFlightStatuses_TerminalInstancesUntouched(t *testing.T) {
	svc, repo := newTestService(template(templateA, "YA101", "09:30", "14:00", "1234567"))
	ctx := context.Background()
	require.NoError(t, svc.EnsureDailyFlights(ctx, saturday))

	clock := time.Date(2026, time.June, 20, 23, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return clock })
	require.NoError(t, svc.UpdateFlightStatuses(ctx, saturday))

	inst, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
	require.NoError(t, err)
	require.True(t, inst.Status.IsTerminal())
	snapshot := *inst

	// Even if the clock were to run backwards, a terminal instance never
	// re-enters the machine.
	clock = time.Date(2026, time.June, 20, 8, 0, 0, 0, time.UTC)
	require.NoError(t, svc.UpdateFlightStatuses(ctx, saturday))

	again, err := repo.GetByTemplateAndDate(ctx, uuid.MustParse(templateA), saturday)
	require.NoError(t, err)
	assert.Equal(t, snapshot, *again)
}

// --- evaluateInstance ---

func TestEvaluateInstance_Deterministic(t *testing.T) {
	inst := &FlightInstance{
		ID:                 uuid.MustParse(templateA),
		TemplateID:         uuid.MustParse(templateA),
		Date:               saturday,
		Status:             StatusScheduled,
		ScheduledDeparture: time.Date(2026, time.June, 20, 9, 30, 0, 0, time.UTC),
		ScheduledArrival:   time.Date(2026, time.June, 20, 14, 0, 0, 0, time.UTC),
		WeatherOrigin:      WeatherSunny,
		WeatherDestination: WeatherSunny,
	}
	now := time.Date(2026, time.June, 20, 10, 0, 0, 0, time.UTC)

	first := evaluateInstance(inst, now)
	second := evaluateInstance(inst, now)
	assert.Equal(t, first, second)
}

func TestEvaluateInstance_StormyEitherCancelsOrProgresses(t *testing.T) {
	// Whatever the seeded roll decides, a stormy instance must end up either
	// CANCELLED with actuals cleared, or in the normal machine.
	now := time.Date(2026, time.June, 20, 10, 0, 0, 0, time.UTC)
	sawCancellation := false

	for i := 0; i < 60; i++ {
		inst := &FlightInstance{
			ID:                 uuid.New(),
			TemplateID:         uuid.MustParse(fmt.Sprintf("%08d-0000-0000-0000-0000000000ff", i)),
			Date:               saturday,
			Status:             StatusScheduled,
			ScheduledDeparture: time.Date(2026, time.June, 20, 9, 30, 0, 0, time.UTC),
			ScheduledArrival:   time.Date(2026, time.June, 20, 14, 0, 0, 0, time.UTC),
			WeatherOrigin:      WeatherStormy,
			WeatherDestination: WeatherSunny,
		}

		updates := evaluateInstance(inst, now)
		if updates["status"] == StatusCancelled {
			sawCancellation = true
			assert.Nil(t, updates["actual_departure"])
			assert.Nil(t, updates["actual_arrival"])
			continue
		}
		if st, ok := updates["status"]; ok {
			assert.True(t, st.(Status).IsValid())
			assert.NotEqual(t, StatusCancelled, st)
		}
	}

	// With p=0.2 over 60 identities the cancel branch is effectively certain
	// to appear at least once.
	assert.True(t, sawCancellation, "expected at least one seeded cancellation")
}

func statusRankForTest(s Status) int {
	switch s {
	case StatusScheduled, StatusDelayed:
		return 0
	case StatusBoarding:
		return 1
	case StatusDeparted:
		return 2
	case StatusArrived, StatusCancelled:
		return 3
	}
	return -1
}
