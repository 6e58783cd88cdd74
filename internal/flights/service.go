package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yellowair/internal/routes"
	"yellowair/pkg/logger"
	"yellowair/pkg/seedrand"
)

// Lifecycle tuning. The probabilities are synthetic; every draw is seeded
// from the instance's own identity so repeated evaluation is idempotent.
const (
	boardingWindow = 45 * time.Minute

	cancelProbability       = 0.20 // applies only under storms
	delayProbabilityBad     = 0.40 // origin weather RAINY/SNOWY/FOGGY
	delayProbabilityNominal = 0.10

	dateLayout = "2006-01-02"
)

type Service interface {
	// EnsureDailyFlights materializes one FlightInstance per template
	// operating on the date's weekday. Idempotent: existing instances are
	// left untouched.
	EnsureDailyFlights(ctx context.Context, date time.Time) error

	// UpdateFlightStatuses advances every non-terminal instance on the date
	// against the wall clock. Best-effort: a failure on one instance is
	// logged and the rest of the batch continues.
	UpdateFlightStatuses(ctx context.Context, date time.Time) error

	ListInstances(ctx context.Context, date time.Time, query InstanceListQuery) ([]InstanceResponse, int64, error)
}

type service struct {
	repo      Repository
	routeRepo routes.Repository
	log       *logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, routeRepo routes.Repository) Service {
	return &service{
		repo:      repo,
		routeRepo: routeRepo,
		log:       logger.GetDefault(),
		now:       time.Now,
	}
}

// WithClock swaps the wall-clock source. Tests use this to step time.
func (s *service) WithClock(now func() time.Time) *service {
	s.now = now
	return s
}

func (s *service) EnsureDailyFlights(ctx context.Context, date time.Time) error {
	day := dateOnly(date)

	templates, err := s.routeRepo.ListByWeekday(ctx, day.Weekday())
	if err != nil {
		return fmt.Errorf("failed to list templates for %s: %w", day.Format(dateLayout), err)
	}

	existing, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to list instances for %s: %w", day.Format(dateLayout), err)
	}
	existingIDs := make(map[string]bool, len(existing))
	for _, inst := range existing {
		existingIDs[inst.TemplateID.String()] = true
	}

	var missing []FlightInstance
	for i := range templates {
		tmpl := &templates[i]
		if existingIDs[tmpl.ID.String()] {
			continue
		}

		instance, err := s.buildInstance(tmpl, day)
		if err != nil {
			// Malformed template times must not abort the rest of the day.
			s.log.LogInstanceSkipped(ctx, tmpl.FlightNumber, day.Format(dateLayout), err)
			continue
		}
		missing = append(missing, *instance)
	}

	if len(missing) == 0 {
		return nil
	}

	if err := s.repo.CreateMissing(ctx, missing); err != nil {
		return fmt.Errorf("failed to create instances for %s: %w", day.Format(dateLayout), err)
	}

	s.log.LogInstancesCreated(ctx, day.Format(dateLayout), len(missing))
	return nil
}

// buildInstance composes one instance from a template and a date. Weather,
// gate and registration are derived once from the instance's identity, so
// they stay stable for the life of the instance no matter how often the
// creation path races.
func (s *service) buildInstance(tmpl *routes.RouteTemplate, day time.Time) (*FlightInstance, error) {
	departure, err := tmpl.ScheduledDeparture(day)
	if err != nil {
		return nil, err
	}
	arrival, err := tmpl.ScheduledArrival(day)
	if err != nil {
		return nil, err
	}

	identity := tmpl.ID.String() + "-" + day.Format(dateLayout)

	weatherRng := seedrand.NewFromString(identity + "-weather")
	gateRng := seedrand.NewFromString(identity + "-gate")
	regRng := seedrand.NewFromString(identity + "-reg")

	return &FlightInstance{
		TemplateID:           tmpl.ID,
		Date:                 day,
		Status:               StatusScheduled,
		ScheduledDeparture:   departure,
		ScheduledArrival:     arrival,
		AircraftType:         tmpl.Aircraft,
		AircraftRegistration: registrationFor(tmpl.Airline, regRng),
		Gate:                 fmt.Sprintf("%c%d", 'A'+gateRng.IntN(5), gateRng.IntN(20)+1),
		Terminal:             fmt.Sprintf("T%d", gateRng.IntN(2)+1),
		WeatherOrigin:        weatherFor(weatherRng.Next()),
		WeatherDestination:   weatherFor(weatherRng.Next()),
	}, nil
}

func (s *service) UpdateFlightStatuses(ctx context.Context, date time.Time) error {
	day := dateOnly(date)

	instances, err := s.repo.ListByDate(ctx, day)
	if err != nil {
		return fmt.Errorf("failed to list instances for %s: %w", day.Format(dateLayout), err)
	}

	now := s.now()
	for i := range instances {
		inst := &instances[i]
		if inst.Status.IsTerminal() {
			continue
		}

		updates := evaluateInstance(inst, now)
		if len(updates) == 0 {
			continue
		}

		if err := s.repo.UpdateProgress(ctx, inst.ID, updates); err != nil {
			s.log.LogInstanceSkipped(ctx, inst.ID.String(), day.Format(dateLayout), err)
			continue
		}
	}

	return nil
}

// evaluateInstance computes the field updates advancing one instance to where
// the wall clock says it should be. All randomness is drawn in a fixed order
// from a stream seeded by the instance identity, so calling this any number
// of times before a threshold is crossed changes nothing.
func evaluateInstance(inst *FlightInstance, now time.Time) map[string]interface{} {
	identity := inst.TemplateID.String() + "-" + inst.Date.Format(dateLayout)
	rng := seedrand.NewFromString(identity + "-status")

	cancelRoll := rng.Next()
	delayRoll := rng.Next()
	delayMinutes := 30 + rng.IntN(90)       // 30..119 min
	departureOffset := rng.IntN(31) - 10    // -10..+20 min pushback
	arrivalOffset := rng.IntN(31) - 20      // -20..+10 min block time

	updates := make(map[string]interface{})

	status := inst.Status
	scheduledDep := inst.ScheduledDeparture
	scheduledArr := inst.ScheduledArrival

	stormy := inst.WeatherOrigin == WeatherStormy || inst.WeatherDestination == WeatherStormy

	// Synthetic cancellation, only before the aircraft moves.
	if status.rank() == 0 && stormy && cancelRoll < cancelProbability {
		updates["status"] = StatusCancelled
		updates["actual_departure"] = nil
		updates["actual_arrival"] = nil
		return updates
	}

	// Synthetic delay, applied at most once per instance.
	if inst.DelayMinutes == 0 && status.rank() == 0 && now.Before(scheduledDep) {
		chance := delayProbabilityNominal
		switch inst.WeatherOrigin {
		case WeatherRainy, WeatherSnowy, WeatherFoggy:
			chance = delayProbabilityBad
		}
		if delayRoll < chance {
			shift := time.Duration(delayMinutes) * time.Minute
			scheduledDep = scheduledDep.Add(shift)
			scheduledArr = scheduledArr.Add(shift)
			status = StatusDelayed
			updates["status"] = StatusDelayed
			updates["scheduled_departure"] = scheduledDep
			updates["scheduled_arrival"] = scheduledArr
			updates["delay_minutes"] = delayMinutes
		}
	}

	actualDep := scheduledDep.Add(time.Duration(departureOffset) * time.Minute)
	actualArr := actualDep.
		Add(scheduledArr.Sub(scheduledDep)).
		Add(time.Duration(arrivalOffset) * time.Minute)

	// Normal progression against the effective schedule.
	var target Status
	switch {
	case !now.Before(scheduledArr):
		target = StatusArrived
	case !now.Before(scheduledDep):
		target = StatusDeparted
	case !now.Before(scheduledDep.Add(-boardingWindow)):
		target = StatusBoarding
	default:
		target = StatusScheduled
	}

	if target.outranks(status) {
		updates["status"] = target
		if target == StatusDeparted || target == StatusArrived {
			updates["actual_departure"] = actualDep
		}
		if target == StatusArrived {
			updates["actual_arrival"] = actualArr
		}
	}

	return updates
}

func (s *service) ListInstances(ctx context.Context, date time.Time, query InstanceListQuery) ([]InstanceResponse, int64, error) {
	instances, total, err := s.repo.ListByDateWithTemplate(ctx, dateOnly(date), query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flight instances: %w", err)
	}

	responses := make([]InstanceResponse, 0, len(instances))
	for i := range instances {
		responses = append(responses, instances[i].ToResponse())
	}
	return responses, total, nil
}

// weatherFor maps a uniform draw onto a weather code, heavily weighted
// towards benign conditions.
func weatherFor(roll float64) string {
	switch {
	case roll > 0.95:
		return WeatherStormy
	case roll > 0.9:
		return WeatherSnowy
	case roll > 0.8:
		return WeatherFoggy
	case roll > 0.6:
		return WeatherRainy
	case roll > 0.3:
		return WeatherCloudy
	default:
		return WeatherSunny
	}
}

// Registration prefixes by operating carrier. Ordered so the lookup is
// deterministic.
var registrationPrefixes = []struct {
	airline string
	prefix  string
}{
	{"Yellow Airlines", "B"},
	{"Cathay Pacific", "B"},
	{"China Southern", "B"},
	{"Emirates", "A6"},
	{"Lufthansa", "D"},
	{"British Airways", "G"},
	{"Singapore Airlines", "9V"},
	{"ANA", "JA"},
	{"Japan Airlines", "JA"},
	{"United Airlines", "N"},
	{"American Airlines", "N"},
	{"Delta Air Lines", "N"},
	{"Air France", "F"},
	{"Qantas", "VH"},
}

func registrationFor(airline string, rng *seedrand.Source) string {
	prefix := "B"
	for _, entry := range registrationPrefixes {
		if strings.Contains(airline, entry.airline) {
			prefix = entry.prefix
			break
		}
	}
	return fmt.Sprintf("%s-%d", prefix, rng.IntN(9000)+1000)
}
