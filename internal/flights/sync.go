package flights

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DaySynchronizer gates the expensive materialize-and-advance pass behind a
// minimum interval per calendar day, and collapses concurrent pollers within
// the window onto one in-flight computation. The status board polls every
// 60 seconds, so the interval is aligned with that.
type DaySynchronizer struct {
	service     Service
	minInterval time.Duration
	now         func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	lastKey  string
	lastSync time.Time
}

func NewDaySynchronizer(service Service, minInterval time.Duration) *DaySynchronizer {
	if minInterval <= 0 {
		minInterval = 60 * time.Second
	}
	return &DaySynchronizer{
		service:     service,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// SyncDay runs the simulation appropriate for the requested date:
// today gets a throttled ensure+advance pass, future dates are materialized
// eagerly, and past dates are left read-only.
func (ds *DaySynchronizer) SyncDay(ctx context.Context, date time.Time) error {
	// Compare calendar days, not instants. Request dates parse as UTC
	// midnight while the server clock may sit in another zone, so instant
	// comparison misfiles today's date on any non-UTC host.
	day := dateOnly(date)
	dayKey := day.Format(dateLayout)
	todayKey := ds.now().Format(dateLayout)

	switch {
	case dayKey == todayKey:
		return ds.syncToday(ctx, day)
	case dayKey > todayKey:
		return ds.service.EnsureDailyFlights(ctx, day)
	default:
		return nil
	}
}

func (ds *DaySynchronizer) syncToday(ctx context.Context, day time.Time) error {
	key := day.Format(dateLayout)

	ds.mu.Lock()
	if key != ds.lastKey {
		// Crossed midnight: the throttle window resets.
		ds.lastKey = key
		ds.lastSync = time.Time{}
	}
	if !ds.lastSync.IsZero() && ds.now().Sub(ds.lastSync) < ds.minInterval {
		ds.mu.Unlock()
		return nil
	}
	ds.mu.Unlock()

	// Concurrent callers inside the window share one computation.
	_, err, _ := ds.group.Do(key, func() (interface{}, error) {
		defer func() {
			ds.mu.Lock()
			ds.lastSync = ds.now()
			ds.mu.Unlock()
		}()

		if err := ds.service.EnsureDailyFlights(ctx, day); err != nil {
			return nil, err
		}
		return nil, ds.service.UpdateFlightStatuses(ctx, day)
	})
	return err
}
