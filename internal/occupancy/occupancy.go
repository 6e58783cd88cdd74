// Package occupancy derives seat-occupancy for any flight/date/cabin
// combination as a pure function. There is no stored seat map: every query
// recomputes the same answer from a deterministic seeded stream, so any
// number of processes can serve availability without coordinating.
package occupancy

import (
	"fmt"
	"math"
	"time"

	"yellowair/internal/routes"
	"yellowair/pkg/seedrand"
)

const (
	// Hard bounds on the derived occupancy rate.
	minRate = 0.30
	maxRate = 0.95

	dateLayout = "2006-01-02"
)

// Rate returns the occupancy rate for a flight on a date, in [0.30, 0.95].
// The base rate and each calendar boost are drawn in sequence from a single
// stream seeded by (date, flightKey), so the result is identical on every
// call, on any machine.
func Rate(date time.Time, flightKey string) float64 {
	if flightKey == "" {
		flightKey = "default"
	}

	seed := seedrand.Hash(fmt.Sprintf("%s-%s-occupancy", date.Format(dateLayout), flightKey))
	rng := seedrand.New(seed)

	// Base demand: 50-70%.
	rate := 0.5 + rng.Next()*0.2

	if IsWeekend(date) {
		rate += 0.1 + rng.Next()*0.1
	}
	if IsHoliday(date) {
		rate += 0.15 + rng.Next()*0.1
	}
	if IsPeakSeason(date) {
		rate += 0.1 + rng.Next()*0.05
	}

	return math.Min(math.Max(rate, minRate), maxRate)
}

// OccupiedSeats returns the set of occupied seat indices (0-based) for a
// flight/date/cabin. The draw-and-remove discipline is a partial
// Fisher-Yates sample: no duplicate indices, uniform over the remaining pool
// at each step.
func OccupiedSeats(flightID string, date time.Time, cabin routes.CabinClass, totalSeats int) map[int]struct{} {
	occupied := make(map[int]struct{})
	if totalSeats <= 0 {
		return occupied
	}

	seed := seedrand.Hash(fmt.Sprintf("%s-%s-%s", flightID, date.Format(dateLayout), cabin))
	rng := seedrand.New(seed)

	occupiedCount := int(math.Floor(float64(totalSeats) * Rate(date, flightID)))

	pool := make([]int, totalSeats)
	for i := range pool {
		pool[i] = i
	}

	for i := 0; i < occupiedCount && len(pool) > 0; i++ {
		j := rng.IntN(len(pool))
		occupied[pool[j]] = struct{}{}
		pool = append(pool[:j], pool[j+1:]...)
	}

	return occupied
}

// IsSeatOccupied reports whether a specific seat index is occupied.
// Recomputes the full set; cabins are small enough that this is fine.
func IsSeatOccupied(seatIndex int, flightID string, date time.Time, cabin routes.CabinClass, totalSeats int) bool {
	_, ok := OccupiedSeats(flightID, date, cabin, totalSeats)[seatIndex]
	return ok
}

// AvailableSeatsCount returns the number of unoccupied seats.
func AvailableSeatsCount(flightID string, date time.Time, cabin routes.CabinClass, totalSeats int) int {
	return totalSeats - len(OccupiedSeats(flightID, date, cabin, totalSeats))
}

// Percentage returns the occupancy as a display percentage.
func Percentage(flightID string, date time.Time, cabin routes.CabinClass, totalSeats int) float64 {
	if totalSeats <= 0 {
		return 0
	}
	return float64(len(OccupiedSeats(flightID, date, cabin, totalSeats))) / float64(totalSeats) * 100
}
