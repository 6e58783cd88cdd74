package constants

import "time"

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the application
// Pattern: yellowair:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

const (
	// Route templates change only through admin edits.
	TTL_ROUTES_LIST  = 1 * time.Hour
	TTL_ROUTE_DETAIL = 2 * time.Hour

	// The status board is re-simulated on demand; the cache only bounds
	// staleness between syncs.
	TTL_STATUS_BOARD = 30 * time.Second

	// Seat maps are deterministic per (flight, date, cabin) so a longer TTL
	// costs nothing in correctness.
	TTL_SEAT_MAP = 10 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "yellowair"
)

// ================== ROUTES MODULE ==================

const (
	CACHE_KEY_ROUTES_LIST  = CACHE_PREFIX + ":routes:list"    // + :date:X
	CACHE_KEY_ROUTE_DETAIL = CACHE_PREFIX + ":routes:detail:" // + flight-number
)

// ================== FLIGHTS MODULE ==================

const (
	CACHE_KEY_STATUS_BOARD = CACHE_PREFIX + ":flights:status" // + :date:X:status:Y:search:Z:limit:N:offset:M
)

// ================== OCCUPANCY MODULE ==================

const (
	CACHE_KEY_SEAT_MAP = CACHE_PREFIX + ":occupancy:seatmap" // + :flight:X:date:Y:cabin:Z
)

// ================== LOYALTY MODULE ==================

const (
	// Run lease guarding against overlapping settlement passes.
	LOCK_KEY_SETTLEMENT = CACHE_PREFIX + ":loyalty:settlement:lock"
)
