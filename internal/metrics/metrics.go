package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking metrics
var (
	// BookingsCreatedTotal tracks bookings created by source
	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Total bookings created by source",
		},
		[]string{"source"},
	)

	// BookingTransitionsTotal tracks booking status transitions
	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Booking status transitions by target status",
		},
		[]string{"to"},
	)

	// SlotComputationDuration tracks availability slot computation latency
	SlotComputationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slot_computation_duration_seconds",
			Help:    "Availability slot computation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5},
		},
	)

	// SlotCacheHitsTotal tracks availability slot cache hits/misses
	SlotCacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_cache_hits_total",
			Help: "Availability slot cache lookups by result (hit/miss)",
		},
		[]string{"result"},
	)
)

// Order metrics
var (
	// OrdersCreatedTotal tracks orders created
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total orders created",
		},
	)

	// OrderTransitionsTotal tracks order status transitions
	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Order status transitions by target status",
		},
		[]string{"to"},
	)

	// StockAdjustmentsTotal tracks stock adjustments by kind (hold/release/deduct)
	StockAdjustmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_adjustments_total",
			Help: "Goods stock adjustments by kind",
		},
		[]string{"kind"},
	)
)

// Auth metrics
var (
	// MagicLinksIssuedTotal tracks magic-link tokens issued
	MagicLinksIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "magic_links_issued_total",
			Help: "Total magic-link tokens issued",
		},
	)

	// MagicLinkVerifiesTotal tracks verification attempts by result
	MagicLinkVerifiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magic_link_verifies_total",
			Help: "Magic-link verification attempts by result (ok/consumed/invalid)",
		},
		[]string{"result"},
	)

	// SessionsActive tracks live server-side sessions
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Approximate number of live server-side sessions",
		},
	)
)

// Job metrics
var (
	// JobRunsTotal tracks background job runs by job and status
	JobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Background job runs by job and status (ok/error/skipped)",
		},
		[]string{"job", "status"},
	)

	// JobDurationSeconds tracks background job run duration
	JobDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_duration_seconds",
			Help:    "Background job run duration in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 60},
		},
		[]string{"job"},
	)
)

// Redis metrics
var (
	// RedisOpsTotal tracks Redis operations by operation and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks failed Redis dials
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// IdempotentReplaysTotal tracks requests answered from an idempotency key
	IdempotentReplaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idempotent_replays_total",
			Help: "Requests answered from a stored idempotency key by resource",
		},
		[]string{"resource"},
	)

	// CircuitBreakerStateChanges counts breaker transitions by component and new state
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState reports the current breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
