// Package redis implements Redis-backed stores.
//
// Provides the session store, idempotency keys for unauthenticated order
// creation, per-account rate limiting, distributed job locks, and the
// availability slot cache.
package redis
