// Package domain holds the core model types, status enumerations, and
// repository interfaces. It has no dependencies on adapters; Postgres and
// Redis implementations live in internal/database and internal/redis.
package domain
