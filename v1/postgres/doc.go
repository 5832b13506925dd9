// Package postgres is the structured store of the float catalogue.
//
// It wraps gorm with a monitored connection pool (health check every 10s,
// reconnection on failure) and exposes the operations the rest of the
// service needs: schema migration, float and profile upserts, float id
// enumeration for reconciliation, and counts for the dual-store stats.
// Gorm errors are normalised with TranslateError.
//
// Free-form SQL from the natural-language path does not go through this
// package; see package nlsql.
package postgres
