// Package poll implements the poll lifecycle, the vote recording protocol,
// and the public results projection on top of a pluggable Store.
//
// The Store interface is consumer-defined; the Redis adapter lives in
// internal/redis and an in-memory implementation in this package backs unit
// tests and local development.
package poll
