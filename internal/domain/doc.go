// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (poll.go, view.go, errors.go)
// with shared types and cross-cutting contracts. No implementation code -
// interfaces stay on the consumer side to prevent circular imports.
package domain
