// Package domain concentrates the core entities of the service.
package domain

import "time"

// Policy is the admission policy applied to every client. It is immutable
// after construction; non-positive values are rejected at load time.
type Policy struct {
	Enabled     bool
	Window      time.Duration
	MaxRequests int
}

// Decision is the outcome of one admission check. A rejected request is a
// normal outcome, not an error. Unlimited marks decisions made while the
// limiter is disabled; no quota metadata applies to them.
type Decision struct {
	Allowed           bool
	Unlimited         bool
	Limit             int
	Remaining         int
	ResetAt           time.Time
	RetryAfterSeconds int
}

// Stats is an aggregate snapshot of limiter state. Counts exclude entries
// that have already aged out of the window.
type Stats struct {
	Enabled             bool
	ActiveClients       int
	TotalRecentRequests int
	Window              time.Duration
	MaxRequests         int
}

// WindowState reports one client's stored log after a storage operation.
// Count is the log length after the operation: post-append when admitted,
// post-prune when not.
type WindowState struct {
	Admitted bool
	Count    int
}

// Usage aggregates non-stale request counts across all clients.
type Usage struct {
	ActiveClients       int
	TotalRecentRequests int
}
