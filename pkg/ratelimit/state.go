// Package ratelimit gates backend requests on the X-RateLimit-Remaining and
// X-RateLimit-Reset headers returned by the exercise library API.
package ratelimit

import (
	"errors"
	"time"
)

// Response headers read after every backend call.
const (
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

// ErrBlocked is returned when the remaining budget is below the critical threshold.
var ErrBlocked = errors.New("rate limit budget exhausted")

// Thresholds for gate decisions.
const (
	// ThresholdCritical blocks requests when fewer requests remain.
	ThresholdCritical = 5

	// ThresholdWarning throttles requests when fewer requests remain.
	ThresholdWarning = 20

	// ThresholdHealthy marks the budget healthy at or above this value.
	ThresholdHealthy = 50
)

// State is the last budget snapshot reported by the backend.
type State struct {
	// Remaining is the request budget left in the current window.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets, derived from X-RateLimit-Reset seconds.
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when the snapshot was recorded.
	LastUpdate time.Time `json:"last_update"`

	IsHealthy bool `json:"is_healthy"`
}

// Expired reports whether the window the snapshot describes has ended.
// An expired snapshot no longer restricts requests.
func (s *State) Expired() bool {
	return !s.ResetAt.After(time.Now())
}

// NeedsCriticalBlock returns true if requests should be refused.
func (s *State) NeedsCriticalBlock() bool {
	return !s.Expired() && s.Remaining < ThresholdCritical
}

// NeedsThrottling returns true if requests should be delayed.
func (s *State) NeedsThrottling() bool {
	return !s.Expired() && s.Remaining < ThresholdWarning && s.Remaining >= ThresholdCritical
}

// TimeUntilReset returns the duration until the window resets, or 0 if it already has.
func (s *State) TimeUntilReset() time.Duration {
	d := time.Until(s.ResetAt)
	if d < 0 {
		return 0
	}
	return d
}

// UpdateHealth recomputes IsHealthy from Remaining.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.Remaining >= ThresholdHealthy
}
