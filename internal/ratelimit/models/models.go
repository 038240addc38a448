package models

import "time"

// RateLimitResult is the outcome of one admission check against a window.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is in whole seconds and only set when the request is denied.
	RetryAfter int
}

// RateLimitExceededResponse is the body returned with a 429.
type RateLimitExceededResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	RetryAfter  int    `json:"retry_after"`
}

// CallerKey namespaces a participant's window.
func CallerKey(caller string) string {
	return "ratelimit:caller:" + caller
}
