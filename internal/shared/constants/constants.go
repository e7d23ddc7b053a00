package constants

import "time"

const (
	// DefaultPort is used when the target does not name one.
	DefaultPort = 443
	// DefaultTimeout bounds a single probe connection attempt.
	DefaultTimeout = 5 * time.Second
)

const (
	// DefaultMaxWorkers caps how many probes run at the same time.
	DefaultMaxWorkers = 8
	// BackoffIncrement is added to the sleep duration after every transient failure.
	BackoffIncrement = time.Second
	// DefaultBackoffMax is the sleep duration at which a probe gives up reconnecting.
	DefaultBackoffMax = 5 * time.Second
)

// NotApplicable marks a parameter value that could not be determined.
const NotApplicable = "N/A"
