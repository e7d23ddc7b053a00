package probe

import (
	"context"
	"time"
)

// Result is whatever a probe reports. The runner never inspects it.
type Result any

// Probe is a single vulnerability check bound to a ScanContext.
type Probe interface {
	// Scan runs the check. The per-connection timeout comes from the
	// ScanContext the probe was built with.
	Scan(ctx context.Context) (Result, error)
}

// Factory builds a probe bound to a scan context.
type Factory func(sc ScanContext) Probe

// Descriptor is a registry entry.
type Descriptor struct {
	ID   int
	Name string
	New  Factory
}

// NullID is reserved for "no probe selected".
const NullID = 0

// NullDescriptor is returned for NullID and is never dispatched.
var NullDescriptor = Descriptor{ID: NullID, Name: "No test"}

// IsNull reports whether d is the "no probe" sentinel.
func (d Descriptor) IsNull() bool {
	return d.ID == NullID
}

// Outcome is one entry of a run's result map.
type Outcome struct {
	Result   Result        `json:"result,omitempty"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the probe did not produce a result.
func (o Outcome) Failed() bool {
	return o.Err != nil
}
