// Package probe is the test-orchestration engine.
//
// Architecture overview:
//
//   - Probes implement the Probe interface (a single Scan) and are described
//     by a Descriptor: an id, a display name, and a Factory that binds a probe
//     to a ScanContext.
//   - Registry is the explicit, immutable table of descriptors built at
//     start-up. Id 0 is reserved for "no probe".
//   - Runner executes a selection of descriptors on a bounded worker pool and
//     returns a map of Outcome keyed by display name. Failures are recorded
//     per probe and never abort the run.
//   - Backoff and Retry implement the linear reconnect policy probes use for
//     transient connection errors.
package probe
