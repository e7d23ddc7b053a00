// Package constants centralizes defaults shared across the CLI and the engine.
//
// Ports, probe timeouts, worker caps, and the reconnect backoff live here so
// cmd/ and internal/ agree on them without import cycles.
package constants
