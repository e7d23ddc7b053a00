package errors

import "errors"

// Domain errors
var (
	// Probe errors
	ErrInvalidProbe              = errors.New("invalid probe registration")
	ErrProbeNotFound             = errors.New("probe not found")
	ErrProbeExecutionFailed      = errors.New("probe execution failed")
	ErrConnectionTimeoutExceeded = errors.New("connection timeout exceeded")
	ErrHandshakeRejected         = errors.New("handshake rejected by server")

	// Rating errors
	ErrInvalidRule                = errors.New("invalid rating rule")
	ErrCipherSuiteMappingNotFound = errors.New("cipher suite mapping not found")
	ErrUnknownAlgorithmIdentifier = errors.New("unknown algorithm identifier")

	// Target errors
	ErrInvalidTarget = errors.New("invalid target")
	ErrNoCertificate = errors.New("server presented no certificate")
)
