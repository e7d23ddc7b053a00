package probe

import (
	"slices"
	"time"
)

// ScanContext is the read-only state every probe of one run shares. It is
// passed by value; the protocol list is copied on construction and on read.
type ScanContext struct {
	address            Address
	timeout            time.Duration
	protocol           string
	supportedProtocols []string
}

// NewScanContext builds a ScanContext for one run.
func NewScanContext(address Address, timeout time.Duration, protocol string, supported []string) ScanContext {
	return ScanContext{
		address:            address,
		timeout:            timeout,
		protocol:           protocol,
		supportedProtocols: slices.Clone(supported),
	}
}

func (s ScanContext) Address() Address {
	return s.address
}

func (s ScanContext) Timeout() time.Duration {
	return s.timeout
}

func (s ScanContext) Protocol() string {
	return s.protocol
}

func (s ScanContext) SupportedProtocols() []string {
	return slices.Clone(s.supportedProtocols)
}

// Supports reports whether the server accepted protocol during discovery.
func (s ScanContext) Supports(protocol string) bool {
	return slices.Contains(s.supportedProtocols, protocol)
}
