// Package vulns holds the concrete vulnerability probes. Each probe asks
// the server to accept a handshake restricted to the weakness it looks for;
// acceptance means the server is exposed.
package vulns

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/khanhnv2901/ssltest/internal/handshake"
	"github.com/khanhnv2901/ssltest/internal/probe"
)

// Probe ids. Stable across releases so they can be used on the command line.
const (
	IDPoodle = iota + 1
	IDBeast
	IDSweet32
	IDRC4
	IDDeprecatedProtocols
	IDForwardSecrecy
)

// Finding is the result every probe in this package reports.
type Finding struct {
	Vulnerable bool   `json:"vulnerable"`
	Evidence   string `json:"evidence"`
}

// Acceptor is the part of handshake.Dialer the probes need.
type Acceptor interface {
	Accepts(ctx context.Context, addr probe.Address, offer handshake.Offer) (bool, error)
	AcceptsSSLv3(ctx context.Context, addr probe.Address, suites []uint16, timeout time.Duration) (bool, error)
}

// Descriptors returns the built-in probes, connecting through d.
func Descriptors(d Acceptor) []probe.Descriptor {
	return []probe.Descriptor{
		{ID: IDPoodle, Name: "POODLE", New: func(sc probe.ScanContext) probe.Probe {
			return &poodle{sc: sc, dialer: d}
		}},
		{ID: IDBeast, Name: "BEAST", New: func(sc probe.ScanContext) probe.Probe {
			return &beast{sc: sc, dialer: d}
		}},
		{ID: IDSweet32, Name: "SWEET32", New: func(sc probe.ScanContext) probe.Probe {
			return &weakCipher{sc: sc, dialer: d, label: "3DES", match: "_3DES_"}
		}},
		{ID: IDRC4, Name: "RC4", New: func(sc probe.ScanContext) probe.Probe {
			return &weakCipher{sc: sc, dialer: d, label: "RC4", match: "_RC4_"}
		}},
		{ID: IDDeprecatedProtocols, Name: "Deprecated protocols", New: func(sc probe.ScanContext) probe.Probe {
			return &deprecatedProtocols{sc: sc}
		}},
		{ID: IDForwardSecrecy, Name: "Forward secrecy", New: func(sc probe.ScanContext) probe.Probe {
			return &forwardSecrecy{sc: sc, dialer: d}
		}},
	}
}

// NewRegistry builds the registry of built-in probes.
func NewRegistry(d Acceptor) (*probe.Registry, error) {
	return probe.NewRegistry(Descriptors(d)...)
}

// suitesWhere returns every suite crypto/tls can offer whose IANA name
// satisfies keep.
func suitesWhere(keep func(name string) bool) []uint16 {
	var ids []uint16
	all := append(tls.CipherSuites(), tls.InsecureCipherSuites()...)
	for _, s := range all {
		if keep(s.Name) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func suiteNames(ids []uint16) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, tls.CipherSuiteName(id))
	}
	return strings.Join(names, ", ")
}
