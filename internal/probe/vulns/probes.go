package vulns

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/khanhnv2901/ssltest/internal/handshake"
	"github.com/khanhnv2901/ssltest/internal/probe"
)

// sslv3CBCSuites are the CBC-mode entries of the SSLv3 offer.
var sslv3CBCSuites = []uint16{0x0035, 0x002f, 0x0039, 0x0033, 0xc014, 0xc013, 0x000a, 0x0016, 0x0009}

// poodle checks for SSLv3 with CBC padding (CVE-2014-3566).
type poodle struct {
	sc     probe.ScanContext
	dialer Acceptor
}

func (p *poodle) Scan(ctx context.Context) (probe.Result, error) {
	ok, err := p.dialer.AcceptsSSLv3(ctx, p.sc.Address(), sslv3CBCSuites, p.sc.Timeout())
	if err != nil {
		return nil, err
	}
	if !ok {
		return Finding{Evidence: "server refused SSLv3 with CBC cipher suites"}, nil
	}
	return Finding{Vulnerable: true, Evidence: "server accepted SSLv3 with a CBC cipher suite"}, nil
}

// beast checks for CBC cipher suites under TLS 1.0 (CVE-2011-3389).
type beast struct {
	sc     probe.ScanContext
	dialer Acceptor
}

func (p *beast) Scan(ctx context.Context) (probe.Result, error) {
	suites := suitesWhere(func(name string) bool { return strings.Contains(name, "_CBC_") })
	ok, err := p.dialer.Accepts(ctx, p.sc.Address(), handshake.Offer{
		MinVersion:   tls.VersionTLS10,
		MaxVersion:   tls.VersionTLS10,
		CipherSuites: suites,
		Timeout:      p.sc.Timeout(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return Finding{Evidence: "server refused TLSv1.0 with CBC cipher suites"}, nil
	}
	return Finding{Vulnerable: true, Evidence: "server accepted TLSv1.0 with a CBC cipher suite"}, nil
}

// weakCipher checks whether the server negotiates any suite whose name
// contains match, at TLS 1.0 through 1.2.
type weakCipher struct {
	sc     probe.ScanContext
	dialer Acceptor
	label  string
	match  string
}

func (p *weakCipher) Scan(ctx context.Context) (probe.Result, error) {
	suites := suitesWhere(func(name string) bool { return strings.Contains(name, p.match) })
	ok, err := p.dialer.Accepts(ctx, p.sc.Address(), handshake.Offer{
		MinVersion:   tls.VersionTLS10,
		MaxVersion:   tls.VersionTLS12,
		CipherSuites: suites,
		Timeout:      p.sc.Timeout(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return Finding{Evidence: fmt.Sprintf("server refused all %s cipher suites (%s)", p.label, suiteNames(suites))}, nil
	}
	return Finding{Vulnerable: true, Evidence: fmt.Sprintf("server accepted a %s cipher suite", p.label)}, nil
}

// deprecatedProtocols reports the obsolete versions found during discovery.
// It needs no connection of its own.
type deprecatedProtocols struct {
	sc probe.ScanContext
}

var deprecatedVersions = []string{
	handshake.ProtocolSSLv3,
	handshake.ProtocolTLSv10,
	handshake.ProtocolTLSv11,
}

func (p *deprecatedProtocols) Scan(context.Context) (probe.Result, error) {
	var found []string
	for _, v := range deprecatedVersions {
		if p.sc.Supports(v) {
			found = append(found, v)
		}
	}
	if len(found) == 0 {
		return Finding{Evidence: "only current protocol versions are enabled"}, nil
	}
	return Finding{Vulnerable: true, Evidence: "deprecated protocols enabled: " + strings.Join(found, ", ")}, nil
}

// forwardSecrecy checks whether the server still completes handshakes using
// static RSA key exchange, which gives no forward secrecy.
type forwardSecrecy struct {
	sc     probe.ScanContext
	dialer Acceptor
}

func (p *forwardSecrecy) Scan(ctx context.Context) (probe.Result, error) {
	suites := suitesWhere(func(name string) bool { return strings.HasPrefix(name, "TLS_RSA_WITH_") })
	ok, err := p.dialer.Accepts(ctx, p.sc.Address(), handshake.Offer{
		MinVersion:   tls.VersionTLS10,
		MaxVersion:   tls.VersionTLS12,
		CipherSuites: suites,
		Timeout:      p.sc.Timeout(),
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return Finding{Evidence: "server requires an ephemeral key exchange"}, nil
	}
	return Finding{Vulnerable: true, Evidence: "server accepted static RSA key exchange"}, nil
}
