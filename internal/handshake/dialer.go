// Package handshake performs the TLS handshakes a scan is built on: the
// initial connection that yields the negotiated parameters and leaf
// certificate, protocol version discovery, and the restricted handshakes
// probes use to ask "would the server accept this?".
package handshake

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/khanhnv2901/ssltest/internal/probe"
	"github.com/khanhnv2901/ssltest/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

// Offer restricts what the client proposes in its ClientHello.
// Zero values leave the crypto/tls defaults in place. A zero Timeout uses
// the dialer's own per-connection timeout.
type Offer struct {
	MinVersion   uint16
	MaxVersion   uint16
	CipherSuites []uint16
	Timeout      time.Duration
}

// Dialer connects to scan targets. Connection-level failures are retried
// with a linear backoff; a server refusing the offer is not retried.
type Dialer struct {
	Timeout    time.Duration
	BackoffMax time.Duration
	Logger     *zap.SugaredLogger
}

// NewDialer returns a dialer with the given per-connection timeout.
func NewDialer(timeout, backoffMax time.Duration, logger *zap.SugaredLogger) *Dialer {
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Dialer{Timeout: timeout, BackoffMax: backoffMax, Logger: logger}
}

// Handshake connects to addr proposing offer and returns the negotiated
// connection state. A refusal is reported as ErrHandshakeRejected.
func (d *Dialer) Handshake(ctx context.Context, addr probe.Address, offer Offer) (*tls.ConnectionState, error) {
	cfg := &tls.Config{
		ServerName:         addr.Host,
		InsecureSkipVerify: true, // #nosec G402 -- the scanner reports on certificates, it does not trust them
		MinVersion:         offer.MinVersion,
		MaxVersion:         offer.MaxVersion,
		CipherSuites:       offer.CipherSuites,
	}
	if net.ParseIP(addr.Host) != nil {
		cfg.ServerName = ""
	}

	timeout := d.connTimeout(offer.Timeout)
	var state tls.ConnectionState
	err := probe.Retry(ctx, d.backoff(), isTransient, func() error {
		dialer := &tls.Dialer{
			NetDialer: &net.Dialer{Timeout: timeout},
			Config:    cfg,
		}
		dialCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		conn, err := dialer.DialContext(dialCtx, "tcp", addr.String())
		if err != nil {
			return err
		}
		defer conn.Close()
		state = conn.(*tls.Conn).ConnectionState()
		return nil
	})
	if err != nil {
		if unreachable(err) {
			return nil, err
		}
		d.Logger.Debugw("handshake rejected", "address", addr.String(), "error", err)
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrHandshakeRejected, err)
	}
	return &state, nil
}

// Accepts reports whether the server completes a handshake for offer.
func (d *Dialer) Accepts(ctx context.Context, addr probe.Address, offer Offer) (bool, error) {
	_, err := d.Handshake(ctx, addr, offer)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sharedErrors.ErrHandshakeRejected):
		return false, nil
	default:
		return false, err
	}
}

// connTimeout returns timeout, or the dialer default when it is not set.
func (d *Dialer) connTimeout(timeout time.Duration) time.Duration {
	if timeout > 0 {
		return timeout
	}
	if d.Timeout > 0 {
		return d.Timeout
	}
	return constants.DefaultTimeout
}

func (d *Dialer) backoff() *probe.Backoff {
	limit := d.BackoffMax
	if limit <= 0 {
		limit = constants.DefaultBackoffMax
	}
	return probe.NewBackoff(limit)
}

// isTransient reports whether err happened before the TLS layer got a say:
// refused or timed-out connects and read timeouts. Alerts, resets and
// protocol errors mean the server answered and are final.
func isTransient(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// unreachable reports whether a Retry failure means the server could not be
// reached, as opposed to it answering with a refusal.
func unreachable(err error) bool {
	return isTransient(err) ||
		errors.Is(err, sharedErrors.ErrConnectionTimeoutExceeded) ||
		errors.Is(err, context.Canceled)
}

// Connection is what the initial handshake learns about the target.
type Connection struct {
	Protocol           string
	CipherSuite        string
	Certificate        *x509.Certificate
	SupportedProtocols []string
}

// Fetch performs the default handshake and then enumerates which protocol
// versions the server accepts.
func (d *Dialer) Fetch(ctx context.Context, addr probe.Address) (*Connection, error) {
	state, err := d.Handshake(ctx, addr, Offer{MinVersion: tls.VersionTLS10})
	if err != nil {
		return nil, fmt.Errorf("initial handshake with %s: %w", addr, err)
	}

	conn := &Connection{
		Protocol:    VersionName(state.Version),
		CipherSuite: tls.CipherSuiteName(state.CipherSuite),
	}
	if len(state.PeerCertificates) > 0 {
		conn.Certificate = state.PeerCertificates[0]
	}

	conn.SupportedProtocols, err = d.SupportedProtocols(ctx, addr)
	if err != nil {
		return nil, err
	}

	d.Logger.Infow("handshake completed",
		"address", addr.String(),
		"protocol", conn.Protocol,
		"cipher_suite", conn.CipherSuite,
		"supported", conn.SupportedProtocols,
	)
	return conn, nil
}

// SupportedProtocols tries every known version in turn and returns the
// names of those the server accepted, oldest first.
func (d *Dialer) SupportedProtocols(ctx context.Context, addr probe.Address) ([]string, error) {
	var supported []string
	for _, v := range KnownVersions {
		var ok bool
		var err error
		if v == VersionSSL30 {
			ok, err = d.AcceptsSSLv3(ctx, addr, SSLv3CipherSuites, 0)
		} else {
			ok, err = d.Accepts(ctx, addr, Offer{MinVersion: v, MaxVersion: v, CipherSuites: versionSuites(v)})
		}
		if err != nil {
			return nil, fmt.Errorf("probing %s on %s: %w", VersionName(v), addr, err)
		}
		if ok {
			supported = append(supported, VersionName(v))
		}
	}
	return supported, nil
}

// versionSuites offers everything crypto/tls can negotiate for old
// versions, which it would otherwise leave out of the default list.
func versionSuites(version uint16) []uint16 {
	if version >= tls.VersionTLS13 {
		return nil
	}
	var ids []uint16
	for _, s := range tls.CipherSuites() {
		ids = append(ids, s.ID)
	}
	for _, s := range tls.InsecureCipherSuites() {
		ids = append(ids, s.ID)
	}
	return ids
}
