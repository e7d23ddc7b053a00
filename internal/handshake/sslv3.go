package handshake

import (
	"context"
	"crypto/rand"
	"io"
	"net"
	"time"

	"golang.org/x/crypto/cryptobyte"

	"github.com/khanhnv2901/ssltest/internal/probe"
)

const (
	recordTypeAlert     uint8 = 21
	recordTypeHandshake uint8 = 22

	typeClientHello uint8 = 1
	typeServerHello uint8 = 2
)

// SSLv3CipherSuites is the SSLv3-era suite list offered when checking for
// SSLv3 support.
var SSLv3CipherSuites = []uint16{
	0x0035, // TLS_RSA_WITH_AES_256_CBC_SHA
	0x002f, // TLS_RSA_WITH_AES_128_CBC_SHA
	0x0039, // TLS_DHE_RSA_WITH_AES_256_CBC_SHA
	0x0033, // TLS_DHE_RSA_WITH_AES_128_CBC_SHA
	0xc014, // TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA
	0xc013, // TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA
	0x000a, // TLS_RSA_WITH_3DES_EDE_CBC_SHA
	0x0016, // TLS_DHE_RSA_WITH_3DES_EDE_CBC_SHA
	0x0005, // TLS_RSA_WITH_RC4_128_SHA
	0x0004, // TLS_RSA_WITH_RC4_128_MD5
	0x0009, // TLS_RSA_WITH_DES_CBC_SHA
}

// AcceptsSSLv3 sends a hand-built SSLv3 ClientHello, since crypto/tls
// refuses to speak SSLv3, and reports whether the server answered with an
// SSLv3 ServerHello. A zero timeout uses the dialer's own.
func (d *Dialer) AcceptsSSLv3(ctx context.Context, addr probe.Address, suites []uint16, timeout time.Duration) (bool, error) {
	hello, err := marshalClientHello(VersionSSL30, suites)
	if err != nil {
		return false, err
	}

	timeout = d.connTimeout(timeout)
	var accepted bool
	err = probe.Retry(ctx, d.backoff(), isTransient, func() error {
		dialCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var nd net.Dialer
		conn, err := nd.DialContext(dialCtx, "tcp", addr.String())
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
		if _, err := conn.Write(hello); err != nil {
			return err
		}
		accepted, err = readServerHello(conn, VersionSSL30)
		return err
	})
	if err != nil {
		if unreachable(err) {
			return false, err
		}
		d.Logger.Debugw("SSLv3 hello refused", "address", addr.String(), "error", err)
		return false, nil
	}
	return accepted, nil
}

// marshalClientHello builds a single handshake record carrying a
// ClientHello for version with no extensions and null compression.
func marshalClientHello(version uint16, suites []uint16) ([]byte, error) {
	var random [32]byte
	if _, err := rand.Read(random[:]); err != nil {
		return nil, err
	}

	var b cryptobyte.Builder
	b.AddUint8(recordTypeHandshake)
	b.AddUint16(version)
	b.AddUint16LengthPrefixed(func(record *cryptobyte.Builder) {
		record.AddUint8(typeClientHello)
		record.AddUint24LengthPrefixed(func(hello *cryptobyte.Builder) {
			hello.AddUint16(version)
			hello.AddBytes(random[:])
			hello.AddUint8(0) // empty session id
			hello.AddUint16LengthPrefixed(func(list *cryptobyte.Builder) {
				for _, s := range suites {
					list.AddUint16(s)
				}
			})
			hello.AddUint8LengthPrefixed(func(methods *cryptobyte.Builder) {
				methods.AddUint8(0)
			})
		})
	})
	return b.Bytes()
}

// readServerHello reads the first record the server sends. Anything but a
// ServerHello for version, including an alert or a closed connection,
// counts as a refusal.
func readServerHello(r io.Reader, version uint16) (bool, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(r, header); err != nil {
		if isTransient(err) {
			return false, err
		}
		return false, nil
	}

	var (
		recordType    uint8
		recordVersion uint16
		length        uint16
	)
	s := cryptobyte.String(header)
	if !s.ReadUint8(&recordType) || !s.ReadUint16(&recordVersion) || !s.ReadUint16(&length) {
		return false, nil
	}
	if recordType != recordTypeHandshake {
		return false, nil
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		if isTransient(err) {
			return false, err
		}
		return false, nil
	}

	var (
		msgType       uint8
		msg           cryptobyte.String
		serverVersion uint16
	)
	s = cryptobyte.String(body)
	if !s.ReadUint8(&msgType) || msgType != typeServerHello {
		return false, nil
	}
	if !s.ReadUint24LengthPrefixed(&msg) || !msg.ReadUint16(&serverVersion) {
		return false, nil
	}
	return serverVersion == version, nil
}
