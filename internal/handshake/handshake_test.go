package handshake

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/cryptobyte"

	"github.com/khanhnv2901/ssltest/internal/probe"
	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

func serverAddress(t *testing.T, srv *httptest.Server) probe.Address {
	t.Helper()
	tcp, ok := srv.Listener.Addr().(*net.TCPAddr)
	if !ok {
		t.Fatalf("unexpected listener address %T", srv.Listener.Addr())
	}
	return probe.Address{Host: tcp.IP.String(), Port: tcp.Port}
}

func newTLSServer(t *testing.T, cfg *tls.Config) *httptest.Server {
	t.Helper()
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	srv.TLS = cfg
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

func TestVersionName(t *testing.T) {
	tests := map[uint16]string{
		VersionSSL30:     "SSLv3",
		tls.VersionTLS10: "TLSv1.0",
		tls.VersionTLS11: "TLSv1.1",
		tls.VersionTLS12: "TLSv1.2",
		tls.VersionTLS13: "TLSv1.3",
		0x7f1c:           "unknown(0x7f1c)",
	}
	for version, want := range tests {
		if got := VersionName(version); got != want {
			t.Errorf("VersionName(0x%04x) = %q, want %q", version, got, want)
		}
	}
}

func TestMarshalClientHello(t *testing.T) {
	suites := []uint16{0x002f, 0x000a}
	raw, err := marshalClientHello(VersionSSL30, suites)
	if err != nil {
		t.Fatalf("marshalClientHello() error = %v", err)
	}

	var (
		recordType    uint8
		recordVersion uint16
		record        cryptobyte.String
		msgType       uint8
		hello         cryptobyte.String
		helloVersion  uint16
		random        []byte
		sessionID     cryptobyte.String
		suiteList     cryptobyte.String
		compression   cryptobyte.String
	)
	s := cryptobyte.String(raw)
	if !s.ReadUint8(&recordType) || !s.ReadUint16(&recordVersion) || !s.ReadUint16LengthPrefixed(&record) || !s.Empty() {
		t.Fatal("malformed record header")
	}
	if recordType != recordTypeHandshake || recordVersion != VersionSSL30 {
		t.Fatalf("record type=%d version=0x%04x", recordType, recordVersion)
	}
	if !record.ReadUint8(&msgType) || !record.ReadUint24LengthPrefixed(&hello) || msgType != typeClientHello {
		t.Fatal("malformed handshake header")
	}
	if !hello.ReadUint16(&helloVersion) || !hello.ReadBytes(&random, 32) ||
		!hello.ReadUint8LengthPrefixed(&sessionID) || !hello.ReadUint16LengthPrefixed(&suiteList) ||
		!hello.ReadUint8LengthPrefixed(&compression) || !hello.Empty() {
		t.Fatal("malformed ClientHello body")
	}
	if helloVersion != VersionSSL30 || len(sessionID) != 0 {
		t.Fatalf("version=0x%04x session=%x", helloVersion, []byte(sessionID))
	}

	var got []uint16
	for !suiteList.Empty() {
		var id uint16
		if !suiteList.ReadUint16(&id) {
			t.Fatal("odd cipher suite list")
		}
		got = append(got, id)
	}
	if !slices.Equal(got, suites) {
		t.Fatalf("suites = %v, want %v", got, suites)
	}
	if !bytes.Equal(compression, []byte{0}) {
		t.Fatalf("compression methods = %x", []byte(compression))
	}
}

func serverHelloRecord(version uint16) []byte {
	var b cryptobyte.Builder
	b.AddUint8(recordTypeHandshake)
	b.AddUint16(version)
	b.AddUint16LengthPrefixed(func(record *cryptobyte.Builder) {
		record.AddUint8(typeServerHello)
		record.AddUint24LengthPrefixed(func(hello *cryptobyte.Builder) {
			hello.AddUint16(version)
			hello.AddBytes(make([]byte, 32))
			hello.AddUint8(0)
			hello.AddUint16(0x002f)
			hello.AddUint8(0)
		})
	})
	return b.BytesOrPanic()
}

func TestReadServerHello(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  bool
	}{
		{"SSLv3 server hello", serverHelloRecord(VersionSSL30), true},
		{"TLS 1.0 server hello", serverHelloRecord(tls.VersionTLS10), false},
		{"handshake failure alert", []byte{recordTypeAlert, 0x03, 0x00, 0x00, 0x02, 0x02, 0x28}, false},
		{"closed connection", nil, false},
		{"truncated record", serverHelloRecord(VersionSSL30)[:9], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readServerHello(bytes.NewReader(tt.input), VersionSSL30)
			if err != nil {
				t.Fatalf("readServerHello() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("readServerHello() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFetch(t *testing.T) {
	srv := newTLSServer(t, &tls.Config{MinVersion: tls.VersionTLS12})
	d := NewDialer(2*time.Second, time.Second, zaptest.NewLogger(t).Sugar())

	conn, err := d.Fetch(context.Background(), serverAddress(t, srv))
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if conn.Protocol != ProtocolTLSv13 {
		t.Errorf("Protocol = %q, want %q", conn.Protocol, ProtocolTLSv13)
	}
	if conn.CipherSuite == "" {
		t.Error("expected a negotiated cipher suite name")
	}
	if conn.Certificate == nil {
		t.Fatal("expected the leaf certificate")
	}
	if !slices.Equal(conn.SupportedProtocols, []string{ProtocolTLSv12, ProtocolTLSv13}) {
		t.Errorf("SupportedProtocols = %v", conn.SupportedProtocols)
	}
}

func TestAcceptsRefusedVersion(t *testing.T) {
	srv := newTLSServer(t, &tls.Config{MinVersion: tls.VersionTLS12, MaxVersion: tls.VersionTLS12})
	d := NewDialer(2*time.Second, time.Second, zaptest.NewLogger(t).Sugar())
	addr := serverAddress(t, srv)

	ok, err := d.Accepts(context.Background(), addr, Offer{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13})
	if err != nil || ok {
		t.Fatalf("Accepts(TLS1.3) = %v, %v; want false, nil", ok, err)
	}

	_, err = d.Handshake(context.Background(), addr, Offer{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13})
	if !errors.Is(err, sharedErrors.ErrHandshakeRejected) {
		t.Fatalf("expected ErrHandshakeRejected, got %v", err)
	}

	ok, err = d.Accepts(context.Background(), addr, Offer{MinVersion: tls.VersionTLS12, MaxVersion: tls.VersionTLS12})
	if err != nil || !ok {
		t.Fatalf("Accepts(TLS1.2) = %v, %v; want true, nil", ok, err)
	}
}

func TestAcceptsSSLv3AgainstModernServer(t *testing.T) {
	srv := newTLSServer(t, &tls.Config{MinVersion: tls.VersionTLS12})
	d := NewDialer(2*time.Second, time.Second, zaptest.NewLogger(t).Sugar())

	ok, err := d.AcceptsSSLv3(context.Background(), serverAddress(t, srv), SSLv3CipherSuites, 0)
	if err != nil || ok {
		t.Fatalf("AcceptsSSLv3() = %v, %v; want false, nil", ok, err)
	}
}

func TestAcceptsSSLv3SilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(io.Discard, conn)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	d := NewDialer(10*time.Second, time.Nanosecond, zaptest.NewLogger(t).Sugar())

	start := time.Now()
	ok, err := d.AcceptsSSLv3(context.Background(), probe.Address{Host: "127.0.0.1", Port: addr.Port}, SSLv3CipherSuites, 200*time.Millisecond)
	if ok || !errors.Is(err, sharedErrors.ErrConnectionTimeoutExceeded) {
		t.Fatalf("AcceptsSSLv3() = %v, %v; want false, ErrConnectionTimeoutExceeded", ok, err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("read deadline not applied, took %s", elapsed)
	}
}

func TestHandshakeUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	_ = ln.Close()

	d := NewDialer(500*time.Millisecond, time.Nanosecond, zaptest.NewLogger(t).Sugar())
	_, err = d.Handshake(context.Background(), probe.Address{Host: "127.0.0.1", Port: addr.Port}, Offer{})
	if !errors.Is(err, sharedErrors.ErrConnectionTimeoutExceeded) {
		t.Fatalf("expected ErrConnectionTimeoutExceeded, got %v", err)
	}
	if errors.Is(err, sharedErrors.ErrHandshakeRejected) {
		t.Fatal("an unreachable server must not be reported as a refusal")
	}
}
