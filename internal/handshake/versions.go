package handshake

import (
	"crypto/tls"
	"fmt"
)

// VersionSSL30 is not exported by crypto/tls any more.
const VersionSSL30 uint16 = 0x0300

// Protocol names as they appear in the rating tables.
const (
	ProtocolSSLv3  = "SSLv3"
	ProtocolTLSv10 = "TLSv1.0"
	ProtocolTLSv11 = "TLSv1.1"
	ProtocolTLSv12 = "TLSv1.2"
	ProtocolTLSv13 = "TLSv1.3"
)

// KnownVersions lists the versions enumerated during discovery, oldest first.
var KnownVersions = []uint16{
	VersionSSL30,
	tls.VersionTLS10,
	tls.VersionTLS11,
	tls.VersionTLS12,
	tls.VersionTLS13,
}

// VersionName converts a protocol version to its rating-table name
func VersionName(version uint16) string {
	switch version {
	case VersionSSL30:
		return ProtocolSSLv3
	case tls.VersionTLS10:
		return ProtocolTLSv10
	case tls.VersionTLS11:
		return ProtocolTLSv11
	case tls.VersionTLS12:
		return ProtocolTLSv12
	case tls.VersionTLS13:
		return ProtocolTLSv13
	default:
		return fmt.Sprintf("unknown(0x%04x)", version)
	}
}
