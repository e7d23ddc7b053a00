package rating

import (
	"strings"

	"github.com/khanhnv2901/ssltest/internal/shared/constants"
)

// CipherSuite holds the components of an IANA cipher suite name.
type CipherSuite struct {
	KeyExchange    string
	Authentication string
	Cipher         string
	Hash           string
}

// ParseCipherSuite splits names such as TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256.
// TLS 1.3 suites carry no key exchange or authentication component, and
// anything that is not an IANA name yields "N/A" everywhere.
func ParseCipherSuite(name string) CipherSuite {
	suite := CipherSuite{
		KeyExchange:    constants.NotApplicable,
		Authentication: constants.NotApplicable,
		Cipher:         constants.NotApplicable,
		Hash:           constants.NotApplicable,
	}

	rest, ok := strings.CutPrefix(name, "TLS_")
	if !ok || rest == "" {
		return suite
	}

	if kx, bulk, found := strings.Cut(rest, "_WITH_"); found {
		parts := strings.Split(kx, "_")
		suite.KeyExchange = parts[0]
		if len(parts) == 1 {
			suite.Authentication = parts[0]
		} else {
			suite.Authentication = strings.Join(parts[1:], "_")
		}
		rest = bulk
	}

	parts := strings.Split(rest, "_")
	last := parts[len(parts)-1]
	if len(parts) > 1 && isHashName(last) {
		suite.Cipher = strings.Join(parts[:len(parts)-1], "_")
		suite.Hash = last
	} else {
		suite.Cipher = rest
	}

	return suite
}

func isHashName(s string) bool {
	return strings.HasPrefix(s, "SHA") || s == "MD5" || s == "NULL"
}
