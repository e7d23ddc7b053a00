package probe

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

// Address identifies the scan target.
type Address struct {
	Host string
	Port int
}

// String returns host:port, bracketing IPv6 literals.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseAddress parses a target string into an Address.
// This handles various input formats:
//   - example.com
//   - https://example.com/path
//   - example.com:8443
//   - [2001:db8::1]:443
//
// defaultPort is used when the target does not name a port.
func ParseAddress(target string, defaultPort int) (Address, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Address{}, fmt.Errorf("%w: empty target", sharedErrors.ErrInvalidTarget)
	}

	parsed, err := url.Parse(target)
	// Bare hosts parse as paths, and "host:port" parses with "host" as the scheme.
	if err != nil || parsed.Host == "" || strings.Contains(parsed.Scheme, ".") {
		parsed, err = url.Parse("https://" + target)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %s: %v", sharedErrors.ErrInvalidTarget, target, err)
		}
	}

	host := parsed.Hostname()
	if host == "" {
		return Address{}, fmt.Errorf("%w: no host in %q", sharedErrors.ErrInvalidTarget, target)
	}

	port := defaultPort
	if p := parsed.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return Address{}, fmt.Errorf("%w: bad port %q", sharedErrors.ErrInvalidTarget, p)
		}
	}
	if port <= 0 || port > 65535 {
		return Address{}, fmt.Errorf("%w: port %d out of range", sharedErrors.ErrInvalidTarget, port)
	}

	return Address{Host: host, Port: port}, nil
}
