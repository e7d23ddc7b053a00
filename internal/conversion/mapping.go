// Package conversion translates cipher suite names between the IANA
// convention (TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256) and the OpenSSL
// convention (ECDHE-RSA-AES128-GCM-SHA256).
package conversion

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

//go:embed data/iana_openssl_cipher_mapping.json
var defaultMappingJSON []byte

// Mapping is a read-only table from IANA names to OpenSSL names.
type Mapping struct {
	toVendor map[string]string
	// canonical names in lexical order, so reverse lookups are deterministic
	keys []string
}

// LoadMapping decodes a {"<IANA name>": "<OpenSSL name>"} document.
func LoadMapping(r io.Reader) (*Mapping, error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode cipher suite mapping: %w", err)
	}
	return NewMapping(raw), nil
}

// LoadMappingFile reads a mapping document from path.
func LoadMappingFile(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cipher suite mapping: %w", err)
	}
	defer f.Close()
	return LoadMapping(f)
}

// NewMapping builds a Mapping from canonical → vendor pairs.
func NewMapping(pairs map[string]string) *Mapping {
	m := &Mapping{
		toVendor: make(map[string]string, len(pairs)),
		keys:     make([]string, 0, len(pairs)),
	}
	for canonical, vendor := range pairs {
		m.toVendor[canonical] = vendor
		m.keys = append(m.keys, canonical)
	}
	sort.Strings(m.keys)
	return m
}

var (
	defaultMappingOnce sync.Once
	defaultMapping     *Mapping
	defaultMappingErr  error
)

// DefaultMapping returns the embedded mapping, parsed once per process.
func DefaultMapping() (*Mapping, error) {
	defaultMappingOnce.Do(func() {
		defaultMapping, defaultMappingErr = LoadMapping(bytes.NewReader(defaultMappingJSON))
	})
	return defaultMapping, defaultMappingErr
}

// ToCanonicalName returns the IANA name whose OpenSSL name is vendorName. If
// the table pairs several IANA names with the same OpenSSL name, the
// lexically first one is returned.
func (m *Mapping) ToCanonicalName(vendorName string) (string, error) {
	for _, canonical := range m.keys {
		if m.toVendor[canonical] == vendorName {
			return canonical, nil
		}
	}
	return "", fmt.Errorf("%w: %s", sharedErrors.ErrCipherSuiteMappingNotFound, vendorName)
}

// ToVendorName returns the OpenSSL name for an IANA name.
func (m *Mapping) ToVendorName(canonicalName string) (string, error) {
	vendor, ok := m.toVendor[canonicalName]
	if !ok {
		return "", fmt.Errorf("%w: %s", sharedErrors.ErrCipherSuiteMappingNotFound, canonicalName)
	}
	return vendor, nil
}

// Normalize accepts a name in either convention and returns the IANA name.
func (m *Mapping) Normalize(name string) (string, error) {
	if _, ok := m.toVendor[name]; ok {
		return name, nil
	}
	return m.ToCanonicalName(name)
}

// Len returns the number of pairs in the table.
func (m *Mapping) Len() int {
	return len(m.keys)
}
