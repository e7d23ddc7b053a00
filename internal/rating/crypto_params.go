package rating

import (
	"encoding/json"
	"time"
)

// Attribute is a single relative distinguished name component, e.g. CN=example.com.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CertificateDetails carries the descriptive certificate fields that are
// reported but not rated.
type CertificateDetails struct {
	Version      int
	SerialNumber string
	NotBefore    time.Time
	NotAfter     time.Time
	Subject      []Attribute
	Issuer       []Attribute
}

// CryptoParams is the rated view of one negotiated cipher suite and the
// certificate that came with it. It is immutable once built.
type CryptoParams struct {
	cipherSuite        string
	cipherSuiteOpenSSL string
	params             map[ParameterType]RatedValue
	rating             Tier
	cert               CertificateDetails
}

// NewCryptoParams builds CryptoParams. The overall rating is the worst tier
// among params.
func NewCryptoParams(cipherSuite, openSSLName string, params map[ParameterType]RatedValue, cert CertificateDetails) *CryptoParams {
	copied := make(map[ParameterType]RatedValue, len(params))
	overall := TierUnrated
	for p, v := range params {
		copied[p] = v
		overall = Worst(overall, v.Tier)
	}

	cert.Subject = append([]Attribute(nil), cert.Subject...)
	cert.Issuer = append([]Attribute(nil), cert.Issuer...)

	return &CryptoParams{
		cipherSuite:        cipherSuite,
		cipherSuiteOpenSSL: openSSLName,
		params:             copied,
		rating:             overall,
		cert:               cert,
	}
}

func (c *CryptoParams) CipherSuite() string {
	return c.cipherSuite
}

func (c *CryptoParams) CipherSuiteOpenSSL() string {
	return c.cipherSuiteOpenSSL
}

func (c *CryptoParams) Rating() Tier {
	return c.rating
}

func (c *CryptoParams) CertVersion() int {
	return c.cert.Version
}

func (c *CryptoParams) SerialNumber() string {
	return c.cert.SerialNumber
}

func (c *CryptoParams) NotBefore() time.Time {
	return c.cert.NotBefore
}

func (c *CryptoParams) NotAfter() time.Time {
	return c.cert.NotAfter
}

// Param returns the rated value for p.
func (c *CryptoParams) Param(p ParameterType) (RatedValue, bool) {
	v, ok := c.params[p]
	return v, ok
}

// Params returns a copy of every rated parameter.
func (c *CryptoParams) Params() map[ParameterType]RatedValue {
	out := make(map[ParameterType]RatedValue, len(c.params))
	for p, v := range c.params {
		out[p] = v
	}
	return out
}

func (c *CryptoParams) Subject() []Attribute {
	return append([]Attribute(nil), c.cert.Subject...)
}

func (c *CryptoParams) Issuer() []Attribute {
	return append([]Attribute(nil), c.cert.Issuer...)
}

type cryptoParamsJSON struct {
	CipherSuite        string                `json:"cipher_suite"`
	CipherSuiteOpenSSL string                `json:"cipher_suite_openssl,omitempty"`
	Params             map[string]RatedValue `json:"params"`
	Rating             Tier                  `json:"rating"`
	RatingName         string                `json:"rating_name"`
	CertVersion        int                   `json:"cert_version"`
	SerialNumber       string                `json:"serial_number"`
	NotBefore          time.Time             `json:"not_before"`
	NotAfter           time.Time             `json:"not_after"`
	Subject            []Attribute           `json:"subject"`
	Issuer             []Attribute           `json:"issuer"`
}

// MarshalJSON renders parameters keyed by their table names.
func (c *CryptoParams) MarshalJSON() ([]byte, error) {
	params := make(map[string]RatedValue, len(c.params))
	for p, v := range c.params {
		params[p.Name()] = v
	}
	return json.Marshal(cryptoParamsJSON{
		CipherSuite:        c.cipherSuite,
		CipherSuiteOpenSSL: c.cipherSuiteOpenSSL,
		Params:             params,
		Rating:             c.rating,
		RatingName:         c.rating.String(),
		CertVersion:        c.cert.Version,
		SerialNumber:       c.cert.SerialNumber,
		NotBefore:          c.cert.NotBefore,
		NotAfter:           c.cert.NotAfter,
		Subject:            c.cert.Subject,
		Issuer:             c.cert.Issuer,
	})
}
