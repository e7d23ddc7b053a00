// Package certinspect extracts the algorithm labels and numeric attributes of
// a negotiated connection and its leaf certificate, and rates them.
package certinspect

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"

	"go.uber.org/zap"

	"github.com/khanhnv2901/ssltest/internal/conversion"
	"github.com/khanhnv2901/ssltest/internal/rating"
	"github.com/khanhnv2901/ssltest/internal/shared/constants"
)

var attributeNames = map[string]string{
	"2.5.4.3":                    "commonName",
	"2.5.4.4":                    "surname",
	"2.5.4.5":                    "serialNumber",
	"2.5.4.6":                    "countryName",
	"2.5.4.7":                    "localityName",
	"2.5.4.8":                    "stateOrProvinceName",
	"2.5.4.9":                    "streetAddress",
	"2.5.4.10":                   "organizationName",
	"2.5.4.11":                   "organizationalUnitName",
	"2.5.4.17":                   "postalCode",
	"2.5.4.42":                   "givenName",
	"1.2.840.113549.1.9.1":       "emailAddress",
	"0.9.2342.19200300.100.1.25": "domainComponent",
}

// Inspector turns handshake data into rated CryptoParams.
type Inspector struct {
	Engine  *rating.Engine
	Mapping *conversion.Mapping
	Logger  *zap.SugaredLogger
}

// NewInspector creates an inspector. A nil logger disables logging.
func NewInspector(engine *rating.Engine, mapping *conversion.Mapping, logger *zap.SugaredLogger) *Inspector {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Inspector{Engine: engine, Mapping: mapping, Logger: logger}
}

// Inspect rates the negotiated protocol, the cipher suite (IANA name) and the
// leaf certificate. Values that cannot be determined are reported as "N/A".
func (i *Inspector) Inspect(protocol, cipherSuite string, cert *x509.Certificate) *rating.CryptoParams {
	params := i.Engine.RateCipherSuite(cipherSuite)
	params[rating.ParamProtocol] = i.Engine.RateValue(rating.ParamProtocol, protocol)

	sigAlg := constants.NotApplicable
	keyAlg := constants.NotApplicable
	keyLen := constants.NotApplicable
	var details rating.CertificateDetails

	if cert != nil {
		sigAlg = i.signatureAlgorithm(cert)
		keyAlg = CertificateKeyAlgorithm(cert)
		keyLen = CertificateKeyLength(cert)
		details = certificateDetails(cert)
	}

	params[rating.ParamSignatureAlgorithm] = i.Engine.RateValue(rating.ParamSignatureAlgorithm, sigAlg)
	params[rating.ParamPublicKeyAlgorithm] = i.Engine.RateValue(rating.ParamPublicKeyAlgorithm, keyAlg)
	params[rating.ParamPublicKeyLength] = rating.RatedValue{
		Value: keyLen,
		Tier:  i.Engine.RateKeyLength(rating.ParamPublicKeyLength, keyAlg, keyLen),
	}

	openSSLName := ""
	if i.Mapping != nil {
		name, err := i.Mapping.ToVendorName(cipherSuite)
		if err != nil {
			i.Logger.Debugw("no OpenSSL name for cipher suite", "cipher_suite", cipherSuite, "error", err)
		} else {
			openSSLName = name
		}
	}

	return rating.NewCryptoParams(cipherSuite, openSSLName, params, details)
}

func (i *Inspector) signatureAlgorithm(cert *x509.Certificate) string {
	oid, err := SignatureAlgorithmOID(cert)
	if err != nil {
		i.Logger.Warnw("could not read signature algorithm", "error", err)
		return constants.NotApplicable
	}

	family, err := SignatureAlgorithmFromIdentifier(oid)
	if err != nil {
		i.Logger.Warnw("unrated signature algorithm", "oid", oid.String(), "error", err)
		return constants.NotApplicable
	}
	return family
}

func certificateDetails(cert *x509.Certificate) rating.CertificateDetails {
	serial := constants.NotApplicable
	if cert.SerialNumber != nil {
		serial = cert.SerialNumber.String()
	}
	return rating.CertificateDetails{
		Version:      cert.Version,
		SerialNumber: serial,
		NotBefore:    cert.NotBefore,
		NotAfter:     cert.NotAfter,
		Subject:      nameAttributes(cert.Subject),
		Issuer:       nameAttributes(cert.Issuer),
	}
}

func nameAttributes(name pkix.Name) []rating.Attribute {
	attrs := make([]rating.Attribute, 0, len(name.Names))
	for _, atv := range name.Names {
		label, ok := attributeNames[atv.Type.String()]
		if !ok {
			label = atv.Type.String()
		}
		attrs = append(attrs, rating.Attribute{Name: label, Value: fmt.Sprint(atv.Value)})
	}
	return attrs
}
