package certinspect

import (
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"strings"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

type signatureOID struct {
	name string
	oid  asn1.ObjectIdentifier
}

// signatureOIDs is searched in order, so the first entry for an identifier wins.
var signatureOIDs = []signatureOID{
	{"RSA_WITH_MD5", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 4}},
	{"RSA_WITH_SHA1", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 5}},
	{"RSA_WITH_SHA224", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 14}},
	{"RSA_WITH_SHA256", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 11}},
	{"RSA_WITH_SHA384", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 12}},
	{"RSA_WITH_SHA512", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 13}},
	{"RSA_WITH_SHA3_224", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 13}},
	{"RSA_WITH_SHA3_256", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 14}},
	{"RSA_WITH_SHA3_384", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 15}},
	{"RSA_WITH_SHA3_512", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 16}},
	{"RSASSA_PSS", asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 10}},
	{"ECDSA_WITH_SHA1", asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 1}},
	{"ECDSA_WITH_SHA224", asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 1}},
	{"ECDSA_WITH_SHA256", asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}},
	{"ECDSA_WITH_SHA384", asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 3}},
	{"ECDSA_WITH_SHA512", asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 4}},
	{"ECDSA_WITH_SHA3_224", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 9}},
	{"ECDSA_WITH_SHA3_256", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 10}},
	{"ECDSA_WITH_SHA3_384", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 11}},
	{"ECDSA_WITH_SHA3_512", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 12}},
	{"DSA_WITH_SHA1", asn1.ObjectIdentifier{1, 2, 840, 10040, 4, 3}},
	{"DSA_WITH_SHA224", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 1}},
	{"DSA_WITH_SHA256", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 2}},
	{"DSA_WITH_SHA384", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 3}},
	{"DSA_WITH_SHA512", asn1.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 3, 4}},
	{"ED25519", asn1.ObjectIdentifier{1, 3, 101, 112}},
	{"ED448", asn1.ObjectIdentifier{1, 3, 101, 113}},
	{"GOSTR3411_94_WITH_3410_2001", asn1.ObjectIdentifier{1, 2, 643, 2, 2, 3}},
	{"GOSTR3410_2012_WITH_3411_2012_256", asn1.ObjectIdentifier{1, 2, 643, 7, 1, 1, 3, 2}},
	{"GOSTR3410_2012_WITH_3411_2012_512", asn1.ObjectIdentifier{1, 2, 643, 7, 1, 1, 3, 3}},
}

// SignatureAlgorithmName returns the full table name for oid, e.g. RSA_WITH_SHA256.
func SignatureAlgorithmName(oid asn1.ObjectIdentifier) (string, error) {
	for _, entry := range signatureOIDs {
		if entry.oid.Equal(oid) {
			return entry.name, nil
		}
	}
	return "", fmt.Errorf("%w: %s", sharedErrors.ErrUnknownAlgorithmIdentifier, oid)
}

// SignatureAlgorithmFromIdentifier returns the signing algorithm family for
// oid: the part of its table name before the first qualifier, e.g. "RSA" for
// RSA_WITH_SHA256.
func SignatureAlgorithmFromIdentifier(oid asn1.ObjectIdentifier) (string, error) {
	name, err := SignatureAlgorithmName(oid)
	if err != nil {
		return "", err
	}
	family, _, _ := strings.Cut(name, "_")
	return family, nil
}

// SignatureAlgorithmOID reads the outer signatureAlgorithm identifier from
// the certificate DER.
func SignatureAlgorithmOID(cert *x509.Certificate) (asn1.ObjectIdentifier, error) {
	if cert == nil {
		return nil, sharedErrors.ErrNoCertificate
	}

	input := cryptobyte.String(cert.Raw)
	var certificate, algorithm cryptobyte.String
	if !input.ReadASN1(&certificate, cryptobyte_asn1.SEQUENCE) {
		return nil, fmt.Errorf("malformed certificate")
	}
	if !certificate.SkipASN1(cryptobyte_asn1.SEQUENCE) {
		return nil, fmt.Errorf("malformed tbs certificate")
	}
	if !certificate.ReadASN1(&algorithm, cryptobyte_asn1.SEQUENCE) {
		return nil, fmt.Errorf("malformed signature algorithm")
	}

	var oid asn1.ObjectIdentifier
	if !algorithm.ReadASN1ObjectIdentifier(&oid) {
		return nil, fmt.Errorf("malformed signature algorithm identifier")
	}
	return oid, nil
}
