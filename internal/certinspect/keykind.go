package certinspect

import (
	"crypto"
	//lint:ignore SA1019 DSA keys still show up on legacy servers
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"fmt"
	"strconv"

	"golang.org/x/crypto/cryptobyte"
	cryptobyte_asn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/khanhnv2901/ssltest/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

// KeyKind is the closed set of public key kinds the inspector distinguishes.
type KeyKind int

const (
	KeyKindOther KeyKind = iota
	KeyKindEC
	KeyKindRSA
	KeyKindDSA
	KeyKindEdwards
)

// ClassifyPublicKey maps a parsed certificate public key to its kind.
func ClassifyPublicKey(pub crypto.PublicKey) KeyKind {
	switch pub.(type) {
	case *ecdsa.PublicKey:
		return KeyKindEC
	case *rsa.PublicKey:
		return KeyKindRSA
	case *dsa.PublicKey:
		return KeyKindDSA
	case ed25519.PublicKey, *ed25519.PublicKey:
		return KeyKindEdwards
	default:
		return KeyKindOther
	}
}

// Label is the algorithm name used in reports and rating tables.
// Edwards-curve keys are labelled "ECDSA"; the rating tables depend on it.
func (k KeyKind) Label() string {
	switch k {
	case KeyKindEC:
		return "EC"
	case KeyKindRSA:
		return "RSA"
	case KeyKindDSA:
		return "DSA"
	case KeyKindEdwards:
		return "ECDSA"
	case KeyKindOther:
		return "Unknown"
	}
	return "Unknown"
}

func (k KeyKind) String() string {
	return k.Label()
}

// PublicKeyAlgorithm returns the algorithm label for pub.
func PublicKeyAlgorithm(pub crypto.PublicKey) string {
	return ClassifyPublicKey(pub).Label()
}

// PublicKeyLength returns the key size in bits, or "N/A" for unsupported keys.
func PublicKeyLength(pub crypto.PublicKey) string {
	bits := 0
	switch key := pub.(type) {
	case *rsa.PublicKey:
		if key.N != nil {
			bits = key.N.BitLen()
		}
	case *ecdsa.PublicKey:
		if key.Curve != nil {
			bits = key.Curve.Params().BitSize
		}
	case *dsa.PublicKey:
		if key.P != nil {
			bits = key.P.BitLen()
		}
	case ed25519.PublicKey, *ed25519.PublicKey:
		bits = ed25519.PublicKeySize * 8
	}

	if bits == 0 {
		return constants.NotApplicable
	}
	return strconv.Itoa(bits)
}

var (
	oidPublicKeyEd25519 = asn1.ObjectIdentifier{1, 3, 101, 112}
	oidPublicKeyEd448   = asn1.ObjectIdentifier{1, 3, 101, 113}
)

// ed448KeyBits is the size of an encoded Ed448 public key (57 bytes).
const ed448KeyBits = 456

// CertificateKeyAlgorithm labels the certificate's public key. Keys that
// crypto/x509 cannot decode, such as Ed448, are classified from the
// SubjectPublicKeyInfo algorithm identifier.
func CertificateKeyAlgorithm(cert *x509.Certificate) string {
	return certificateKeyKind(cert).Label()
}

// CertificateKeyLength returns the certificate's key size in bits, or "N/A".
func CertificateKeyLength(cert *x509.Certificate) string {
	if cert == nil {
		return constants.NotApplicable
	}
	if length := PublicKeyLength(cert.PublicKey); length != constants.NotApplicable {
		return length
	}
	if oid, err := PublicKeyAlgorithmOID(cert); err == nil && oid.Equal(oidPublicKeyEd448) {
		return strconv.Itoa(ed448KeyBits)
	}
	return constants.NotApplicable
}

func certificateKeyKind(cert *x509.Certificate) KeyKind {
	if cert == nil {
		return KeyKindOther
	}
	if kind := ClassifyPublicKey(cert.PublicKey); kind != KeyKindOther {
		return kind
	}
	oid, err := PublicKeyAlgorithmOID(cert)
	if err != nil {
		return KeyKindOther
	}
	if oid.Equal(oidPublicKeyEd25519) || oid.Equal(oidPublicKeyEd448) {
		return KeyKindEdwards
	}
	return KeyKindOther
}

// PublicKeyAlgorithmOID reads the algorithm identifier of the certificate's
// SubjectPublicKeyInfo.
func PublicKeyAlgorithmOID(cert *x509.Certificate) (asn1.ObjectIdentifier, error) {
	if cert == nil {
		return nil, sharedErrors.ErrNoCertificate
	}

	input := cryptobyte.String(cert.RawSubjectPublicKeyInfo)
	var spki, algorithm cryptobyte.String
	if !input.ReadASN1(&spki, cryptobyte_asn1.SEQUENCE) {
		return nil, fmt.Errorf("malformed subject public key info")
	}
	if !spki.ReadASN1(&algorithm, cryptobyte_asn1.SEQUENCE) {
		return nil, fmt.Errorf("malformed public key algorithm")
	}

	var oid asn1.ObjectIdentifier
	if !algorithm.ReadASN1ObjectIdentifier(&oid) {
		return nil, fmt.Errorf("malformed public key algorithm identifier")
	}
	return oid, nil
}
