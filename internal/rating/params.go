package rating

import "fmt"

// ParameterType selects which rule table rates a value.
type ParameterType int

const (
	ParamProtocol ParameterType = iota
	ParamKeyExchange
	ParamAuthentication
	ParamCipher
	ParamHash
	ParamSignatureAlgorithm
	ParamPublicKeyAlgorithm
	ParamPublicKeyLength
)

type parameterInfo struct {
	name    string
	alias   string
	numeric bool
}

var parameterInfos = map[ParameterType]parameterInfo{
	ParamProtocol:           {name: "PROTOCOL", alias: "Protocol"},
	ParamKeyExchange:        {name: "KEY_EXCHANGE", alias: "Key exchange"},
	ParamAuthentication:     {name: "AUTHENTICATION", alias: "Authentication"},
	ParamCipher:             {name: "CIPHER", alias: "Symmetric cipher"},
	ParamHash:               {name: "HASH", alias: "Hash function"},
	ParamSignatureAlgorithm: {name: "SIGNATURE_ALGORITHM", alias: "Certificate signature algorithm"},
	ParamPublicKeyAlgorithm: {name: "PUBLIC_KEY_ALGORITHM", alias: "Certificate public key algorithm"},
	ParamPublicKeyLength:    {name: "PUBLIC_KEY_LENGTH", alias: "Certificate public key length", numeric: true},
}

// AllParameterTypes lists every parameter type in report order.
func AllParameterTypes() []ParameterType {
	return []ParameterType{
		ParamProtocol,
		ParamKeyExchange,
		ParamAuthentication,
		ParamCipher,
		ParamHash,
		ParamSignatureAlgorithm,
		ParamPublicKeyAlgorithm,
		ParamPublicKeyLength,
	}
}

// Name is the key of the parameter's table in the rating rules file.
func (p ParameterType) Name() string {
	if info, ok := parameterInfos[p]; ok {
		return info.name
	}
	return fmt.Sprintf("PARAMETER_%d", int(p))
}

// Alias is a human-readable label used in reports.
func (p ParameterType) Alias() string {
	if info, ok := parameterInfos[p]; ok {
		return info.alias
	}
	return p.Name()
}

// Numeric reports whether the parameter is rated with operator/threshold rules.
func (p ParameterType) Numeric() bool {
	return parameterInfos[p].numeric
}

func (p ParameterType) String() string {
	return p.Name()
}

// ParseParameterType resolves a rules file key to its parameter type.
func ParseParameterType(name string) (ParameterType, bool) {
	for p, info := range parameterInfos {
		if info.name == name {
			return p, true
		}
	}
	return 0, false
}
