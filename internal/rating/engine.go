package rating

import (
	"strconv"

	"github.com/khanhnv2901/ssltest/internal/shared/constants"
)

// RatedValue is an observed parameter value together with its tier.
type RatedValue struct {
	Value string `json:"value"`
	Tier  Tier   `json:"tier"`
}

// Engine rates parameter values against a set of rule tables.
type Engine struct {
	tables *Tables
}

// NewEngine creates an engine backed by tables.
func NewEngine(tables *Tables) *Engine {
	return &Engine{tables: tables}
}

// Rate returns the first tier, scanning 1 through 4, whose value set contains
// value. "N/A", a missing table, or no match all yield TierUnrated.
func (e *Engine) Rate(p ParameterType, value string) Tier {
	if value == constants.NotApplicable {
		return TierUnrated
	}

	t := e.tables.lookup(p)
	if t == nil {
		return TierUnrated
	}

	for tier := TierSecure; tier <= MaxTier; tier++ {
		if _, ok := t[tier].values[value]; ok {
			return tier
		}
	}
	return TierUnrated
}

// RateKeyLength returns the first tier, scanning 1 through 4, whose rule for
// algorithm holds against keyLen. Unparseable lengths rate as TierUnrated.
func (e *Engine) RateKeyLength(p ParameterType, algorithm, keyLen string) Tier {
	if keyLen == constants.NotApplicable {
		return TierUnrated
	}

	bits, err := strconv.Atoi(keyLen)
	if err != nil {
		return TierUnrated
	}

	t := e.tables.lookup(p)
	if t == nil {
		return TierUnrated
	}

	for tier := TierSecure; tier <= MaxTier; tier++ {
		rule, ok := t[tier].keyLengthRule(algorithm)
		if ok && rule.Matches(algorithm, bits) {
			return tier
		}
	}
	return TierUnrated
}

// RateValue rates value and pairs it with the result.
func (e *Engine) RateValue(p ParameterType, value string) RatedValue {
	return RatedValue{Value: value, Tier: e.Rate(p, value)}
}

// RateCipherSuite splits an IANA cipher suite name into its components and
// rates each of them.
func (e *Engine) RateCipherSuite(name string) map[ParameterType]RatedValue {
	suite := ParseCipherSuite(name)
	return map[ParameterType]RatedValue{
		ParamKeyExchange:    e.RateValue(ParamKeyExchange, suite.KeyExchange),
		ParamAuthentication: e.RateValue(ParamAuthentication, suite.Authentication),
		ParamCipher:         e.RateValue(ParamCipher, suite.Cipher),
		ParamHash:           e.RateValue(ParamHash, suite.Hash),
	}
}
