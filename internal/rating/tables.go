package rating

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

//go:embed data/security_levels.json
var defaultTablesJSON []byte

// Operator compares an observed key length against a threshold.
type Operator string

const (
	OpGreaterOrEqual Operator = ">="
	OpGreater        Operator = ">"
	OpLessOrEqual    Operator = "<="
	OpLess           Operator = "<"
	OpEqual          Operator = "=="
)

// operatorSpellings is checked in order so two-character forms win over
// their one-character prefixes. ">>" and "<<" are legacy spellings.
var operatorSpellings = []struct {
	text string
	op   Operator
}{
	{">=", OpGreaterOrEqual},
	{"<=", OpLessOrEqual},
	{"==", OpEqual},
	{">>", OpGreater},
	{"<<", OpLess},
	{">", OpGreater},
	{"<", OpLess},
}

// Holds applies the operator to value and threshold.
func (o Operator) Holds(value, threshold int) bool {
	switch o {
	case OpGreaterOrEqual:
		return value >= threshold
	case OpGreater:
		return value > threshold
	case OpLessOrEqual:
		return value <= threshold
	case OpLess:
		return value < threshold
	case OpEqual:
		return value == threshold
	}
	return false
}

// KeyLengthRule pairs an algorithm label with the condition its key length must meet.
type KeyLengthRule struct {
	Algorithm string
	Op        Operator
	Threshold int
}

// Matches reports whether the rule applies to algorithm and holds for bits.
func (r KeyLengthRule) Matches(algorithm string, bits int) bool {
	return r.Algorithm == algorithm && r.Op.Holds(bits, r.Threshold)
}

type tierRules struct {
	values     map[string]struct{}
	keyLengths []KeyLengthRule
}

// keyLengthRule returns the first rule declared for algorithm in this tier.
func (t tierRules) keyLengthRule(algorithm string) (KeyLengthRule, bool) {
	for _, rule := range t.keyLengths {
		if rule.Algorithm == algorithm {
			return rule, true
		}
	}
	return KeyLengthRule{}, false
}

type table [MaxTier + 1]tierRules

// Tables holds the parsed rule tables, one per parameter type.
// A Tables value is never modified after it is loaded.
type Tables struct {
	tables map[ParameterType]*table
}

// LoadTables parses a rules document of the form
// {"KEY_EXCHANGE": {"1": "ECDHE,DHE", ...}, "PUBLIC_KEY_LENGTH": {"1": "RSA,>=3072", ...}}.
func LoadTables(r io.Reader) (*Tables, error) {
	var raw map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode rating tables: %v", sharedErrors.ErrInvalidRule, err)
	}

	tables := &Tables{tables: make(map[ParameterType]*table, len(raw))}
	for name, tiers := range raw {
		p, ok := ParseParameterType(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown parameter type %q", sharedErrors.ErrInvalidRule, name)
		}

		t := &table{}
		for key, rule := range tiers {
			idx, err := strconv.Atoi(key)
			if err != nil || idx < int(TierSecure) || idx > int(MaxTier) {
				return nil, fmt.Errorf("%w: %s: tier %q out of range", sharedErrors.ErrInvalidRule, name, key)
			}

			if p.Numeric() {
				rules, err := parseKeyLengthRules(rule)
				if err != nil {
					return nil, fmt.Errorf("%s tier %s: %w", name, key, err)
				}
				t[idx].keyLengths = rules
			} else {
				t[idx].values = parseValues(rule)
			}
		}
		tables.tables[p] = t
	}

	return tables, nil
}

// LoadTablesFile reads rule tables from path.
func LoadTablesFile(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rating tables: %w", err)
	}
	defer f.Close()
	return LoadTables(f)
}

var (
	defaultTablesOnce sync.Once
	defaultTables     *Tables
	defaultTablesErr  error
)

// DefaultTables returns the embedded rule tables, parsed once per process.
func DefaultTables() (*Tables, error) {
	defaultTablesOnce.Do(func() {
		defaultTables, defaultTablesErr = LoadTables(bytes.NewReader(defaultTablesJSON))
	})
	return defaultTables, defaultTablesErr
}

// Has reports whether a table exists for p.
func (t *Tables) Has(p ParameterType) bool {
	if t == nil {
		return false
	}
	_, ok := t.tables[p]
	return ok
}

func (t *Tables) lookup(p ParameterType) *table {
	if t == nil {
		return nil
	}
	return t.tables[p]
}

func parseValues(rule string) map[string]struct{} {
	values := make(map[string]struct{})
	for _, item := range strings.Split(rule, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		values[item] = struct{}{}
	}
	return values
}

// parseKeyLengthRules reads an alternating "ALG,<op><threshold>,ALG,..." list.
func parseKeyLengthRules(rule string) ([]KeyLengthRule, error) {
	items := make([]string, 0)
	for _, item := range strings.Split(rule, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	if len(items)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has an algorithm without a condition", sharedErrors.ErrInvalidRule, rule)
	}

	rules := make([]KeyLengthRule, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		op, threshold, err := parseCondition(items[i+1])
		if err != nil {
			return nil, err
		}
		rules = append(rules, KeyLengthRule{
			Algorithm: items[i],
			Op:        op,
			Threshold: threshold,
		})
	}
	return rules, nil
}

func parseCondition(cond string) (Operator, int, error) {
	for _, spelling := range operatorSpellings {
		if !strings.HasPrefix(cond, spelling.text) {
			continue
		}
		threshold, err := strconv.Atoi(strings.TrimPrefix(cond, spelling.text))
		if err != nil {
			return "", 0, fmt.Errorf("%w: bad threshold in %q", sharedErrors.ErrInvalidRule, cond)
		}
		return spelling.op, threshold, nil
	}
	return "", 0, fmt.Errorf("%w: unknown operator in %q", sharedErrors.ErrInvalidRule, cond)
}
