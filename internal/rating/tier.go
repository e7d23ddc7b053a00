package rating

import "fmt"

// Tier is a severity rating. Higher values are worse.
type Tier int

const (
	TierUnrated        Tier = 0
	TierSecure         Tier = 1
	TierNotRecommended Tier = 2
	TierWeak           Tier = 3
	TierForbidden      Tier = 4
)

// MaxTier is the highest tier a rule table may define.
const MaxTier = TierForbidden

var tierNames = map[Tier]string{
	TierUnrated:        "unrated/error",
	TierSecure:         "secure",
	TierNotRecommended: "not recommended",
	TierWeak:           "legacy use/weak",
	TierForbidden:      "forbidden",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Valid reports whether t is within 0..MaxTier.
func (t Tier) Valid() bool {
	return t >= TierUnrated && t <= MaxTier
}

// Worst returns the higher of the two tiers.
func Worst(a, b Tier) Tier {
	if b > a {
		return b
	}
	return a
}
