package models

import "strings"

// RiskProfile is one of the fixed client-risk categories that drive fund recommendations.
type RiskProfile string

const (
	Conservative RiskProfile = "Conservative"
	Moderate     RiskProfile = "Moderate"
	Aggressive   RiskProfile = "Aggressive"
)

// RiskProfiles lists every valid profile in display order.
var RiskProfiles = []RiskProfile{Conservative, Moderate, Aggressive}

// ParseRiskProfile matches s against the profile literals. Matching is
// case-sensitive; the empty string means "no selection" and never matches.
func ParseRiskProfile(s string) (RiskProfile, bool) {
	for _, p := range RiskProfiles {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (p RiskProfile) String() string {
	return string(p)
}

// FundSeparator joins fund names in the persisted "Recommended Funds" column.
const FundSeparator = ", "

// FundList is an ordered list of fund names; the first entry is the most suggested.
type FundList []string

// Joined returns the funds concatenated with FundSeparator.
func (f FundList) Joined() string {
	return strings.Join(f, FundSeparator)
}

// Clone returns an independent copy of the list.
func (f FundList) Clone() FundList {
	out := make(FundList, len(f))
	copy(out, f)
	return out
}
