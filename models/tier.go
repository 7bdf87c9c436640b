package models

// Tiers is the fixed ordered label set, lowest to highest. Every label maps
// to exactly one platform role; a user holds at most one tier role at a
// time.
var Tiers = []string{"LT5", "HT5", "LT4", "HT4", "LT3", "HT3", "LT2", "HT2", "LT1", "HT1"}

// ValidTier reports whether label is one of the fixed tier labels.
func ValidTier(label string) bool {
	for _, t := range Tiers {
		if t == label {
			return true
		}
	}
	return false
}

// TestResult is published to the announcement channel when a tier is
// assigned. PreviousTier is empty unless the carry-over rule applies.
type TestResult struct {
	TesterID     string `json:"tester_id"`
	TesteeID     string `json:"testee_id"`
	PreviousTier string `json:"previous_tier,omitempty"`
	AchievedTier string `json:"achieved_tier"`
}
