package models

import "fmt"

const (
	RegionNA = "NA"
	RegionEU = "EU"
)

// UserProfile is the per-user record written by the verification
// collaborator and stamped by tier assignment. Never deleted.
type UserProfile struct {
	UserID            string `json:"user_id"`
	IGN               string `json:"ign"`
	Region            string `json:"region"` // NA or EU
	LastTestTimestamp int64  `json:"last_test_timestamp,omitempty"`
}

// DisplayName returns the in-game name, or a synthesized fallback when the
// profile is missing or was never verified.
func (p *UserProfile) DisplayName() string {
	if p != nil && p.IGN != "" {
		return p.IGN
	}
	if p != nil {
		return fmt.Sprintf("user%s", p.UserID)
	}
	return ""
}

// FallbackName synthesizes a display name for a user without a profile.
func FallbackName(userID string) string {
	return fmt.Sprintf("user%s", userID)
}

// CooldownRemaining returns the number of whole days (rounded up) the user
// must still wait, or 0 if the cooldown has elapsed. The boundary at
// exactly intervalDays admits.
func (p *UserProfile) CooldownRemaining(now int64, intervalDays int) int64 {
	if p == nil || p.LastTestTimestamp == 0 {
		return 0
	}
	interval := int64(intervalDays) * 86400
	if now-p.LastTestTimestamp >= interval {
		return 0
	}
	return (p.LastTestTimestamp+interval-now)/86400 + 1
}
