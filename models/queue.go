package models

import (
	"time"
)

// QueueSnapshot is the engine's authoritative state. The engine hands out
// copies only; a snapshot is also what gets persisted on every mutation.
type QueueSnapshot struct {
	Open          bool     `json:"open"`
	Members       []string `json:"members"` // FIFO, head first, no duplicates
	ActiveTesters []string `json:"active_testers"`
	CurrentTestee string   `json:"current_testee,omitempty"`
	PreviousTier  string   `json:"previous_tier,omitempty"`
	LastTestee    string   `json:"last_testee,omitempty"`
	RenderRef     string   `json:"render_ref,omitempty"`

	// AwaitingAdvance is set when a ticket was closed with a tier assigned
	// but the queue was not advanced: CurrentTestee still names the
	// just-tested user and no session is open.
	AwaitingAdvance bool `json:"awaiting_advance,omitempty"`
}

// Clone returns a deep copy so callers can mutate freely.
func (s QueueSnapshot) Clone() QueueSnapshot {
	out := s
	out.Members = append([]string(nil), s.Members...)
	out.ActiveTesters = append([]string(nil), s.ActiveTesters...)
	return out
}

// HasMember reports whether userID is waiting in the queue.
func (s QueueSnapshot) HasMember(userID string) bool {
	for _, id := range s.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// HasTester reports whether userID is an active tester.
func (s QueueSnapshot) HasTester(userID string) bool {
	for _, id := range s.ActiveTesters {
		if id == userID {
			return true
		}
	}
	return false
}

// Session is the single live evaluation ticket. It is never persisted; a
// restart loses any open session.
type Session struct {
	TesterID      string    `json:"tester_id"`
	TesteeID      string    `json:"testee_id"`
	ChannelHandle string    `json:"channel_handle"`
	OpenedAt      time.Time `json:"opened_at"`
}
