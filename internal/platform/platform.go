package platform

import (
	"context"

	"github.com/11VZ/AuroraBot/models"
)

// Provider represents a chat platform backend
type Provider string

const (
	ProviderPubNub Provider = "pubnub"
	ProviderLog    Provider = "log"
)

// QueueView is the rendered queue surface. RenderRef carries the reference
// of a previously rendered view so a provider can edit in place; providers
// that cannot re-attach publish a fresh view and return a new reference.
type QueueView struct {
	Open          bool     `json:"open"`
	Capacity      int      `json:"capacity"`
	Members       []string `json:"members"`
	ActiveTesters []string `json:"active_testers"`
	RenderRef     string   `json:"render_ref,omitempty"`
}

// Ticket describes the private evaluation channel to create. PreviousTier
// is already resolved under the carry-over rule; empty means "N/A".
type Ticket struct {
	TesterID     string `json:"tester_id"`
	TesteeID     string `json:"testee_id"`
	TesteeName   string `json:"testee_name"`
	TesteeRegion string `json:"testee_region,omitempty"`
	PreviousTier string `json:"previous_tier,omitempty"`
}

// Platform is the chat-platform collaborator. Every call is a side effect
// outside the authoritative state transition: callers log failures and
// carry on.
type Platform interface {
	// GetProvider returns the platform provider type
	GetProvider() Provider

	// RenderQueueView publishes (or re-publishes) the canonical queue view
	// and returns the reference of the rendered view.
	RenderQueueView(ctx context.Context, view QueueView) (string, error)

	// Announce publishes a test result to the announcement channel.
	Announce(ctx context.Context, result models.TestResult) error

	// OpenTicket creates the private evaluation channel and posts the
	// introductory message. Returns an opaque channel handle.
	OpenTicket(ctx context.Context, ticket Ticket) (string, error)

	// CloseTicket tears down a channel previously returned by OpenTicket.
	CloseTicket(ctx context.Context, handle string) error

	// GrantRole / RevokeRole mutate a user's platform roles. Both are
	// idempotent: revoking a role the user does not hold is not an error.
	GrantRole(ctx context.Context, userID, roleID string) error
	RevokeRole(ctx context.Context, userID, roleID string) error

	// Close gracefully closes any connections.
	Close(ctx context.Context) error
}
