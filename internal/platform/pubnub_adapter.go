package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/11VZ/AuroraBot/internal/platform/pubnubchat"
	"github.com/11VZ/AuroraBot/models"
	"github.com/11VZ/AuroraBot/utils"
)

// pubnubAdapter renders the queue surface over PubNub channels. The queue
// view and announcements are plain publishes; role mutations are control
// messages applied by the platform-side worker.
type pubnubAdapter struct {
	client *pubnubchat.Client
}

func (a *pubnubAdapter) GetProvider() Provider {
	return ProviderPubNub
}

func (a *pubnubAdapter) RenderQueueView(ctx context.Context, view QueueView) (string, error) {
	return a.client.Publish(ctx, a.client.QueueChannel(), map[string]any{
		"type":           "queue_view",
		"open":           view.Open,
		"capacity":       view.Capacity,
		"members":        view.Members,
		"active_testers": view.ActiveTesters,
		"replaces":       view.RenderRef,
	})
}

func (a *pubnubAdapter) Announce(ctx context.Context, result models.TestResult) error {
	previous := result.PreviousTier
	if previous == "" {
		previous = "N/A"
	}
	_, err := a.client.Publish(ctx, a.client.AnnounceChannel(), map[string]any{
		"type":          "test_result",
		"tester_id":     result.TesterID,
		"testee_id":     result.TesteeID,
		"previous_tier": previous,
		"achieved_tier": result.AchievedTier,
	})
	return err
}

func (a *pubnubAdapter) OpenTicket(ctx context.Context, ticket Ticket) (string, error) {
	code, err := utils.GenerateCode(3)
	if err != nil {
		return "", fmt.Errorf("generate ticket code: %w", err)
	}
	channel := fmt.Sprintf("ticket-%s-%s", strings.ToLower(ticket.TesteeName), code)

	// Restrict channel visibility to the session pair before anything is
	// posted to it.
	if _, err := a.client.Publish(ctx, a.client.ControlChannel(), map[string]any{
		"type":    "ticket_opened",
		"channel": channel,
		"members": []string{ticket.TesterID, ticket.TesteeID},
	}); err != nil {
		return "", err
	}

	previous := ticket.PreviousTier
	if previous == "" {
		previous = "N/A"
	}
	if _, err := a.client.Publish(ctx, channel, map[string]any{
		"type":      "session_opened",
		"tester_id": ticket.TesterID,
		"testee_id": ticket.TesteeID,
		"ign":       ticket.TesteeName,
		"region":    ticket.TesteeRegion,
		"last_tier": previous,
	}); err != nil {
		return "", err
	}

	return channel, nil
}

func (a *pubnubAdapter) CloseTicket(ctx context.Context, handle string) error {
	if _, err := a.client.Publish(ctx, handle, map[string]any{
		"type": "session_closed",
	}); err != nil {
		return err
	}
	_, err := a.client.Publish(ctx, a.client.ControlChannel(), map[string]any{
		"type":    "ticket_closed",
		"channel": handle,
	})
	return err
}

func (a *pubnubAdapter) GrantRole(ctx context.Context, userID, roleID string) error {
	_, err := a.client.Publish(ctx, a.client.ControlChannel(), map[string]any{
		"type":    "role_grant",
		"user_id": userID,
		"role_id": roleID,
	})
	return err
}

func (a *pubnubAdapter) RevokeRole(ctx context.Context, userID, roleID string) error {
	_, err := a.client.Publish(ctx, a.client.ControlChannel(), map[string]any{
		"type":    "role_revoke",
		"user_id": userID,
		"role_id": roleID,
	})
	return err
}

func (a *pubnubAdapter) Close(ctx context.Context) error {
	a.client.Destroy()
	return nil
}
