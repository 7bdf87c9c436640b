package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/11VZ/AuroraBot/internal/platform/logchat"
	"github.com/11VZ/AuroraBot/models"
	"github.com/11VZ/AuroraBot/utils"
)

// logAdapter satisfies Platform for development deployments with no chat
// platform attached.
type logAdapter struct {
	client *logchat.Client
}

func (a *logAdapter) GetProvider() Provider {
	return ProviderLog
}

func (a *logAdapter) RenderQueueView(ctx context.Context, view QueueView) (string, error) {
	return a.client.Emit("queue_view", map[string]any{
		"channel":        a.client.QueueChannel(),
		"open":           view.Open,
		"members":        view.Members,
		"active_testers": view.ActiveTesters,
	}), nil
}

func (a *logAdapter) Announce(ctx context.Context, result models.TestResult) error {
	a.client.Emit("test_result", map[string]any{
		"tester_id":     result.TesterID,
		"testee_id":     result.TesteeID,
		"previous_tier": result.PreviousTier,
		"achieved_tier": result.AchievedTier,
	})
	return nil
}

func (a *logAdapter) OpenTicket(ctx context.Context, ticket Ticket) (string, error) {
	code, err := utils.GenerateCode(3)
	if err != nil {
		return "", fmt.Errorf("generate ticket code: %w", err)
	}
	channel := fmt.Sprintf("ticket-%s-%s", strings.ToLower(ticket.TesteeName), code)
	a.client.Emit("ticket_opened", map[string]any{
		"channel":   channel,
		"tester_id": ticket.TesterID,
		"testee_id": ticket.TesteeID,
		"last_tier": ticket.PreviousTier,
	})
	return channel, nil
}

func (a *logAdapter) CloseTicket(ctx context.Context, handle string) error {
	a.client.Emit("ticket_closed", map[string]any{"channel": handle})
	return nil
}

func (a *logAdapter) GrantRole(ctx context.Context, userID, roleID string) error {
	a.client.Emit("role_grant", map[string]any{"user_id": userID, "role_id": roleID})
	return nil
}

func (a *logAdapter) RevokeRole(ctx context.Context, userID, roleID string) error {
	a.client.Emit("role_revoke", map[string]any{"user_id": userID, "role_id": roleID})
	return nil
}

func (a *logAdapter) Close(ctx context.Context) error {
	return nil
}
