package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/11VZ/AuroraBot/services"
)

type SessionHandler struct {
	app          *pocketbase.PocketBase
	queueService *services.QueueService
}

func NewSessionHandler(app *pocketbase.PocketBase, queueService *services.QueueService) *SessionHandler {
	return &SessionHandler{
		app:          app,
		queueService: queueService,
	}
}

type tierRequest struct {
	Tier string `json:"tier"`
}

// NextTestee assigns a tier to the current testee and advances the queue:
// the next waiting user gets a fresh ticket.
func (h *SessionHandler) NextTestee(e *core.RequestEvent) error {
	testerID, err := requireTester(e)
	if err != nil {
		return err
	}

	var req tierRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.queueService.AssignTier(e.Request.Context(), testerID, req.Tier, true); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Tier %s assigned. Advanced to next.", req.Tier),
	})
}

// AssignTier assigns a tier and closes the ticket without advancing; the
// testee keeps the current slot until a later next/skip.
func (h *SessionHandler) AssignTier(e *core.RequestEvent) error {
	testerID, err := requireTester(e)
	if err != nil {
		return err
	}

	var req tierRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.queueService.AssignTier(e.Request.Context(), testerID, req.Tier, false); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Tier %s assigned. Ticket closed.", req.Tier),
	})
}

// SkipTestee discards the current ticket without recording a tier and
// moves to the next user in the queue.
func (h *SessionHandler) SkipTestee(e *core.RequestEvent) error {
	testerID, err := requireTester(e)
	if err != nil {
		return err
	}

	if err := h.queueService.Skip(e.Request.Context(), testerID); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Skipped to next in queue.",
	})
}

// GetCurrentSession reports the live ticket, if any.
func (h *SessionHandler) GetCurrentSession(e *core.RequestEvent) error {
	if _, err := requireTester(e); err != nil {
		return err
	}

	session := h.queueService.CurrentSession()
	if session == nil {
		return e.JSON(http.StatusOK, map[string]any{
			"open":    false,
			"message": "No ticket is currently open.",
		})
	}

	return e.JSON(http.StatusOK, map[string]any{
		"open":      true,
		"tester_id": session.TesterID,
		"testee_id": session.TesteeID,
		"channel":   session.ChannelHandle,
		"opened_at": session.OpenedAt,
	})
}
