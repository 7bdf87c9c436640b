package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/11VZ/AuroraBot/services"
)

type AdminHandler struct {
	app          *pocketbase.PocketBase
	queueService *services.QueueService
}

func NewAdminHandler(app *pocketbase.PocketBase, queueService *services.QueueService) *AdminHandler {
	return &AdminHandler{
		app:          app,
		queueService: queueService,
	}
}

// GetQueueDetails - full queue state for the operator dashboard
func (h *AdminHandler) GetQueueDetails(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() {
		return apis.NewUnauthorizedError("Admin access required", nil)
	}

	snapshot := h.queueService.Snapshot()

	details := map[string]any{
		"open":             snapshot.Open,
		"members":          snapshot.Members,
		"active_testers":   snapshot.ActiveTesters,
		"current_testee":   snapshot.CurrentTestee,
		"previous_tier":    snapshot.PreviousTier,
		"last_testee":      snapshot.LastTestee,
		"awaiting_advance": snapshot.AwaitingAdvance,
		"render_ref":       snapshot.RenderRef,
		"capacity":         h.queueService.Capacity(),
	}

	if session := h.queueService.CurrentSession(); session != nil {
		details["session"] = map[string]any{
			"tester_id": session.TesterID,
			"testee_id": session.TesteeID,
			"channel":   session.ChannelHandle,
			"opened_at": session.OpenedAt,
		}
	}

	return e.JSON(http.StatusOK, details)
}

// RemoveFromQueue - force-remove a user from the queue
func (h *AdminHandler) RemoveFromQueue(e *core.RequestEvent) error {
	if !e.HasSuperuserAuth() {
		return apis.NewUnauthorizedError("Admin access required", nil)
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.UserID == "" {
		return apis.NewBadRequestError("User ID required", nil)
	}

	if err := h.queueService.ForceRemove(e.Request.Context(), req.UserID); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "User removed from queue",
		"user_id": req.UserID,
	})
}
