package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"github.com/11VZ/AuroraBot/services"
)

type QueueHandler struct {
	app          *pocketbase.PocketBase
	queueService *services.QueueService
}

func NewQueueHandler(app *pocketbase.PocketBase, queueService *services.QueueService) *QueueHandler {
	return &QueueHandler{
		app:          app,
		queueService: queueService,
	}
}

// OpenQueue opens the queue and registers the caller as an active tester.
func (h *QueueHandler) OpenQueue(e *core.RequestEvent) error {
	testerID, err := requireTester(e)
	if err != nil {
		return err
	}

	if err := h.queueService.Open(e.Request.Context(), testerID); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "Queue opened!",
	})
}

// JoinQueue appends the caller to the queue tail.
func (h *QueueHandler) JoinQueue(e *core.RequestEvent) error {
	userID, err := requireAuth(e)
	if err != nil {
		return err
	}

	if err := h.queueService.Join(e.Request.Context(), userID); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "You have joined the queue.",
		"user_id": userID,
	})
}

// LeaveQueue removes the caller from the queue.
func (h *QueueHandler) LeaveQueue(e *core.RequestEvent) error {
	userID, err := requireAuth(e)
	if err != nil {
		return err
	}

	if err := h.queueService.Leave(e.Request.Context(), userID); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "You have left the queue.",
	})
}

// CloseQueue retires the caller from the active tester set; the queue
// fully closes when no active testers remain.
func (h *QueueHandler) CloseQueue(e *core.RequestEvent) error {
	testerID, err := requireTester(e)
	if err != nil {
		return err
	}

	fullyClosed, err := h.queueService.Close(e.Request.Context(), testerID)
	if err != nil {
		return rejection(err)
	}

	message := "You are no longer an active tester. Queue remains open for others."
	if fullyClosed {
		message = "Queue closed and cleared (no more active testers)."
	}
	return e.JSON(http.StatusOK, map[string]any{
		"message": message,
		"closed":  fullyClosed,
	})
}

// GetQueueStatus returns the current queue snapshot. Open to any verified
// user.
func (h *QueueHandler) GetQueueStatus(e *core.RequestEvent) error {
	if _, err := requireAuth(e); err != nil {
		return err
	}

	snapshot := h.queueService.Snapshot()
	return e.JSON(http.StatusOK, map[string]any{
		"open":             snapshot.Open,
		"members":          snapshot.Members,
		"active_testers":   snapshot.ActiveTesters,
		"current_testee":   snapshot.CurrentTestee,
		"awaiting_advance": snapshot.AwaitingAdvance,
		"capacity":         h.queueService.Capacity(),
	})
}

// GetQueuePosition returns the caller's cached queue position, or -1 when
// the cache has no entry for them.
func (h *QueueHandler) GetQueuePosition(e *core.RequestEvent) error {
	userID, err := requireAuth(e)
	if err != nil {
		return err
	}

	posKey := fmt.Sprintf("queue:position:%s", userID)
	position, err := h.queueService.Redis.Get(e.Request.Context(), posKey).Int()
	if err != nil {
		position = -1
	}

	return e.JSON(http.StatusOK, map[string]any{
		"position": position,
	})
}
