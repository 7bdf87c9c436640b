package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"github.com/11VZ/AuroraBot/internal/status"
	"github.com/11VZ/AuroraBot/models"
)

// requireAuth returns the caller's record id, or an error response when the
// request carries no auth record.
func requireAuth(e *core.RequestEvent) (string, error) {
	if e.Auth == nil {
		return "", apis.NewUnauthorizedError("Unauthorized", nil)
	}
	return e.Auth.Id, nil
}

// requireTester gates the evaluator-only commands: the auth record must
// carry the tester flag, or be a superuser.
func requireTester(e *core.RequestEvent) (string, error) {
	userID, err := requireAuth(e)
	if err != nil {
		return "", err
	}
	if e.HasSuperuserAuth() || e.Auth.GetBool("tester") {
		return userID, nil
	}
	return "", apis.NewForbiddenError("Tester capability required", nil)
}

// rejection maps a service error to the caller's single response. User
// errors become 400s with the specific reason and are never logged;
// anything else is a fault.
func rejection(err error) error {
	if status.IsUserError(err) {
		return apis.NewBadRequestError(userMessage(err), nil)
	}
	log.Printf("Error handling command: %v", err)
	return apis.NewApiError(http.StatusInternalServerError, "Something went wrong while handling the command.", nil)
}

func userMessage(err error) string {
	var cd *status.CooldownError
	if errors.As(err, &cd) {
		return fmt.Sprintf("You must wait %d more day(s) before you can be tested again.", cd.RemainingDays)
	}

	switch {
	case errors.Is(err, status.ErrQueueAlreadyOpen):
		return "Queue is already open."
	case errors.Is(err, status.ErrQueueAlreadyClosed):
		return "Queue is already closed."
	case errors.Is(err, status.ErrQueueClosed):
		return "Queue is not open."
	case errors.Is(err, status.ErrQueueFull):
		return "Queue is full."
	case errors.Is(err, status.ErrAlreadyQueued):
		return "You are already in the queue."
	case errors.Is(err, status.ErrNotQueued):
		return "You are not in the queue."
	case errors.Is(err, status.ErrInvalidTier):
		return "Invalid tier. Valid tiers: " + strings.Join(models.Tiers, ", ")
	case errors.Is(err, status.ErrInvalidRegion):
		return "Region must be NA or EU."
	case errors.Is(err, status.ErrNoSession):
		return "No ticket is currently open."
	}
	return err.Error()
}
