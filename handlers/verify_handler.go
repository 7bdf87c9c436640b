package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"

	"github.com/11VZ/AuroraBot/services"
)

// VerifyHandler receives "identity confirmed" webhooks from the
// verification collaborator. Requests are authenticated with a shared
// secret checked against a bcrypt hash, so the secret itself never sits in
// the bot's configuration.
type VerifyHandler struct {
	app           *pocketbase.PocketBase
	verifyService *services.VerifyService
	secretHash    string
}

func NewVerifyHandler(app *pocketbase.PocketBase, verifyService *services.VerifyService, secretHash string) *VerifyHandler {
	return &VerifyHandler{
		app:           app,
		verifyService: verifyService,
		secretHash:    secretHash,
	}
}

// ConfirmVerification records a confirmed identity: {user_id, ign, region}.
func (h *VerifyHandler) ConfirmVerification(e *core.RequestEvent) error {
	if h.secretHash == "" {
		return apis.NewForbiddenError("Verification webhook is not configured", nil)
	}
	secret := e.Request.Header.Get("X-Verify-Secret")
	if err := bcrypt.CompareHashAndPassword([]byte(h.secretHash), []byte(secret)); err != nil {
		return apis.NewUnauthorizedError("Invalid webhook secret", nil)
	}

	var req struct {
		UserID string `json:"user_id"`
		IGN    string `json:"ign"`
		Region string `json:"region"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.UserID == "" || req.IGN == "" {
		return apis.NewBadRequestError("user_id and ign are required", nil)
	}

	region := strings.ToUpper(req.Region)
	if err := h.verifyService.RecordVerification(e.Request.Context(), req.UserID, req.IGN, region); err != nil {
		return rejection(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"message": "User verified and given access to the queue.",
		"user_id": req.UserID,
		"ign":     req.IGN,
		"region":  region,
	})
}
