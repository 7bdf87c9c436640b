package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/11VZ/AuroraBot/config"
	"github.com/11VZ/AuroraBot/internal/platform"
	"github.com/11VZ/AuroraBot/internal/status"
	"github.com/11VZ/AuroraBot/models"
	"github.com/11VZ/AuroraBot/monitoring"
)

// VerifyService consumes "identity confirmed" events from the verification
// collaborator: it records the confirmed attributes and hands out the
// waitlist and queue-access roles. The verification UI itself lives
// outside this system.
type VerifyService struct {
	store    Store
	platform platform.Platform
	monitor  *monitoring.Monitor
	config   *config.Config

	now func() time.Time
}

func NewVerifyService(store Store, pf platform.Platform, monitor *monitoring.Monitor, cfg *config.Config) *VerifyService {
	return &VerifyService{
		store:    store,
		platform: pf,
		monitor:  monitor,
		config:   cfg,
		now:      time.Now,
	}
}

// RecordVerification persists the confirmed {handle, region} attributes.
// The cooldown is keyed on the in-game name so a fresh platform account
// cannot dodge it. Role grants are best-effort platform effects.
func (s *VerifyService) RecordVerification(ctx context.Context, userID, ign, region string) error {
	if region != models.RegionNA && region != models.RegionEU {
		return fmt.Errorf("%w: region must be NA or EU", status.ErrInvalidRegion)
	}

	existing, err := s.store.GetUserProfileByIGN(ctx, ign)
	if err != nil {
		return fmt.Errorf("check verification cooldown: %w", err)
	}
	if remaining := existing.CooldownRemaining(s.now().Unix(), s.config.TestIntervalDays); remaining > 0 {
		return &status.CooldownError{RemainingDays: remaining}
	}

	if err := s.store.SaveUserProfile(ctx, &models.UserProfile{
		UserID: userID,
		IGN:    ign,
		Region: region,
	}); err != nil {
		return err
	}
	s.monitor.TrackQueueOperation("verify", "success")

	for _, roleID := range []string{s.config.QueueAccessRoleID, s.config.WaitlistRoleID} {
		if roleID == "" {
			continue
		}
		if err := s.platform.GrantRole(ctx, userID, roleID); err != nil {
			log.Printf("Error granting role %s to %s: %v", roleID, userID, err)
			s.monitor.TrackPlatformError("role_grant")
		}
	}

	return nil
}
