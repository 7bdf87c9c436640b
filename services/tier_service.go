package services

import (
	"context"
	"fmt"
	"log"

	"github.com/11VZ/AuroraBot/internal/status"
	"github.com/11VZ/AuroraBot/models"
)

// AssignTier records the evaluation outcome for the current testee:
// announces the result, moves the testee's tier role, stamps the cooldown
// and closes the ticket. With advance=true the queue moves on immediately;
// otherwise the testee stays in the current slot awaiting a manual
// advance or skip.
//
// The cooldown stamp and the snapshot write are the authoritative
// transition; announcement and role mutations are best-effort platform
// effects that run after the commit and never abort it.
func (s *QueueService) AssignTier(ctx context.Context, testerID, tier string, advance bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !models.ValidTier(tier) {
		return status.ErrInvalidTier
	}

	testee := s.state.CurrentTestee

	// Carry-over rule: the stored previous tier belongs to the testee of
	// the immediately preceding assignment only.
	prior := ""
	if testee != "" && testee == s.state.LastTestee {
		prior = s.state.PreviousTier
	}

	if testee != "" {
		if err := s.store.SetLastTest(ctx, testee, s.now().Unix()); err != nil {
			s.monitor.TrackQueueOperation("assign_tier", "persist_error")
			return fmt.Errorf("stamp cooldown: %w", err)
		}
	}

	next := s.state.Clone()
	next.PreviousTier = tier
	next.LastTestee = testee
	next.AwaitingAdvance = testee != "" && !advance
	if err := s.commitLocked(ctx, next, "assign_tier"); err != nil {
		return err
	}

	if testee != "" {
		s.announceResult(ctx, models.TestResult{
			TesterID:     testerID,
			TesteeID:     testee,
			PreviousTier: prior,
			AchievedTier: tier,
		})
		s.applyTierRoles(ctx, testee, tier)
	}

	s.sessions.Close(ctx)

	if advance {
		return s.advanceLocked(ctx, testerID)
	}
	return nil
}

func (s *QueueService) announceResult(ctx context.Context, result models.TestResult) {
	err := s.breaker.Execute(ctx, func() error {
		return s.platform.Announce(ctx, result)
	})
	if err != nil {
		log.Printf("Error announcing test result for %s: %v", result.TesteeID, err)
		s.monitor.TrackPlatformError("announce")
	}
}

// applyTierRoles moves the testee onto the achieved tier's role. Revokes
// are idempotent, so dropping every mapped tier role keeps the one-tier
// invariant without knowing which one the user held. The waitlist role is
// retired along with it.
func (s *QueueService) applyTierRoles(ctx context.Context, testeeID, tier string) {
	for _, label := range models.Tiers {
		roleID, ok := s.config.TierRoles[label]
		if !ok {
			continue
		}
		s.revokeRole(ctx, testeeID, roleID)
	}

	if roleID, ok := s.config.TierRoles[tier]; ok {
		err := s.breaker.Execute(ctx, func() error {
			return s.platform.GrantRole(ctx, testeeID, roleID)
		})
		if err != nil {
			log.Printf("Error granting tier role %s to %s: %v", tier, testeeID, err)
			s.monitor.TrackPlatformError("role_grant")
		}
	}

	if s.config.WaitlistRoleID != "" {
		s.revokeRole(ctx, testeeID, s.config.WaitlistRoleID)
	}
}

func (s *QueueService) revokeRole(ctx context.Context, userID, roleID string) {
	err := s.breaker.Execute(ctx, func() error {
		return s.platform.RevokeRole(ctx, userID, roleID)
	})
	if err != nil {
		log.Printf("Error revoking role %s from %s: %v", roleID, userID, err)
		s.monitor.TrackPlatformError("role_revoke")
	}
}
