package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/11VZ/AuroraBot/internal/platform"
	"github.com/11VZ/AuroraBot/models"
	"github.com/11VZ/AuroraBot/monitoring"
)

// SessionService owns the single live evaluation ticket. Sessions are
// ephemeral: they are never persisted, and a restart simply loses any open
// one.
type SessionService struct {
	store    Store
	platform platform.Platform
	monitor  *monitoring.Monitor

	mu      sync.Mutex
	current *models.Session
}

func NewSessionService(store Store, pf platform.Platform, monitor *monitoring.Monitor) *SessionService {
	return &SessionService{
		store:    store,
		platform: pf,
		monitor:  monitor,
	}
}

// Open creates the private ticket channel for the tester/testee pair and
// records it as the current session. priorTier must already be resolved
// under the carry-over rule; empty renders as "N/A". The channel creation
// itself is best-effort: a platform failure leaves a session without an
// external channel, not a failed hand-off.
func (s *SessionService) Open(ctx context.Context, testerID, testeeID, priorTier string) *models.Session {
	name := models.FallbackName(testeeID)
	region := ""
	if profile, err := s.store.GetUserProfile(ctx, testeeID); err != nil {
		log.Printf("Error loading testee profile %s: %v", testeeID, err)
	} else if profile != nil {
		name = profile.DisplayName()
		region = profile.Region
	}

	handle, err := s.platform.OpenTicket(ctx, platform.Ticket{
		TesterID:     testerID,
		TesteeID:     testeeID,
		TesteeName:   name,
		TesteeRegion: region,
		PreviousTier: priorTier,
	})
	if err != nil {
		log.Printf("Error opening ticket channel for %s: %v", testeeID, err)
		s.monitor.TrackPlatformError("open_ticket")
		handle = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &models.Session{
		TesterID:      testerID,
		TesteeID:      testeeID,
		ChannelHandle: handle,
		OpenedAt:      time.Now(),
	}
	return s.snapshotLocked()
}

// Close tears down the current session, if any. Idempotent.
func (s *SessionService) Close(ctx context.Context) {
	s.mu.Lock()
	session := s.current
	s.current = nil
	s.mu.Unlock()

	if session == nil {
		return
	}

	s.monitor.TrackSessionDuration(time.Since(session.OpenedAt))

	if session.ChannelHandle == "" {
		return
	}
	if err := s.platform.CloseTicket(ctx, session.ChannelHandle); err != nil {
		log.Printf("Error closing ticket channel %s: %v", session.ChannelHandle, err)
		s.monitor.TrackPlatformError("close_ticket")
	}
}

// Current returns a copy of the live session, or nil.
func (s *SessionService) Current() *models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() *models.Session {
	if s.current == nil {
		return nil
	}
	copy := *s.current
	return &copy
}
