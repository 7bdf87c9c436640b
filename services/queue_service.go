package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/11VZ/AuroraBot/config"
	"github.com/11VZ/AuroraBot/internal/platform"
	"github.com/11VZ/AuroraBot/internal/status"
	"github.com/11VZ/AuroraBot/models"
	"github.com/11VZ/AuroraBot/monitoring"
	"github.com/11VZ/AuroraBot/utils"
)

// positionTTL bounds how stale the per-user position cache may get; every
// committed mutation refreshes it.
const positionTTL = 30 * time.Second

// QueueService is the queue engine: the single owner of the queue
// aggregate. Every mutating operation holds mu across its whole
// read-modify-persist sequence, so check-then-act races between concurrent
// commands cannot admit past capacity or double-pop the head.
//
// Mutations work on a copy of the snapshot and only swap it in after the
// store write succeeds; a persist failure leaves memory and store agreeing
// on the old state. Rendering, the position cache and metrics run after
// the commit and are best-effort.
type QueueService struct {
	store    Store
	platform platform.Platform
	sessions *SessionService
	monitor  *monitoring.Monitor
	Redis    *redis.Client
	config   *config.Config
	breaker  *utils.CircuitBreaker

	now func() time.Time

	mu    sync.Mutex
	state models.QueueSnapshot
}

func NewQueueService(store Store, pf platform.Platform, sessions *SessionService, monitor *monitoring.Monitor, redisClient *redis.Client, cfg *config.Config) *QueueService {
	return &QueueService{
		store:    store,
		platform: pf,
		sessions: sessions,
		monitor:  monitor,
		Redis:    redisClient,
		config:   cfg,
		breaker:  utils.NewCircuitBreaker("platform"),
		now:      time.Now,
	}
}

// Restore loads the persisted snapshot on startup and re-renders the queue
// view. A previously open session is gone; the stored current testee is
// kept as-is until the next advance resolves it.
func (s *QueueService) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("restore queue state: %w", err)
	}
	if snapshot == nil {
		// First boot: persist the empty closed queue.
		return s.commitLocked(ctx, models.QueueSnapshot{}, "restore")
	}

	s.state = *snapshot
	log.Printf("Restored queue state: open=%v members=%d testers=%d", s.state.Open, len(s.state.Members), len(s.state.ActiveTesters))
	s.monitor.TrackQueueState(s.state.Open, len(s.state.Members), len(s.state.ActiveTesters))
	s.renderLocked(ctx)
	return nil
}

// Open opens the queue and marks testerID as an active tester. On an
// already-open queue a new tester joins the active set instead; only a
// tester who is already active gets the rejection.
func (s *QueueService) Open(ctx context.Context, testerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Open && s.state.HasTester(testerID) {
		return status.ErrQueueAlreadyOpen
	}

	next := s.state.Clone()
	next.Open = true
	next.ActiveTesters = append(next.ActiveTesters, testerID)
	return s.commitLocked(ctx, next, "open")
}

// Join appends userID to the queue tail. Cooldown is checked before any
// queue-state rule, matching the command's rejection precedence.
func (s *QueueService) Join(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("check cooldown: %w", err)
	}
	if remaining := profile.CooldownRemaining(s.now().Unix(), s.config.TestIntervalDays); remaining > 0 {
		return &status.CooldownError{RemainingDays: remaining}
	}

	if !s.state.Open {
		return status.ErrQueueClosed
	}
	if s.state.HasMember(userID) {
		return status.ErrAlreadyQueued
	}
	if len(s.state.Members) >= s.config.QueueMax {
		return status.ErrQueueFull
	}

	next := s.state.Clone()
	next.Members = append(next.Members, userID)
	return s.commitLocked(ctx, next, "join")
}

// Leave removes userID from the queue, preserving the order of the rest.
func (s *QueueService) Leave(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeMemberLocked(ctx, userID, "leave"); err != nil {
		return err
	}
	s.dropPositionCache(ctx, userID)
	return nil
}

// ForceRemove drops a user from the queue on behalf of an operator.
func (s *QueueService) ForceRemove(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.removeMemberLocked(ctx, userID, "force_remove"); err != nil {
		return err
	}
	s.dropPositionCache(ctx, userID)
	return nil
}

func (s *QueueService) removeMemberLocked(ctx context.Context, userID, op string) error {
	if !s.state.HasMember(userID) {
		return status.ErrNotQueued
	}

	next := s.state.Clone()
	members := next.Members[:0]
	for _, id := range next.Members {
		if id != userID {
			members = append(members, id)
		}
	}
	next.Members = members
	return s.commitLocked(ctx, next, op)
}

// Close retires testerID from the active tester set. When the last active
// tester leaves, the queue fully closes: members are cleared and any open
// session is discarded without a tier assignment. The returned flag
// reports which branch happened (true = full closure).
func (s *QueueService) Close(ctx context.Context, testerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Open {
		return false, status.ErrQueueAlreadyClosed
	}

	next := s.state.Clone()
	testers := next.ActiveTesters[:0]
	for _, id := range next.ActiveTesters {
		if id != testerID {
			testers = append(testers, id)
		}
	}
	next.ActiveTesters = testers

	if len(next.ActiveTesters) > 0 {
		return false, s.commitLocked(ctx, next, "close")
	}

	next.Open = false
	next.Members = nil
	next.CurrentTestee = ""
	next.AwaitingAdvance = false
	if err := s.commitLocked(ctx, next, "close"); err != nil {
		return false, err
	}
	s.sessions.Close(ctx)
	return true, nil
}

// Skip discards the current session without recording a tier and moves on
// to the next queued user.
func (s *QueueService) Skip(ctx context.Context, testerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Close(ctx)
	return s.advanceLocked(ctx, testerID)
}

// Advance pops the queue head into the current-testee slot and opens a
// session for it, or clears the slot when the queue is empty.
func (s *QueueService) Advance(ctx context.Context, testerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.advanceLocked(ctx, testerID)
}

func (s *QueueService) advanceLocked(ctx context.Context, testerID string) error {
	next := s.state.Clone()
	next.AwaitingAdvance = false

	if len(next.Members) == 0 {
		next.CurrentTestee = ""
		return s.commitLocked(ctx, next, "advance")
	}

	next.CurrentTestee = next.Members[0]
	next.Members = next.Members[1:]
	if err := s.commitLocked(ctx, next, "advance"); err != nil {
		return err
	}
	s.dropPositionCache(ctx, s.state.CurrentTestee)

	prior := ""
	if s.state.CurrentTestee == s.state.LastTestee {
		prior = s.state.PreviousTier
	}
	s.sessions.Open(ctx, testerID, s.state.CurrentTestee, prior)
	return nil
}

// Capacity returns the configured queue limit.
func (s *QueueService) Capacity() int {
	return s.config.QueueMax
}

// Snapshot returns a read-only copy of the engine state.
func (s *QueueService) Snapshot() models.QueueSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// CurrentSession returns a copy of the live session, or nil.
func (s *QueueService) CurrentSession() *models.Session {
	return s.sessions.Current()
}

// commitLocked persists next and, only on success, swaps it into memory
// and runs the post-commit effects.
func (s *QueueService) commitLocked(ctx context.Context, next models.QueueSnapshot, op string) error {
	if err := s.store.SaveSnapshot(ctx, next); err != nil {
		s.monitor.TrackQueueOperation(op, "persist_error")
		return fmt.Errorf("persist queue snapshot: %w", err)
	}
	s.state = next
	s.monitor.TrackQueueOperation(op, "success")
	s.monitor.TrackQueueState(s.state.Open, len(s.state.Members), len(s.state.ActiveTesters))

	s.renderLocked(ctx)
	s.refreshPositionCache(ctx)
	return nil
}

// renderLocked re-publishes the queue view. Failures are cosmetic: they
// are logged and counted but never fail the operation that triggered the
// render.
func (s *QueueService) renderLocked(ctx context.Context) {
	ref, err := s.platform.RenderQueueView(ctx, platform.QueueView{
		Open:          s.state.Open,
		Capacity:      s.config.QueueMax,
		Members:       append([]string(nil), s.state.Members...),
		ActiveTesters: append([]string(nil), s.state.ActiveTesters...),
		RenderRef:     s.state.RenderRef,
	})
	if err != nil {
		log.Printf("Error rendering queue view: %v", err)
		s.monitor.TrackPlatformError("render")
		return
	}
	if ref == s.state.RenderRef {
		return
	}

	s.state.RenderRef = ref
	if err := s.store.SaveSnapshot(ctx, s.state); err != nil {
		// The reference is recoverable; the next render falls back to
		// publishing a fresh view.
		log.Printf("Error persisting render reference: %v", err)
	}
}

func (s *QueueService) refreshPositionCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	for i, userID := range s.state.Members {
		posKey := fmt.Sprintf("queue:position:%s", userID)
		if err := s.Redis.Set(ctx, posKey, i+1, positionTTL).Err(); err != nil {
			log.Printf("Error caching queue position for %s: %v", userID, err)
			return
		}
	}
}

func (s *QueueService) dropPositionCache(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	posKey := fmt.Sprintf("queue:position:%s", userID)
	if err := s.Redis.Del(ctx, posKey).Err(); err != nil {
		log.Printf("Error dropping queue position for %s: %v", userID, err)
	}
}
