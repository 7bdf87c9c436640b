package services

import (
	"context"
	"errors"
	"sync"

	"github.com/11VZ/AuroraBot/internal/platform"
	"github.com/11VZ/AuroraBot/models"
)

// fakeStore keeps everything in memory and can be told to fail snapshot
// writes.
type fakeStore struct {
	mu        sync.Mutex
	snapshot  *models.QueueSnapshot
	profiles  map[string]*models.UserProfile
	saveErr   error
	saveCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{profiles: make(map[string]*models.UserProfile)}
}

func (s *fakeStore) LoadSnapshot(ctx context.Context) (*models.QueueSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, nil
	}
	copy := s.snapshot.Clone()
	return &copy, nil
}

func (s *fakeStore) SaveSnapshot(ctx context.Context, snapshot models.QueueSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	copy := snapshot.Clone()
	s.snapshot = &copy
	return nil
}

func (s *fakeStore) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	copy := *profile
	return &copy, nil
}

func (s *fakeStore) GetUserProfileByIGN(ctx context.Context, ign string) (*models.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, profile := range s.profiles {
		if profile.IGN == ign {
			copy := *profile
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *profile
	if existing, ok := s.profiles[profile.UserID]; ok {
		copy.LastTestTimestamp = existing.LastTestTimestamp
	}
	s.profiles[profile.UserID] = &copy
	return nil
}

func (s *fakeStore) SetLastTest(ctx context.Context, userID string, ts int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile, ok := s.profiles[userID]; ok {
		profile.LastTestTimestamp = ts
	}
	return nil
}

// fakePlatform records every platform call and can be told to fail.
type fakePlatform struct {
	mu            sync.Mutex
	renders       []platform.QueueView
	announcements []models.TestResult
	tickets       []platform.Ticket
	closedTickets []string
	grants        map[string][]string // userID -> roleIDs
	revokes       map[string][]string
	fail          bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		grants:  make(map[string][]string),
		revokes: make(map[string][]string),
	}
}

var errPlatformDown = errors.New("platform unavailable")

func (p *fakePlatform) GetProvider() platform.Provider { return platform.ProviderLog }

func (p *fakePlatform) RenderQueueView(ctx context.Context, view platform.QueueView) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return "", errPlatformDown
	}
	p.renders = append(p.renders, view)
	return "render-ref", nil
}

func (p *fakePlatform) Announce(ctx context.Context, result models.TestResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPlatformDown
	}
	p.announcements = append(p.announcements, result)
	return nil
}

func (p *fakePlatform) OpenTicket(ctx context.Context, ticket platform.Ticket) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return "", errPlatformDown
	}
	p.tickets = append(p.tickets, ticket)
	return "ticket-" + ticket.TesteeName, nil
}

func (p *fakePlatform) CloseTicket(ctx context.Context, handle string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPlatformDown
	}
	p.closedTickets = append(p.closedTickets, handle)
	return nil
}

func (p *fakePlatform) GrantRole(ctx context.Context, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPlatformDown
	}
	p.grants[userID] = append(p.grants[userID], roleID)
	return nil
}

func (p *fakePlatform) RevokeRole(ctx context.Context, userID, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errPlatformDown
	}
	p.revokes[userID] = append(p.revokes[userID], roleID)
	return nil
}

func (p *fakePlatform) Close(ctx context.Context) error { return nil }
