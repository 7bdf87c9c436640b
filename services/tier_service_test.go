package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/11VZ/AuroraBot/internal/status"
	"github.com/11VZ/AuroraBot/models"
)

// setupAssignment brings the engine to the point where tester-1 has an
// open session with user-u at the head of the slot.
func setupAssignment(t *testing.T) (*QueueService, *fakeStore, *fakePlatform) {
	t.Helper()

	service, store, pf := setupTestQueueService(20)
	for _, label := range models.Tiers {
		service.config.TierRoles[label] = "role-" + label
	}
	service.config.WaitlistRoleID = "role-waitlist"

	store.profiles["user-u"] = &models.UserProfile{
		UserID: "user-u",
		IGN:    "PlayerU",
		Region: models.RegionNA,
	}

	ctx := context.Background()
	require.NoError(t, service.Open(ctx, "tester-1"))
	require.NoError(t, service.Join(ctx, "user-u"))
	require.NoError(t, service.Advance(ctx, "tester-1"))
	require.NotNil(t, service.CurrentSession())
	return service, store, pf
}

func TestAssignTier_InvalidTierMutatesNothing(t *testing.T) {
	service, store, pf := setupAssignment(t)
	ctx := context.Background()

	before := service.Snapshot()
	savesBefore := store.saveCalls

	err := service.AssignTier(ctx, "tester-1", "XT9", true)
	assert.ErrorIs(t, err, status.ErrInvalidTier)

	assert.Equal(t, before, service.Snapshot())
	assert.Equal(t, savesBefore, store.saveCalls)
	assert.Empty(t, pf.announcements)
	assert.NotNil(t, service.CurrentSession())
	assert.Zero(t, store.profiles["user-u"].LastTestTimestamp)
}

func TestAssignTier_CarryOverAcrossConsecutiveAssignments(t *testing.T) {
	service, store, pf := setupAssignment(t)
	ctx := context.Background()

	now := time.Now()
	service.now = func() time.Time { return now }

	// First result for this testee: no prior tier to carry over.
	require.NoError(t, service.AssignTier(ctx, "tester-1", "LT3", false))

	require.Len(t, pf.announcements, 1)
	assert.Equal(t, "", pf.announcements[0].PreviousTier)
	assert.Equal(t, "LT3", pf.announcements[0].AchievedTier)
	assert.Equal(t, "user-u", pf.announcements[0].TesteeID)
	assert.Equal(t, now.Unix(), store.profiles["user-u"].LastTestTimestamp)

	snapshot := service.Snapshot()
	assert.Equal(t, "LT3", snapshot.PreviousTier)
	assert.Equal(t, "user-u", snapshot.LastTestee)

	// Re-test of the same testee: the stored tier carries over.
	require.NoError(t, service.AssignTier(ctx, "tester-1", "HT3", true))

	require.Len(t, pf.announcements, 2)
	assert.Equal(t, "LT3", pf.announcements[1].PreviousTier)
	assert.Equal(t, "HT3", pf.announcements[1].AchievedTier)

	snapshot = service.Snapshot()
	assert.Equal(t, "HT3", snapshot.PreviousTier)
	assert.Equal(t, "user-u", snapshot.LastTestee)
	// advance on an empty queue clears the slot.
	assert.Empty(t, snapshot.CurrentTestee)
	assert.Nil(t, service.CurrentSession())
}

func TestAssignTier_MovesRoles(t *testing.T) {
	service, _, pf := setupAssignment(t)
	ctx := context.Background()

	require.NoError(t, service.AssignTier(ctx, "tester-1", "HT3", true))

	revoked := pf.revokes["user-u"]
	for _, label := range models.Tiers {
		assert.Contains(t, revoked, "role-"+label)
	}
	assert.Contains(t, revoked, "role-waitlist")
	assert.Equal(t, []string{"role-HT3"}, pf.grants["user-u"])
}

func TestAssignTier_WithoutAdvanceKeepsSlotClaimed(t *testing.T) {
	service, _, pf := setupAssignment(t)
	ctx := context.Background()

	require.NoError(t, service.AssignTier(ctx, "tester-1", "HT4", false))

	snapshot := service.Snapshot()
	assert.Equal(t, "user-u", snapshot.CurrentTestee)
	assert.True(t, snapshot.AwaitingAdvance)
	assert.Nil(t, service.CurrentSession())
	assert.NotEmpty(t, pf.closedTickets)

	// A later advance resolves the claimed slot.
	require.NoError(t, service.Advance(ctx, "tester-1"))
	snapshot = service.Snapshot()
	assert.Empty(t, snapshot.CurrentTestee)
	assert.False(t, snapshot.AwaitingAdvance)
}

func TestAssignTier_PlatformFailureDoesNotAbortTransition(t *testing.T) {
	service, store, pf := setupAssignment(t)
	ctx := context.Background()

	now := time.Now()
	service.now = func() time.Time { return now }
	pf.fail = true

	require.NoError(t, service.AssignTier(ctx, "tester-1", "LT2", true))

	snapshot := service.Snapshot()
	assert.Equal(t, "LT2", snapshot.PreviousTier)
	assert.Equal(t, "user-u", snapshot.LastTestee)
	assert.Equal(t, now.Unix(), store.profiles["user-u"].LastTestTimestamp)
	assert.Empty(t, pf.announcements)
	assert.Empty(t, pf.grants["user-u"])
}

func TestAssignTier_NoCurrentTestee(t *testing.T) {
	service, store, pf := setupTestQueueService(20)
	ctx := context.Background()

	require.NoError(t, service.Open(ctx, "tester-1"))
	require.NoError(t, service.AssignTier(ctx, "tester-1", "HT1", false))

	assert.Empty(t, pf.announcements)
	assert.Empty(t, pf.grants)
	assert.Empty(t, store.profiles)
	assert.False(t, service.Snapshot().AwaitingAdvance)
}
