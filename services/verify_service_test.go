package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/11VZ/AuroraBot/config"
	"github.com/11VZ/AuroraBot/internal/status"
	"github.com/11VZ/AuroraBot/models"
	"github.com/11VZ/AuroraBot/monitoring"
)

func setupTestVerifyService() (*VerifyService, *fakeStore, *fakePlatform) {
	store := newFakeStore()
	pf := newFakePlatform()
	cfg := &config.Config{
		TestIntervalDays:  3,
		QueueAccessRoleID: "role-access",
		WaitlistRoleID:    "role-waitlist",
	}
	return NewVerifyService(store, pf, monitoring.NewMonitor(), cfg), store, pf
}

func TestVerifyService_RecordsProfileAndGrantsRoles(t *testing.T) {
	service, store, pf := setupTestVerifyService()
	ctx := context.Background()

	require.NoError(t, service.RecordVerification(ctx, "user-1", "PlayerOne", models.RegionNA))

	profile := store.profiles["user-1"]
	require.NotNil(t, profile)
	assert.Equal(t, "PlayerOne", profile.IGN)
	assert.Equal(t, models.RegionNA, profile.Region)
	assert.Equal(t, []string{"role-access", "role-waitlist"}, pf.grants["user-1"])
}

func TestVerifyService_RejectsUnknownRegion(t *testing.T) {
	service, store, _ := setupTestVerifyService()
	ctx := context.Background()

	err := service.RecordVerification(ctx, "user-1", "PlayerOne", "AS")
	assert.ErrorIs(t, err, status.ErrInvalidRegion)
	assert.Empty(t, store.profiles)
}

func TestVerifyService_CooldownIsKeyedByIGN(t *testing.T) {
	service, store, _ := setupTestVerifyService()
	ctx := context.Background()

	now := time.Now()
	service.now = func() time.Time { return now }

	// Same in-game name, fresh platform account: still on cooldown.
	store.profiles["user-old"] = &models.UserProfile{
		UserID:            "user-old",
		IGN:               "PlayerOne",
		Region:            models.RegionNA,
		LastTestTimestamp: now.Unix() - 86400,
	}

	var cooldown *status.CooldownError
	err := service.RecordVerification(ctx, "user-new", "PlayerOne", models.RegionNA)
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, int64(3), cooldown.RemainingDays)

	// A different name is unaffected.
	assert.NoError(t, service.RecordVerification(ctx, "user-new", "SomeoneElse", models.RegionNA))
}

func TestVerifyService_ReverificationKeepsCooldownStamp(t *testing.T) {
	service, store, _ := setupTestVerifyService()
	ctx := context.Background()

	now := time.Now()
	service.now = func() time.Time { return now }

	stamp := now.Unix() - 10*86400
	store.profiles["user-1"] = &models.UserProfile{
		UserID:            "user-1",
		IGN:               "PlayerOne",
		Region:            models.RegionNA,
		LastTestTimestamp: stamp,
	}

	require.NoError(t, service.RecordVerification(ctx, "user-1", "PlayerOne", models.RegionEU))
	assert.Equal(t, models.RegionEU, store.profiles["user-1"].Region)
	assert.Equal(t, stamp, store.profiles["user-1"].LastTestTimestamp)
}

func TestVerifyService_PlatformFailureDoesNotFailVerification(t *testing.T) {
	service, store, pf := setupTestVerifyService()
	ctx := context.Background()

	pf.fail = true
	require.NoError(t, service.RecordVerification(ctx, "user-1", "PlayerOne", models.RegionEU))
	assert.NotNil(t, store.profiles["user-1"])
}
