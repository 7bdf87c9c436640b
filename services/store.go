package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"github.com/11VZ/AuroraBot/models"
)

// Store is the durable record storage behind the queue engine. Each call
// is assumed atomic; SaveSnapshot rewrites the whole queue aggregate.
type Store interface {
	// LoadSnapshot returns the persisted queue snapshot, or nil when no
	// state has ever been saved.
	LoadSnapshot(ctx context.Context) (*models.QueueSnapshot, error)

	// SaveSnapshot persists the snapshot record, the member list and the
	// active tester set in a single transaction.
	SaveSnapshot(ctx context.Context, snapshot models.QueueSnapshot) error

	// GetUserProfile returns nil without error when the user was never
	// verified.
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// GetUserProfileByIGN looks a profile up by in-game name, nil when
	// unknown. Used to keep the cooldown attached to the identity being
	// verified rather than the caller.
	GetUserProfileByIGN(ctx context.Context, ign string) (*models.UserProfile, error)

	SaveUserProfile(ctx context.Context, profile *models.UserProfile) error

	// SetLastTest stamps the cooldown timestamp for a verified user.
	SetLastTest(ctx context.Context, userID string, ts int64) error
}

// PBStore persists to the PocketBase collections created by migrations/.
type PBStore struct {
	app core.App
}

func NewPBStore(app core.App) *PBStore {
	return &PBStore{app: app}
}

func (s *PBStore) LoadSnapshot(ctx context.Context) (*models.QueueSnapshot, error) {
	record, err := s.app.FindFirstRecordByFilter("queue_state", "id != ''")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load queue state: %w", err)
	}

	snapshot := &models.QueueSnapshot{
		Open:            record.GetBool("open"),
		CurrentTestee:   record.GetString("current_testee"),
		PreviousTier:    record.GetString("previous_tier"),
		LastTestee:      record.GetString("last_testee"),
		RenderRef:       record.GetString("render_ref"),
		AwaitingAdvance: record.GetBool("awaiting_advance"),
	}

	members, err := s.app.FindRecordsByFilter("queue_members", "id != ''", "+position", 0, 0)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load queue members: %w", err)
	}
	for _, m := range members {
		snapshot.Members = append(snapshot.Members, m.GetString("user_id"))
	}

	testers, err := s.app.FindRecordsByFilter("active_testers", "id != ''", "", 0, 0)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load active testers: %w", err)
	}
	for _, t := range testers {
		snapshot.ActiveTesters = append(snapshot.ActiveTesters, t.GetString("user_id"))
	}

	return snapshot, nil
}

func (s *PBStore) SaveSnapshot(ctx context.Context, snapshot models.QueueSnapshot) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		record, err := txApp.FindFirstRecordByFilter("queue_state", "id != ''")
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("find queue state: %w", err)
			}
			collection, err := txApp.FindCollectionByNameOrId("queue_state")
			if err != nil {
				return fmt.Errorf("find queue_state collection: %w", err)
			}
			record = core.NewRecord(collection)
		}

		record.Set("open", snapshot.Open)
		record.Set("current_testee", snapshot.CurrentTestee)
		record.Set("previous_tier", snapshot.PreviousTier)
		record.Set("last_testee", snapshot.LastTestee)
		record.Set("render_ref", snapshot.RenderRef)
		record.Set("awaiting_advance", snapshot.AwaitingAdvance)
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save queue state: %w", err)
		}

		if err := s.rewriteMembers(txApp, "queue_members", snapshot.Members, true); err != nil {
			return err
		}
		return s.rewriteMembers(txApp, "active_testers", snapshot.ActiveTesters, false)
	})
}

// rewriteMembers replaces the full contents of a membership collection,
// the persistence shape of the snapshot model.
func (s *PBStore) rewriteMembers(txApp core.App, collectionName string, userIDs []string, ordered bool) error {
	if _, err := txApp.DB().NewQuery("DELETE FROM " + collectionName).Execute(); err != nil {
		return fmt.Errorf("clear %s: %w", collectionName, err)
	}

	collection, err := txApp.FindCollectionByNameOrId(collectionName)
	if err != nil {
		return fmt.Errorf("find %s collection: %w", collectionName, err)
	}

	for i, userID := range userIDs {
		record := core.NewRecord(collection)
		record.Set("user_id", userID)
		if ordered {
			record.Set("position", i+1)
		}
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save %s entry: %w", collectionName, err)
		}
	}
	return nil
}

func (s *PBStore) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	record, err := s.findProfile(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user profile: %w", err)
	}

	return &models.UserProfile{
		UserID:            record.GetString("user_id"),
		IGN:               record.GetString("ign"),
		Region:            record.GetString("region"),
		LastTestTimestamp: int64(record.GetInt("last_test_timestamp")),
	}, nil
}

func (s *PBStore) GetUserProfileByIGN(ctx context.Context, ign string) (*models.UserProfile, error) {
	record, err := s.app.FindFirstRecordByFilter("user_info", "ign = {:ign}", dbx.Params{"ign": ign})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load user profile by ign: %w", err)
	}

	return &models.UserProfile{
		UserID:            record.GetString("user_id"),
		IGN:               record.GetString("ign"),
		Region:            record.GetString("region"),
		LastTestTimestamp: int64(record.GetInt("last_test_timestamp")),
	}, nil
}

func (s *PBStore) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	record, err := s.findProfile(profile.UserID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("find user profile: %w", err)
		}
		collection, err := s.app.FindCollectionByNameOrId("user_info")
		if err != nil {
			return fmt.Errorf("find user_info collection: %w", err)
		}
		record = core.NewRecord(collection)
		record.Set("user_id", profile.UserID)
	}

	record.Set("ign", profile.IGN)
	record.Set("region", profile.Region)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("save user profile: %w", err)
	}
	return nil
}

func (s *PBStore) SetLastTest(ctx context.Context, userID string, ts int64) error {
	record, err := s.findProfile(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Testees without a verified profile simply have no cooldown
			// to stamp.
			return nil
		}
		return fmt.Errorf("find user profile: %w", err)
	}

	record.Set("last_test_timestamp", ts)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("stamp last test: %w", err)
	}
	return nil
}

func (s *PBStore) findProfile(userID string) (*core.Record, error) {
	return s.app.FindFirstRecordByFilter("user_info", "user_id = {:uid}", dbx.Params{"uid": userID})
}
