package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/skill-eureka/backend/internal/events"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/repositories"
)

type stubCreatorRepo struct {
	creator *models.Creator
}

func (r *stubCreatorRepo) CreateCreator(context.Context, *models.Creator) error { return nil }

func (r *stubCreatorRepo) GetCreatorByID(_ context.Context, id primitive.ObjectID) (*models.Creator, error) {
	if r.creator == nil || r.creator.ID != id {
		return nil, repositories.ErrNotFound
	}
	return r.creator, nil
}

func (r *stubCreatorRepo) GetCreatorByEmail(context.Context, string) (*models.Creator, error) {
	return nil, repositories.ErrNotFound
}

func (r *stubCreatorRepo) GetCreatorByUsername(context.Context, string) (*models.Creator, error) {
	return nil, repositories.ErrNotFound
}

func (r *stubCreatorRepo) SearchVerified(context.Context, string) ([]models.Creator, error) {
	return nil, nil
}

func (r *stubCreatorRepo) UpdateProfile(context.Context, primitive.ObjectID, *models.UpdateCreatorProfileRequest) (*models.Creator, error) {
	return nil, repositories.ErrNotFound
}

type stubNotificationRepo struct {
	mu            sync.Mutex
	notifications []models.Notification
}

func (r *stubNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *stubNotificationRepo) CreateNotifications(_ context.Context, ns []models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, ns...)
	return nil
}

func (r *stubNotificationRepo) GetByRecipient(context.Context, primitive.ObjectID, int64, int64) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *stubNotificationRepo) GetUnreadCount(context.Context, primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (r *stubNotificationRepo) MarkAsRead(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return nil
}

func (r *stubNotificationRepo) MarkAllAsRead(context.Context, primitive.ObjectID) error {
	return nil
}

func (r *stubNotificationRepo) snapshot() []models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notification, len(r.notifications))
	copy(out, r.notifications)
	return out
}

func TestFanoutNotifiesEveryFollower(t *testing.T) {
	followers := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	creator := models.NewCreator("ravik", "ravi@example.com", "hash", "Ravi Kumar", "AB12CD34")
	creator.ID = primitive.NewObjectID()
	creator.Followers = followers

	creators := &stubCreatorRepo{creator: creator}
	notifs := &stubNotificationRepo{}

	bus := events.NewBus()
	defer bus.Close()

	worker := events.NewFanoutWorker(bus, creators, notifs, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	// let the subscriber attach before publishing
	time.Sleep(50 * time.Millisecond)

	videoID := primitive.NewObjectID()
	require.NoError(t, bus.PublishVideoPublished(events.VideoPublished{
		VideoID:     videoID.Hex(),
		Title:       "Intro to Fractions",
		CreatorID:   creator.ID.Hex(),
		CreatorName: creator.Name,
	}))

	require.Eventually(t, func() bool {
		return len(notifs.snapshot()) == len(followers)
	}, 2*time.Second, 10*time.Millisecond)

	seen := make(map[primitive.ObjectID]bool)
	for _, n := range notifs.snapshot() {
		assert.Equal(t, models.NotificationTypeNewVideo, n.Type)
		assert.Equal(t, creator.ID, n.Sender)
		assert.False(t, n.Read)
		assert.Equal(t, "Intro to Fractions", n.Data["title"])
		assert.Equal(t, videoID.Hex(), n.Data["videoId"])
		seen[n.Recipient] = true
	}
	for _, f := range followers {
		assert.True(t, seen[f], "follower %s not notified", f.Hex())
	}
}

func TestFanoutSkipsCreatorWithoutFollowers(t *testing.T) {
	creator := models.NewCreator("ravik", "ravi@example.com", "hash", "Ravi Kumar", "AB12CD34")
	creator.ID = primitive.NewObjectID()

	creators := &stubCreatorRepo{creator: creator}
	notifs := &stubNotificationRepo{}

	bus := events.NewBus()
	defer bus.Close()

	worker := events.NewFanoutWorker(bus, creators, notifs, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, bus.PublishVideoPublished(events.VideoPublished{
		VideoID:   primitive.NewObjectID().Hex(),
		Title:     "No audience yet",
		CreatorID: creator.ID.Hex(),
	}))

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, notifs.snapshot())
}

func TestFanoutSurvivesMalformedEvents(t *testing.T) {
	followers := []primitive.ObjectID{primitive.NewObjectID()}
	creator := models.NewCreator("ravik", "ravi@example.com", "hash", "Ravi Kumar", "AB12CD34")
	creator.ID = primitive.NewObjectID()
	creator.Followers = followers

	creators := &stubCreatorRepo{creator: creator}
	notifs := &stubNotificationRepo{}

	bus := events.NewBus()
	defer bus.Close()

	worker := events.NewFanoutWorker(bus, creators, notifs, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	time.Sleep(50 * time.Millisecond)

	// unknown creator is logged and skipped, the worker keeps consuming
	require.NoError(t, bus.PublishVideoPublished(events.VideoPublished{
		VideoID:   primitive.NewObjectID().Hex(),
		CreatorID: primitive.NewObjectID().Hex(),
	}))
	require.NoError(t, bus.PublishVideoPublished(events.VideoPublished{
		VideoID:     primitive.NewObjectID().Hex(),
		Title:       "Still delivered",
		CreatorID:   creator.ID.Hex(),
		CreatorName: creator.Name,
	}))

	require.Eventually(t, func() bool {
		return len(notifs.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, followers[0], notifs.snapshot()[0].Recipient)
}
