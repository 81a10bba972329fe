package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/skill-eureka/backend/internal/logger"
	"github.com/skill-eureka/backend/internal/models"
	"github.com/skill-eureka/backend/internal/realtime"
	"github.com/skill-eureka/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FanoutWorker turns each video.published event into one notification per
// follower of the uploading creator. It runs off the request path; every
// message is acked regardless of outcome, because fan-out is best-effort
// and must never wedge the bus.
type FanoutWorker struct {
	bus              *Bus
	creatorRepo      repositories.CreatorRepository
	notificationRepo repositories.NotificationRepository
	hub              *realtime.Hub
}

// NewFanoutWorker wires the worker. hub may be nil when no realtime channel
// is available.
func NewFanoutWorker(bus *Bus, creatorRepo repositories.CreatorRepository, notificationRepo repositories.NotificationRepository, hub *realtime.Hub) *FanoutWorker {
	return &FanoutWorker{
		bus:              bus,
		creatorRepo:      creatorRepo,
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Run subscribes and processes events until ctx is cancelled. Call in its
// own goroutine.
func (w *FanoutWorker) Run(ctx context.Context) error {
	messages, err := w.bus.Subscribe(ctx, TopicVideoPublished)
	if err != nil {
		return err
	}

	for msg := range messages {
		w.handle(ctx, msg)
		msg.Ack()
	}
	return nil
}

func (w *FanoutWorker) handle(ctx context.Context, msg *message.Message) {
	var event VideoPublished
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		logger.L().Error("decode video.published event", "error", err)
		return
	}

	creatorID, err := primitive.ObjectIDFromHex(event.CreatorID)
	if err != nil {
		logger.L().Error("bad creator id in event", "creator_id", event.CreatorID)
		return
	}

	creator, err := w.creatorRepo.GetCreatorByID(ctx, creatorID)
	if err != nil {
		logger.L().Error("load creator for fan-out", "creator_id", event.CreatorID, "error", err)
		return
	}
	if len(creator.Followers) == 0 {
		return
	}

	data := map[string]string{
		"videoId":     event.VideoID,
		"title":       event.Title,
		"creatorName": event.CreatorName,
	}
	notifications := make([]models.Notification, 0, len(creator.Followers))
	for _, followerID := range creator.Followers {
		notifications = append(notifications, *models.NewNotification(followerID, creatorID, models.NotificationTypeNewVideo, data))
	}

	if err := w.notificationRepo.CreateNotifications(ctx, notifications); err != nil {
		logger.L().Error("insert fan-out notifications", "video_id", event.VideoID, "error", err)
		return
	}
	logger.L().Info("video fan-out complete", "video_id", event.VideoID, "followers", len(creator.Followers))

	if w.hub != nil {
		push := realtime.Event{Type: models.NotificationTypeNewVideo, Sender: event.CreatorID, Data: data}
		for _, followerID := range creator.Followers {
			w.hub.Push(followerID.Hex(), push)
		}
	}
}
