package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/skill-eureka/backend/internal/logger"
)

// TopicVideoPublished carries one event per successful video upload.
const TopicVideoPublished = "video.published"

// VideoPublished is the fan-out trigger emitted after a video is persisted.
// IDs travel as hex strings so the payload is plain JSON.
type VideoPublished struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	CreatorID   string `json:"creator_id"`
	CreatorName string `json:"creator_name"`
}

// Bus is the in-process pub/sub used to decouple notification fan-out from
// the upload request.
type Bus struct {
	pubSub *gochannel.GoChannel
}

// NewBus creates the in-process bus. Buffered output keeps publishers from
// blocking on a slow subscriber.
func NewBus() *Bus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, watermill.NewSlogLogger(logger.L()))
	return &Bus{pubSub: pubSub}
}

// PublishVideoPublished emits the fan-out trigger. Publishing is
// best-effort from the caller's perspective: failures are returned for
// logging but must not fail the upload.
func (b *Bus) PublishVideoPublished(event VideoPublished) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return b.pubSub.Publish(TopicVideoPublished, msg)
}

// Subscribe returns the message stream for a topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
