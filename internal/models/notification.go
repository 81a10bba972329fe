package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types wired by the follow and upload operations.
const (
	NotificationTypeFollow   = "follow"
	NotificationTypeNewVideo = "new_video"
)

// Notification is an insert-only record addressed to a single recipient.
// The read flag is the only mutable field.
type Notification struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Type      string             `json:"type" bson:"type"`
	Data      map[string]string  `json:"data" bson:"data"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
}

// NewNotification builds an unread notification.
func NewNotification(recipient, sender primitive.ObjectID, notifType string, data map[string]string) *Notification {
	if data == nil {
		data = map[string]string{}
	}
	return &Notification{
		Recipient: recipient,
		Sender:    sender,
		Type:      notifType,
		Data:      data,
		Read:      false,
		CreatedAt: time.Now(),
	}
}
