package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video is a published media record owned by a creator.
type Video struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Category    string             `json:"category" bson:"category"`
	Description string             `json:"description" bson:"description"`
	VideoURL    string             `json:"videoUrl" bson:"video_url"`
	Thumbnail   string             `json:"thumbnail" bson:"thumbnail"`
	CreatorID   primitive.ObjectID `json:"creatorId" bson:"creator_id"`
	Likes       int                `json:"likes" bson:"likes"`
	Saves       int                `json:"saves" bson:"saves"`
	Views       int                `json:"views" bson:"views"`
	UploadDate  time.Time          `json:"uploadDate" bson:"upload_date"`
}

// UploadVideoRequest carries the multipart form fields of an upload; the
// video and thumbnail files arrive separately.
type UploadVideoRequest struct {
	Title       string `form:"title" validate:"required,min=1,max=120"`
	Category    string `form:"category" validate:"required,min=1,max=60"`
	Description string `form:"description" validate:"omitempty,max=2000"`
}
