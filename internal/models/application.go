package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Creator application states. An application is pending until reviewed;
// approval issues exactly one confirmation code for the applicant's email.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// CreatorApplication is a pending request to become a creator, keyed by email.
type CreatorApplication struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	YoutubeChannel string             `json:"youtubeChannel" bson:"youtube_channel"`
	Bio            string             `json:"bio" bson:"bio"`
	Reason         string             `json:"reason" bson:"reason"`
	Status         string             `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// NewCreatorApplication builds a pending application.
func NewCreatorApplication(name, email, youtubeChannel, bio, reason string) *CreatorApplication {
	now := time.Now()
	return &CreatorApplication{
		Name:           name,
		Email:          normalizeIdentity(email),
		YoutubeChannel: youtubeChannel,
		Bio:            bio,
		Reason:         reason,
		Status:         ApplicationStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CreatorCode is a single-use confirmation code bound to an applicant's
// email. Registration consumes it with a conditional update on used=false.
type CreatorCode struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Code      string             `json:"code" bson:"code"`
	Used      bool               `json:"used" bson:"used"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

type ApplyCreatorRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=50"`
	Email          string `json:"email" validate:"required,email"`
	YoutubeChannel string `json:"youtubeChannel,omitempty" validate:"omitempty,url"`
	Bio            string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Reason         string `json:"reason" validate:"required,min=3,max=1000"`
}

type VerifyCreatorRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}
