package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultCreatorPic = "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg?auto=compress&cs=tinysrgb&w=600"

// Creator is a publisher account stored in the creators collection.
// Followers and videos are denormalized ID arrays maintained by the follow
// and upload operations.
type Creator struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username         string               `json:"username" bson:"username"`
	Email            string               `json:"email" bson:"email"`
	Password         string               `json:"-" bson:"password"`
	Name             string               `json:"name" bson:"name"`
	Bio              string               `json:"bio" bson:"bio"`
	ProfilePic       string               `json:"profilePic" bson:"profile_pic"`
	YoutubeChannel   string               `json:"youtubeChannel" bson:"youtube_channel"`
	InstagramHandle  string               `json:"instagramHandle" bson:"instagram_handle"`
	LinkedinProfile  string               `json:"linkedinProfile" bson:"linkedin_profile"`
	ConfirmationCode string               `json:"-" bson:"confirmation_code"`
	IsVerified       bool                 `json:"isVerified" bson:"is_verified"`
	Followers        []primitive.ObjectID `json:"followers" bson:"followers"`
	Videos           []primitive.ObjectID `json:"videos" bson:"videos"`
	CreatedAt        time.Time            `json:"createdAt" bson:"created_at"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updated_at"`
}

// NewCreator builds a verified creator document. Registration only succeeds
// after a confirmation code has been consumed, so the record is created
// verified and keeps the consumed code for audit.
func NewCreator(username, email, hashedPassword, name, confirmationCode string) *Creator {
	now := time.Now()
	return &Creator{
		Username:         normalizeIdentity(username),
		Email:            normalizeIdentity(email),
		Password:         hashedPassword,
		Name:             name,
		ProfilePic:       defaultCreatorPic,
		ConfirmationCode: confirmationCode,
		IsVerified:       true,
		Followers:        []primitive.ObjectID{},
		Videos:           []primitive.ObjectID{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// CreatorSummary is the public listing shape with derived counts, password
// and confirmation code stripped.
type CreatorSummary struct {
	ID              primitive.ObjectID   `json:"id"`
	Name            string               `json:"name"`
	Username        string               `json:"username"`
	Bio             string               `json:"bio"`
	ProfilePic      string               `json:"profilePic"`
	YoutubeChannel  string               `json:"youtubeChannel"`
	InstagramHandle string               `json:"instagramHandle"`
	LinkedinProfile string               `json:"linkedinProfile"`
	FollowersCount  int                  `json:"followersCount"`
	VideosCount     int                  `json:"videosCount"`
	Followers       []primitive.ObjectID `json:"followers"`
	IsVerified      bool                 `json:"isVerified"`
}

// Summary derives the public listing shape of the creator.
func (c *Creator) Summary() CreatorSummary {
	return CreatorSummary{
		ID:              c.ID,
		Name:            c.Name,
		Username:        c.Username,
		Bio:             c.Bio,
		ProfilePic:      c.ProfilePic,
		YoutubeChannel:  c.YoutubeChannel,
		InstagramHandle: c.InstagramHandle,
		LinkedinProfile: c.LinkedinProfile,
		FollowersCount:  len(c.Followers),
		VideosCount:     len(c.Videos),
		Followers:       c.Followers,
		IsVerified:      c.IsVerified,
	}
}

type RegisterCreatorRequest struct {
	Username         string `json:"username" validate:"required,min=3,max=30"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	Name             string `json:"name" validate:"required,min=2,max=50"`
	Bio              string `json:"bio,omitempty" validate:"omitempty,max=500"`
	YoutubeChannel   string `json:"youtubeChannel,omitempty" validate:"omitempty,url"`
	InstagramHandle  string `json:"instagramHandle,omitempty" validate:"omitempty,url"`
	LinkedinProfile  string `json:"linkedinProfile,omitempty" validate:"omitempty,url"`
	ConfirmationCode string `json:"confirmationCode" validate:"required"`
}

type UpdateCreatorProfileRequest struct {
	Name            string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio             string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfilePic      string `json:"profilePic,omitempty" validate:"omitempty,url"`
	YoutubeChannel  string `json:"youtubeChannel,omitempty" validate:"omitempty,url"`
	InstagramHandle string `json:"instagramHandle,omitempty" validate:"omitempty,url"`
	LinkedinProfile string `json:"linkedinProfile,omitempty" validate:"omitempty,url"`
}
