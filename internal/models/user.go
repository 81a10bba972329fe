package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const defaultUserPic = "https://images.pexels.com/photos/1516680/pexels-photo-1516680.jpeg?auto=compress&cs=tinysrgb&w=600"

// normalizeIdentity lowercases and trims a username or email so logins
// are case-insensitive.
func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HistoryEntry records a single watch event on a user's history log.
type HistoryEntry struct {
	VideoID   primitive.ObjectID `json:"videoId" bson:"video_id"`
	WatchedAt time.Time          `json:"watchedAt" bson:"watched_at"`
}

// User is a viewer account stored in the users collection.
// Engagement sets are ID arrays mutated only with $addToSet/$pull, so they
// never contain duplicates.
type User struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Username          string               `json:"username" bson:"username"`
	Email             string               `json:"email" bson:"email"`
	Password          string               `json:"-" bson:"password"`
	Name              string               `json:"name" bson:"name"`
	Bio               string               `json:"bio" bson:"bio"`
	ProfilePic        string               `json:"profilePic" bson:"profile_pic"`
	FollowingCreators []primitive.ObjectID `json:"followingCreators" bson:"following_creators"`
	LikedVideos       []primitive.ObjectID `json:"likedVideos" bson:"liked_videos"`
	SavedVideos       []primitive.ObjectID `json:"savedVideos" bson:"saved_videos"`
	WatchLaterVideos  []primitive.ObjectID `json:"watchLaterVideos" bson:"watch_later_videos"`
	History           []HistoryEntry       `json:"history" bson:"history"`
	CreatedAt         time.Time            `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time            `json:"updatedAt" bson:"updated_at"`
}

// NewUser builds a user document with defaulted profile fields.
// Username and email are lowercased for login consistency.
func NewUser(username, email, hashedPassword, name string) *User {
	now := time.Now()
	return &User{
		Username:          normalizeIdentity(username),
		Email:             normalizeIdentity(email),
		Password:          hashedPassword,
		Name:              name,
		ProfilePic:        defaultUserPic,
		FollowingCreators: []primitive.ObjectID{},
		LikedVideos:       []primitive.ObjectID{},
		SavedVideos:       []primitive.ObjectID{},
		WatchLaterVideos:  []primitive.ObjectID{},
		History:           []HistoryEntry{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

type RegisterUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserProfileRequest struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=500"`
	ProfilePic string `json:"profilePic,omitempty" validate:"omitempty,url"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}
