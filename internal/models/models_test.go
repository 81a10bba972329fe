package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewUserNormalizesIdentity(t *testing.T) {
	u := NewUser(" Asha ", " Asha@Example.COM ", "hash", "Asha R")
	assert.Equal(t, "asha", u.Username)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.NotEmpty(t, u.ProfilePic)
	assert.NotNil(t, u.FollowingCreators)
	assert.NotNil(t, u.History)
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := NewUser("asha", "asha@example.com", "hash", "Asha R")
	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
}

func TestCreatorSummaryCounts(t *testing.T) {
	c := NewCreator("ravik", "ravi@example.com", "hash", "Ravi Kumar", "AB12CD34")
	c.Followers = []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	c.Videos = []primitive.ObjectID{primitive.NewObjectID()}

	s := c.Summary()
	assert.Equal(t, 2, s.FollowersCount)
	assert.Equal(t, 1, s.VideosCount)
	assert.True(t, s.IsVerified)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
	assert.NotContains(t, string(data), "AB12CD34")
}

func TestNewCreatorIsVerified(t *testing.T) {
	c := NewCreator("ravik", "Ravi@Example.com", "hash", "Ravi Kumar", "AB12CD34")
	assert.True(t, c.IsVerified)
	assert.Equal(t, "ravi@example.com", c.Email)
	assert.Equal(t, "AB12CD34", c.ConfirmationCode)
}

func TestNewNotificationDefaults(t *testing.T) {
	n := NewNotification(primitive.NewObjectID(), primitive.NewObjectID(), NotificationTypeFollow, nil)
	assert.False(t, n.Read)
	assert.NotNil(t, n.Data)
	assert.False(t, n.CreatedAt.IsZero())
}
