package repositories

import (
	"context"
	"time"

	"github.com/skill-eureka/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FollowRepository maintains the follow edge, which is denormalized onto
// both the user and the creator document. Both sides and the follow
// notification change in a single transaction, so a crash can never leave
// the edge recorded on one side only.
type FollowRepository interface {
	Follow(ctx context.Context, userID, creatorID primitive.ObjectID) (*models.Notification, error)
	Unfollow(ctx context.Context, userID, creatorID primitive.ObjectID) error
	IsFollowing(ctx context.Context, userID, creatorID primitive.ObjectID) (bool, error)
}

// MongoFollowRepository implements FollowRepository over a Mongo session
// transaction spanning the users, creators and notifications collections.
type MongoFollowRepository struct {
	client        *mongo.Client
	users         *mongo.Collection
	creators      *mongo.Collection
	notifications *mongo.Collection
}

// NewMongoFollowRepository creates a new MongoFollowRepository.
func NewMongoFollowRepository(client *mongo.Client, db *mongo.Database) *MongoFollowRepository {
	return &MongoFollowRepository{
		client:        client,
		users:         db.Collection("users"),
		creators:      db.Collection("creators"),
		notifications: db.Collection("notifications"),
	}
}

// Follow records the edge on both sides and inserts the follow notification
// atomically. The user-side update is conditional on the edge being absent,
// so two concurrent follows cannot both commit: the loser matches nothing
// and fails with ErrAlreadyFollowing.
func (r *MongoFollowRepository) Follow(ctx context.Context, userID, creatorID primitive.ObjectID) (*models.Notification, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var user models.User
		if err := r.users.FindOne(sc, bson.M{"_id": userID}).Decode(&user); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}

		now := time.Now()
		res, err := r.users.UpdateOne(sc,
			bson.M{"_id": userID, "following_creators": bson.M{"$ne": creatorID}},
			bson.M{"$addToSet": bson.M{"following_creators": creatorID}, "$set": bson.M{"updated_at": now}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrAlreadyFollowing
		}

		res, err = r.creators.UpdateOne(sc,
			bson.M{"_id": creatorID},
			bson.M{"$addToSet": bson.M{"followers": userID}, "$set": bson.M{"updated_at": now}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}

		notif := models.NewNotification(creatorID, userID, models.NotificationTypeFollow, map[string]string{
			"followerName": user.Username,
		})
		insert, err := r.notifications.InsertOne(sc, notif)
		if err != nil {
			return nil, err
		}
		notif.ID = insert.InsertedID.(primitive.ObjectID)
		return notif, nil
	}, options.Transaction())
	if err != nil {
		return nil, err
	}
	return result.(*models.Notification), nil
}

// Unfollow removes the edge from both sides atomically. Removing an absent
// edge is a no-op, not an error; only unresolved IDs fail.
func (r *MongoFollowRepository) Unfollow(ctx context.Context, userID, creatorID primitive.ObjectID) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		now := time.Now()
		res, err := r.users.UpdateOne(sc,
			bson.M{"_id": userID},
			bson.M{"$pull": bson.M{"following_creators": creatorID}, "$set": bson.M{"updated_at": now}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}

		res, err = r.creators.UpdateOne(sc,
			bson.M{"_id": creatorID},
			bson.M{"$pull": bson.M{"followers": userID}, "$set": bson.M{"updated_at": now}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	}, options.Transaction())
	return err
}

func (r *MongoFollowRepository) IsFollowing(ctx context.Context, userID, creatorID primitive.ObjectID) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"_id": userID, "following_creators": creatorID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
