package repositories

import (
	"context"
	"time"

	"github.com/skill-eureka/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository defines the interface for user data operations.
// Engagement set mutations are idempotent: adds use $addToSet, removes use
// $pull, so repeating an operation never changes the outcome.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserProfileRequest) (*models.User, error)
	AddLikedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error)
	RemoveLikedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error)
	AddSavedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error)
	RemoveSavedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error)
	AddWatchLaterVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error)
	RemoveWatchLaterVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error)
	AppendHistory(ctx context.Context, userID, videoID primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser inserts a new user. A duplicate username or email surfaces as
// ErrDuplicate via the unique indexes, leaving the store unchanged.
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the non-empty fields of req and returns the updated
// document.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserProfileRequest) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Bio != "" {
		set["bio"] = req.Bio
	}
	if req.ProfilePic != "" {
		set["profile_pic"] = req.ProfilePic
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.GetUserByID(ctx, id)
}

// addToSet reports whether the set actually changed, so callers can keep
// derived counters accurate under repeated (idempotent) calls.
func (r *MongoUserRepository) addToSet(ctx context.Context, userID primitive.ObjectID, field string, videoID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{field: videoID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoUserRepository) pull(ctx context.Context, userID primitive.ObjectID, field string, videoID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{field: videoID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoUserRepository) AddLikedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.addToSet(ctx, userID, "liked_videos", videoID)
}

func (r *MongoUserRepository) RemoveLikedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.pull(ctx, userID, "liked_videos", videoID)
}

func (r *MongoUserRepository) AddSavedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.addToSet(ctx, userID, "saved_videos", videoID)
}

func (r *MongoUserRepository) RemoveSavedVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.pull(ctx, userID, "saved_videos", videoID)
}

func (r *MongoUserRepository) AddWatchLaterVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.addToSet(ctx, userID, "watch_later_videos", videoID)
}

func (r *MongoUserRepository) RemoveWatchLaterVideo(ctx context.Context, userID, videoID primitive.ObjectID) (bool, error) {
	return r.pull(ctx, userID, "watch_later_videos", videoID)
}

// AppendHistory logs a watch event. History is a log, not a set, so repeat
// watches append again.
func (r *MongoUserRepository) AppendHistory(ctx context.Context, userID, videoID primitive.ObjectID) error {
	entry := models.HistoryEntry{VideoID: videoID, WatchedAt: time.Now()}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$push": bson.M{"history": entry},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
