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

// VideoRepository defines the interface for video data operations.
// Create and Delete also maintain the owning creator's videos array, in the
// same transaction as the video write.
type VideoRepository interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideoByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error)
	ListVideos(ctx context.Context, category string, skip, limit int64) ([]models.Video, error)
	ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Video, error)
	DeleteVideo(ctx context.Context, id, creatorID primitive.ObjectID) (*models.Video, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	AdjustLikes(ctx context.Context, id primitive.ObjectID, delta int) error
	AdjustSaves(ctx context.Context, id primitive.ObjectID, delta int) error
}

// MongoVideoRepository implements VideoRepository for MongoDB.
type MongoVideoRepository struct {
	client   *mongo.Client
	videos   *mongo.Collection
	creators *mongo.Collection
}

// NewMongoVideoRepository creates a new MongoVideoRepository.
func NewMongoVideoRepository(client *mongo.Client, db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{
		client:   client,
		videos:   db.Collection("videos"),
		creators: db.Collection("creators"),
	}
}

// CreateVideo inserts the video and appends its ID to the owning creator's
// videos array in one transaction. Fails with ErrNotFound when the owner
// does not resolve.
func (r *MongoVideoRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		video.ID = primitive.NewObjectID()
		if video.UploadDate.IsZero() {
			video.UploadDate = time.Now()
		}

		res, err := r.creators.UpdateOne(sc,
			bson.M{"_id": video.CreatorID},
			bson.M{"$addToSet": bson.M{"videos": video.ID}, "$set": bson.M{"updated_at": time.Now()}},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}

		if _, err := r.videos.InsertOne(sc, video); err != nil {
			return nil, err
		}
		return nil, nil
	}, options.Transaction())
	return err
}

func (r *MongoVideoRepository) GetVideoByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var video models.Video
	err := r.videos.FindOne(ctx, bson.M{"_id": id}).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &video, nil
}

// ListVideos returns videos newest first, optionally filtered by category.
func (r *MongoVideoRepository) ListVideos(ctx context.Context, category string, skip, limit int64) ([]models.Video, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "upload_date", Value: -1}})
	cursor, err := r.videos.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var videos []models.Video
	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

func (r *MongoVideoRepository) ListByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Video, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "upload_date", Value: -1}})
	cursor, err := r.videos.Find(ctx, bson.M{"creator_id": creatorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var videos []models.Video
	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// DeleteVideo removes the record and pulls its ID from the owner's videos
// array in one transaction. Only the owning creator may delete; a mismatch
// fails with ErrNotOwner. The stored media paths are returned so the caller
// can remove the files best-effort.
func (r *MongoVideoRepository) DeleteVideo(ctx context.Context, id, creatorID primitive.ObjectID) (*models.Video, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var video models.Video
		if err := r.videos.FindOne(sc, bson.M{"_id": id}).Decode(&video); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if video.CreatorID != creatorID {
			return nil, ErrNotOwner
		}

		if _, err := r.videos.DeleteOne(sc, bson.M{"_id": id}); err != nil {
			return nil, err
		}
		_, err := r.creators.UpdateOne(sc,
			bson.M{"_id": creatorID},
			bson.M{"$pull": bson.M{"videos": id}, "$set": bson.M{"updated_at": time.Now()}},
		)
		if err != nil {
			return nil, err
		}
		return &video, nil
	}, options.Transaction())
	if err != nil {
		return nil, err
	}
	return result.(*models.Video), nil
}

func (r *MongoVideoRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.videos.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *MongoVideoRepository) AdjustLikes(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.videos.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"likes": delta}})
	return err
}

func (r *MongoVideoRepository) AdjustSaves(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.videos.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"saves": delta}})
	return err
}
