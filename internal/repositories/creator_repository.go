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

// CreatorRepository defines the interface for creator data operations.
type CreatorRepository interface {
	CreateCreator(ctx context.Context, creator *models.Creator) error
	GetCreatorByID(ctx context.Context, id primitive.ObjectID) (*models.Creator, error)
	GetCreatorByEmail(ctx context.Context, email string) (*models.Creator, error)
	GetCreatorByUsername(ctx context.Context, username string) (*models.Creator, error)
	SearchVerified(ctx context.Context, search string) ([]models.Creator, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateCreatorProfileRequest) (*models.Creator, error)
}

// MongoCreatorRepository implements CreatorRepository for MongoDB.
type MongoCreatorRepository struct {
	collection *mongo.Collection
}

// NewMongoCreatorRepository creates a new MongoCreatorRepository.
func NewMongoCreatorRepository(db *mongo.Database) *MongoCreatorRepository {
	return &MongoCreatorRepository{collection: db.Collection("creators")}
}

func (r *MongoCreatorRepository) CreateCreator(ctx context.Context, creator *models.Creator) error {
	res, err := r.collection.InsertOne(ctx, creator)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	creator.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoCreatorRepository) GetCreatorByID(ctx context.Context, id primitive.ObjectID) (*models.Creator, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoCreatorRepository) GetCreatorByEmail(ctx context.Context, email string) (*models.Creator, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoCreatorRepository) GetCreatorByUsername(ctx context.Context, username string) (*models.Creator, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoCreatorRepository) findOne(ctx context.Context, filter bson.M) (*models.Creator, error) {
	var creator models.Creator
	err := r.collection.FindOne(ctx, filter).Decode(&creator)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &creator, nil
}

// SearchVerified lists verified creators, newest first, optionally filtered
// by a case-insensitive match on name or bio.
func (r *MongoCreatorRepository) SearchVerified(ctx context.Context, search string) ([]models.Creator, error) {
	filter := bson.M{"is_verified": true}
	if search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": search, "$options": "i"}},
			bson.M{"bio": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var creators []models.Creator
	if err = cursor.All(ctx, &creators); err != nil {
		return nil, err
	}
	return creators, nil
}

// UpdateProfile applies the non-empty fields of req and returns the updated
// document.
func (r *MongoCreatorRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateCreatorProfileRequest) (*models.Creator, error) {
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
	if req.YoutubeChannel != "" {
		set["youtube_channel"] = req.YoutubeChannel
	}
	if req.InstagramHandle != "" {
		set["instagram_handle"] = req.InstagramHandle
	}
	if req.LinkedinProfile != "" {
		set["linkedin_profile"] = req.LinkedinProfile
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.GetCreatorByID(ctx, id)
}
