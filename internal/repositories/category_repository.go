package repositories

import (
	"context"

	"github.com/skill-eureka/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository defines the interface for category lookups.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	SeedCategories(ctx context.Context, names []string) error
}

// MongoCategoryRepository implements CategoryRepository for MongoDB.
type MongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new MongoCategoryRepository.
func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: db.Collection("categories")}
}

// ListCategories returns all categories sorted by name.
func (r *MongoCategoryRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SeedCategories upserts the default category set at startup.
func (r *MongoCategoryRepository) SeedCategories(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"name": name},
			bson.M{"$setOnInsert": bson.M{"name": name, "icon": ""}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
