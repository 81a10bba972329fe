package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique and query indexes the repositories rely
// on. Duplicate-key rejection of usernames, emails and application emails is
// enforced here rather than by read-then-write checks.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	principalIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	}

	if _, err := db.Collection("users").Indexes().CreateMany(ctx, principalIndexes); err != nil {
		return err
	}
	if _, err := db.Collection("creators").Indexes().CreateMany(ctx, principalIndexes); err != nil {
		return err
	}

	if _, err := db.Collection("creator_applications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}
	if _, err := db.Collection("creator_codes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	}); err != nil {
		return err
	}

	if _, err := db.Collection("videos").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "creator_id", Value: 1}, {Key: "upload_date", Value: -1}},
	}); err != nil {
		return err
	}
	if _, err := db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "read", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return err
	}
	return nil
}
