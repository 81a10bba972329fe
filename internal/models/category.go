package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a browsable video category.
type Category struct {
	ID   primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
	Icon string             `json:"icon" bson:"icon"`
}
