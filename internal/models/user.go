package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is an account document in the users collection.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	PasswordHash string        `bson:"hash" json:"-"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}
