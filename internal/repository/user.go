// Package repository provides data access for the account documents.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/asuyou/anzen-web-api/internal/logger"
	"github.com/asuyou/anzen-web-api/internal/models"
	"github.com/asuyou/anzen-web-api/internal/storage"
)

// ErrUserNotFound is returned when no user matches the requested name.
var ErrUserNotFound = errors.New("user not found")

// UserRepository reads and writes user documents.
type UserRepository struct {
	users  *mongo.Collection
	logger logger.Logger
}

// NewUserRepository creates a repository over the users collection.
func NewUserRepository(db *mongo.Database, log logger.Logger) *UserRepository {
	return &UserRepository{
		users:  db.Collection(storage.CollectionUsers),
		logger: log,
	}
}

// Create inserts a new user document, assigning an id and timestamps.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = bson.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		r.logger.Error("Failed to create user",
			logger.String("name", user.Name),
			logger.Error(err),
		)
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByName returns the user with the given account name.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.D{{Key: "name", Value: name}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error("Failed to get user by name",
			logger.String("name", name),
			logger.Error(err),
		)
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Exists reports whether a user with the given name already exists.
func (r *UserRepository) Exists(ctx context.Context, name string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}
