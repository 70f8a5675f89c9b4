// Package storage provides the MongoDB store client. Pipeline execution
// is the one blocking operation in the service; cancellation is driven by
// the caller's context, and connection pooling belongs to the driver.
package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/asuyou/anzen-web-api/internal/config"
	"github.com/asuyou/anzen-web-api/internal/logger"
)

// Store wraps the shared MongoDB client and database handle.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    logger.Logger
}

// Connect establishes a client, verifies the deployment is reachable, and
// returns a Store bound to the configured database.
func Connect(ctx context.Context, cfg config.MongoConfig, log logger.Logger) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	log.Info("Connected to MongoDB", logger.String("database", cfg.Database))

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		log:    log,
	}, nil
}

// Aggregate executes a pipeline against the named collection and decodes
// every result document into results, a pointer to a slice.
func (s *Store) Aggregate(ctx context.Context, collection string, pl mongo.Pipeline, results any) error {
	cursor, err := s.db.Collection(collection).Aggregate(ctx, pl)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", collection, err)
	}

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s results: %w", collection, err)
	}
	return nil
}

// Database returns the underlying database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
