package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Store wraps the MongoDB connection and the collections backing the CRUD
// layer.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
}

// Connect opens the MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGODB_URI is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{
		client:   client,
		database: client.Database(database),
	}, nil
}

func (s *Store) historias() *mongo.Collection {
	return s.database.Collection("historias")
}

func (s *Store) personajes() *mongo.Collection {
	return s.database.Collection("personajes")
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
