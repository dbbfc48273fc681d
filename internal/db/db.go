package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a lookup, update or delete matches no document
var ErrNotFound = errors.New("document not found")

// DB wraps a mongo database for document operations
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewDB connects to MongoDB and selects the database
func NewDB(ctx context.Context, url, name string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &DB{client: client, database: client.Database(name)}, nil
}

// Close disconnects the client
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *DB) devices() *mongo.Collection {
	return d.database.Collection("devices")
}

func (d *DB) schedules() *mongo.Collection {
	return d.database.Collection("schedules")
}

func (d *DB) deviceLogs() *mongo.Collection {
	return d.database.Collection("device_logs")
}
