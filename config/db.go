package config

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect dials MongoDB once at startup and stores the client on the
// config. The lifecycle is owned here: Connect in main, Disconnect on
// shutdown.
func Connect(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}

	cfg.MongoClient = client
	log.Info().Str("db", cfg.DBName).Msg("MongoDB connected successfully")
	return nil
}

// Disconnect closes the Mongo client on graceful exit.
func Disconnect(ctx context.Context, cfg *Config) {
	if cfg.MongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cfg.MongoClient.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
}

// Collection returns a handle in the configured database.
func (c *Config) Collection(name string) *mongo.Collection {
	return c.MongoClient.Database(c.DBName).Collection(name)
}

// EnsureIndexes creates the uniqueness constraints the controllers rely
// on: one account per email address, and at most one registration per
// (event, attendee) pair. Duplicate inserts fail at the storage layer
// instead of racing a check-then-write.
func EnsureIndexes(ctx context.Context, cfg *Config) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cfg.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = cfg.Collection("registrations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "event", Value: 1},
			{Key: "attendee", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}
