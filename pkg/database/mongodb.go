package database

import (
	"context"
	"fmt"
	"time"

	"moto-rental/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
	"go.uber.org/zap"
)

const defaultDatabase = "moto_rental"

// Connect dials MongoDB, verifies the connection and ensures indexes exist.
// The database name comes from the URI path, falling back to moto_rental.
func Connect(ctx context.Context, mongoURI string, logger *zap.Logger) (*mongo.Database, error) {
	cs, err := connstring.ParseAndValidate(mongoURI)
	if err != nil {
		return nil, fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := cs.Database
	if dbName == "" {
		dbName = defaultDatabase
	}
	logger.Info("connected to MongoDB", zap.String("database", dbName))

	db := client.Database(dbName)
	if err := createIndexes(ctx, db, logger); err != nil {
		return nil, err
	}
	return db, nil
}

// indexes lists the indexes each collection needs. Unique indexes back the
// duplicate checks in the repositories.
func indexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		repository.MotorcycleCollection: {
			{Keys: bson.D{{Key: "license_plate", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "year", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		repository.DriverCollection: {
			{Keys: bson.D{{Key: "cnpj", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "license_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.RentalCollection: {
			{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "end_date", Value: -1}}},
			{Keys: bson.D{{Key: "motorcycle_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		repository.NotificationCollection: {
			{Keys: bson.D{{Key: "motorcycle_id", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	}
}

func createIndexes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	for collection, models := range indexes() {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("creating %s indexes: %w", collection, err)
		}
	}
	logger.Debug("database indexes ensured")
	return nil
}

// Disconnect closes the MongoDB connection
func Disconnect(ctx context.Context, client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}

// Health checks the database connection health
func Health(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.Client().Ping(ctx, nil)
}
