package repository

import (
	"context"
	"time"

	"moto-rental/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MotorcycleRepository struct {
	collection *mongo.Collection
}

func NewMotorcycleRepository(db *mongo.Database) *MotorcycleRepository {
	return &MotorcycleRepository{
		collection: db.Collection(MotorcycleCollection),
	}
}

func (r *MotorcycleRepository) Create(ctx context.Context, motorcycle *models.Motorcycle) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, motorcycle)
	return translateError(err)
}

func (r *MotorcycleRepository) FindByID(ctx context.Context, id string) (*models.Motorcycle, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MotorcycleRepository) FindByLicensePlate(ctx context.Context, plate string) (*models.Motorcycle, error) {
	return r.findOne(ctx, bson.M{"license_plate": plate})
}

// FindAll lists motorcycles, optionally restricted to an exact license plate.
func (r *MotorcycleRepository) FindAll(ctx context.Context, licensePlate string) ([]*models.Motorcycle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{}
	if licensePlate != "" {
		filter["license_plate"] = licensePlate
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	motorcycles := []*models.Motorcycle{}
	if err := cursor.All(ctx, &motorcycles); err != nil {
		return nil, err
	}
	return motorcycles, nil
}

func (r *MotorcycleRepository) UpdateLicensePlate(ctx context.Context, id, plate string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"license_plate": plate, "updated_at": updatedAt}},
	)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MotorcycleRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MotorcycleRepository) findOne(ctx context.Context, filter bson.M) (*models.Motorcycle, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var motorcycle models.Motorcycle
	if err := r.collection.FindOne(ctx, filter).Decode(&motorcycle); err != nil {
		return nil, translateError(err)
	}
	return &motorcycle, nil
}
