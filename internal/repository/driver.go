package repository

import (
	"context"
	"time"

	"moto-rental/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DriverRepository struct {
	collection *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) *DriverRepository {
	return &DriverRepository{
		collection: db.Collection(DriverCollection),
	}
}

func (r *DriverRepository) Create(ctx context.Context, driver *models.DeliveryDriver) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.InsertOne(ctx, driver)
	return translateError(err)
}

func (r *DriverRepository) FindByID(ctx context.Context, id string) (*models.DeliveryDriver, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *DriverRepository) FindByCNPJ(ctx context.Context, cnpj string) (*models.DeliveryDriver, error) {
	return r.findOne(ctx, bson.M{"cnpj": cnpj})
}

func (r *DriverRepository) FindByLicenseNumber(ctx context.Context, licenseNumber string) (*models.DeliveryDriver, error) {
	return r.findOne(ctx, bson.M{"license_number": licenseNumber})
}

func (r *DriverRepository) FindAll(ctx context.Context) ([]*models.DeliveryDriver, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	drivers := []*models.DeliveryDriver{}
	if err := cursor.All(ctx, &drivers); err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *DriverRepository) UpdateLicenseImage(ctx context.Context, id, path string, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"license_image_path": path, "updated_at": updatedAt}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DriverRepository) findOne(ctx context.Context, filter bson.M) (*models.DeliveryDriver, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var driver models.DeliveryDriver
	if err := r.collection.FindOne(ctx, filter).Decode(&driver); err != nil {
		return nil, translateError(err)
	}
	return &driver, nil
}
