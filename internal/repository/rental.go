package repository

import (
	"context"
	"fmt"
	"time"

	"moto-rental/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// rentalDocument is the stored form of a rental. Money is kept as Decimal128
// so amounts survive the round trip without float rounding.
type rentalDocument struct {
	ID               string                `bson:"_id"`
	MotorcycleID     string                `bson:"motorcycle_id"`
	DriverID         string                `bson:"driver_id"`
	StartDate        time.Time             `bson:"start_date"`
	EndDate          time.Time             `bson:"end_date"`
	ExpectedEndDate  time.Time             `bson:"expected_end_date"`
	PlanDays         int                   `bson:"plan_days"`
	DailyRate        primitive.Decimal128  `bson:"daily_rate"`
	TotalAmount      primitive.Decimal128  `bson:"total_amount"`
	FineAmount       *primitive.Decimal128 `bson:"fine_amount,omitempty"`
	AdditionalAmount *primitive.Decimal128 `bson:"additional_amount,omitempty"`
	Status           string                `bson:"status"`
	CreatedAt        time.Time             `bson:"created_at"`
	UpdatedAt        *time.Time            `bson:"updated_at,omitempty"`
}

type RentalRepository struct {
	collection *mongo.Collection
}

func NewRentalRepository(db *mongo.Database) *RentalRepository {
	return &RentalRepository{
		collection: db.Collection(RentalCollection),
	}
}

func (r *RentalRepository) Create(ctx context.Context, rental *models.Rental) error {
	doc, err := toRentalDocument(rental)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err = r.collection.InsertOne(ctx, doc)
	return translateError(err)
}

func (r *RentalRepository) FindByID(ctx context.Context, id string) (*models.Rental, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc rentalDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateError(err)
	}
	return doc.toModel()
}

// Update replaces the stored rental with the given one.
func (r *RentalRepository) Update(ctx context.Context, rental *models.Rental) error {
	doc, err := toRentalDocument(rental)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": rental.ID}, doc)
	if err != nil {
		return translateError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RentalRepository) FindByDriver(ctx context.Context, driverID string) ([]*models.Rental, error) {
	return r.FindAll(ctx, RentalFilter{DriverID: driverID})
}

func (r *RentalRepository) FindAll(ctx context.Context, filter RentalFilter) ([]*models.Rental, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{}
	if filter.DriverID != "" {
		query["driver_id"] = filter.DriverID
	}
	if filter.MotorcycleID != "" {
		query["motorcycle_id"] = filter.MotorcycleID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rentals := []*models.Rental{}
	for cursor.Next(ctx) {
		var doc rentalDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rental, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, rental)
	}
	return rentals, cursor.Err()
}

func (r *RentalRepository) CountByMotorcycle(ctx context.Context, motorcycleID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{"motorcycle_id": motorcycleID})
}

func toRentalDocument(rental *models.Rental) (*rentalDocument, error) {
	dailyRate, err := toDecimal128(rental.DailyRate)
	if err != nil {
		return nil, err
	}
	total, err := toDecimal128(rental.TotalAmount)
	if err != nil {
		return nil, err
	}
	fine, err := toOptionalDecimal128(rental.FineAmount)
	if err != nil {
		return nil, err
	}
	additional, err := toOptionalDecimal128(rental.AdditionalAmount)
	if err != nil {
		return nil, err
	}

	return &rentalDocument{
		ID:               rental.ID,
		MotorcycleID:     rental.MotorcycleID,
		DriverID:         rental.DriverID,
		StartDate:        rental.StartDate,
		EndDate:          rental.EndDate,
		ExpectedEndDate:  rental.ExpectedEndDate,
		PlanDays:         rental.PlanDays,
		DailyRate:        dailyRate,
		TotalAmount:      total,
		FineAmount:       fine,
		AdditionalAmount: additional,
		Status:           string(rental.Status),
		CreatedAt:        rental.CreatedAt,
		UpdatedAt:        rental.UpdatedAt,
	}, nil
}

func (d *rentalDocument) toModel() (*models.Rental, error) {
	dailyRate, err := fromDecimal128(d.DailyRate)
	if err != nil {
		return nil, err
	}
	total, err := fromDecimal128(d.TotalAmount)
	if err != nil {
		return nil, err
	}
	fine, err := fromOptionalDecimal128(d.FineAmount)
	if err != nil {
		return nil, err
	}
	additional, err := fromOptionalDecimal128(d.AdditionalAmount)
	if err != nil {
		return nil, err
	}

	return &models.Rental{
		ID:               d.ID,
		MotorcycleID:     d.MotorcycleID,
		DriverID:         d.DriverID,
		StartDate:        d.StartDate.UTC(),
		EndDate:          d.EndDate.UTC(),
		ExpectedEndDate:  d.ExpectedEndDate.UTC(),
		PlanDays:         d.PlanDays,
		DailyRate:        dailyRate,
		TotalAmount:      total,
		FineAmount:       fine,
		AdditionalAmount: additional,
		Status:           models.RentalStatus(d.Status),
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("converting %s to decimal128: %w", d, err)
	}
	return v, nil
}

func toOptionalDecimal128(d *decimal.Decimal) (*primitive.Decimal128, error) {
	if d == nil {
		return nil, nil
	}
	v, err := toDecimal128(*d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing decimal128 %s: %w", v, err)
	}
	return d, nil
}

func fromOptionalDecimal128(v *primitive.Decimal128) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := fromDecimal128(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
