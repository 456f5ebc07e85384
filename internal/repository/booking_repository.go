package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"home-services-server/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetByCustomer(ctx context.Context, email string) ([]models.Booking, error)
	HasActive(ctx context.Context, serviceID, customerEmail string) (bool, error)
	HasPendingOrCompleted(ctx context.Context, serviceID, customerEmail string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByService(ctx context.Context, serviceID string) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type bookingRepository struct {
	collection *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &bookingRepository{collection: db.Collection("bookings")}
}

// EnsureIndexes creates the partial unique index backing the one
// non-cancelled booking per (customer, service) rule, so concurrent inserts
// that slip past the pre-check still collide. The $in partial filter
// requires MongoDB 6.0 or newer.
func (r *bookingRepository) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys: bson.D{{Key: "customerEmail", Value: 1}, {Key: "serviceId", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": bson.A{models.StatusPending, models.StatusCompleted}},
			}),
	}

	_, err := r.collection.Indexes().CreateOne(ctx, index)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrAlreadyBooked
		}
		return err
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) GetByCustomer(ctx context.Context, email string) ([]models.Booking, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"customerEmail": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	return bookings, nil
}

func (r *bookingRepository) HasActive(ctx context.Context, serviceID, customerEmail string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"serviceId":     serviceID,
		"customerEmail": customerEmail,
		"status":        bson.M{"$ne": models.StatusCancelled},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) HasPendingOrCompleted(ctx context.Context, serviceID, customerEmail string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"serviceId":     serviceID,
		"customerEmail": customerEmail,
		"status":        bson.M{"$in": bson.A{models.StatusPending, models.StatusCompleted}},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) DeleteByService(ctx context.Context, serviceID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"serviceId": serviceID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
