package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"home-services-server/internal/models"
)

// Top-rated listing is a fixed window: rating at least 4, at most 6 results.
const (
	topRatedMinimum = 4.0
	topRatedLimit   = 6
)

type ServiceRepository interface {
	Find(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error)
	GetByProvider(ctx context.Context, email string) ([]models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Service, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	TopRated(ctx context.Context) ([]models.Service, error)
	Categories(ctx context.Context) ([]string, error)
	AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review) (bool, error)
	SetAverageRating(ctx context.Context, id primitive.ObjectID, rating float64) error
}

type serviceRepository struct {
	collection *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) ServiceRepository {
	return &serviceRepository{collection: db.Collection("services")}
}

func (r *serviceRepository) Find(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	opts := options.Find()
	if sort := sortForSelector(filter.Sort); sort != nil {
		opts.SetSort(sort)
	}
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, buildServiceQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, err
	}

	if services == nil {
		services = []models.Service{}
	}

	return services, nil
}

// buildServiceQuery translates the listing filter into a Mongo query. An
// absent parameter contributes no constraint; the literal category "all"
// means no category constraint either.
func buildServiceQuery(filter models.ServiceFilter) bson.M {
	query := bson.M{}

	if filter.Category != "" && filter.Category != "all" {
		query["category"] = filter.Category
	}

	price := bson.M{}
	if filter.MinPrice != nil {
		price["$gte"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		price["$lte"] = *filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}

	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"category": pattern},
			bson.M{"description": pattern},
		}
	}

	return query
}

// sortForSelector maps a sort selector onto its sort document. Unknown
// selectors leave the store order untouched.
func sortForSelector(selector string) bson.D {
	switch selector {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case models.SortRatingDesc:
		return bson.D{{Key: "averageRating", Value: -1}}
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	var service models.Service
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) GetByProvider(ctx context.Context, email string) ([]models.Service, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"providerEmail": email})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, err
	}

	if services == nil {
		services = []models.Service{}
	}

	return services, nil
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	service.ID = primitive.NewObjectID()
	service.CreatedAt = time.Now()
	service.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, service)
	return err
}

// Update applies a partial $set and returns the post-update document.
func (r *serviceRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Service, error) {
	fields["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Service
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *serviceRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *serviceRepository) TopRated(ctx context.Context) ([]models.Service, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "averageRating", Value: -1}}).
		SetLimit(topRatedLimit)

	cursor, err := r.collection.Find(ctx, bson.M{"averageRating": bson.M{"$gte": topRatedMinimum}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err = cursor.All(ctx, &services); err != nil {
		return nil, err
	}

	if services == nil {
		services = []models.Service{}
	}

	return services, nil
}

func (r *serviceRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}

	return categories, nil
}

// AppendReview pushes a review onto the service's embedded list, guarded so
// a reviewer who already appears in the list cannot be added twice. Returns
// false when no document matched, i.e. the reviewer is already present or
// the service is gone.
func (r *serviceRepository) AppendReview(ctx context.Context, id primitive.ObjectID, review models.Review) (bool, error) {
	filter := bson.M{
		"_id":                   id,
		"reviews.reviewerEmail": bson.M{"$ne": review.ReviewerEmail},
	}
	update := bson.M{"$push": bson.M{"reviews": review}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

func (r *serviceRepository) SetAverageRating(ctx context.Context, id primitive.ObjectID, rating float64) error {
	update := bson.M{"$set": bson.M{
		"averageRating": rating,
		"updatedAt":     time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}
