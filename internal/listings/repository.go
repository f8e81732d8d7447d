package listings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type query struct {
	CityID      string
	ProjectType string
	Beds        string
	Status      string
	PriceMin    float64
	PriceMax    float64
	HasPriceMin bool
	HasPriceMax bool
}

type Repository interface {
	Upsert(ctx context.Context, listing Listing) error
	Find(ctx context.Context, q query, limit, offset int64) ([]Listing, error)
	Count(ctx context.Context, q query) (int64, error)
	GetByID(ctx context.Context, id string) (Listing, error)
	GetBySlug(ctx context.Context, slug string) (Listing, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Upsert(ctx context.Context, listing Listing) error {
	filter := bson.M{"_id": listing.ID}
	update := bson.M{"$set": listing}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (r *MongoRepository) Find(ctx context.Context, q query, limit, offset int64) ([]Listing, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, r.queryToBSON(q), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Listing, 0)
	for cursor.Next(ctx) {
		var listing Listing
		if err := cursor.Decode(&listing); err != nil {
			return nil, err
		}
		items = append(items, listing)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Count(ctx context.Context, q query) (int64, error) {
	return r.col.CountDocuments(ctx, r.queryToBSON(q))
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (Listing, error) {
	var listing Listing
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		return Listing{}, err
	}
	return listing, nil
}

func (r *MongoRepository) GetBySlug(ctx context.Context, slug string) (Listing, error) {
	var listing Listing
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&listing); err != nil {
		return Listing{}, err
	}
	return listing, nil
}

func (r *MongoRepository) queryToBSON(q query) bson.M {
	out := bson.M{}
	if q.CityID != "" {
		out["city_id"] = q.CityID
	}
	if q.ProjectType != "" {
		out["project_type"] = q.ProjectType
	}
	if q.Beds != "" {
		out["beds"] = q.Beds
	}
	if q.Status != "" {
		out["status"] = q.Status
	}
	price := bson.M{}
	if q.HasPriceMin {
		price["$gte"] = q.PriceMin
	}
	if q.HasPriceMax {
		price["$lte"] = q.PriceMax
	}
	if len(price) > 0 {
		out["price_value"] = price
	}
	return out
}
