package notices

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, notice Notice) error
	ListByOwner(ctx context.Context, ownerID string, limit, offset int64) ([]Notice, error)
	CountUnread(ctx context.Context, ownerID string) (int64, error)
	MarkRead(ctx context.Context, ownerID, id string) (Notice, error)
	MarkAllRead(ctx context.Context, ownerID string) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, notice Notice) error {
	_, err := r.col.InsertOne(ctx, notice)
	return err
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int64) ([]Notice, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Notice, 0)
	for cursor.Next(ctx) {
		var notice Notice
		if err := cursor.Decode(&notice); err != nil {
			return nil, err
		}
		items = append(items, notice)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) CountUnread(ctx context.Context, ownerID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"owner_id": ownerID, "read": false})
}

func (r *MongoRepository) MarkRead(ctx context.Context, ownerID, id string) (Notice, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"read": true}}

	var updated Notice
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id, "owner_id": ownerID}, update, opts).Decode(&updated)
	if err != nil {
		return Notice{}, err
	}
	return updated, nil
}

func (r *MongoRepository) MarkAllRead(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.col.UpdateMany(ctx, bson.M{"owner_id": ownerID, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
