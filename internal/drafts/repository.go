package drafts

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, draft Draft) error
	GetByID(ctx context.Context, ownerID, id string) (Draft, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int64) ([]Draft, error)
	Save(ctx context.Context, draft Draft) error
	Delete(ctx context.Context, ownerID, id string) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, draft Draft) error {
	_, err := r.col.InsertOne(ctx, draft)
	return err
}

func (r *MongoRepository) GetByID(ctx context.Context, ownerID, id string) (Draft, error) {
	var draft Draft
	err := r.col.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&draft)
	if err != nil {
		return Draft{}, err
	}
	return draft, nil
}

func (r *MongoRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int64) ([]Draft, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]Draft, 0)
	for cursor.Next(ctx) {
		var draft Draft
		if err := cursor.Decode(&draft); err != nil {
			return nil, err
		}
		items = append(items, draft)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *MongoRepository) Save(ctx context.Context, draft Draft) error {
	filter := bson.M{"_id": draft.ID, "owner_id": draft.OwnerID}
	res, err := r.col.ReplaceOne(ctx, filter, draft)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
