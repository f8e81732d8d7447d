package admins

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	GetByUsername(ctx context.Context, username string) (AdminUser, error)
	Upsert(ctx context.Context, user AdminUser) error
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (AdminUser, error) {
	var user AdminUser
	if err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		return AdminUser{}, err
	}
	return user, nil
}

func (r *MongoRepository) Upsert(ctx context.Context, user AdminUser) error {
	filter := bson.M{"username": user.Username}
	update := bson.M{
		"$set": bson.M{
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"role":          user.Role,
			"updated_at":    user.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        user.ID,
			"username":   user.Username,
			"created_at": user.CreatedAt,
		},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
