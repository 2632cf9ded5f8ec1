package repository

import (
	"context"
	"log/slog"

	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepo interface {
	Create(ctx context.Context, user *types.User) error
	FindByID(ctx context.Context, id string) (*types.User, error)
	FindByEmail(ctx context.Context, email string) (*types.User, error)
	FindByResetToken(ctx context.Context, token string) (*types.User, error)
	Update(ctx context.Context, user *types.User) error
}

type userRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(collection *mongo.Collection) UserRepo {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		slog.Warn("failed to create user indexes", "err", err)
	}
	return &userRepo{
		collection: collection,
	}
}

func (r *userRepo) Create(ctx context.Context, user *types.User) error {
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*types.User, error) {
	var user types.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*types.User, error) {
	var user types.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByResetToken(ctx context.Context, token string) (*types.User, error) {
	var user types.User
	err := r.collection.FindOne(ctx, bson.M{"reset_token": token}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *types.User) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	return err
}
