package repository

import (
	"context"

	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type SelectionRepo interface {
	Upsert(ctx context.Context, selection *types.ActiveSelection) error
	FindByUser(ctx context.Context, userID string) (*types.ActiveSelection, error)
	Delete(ctx context.Context, userID string) error
}

type selectionRepo struct {
	collection *mongo.Collection
}

func NewSelectionRepo(collection *mongo.Collection) SelectionRepo {
	return &selectionRepo{
		collection: collection,
	}
}

func (r *selectionRepo) Upsert(ctx context.Context, selection *types.ActiveSelection) error {
	filter := bson.M{"_id": selection.UserID}
	_, err := r.collection.ReplaceOne(ctx, filter, selection, options.Replace().SetUpsert(true))
	return err
}

func (r *selectionRepo) FindByUser(ctx context.Context, userID string) (*types.ActiveSelection, error) {
	var selection types.ActiveSelection
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&selection)
	if err != nil {
		return nil, err
	}
	return &selection, nil
}

func (r *selectionRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}
