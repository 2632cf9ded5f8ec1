package repository

import (
	"context"
	"log/slog"

	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type DocumentRepo interface {
	Insert(ctx context.Context, doc *types.DocumentMetadata) error
	FindByID(ctx context.Context, id string) (*types.DocumentMetadata, error)
	FindByUser(ctx context.Context, userID string, skip, limit int64) ([]*types.DocumentMetadata, error)
	SetPageCount(ctx context.Context, id string, pageCount int) error
	Delete(ctx context.Context, id string) error
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(collection *mongo.Collection) DocumentRepo {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "upload_date", Value: -1},
			},
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		slog.Warn("failed to create document indexes", "err", err)
	}
	return &documentRepo{
		collection: collection,
	}
}

func (r *documentRepo) Insert(ctx context.Context, doc *types.DocumentMetadata) error {
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *documentRepo) FindByID(ctx context.Context, id string) (*types.DocumentMetadata, error) {
	var doc types.DocumentMetadata
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) FindByUser(ctx context.Context, userID string, skip, limit int64) ([]*types.DocumentMetadata, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "upload_date", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*types.DocumentMetadata
	for cursor.Next(ctx) {
		var doc types.DocumentMetadata
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, cursor.Err()
}

func (r *documentRepo) SetPageCount(ctx context.Context, id string, pageCount int) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"page_count": pageCount}})
	return err
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
