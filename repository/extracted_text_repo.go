package repository

import (
	"context"
	"log/slog"

	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ExtractedTextRepo interface {
	Upsert(ctx context.Context, text *types.ExtractedText) error
	Find(ctx context.Context, documentID, userID string) (*types.ExtractedText, error)
}

type extractedTextRepo struct {
	collection *mongo.Collection
}

func NewExtractedTextRepo(collection *mongo.Collection) ExtractedTextRepo {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "document_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		slog.Warn("failed to create extracted text indexes", "err", err)
	}
	return &extractedTextRepo{
		collection: collection,
	}
}

func (r *extractedTextRepo) Upsert(ctx context.Context, text *types.ExtractedText) error {
	filter := bson.M{"document_id": text.DocumentID, "user_id": text.UserID}
	_, err := r.collection.ReplaceOne(ctx, filter, text, options.Replace().SetUpsert(true))
	return err
}

func (r *extractedTextRepo) Find(ctx context.Context, documentID, userID string) (*types.ExtractedText, error) {
	var text types.ExtractedText
	err := r.collection.FindOne(ctx, bson.M{"document_id": documentID, "user_id": userID}).Decode(&text)
	if err != nil {
		return nil, err
	}
	return &text, nil
}
