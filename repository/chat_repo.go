package repository

import (
	"context"
	"log/slog"

	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ChatRepo interface {
	InsertPair(ctx context.Context, userTurn, assistantTurn *types.ChatExchange) error
	FindByUser(ctx context.Context, userID string, limit int64) ([]*types.ChatExchange, error)
}

type chatRepo struct {
	collection *mongo.Collection
}

func NewChatRepo(collection *mongo.Collection) ChatRepo {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		slog.Warn("failed to create chat indexes", "err", err)
	}
	return &chatRepo{
		collection: collection,
	}
}

func (r *chatRepo) InsertPair(ctx context.Context, userTurn, assistantTurn *types.ChatExchange) error {
	_, err := r.collection.InsertMany(ctx, []any{userTurn, assistantTurn})
	return err
}

func (r *chatRepo) FindByUser(ctx context.Context, userID string, limit int64) ([]*types.ChatExchange, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exchanges []*types.ChatExchange
	for cursor.Next(ctx) {
		var exchange types.ChatExchange
		if err := cursor.Decode(&exchange); err != nil {
			return nil, err
		}
		exchanges = append(exchanges, &exchange)
	}
	return exchanges, cursor.Err()
}
