package database

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// BinaryStore is the opaque-key blob storage the document service writes
// uploaded files into. Keys are hex ObjectID strings.
type BinaryStore interface {
	Put(ctx context.Context, filename string, source io.Reader) (string, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
}

type gridFSStore struct {
	bucket *mongo.GridFSBucket
}

func NewGridFSStore(db *mongo.Database) BinaryStore {
	return &gridFSStore{
		bucket: db.GridFSBucket(),
	}
}

func (s *gridFSStore) Put(ctx context.Context, filename string, source io.Reader) (string, error) {
	id, err := s.bucket.UploadFromStream(ctx, filename, source)
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

func (s *gridFSStore) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	id, err := bson.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, err
	}
	return s.bucket.OpenDownloadStream(ctx, id)
}

func (s *gridFSStore) Delete(ctx context.Context, fileID string) error {
	id, err := bson.ObjectIDFromHex(fileID)
	if err != nil {
		return err
	}
	return s.bucket.Delete(ctx, id)
}
