package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/docchat/docchat-be/database"
	"github.com/docchat/docchat-be/repository"
	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type DocumentService interface {
	Store(ctx context.Context, content io.Reader, req types.UploadDocumentRequest, userID string) (*types.DocumentMetadata, error)
	Fetch(ctx context.Context, documentID, userID string) (*types.DocumentMetadata, error)
	List(ctx context.Context, userID string, skip, limit int64) ([]*types.DocumentMetadata, error)
	Delete(ctx context.Context, documentID, userID string) error
	Download(ctx context.Context, documentID, userID string) (*types.DocumentMetadata, io.ReadCloser, error)
}

type documentService struct {
	documents repository.DocumentRepo
	binaries  database.BinaryStore
}

func NewDocumentService(documents repository.DocumentRepo, binaries database.BinaryStore) DocumentService {
	return &documentService{
		documents: documents,
		binaries:  binaries,
	}
}

type countingReader struct {
	reader io.Reader
	n      int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n += int64(n)
	return n, err
}

func (s *documentService) Store(ctx context.Context, content io.Reader, req types.UploadDocumentRequest, userID string) (*types.DocumentMetadata, error) {
	counted := &countingReader{reader: content}
	fileID, err := s.binaries.Put(ctx, req.Filename, counted)
	if err != nil {
		return nil, types.NewAppError(types.KindStorageFailure, "failed to store document", err)
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}
	doc := &types.DocumentMetadata{
		ID:          bson.NewObjectID().Hex(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        tags,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		FileSize:    counted.n,
		UploadDate:  time.Now().Unix(),
		FileID:      fileID,
	}
	if err := s.documents.Insert(ctx, doc); err != nil {
		if delErr := s.binaries.Delete(ctx, fileID); delErr != nil {
			slog.Warn("failed to remove binary after metadata insert failure", "file_id", fileID, "err", delErr)
		}
		return nil, types.NewAppError(types.KindStorageFailure, "failed to store document metadata", err)
	}
	return doc, nil
}

func (s *documentService) Fetch(ctx context.Context, documentID, userID string) (*types.DocumentMetadata, error) {
	if _, err := bson.ObjectIDFromHex(documentID); err != nil {
		return nil, types.NewAppError(types.KindBadRequest, "invalid document id", err)
	}

	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.NewAppError(types.KindNotFound, "document not found", err)
		}
		return nil, types.NewAppError(types.KindStorageFailure, "failed to load document metadata", err)
	}
	if doc.UserID != userID {
		return nil, types.NewAppError(types.KindForbidden, "document belongs to another user", nil)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, userID string, skip, limit int64) ([]*types.DocumentMetadata, error) {
	docs, err := s.documents.FindByUser(ctx, userID, skip, limit)
	if err != nil {
		return nil, types.NewAppError(types.KindStorageFailure, "failed to list documents", err)
	}
	return docs, nil
}

// Delete removes the binary before the metadata so a partial failure never
// leaves metadata pointing at a missing binary.
func (s *documentService) Delete(ctx context.Context, documentID, userID string) error {
	doc, err := s.Fetch(ctx, documentID, userID)
	if err != nil {
		return err
	}
	if err := s.binaries.Delete(ctx, doc.FileID); err != nil {
		return types.NewAppError(types.KindStorageFailure, "failed to delete document binary", err)
	}
	if err := s.documents.Delete(ctx, documentID); err != nil {
		return types.NewAppError(types.KindStorageFailure, "failed to delete document metadata", err)
	}
	return nil
}

func (s *documentService) Download(ctx context.Context, documentID, userID string) (*types.DocumentMetadata, io.ReadCloser, error) {
	doc, err := s.Fetch(ctx, documentID, userID)
	if err != nil {
		return nil, nil, err
	}
	stream, err := s.binaries.Open(ctx, doc.FileID)
	if err != nil {
		return nil, nil, types.NewAppError(types.KindStorageFailure, "failed to open document binary", err)
	}
	return doc, stream, nil
}
