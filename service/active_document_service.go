package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/docchat/docchat-be/repository"
	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ActiveDocumentService interface {
	Select(ctx context.Context, documentID, userID string) (*types.ActiveSelection, error)
	GetSelected(ctx context.Context, userID string) (*types.ActiveSelection, error)
}

type activeDocumentService struct {
	documents  DocumentService
	selections repository.SelectionRepo
}

func NewActiveDocumentService(documents DocumentService, selections repository.SelectionRepo) ActiveDocumentService {
	return &activeDocumentService{
		documents:  documents,
		selections: selections,
	}
}

func (s *activeDocumentService) Select(ctx context.Context, documentID, userID string) (*types.ActiveSelection, error) {
	doc, err := s.documents.Fetch(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	selection := &types.ActiveSelection{
		UserID:     userID,
		DocumentID: doc.ID,
		Title:      doc.Title,
		UpdatedAt:  time.Now().Unix(),
	}
	if err := s.selections.Upsert(ctx, selection); err != nil {
		return nil, types.NewAppError(types.KindStorageFailure, "failed to store selection", err)
	}
	return selection, nil
}

// GetSelected returns nil when no document is selected. A selection whose
// document no longer resolves is cleared and reported as absent, never as a
// dangling reference.
func (s *activeDocumentService) GetSelected(ctx context.Context, userID string) (*types.ActiveSelection, error) {
	selection, err := s.selections.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, types.NewAppError(types.KindStorageFailure, "failed to load selection", err)
	}

	if _, err := s.documents.Fetch(ctx, selection.DocumentID, userID); err != nil {
		if delErr := s.selections.Delete(ctx, userID); delErr != nil {
			slog.Warn("failed to clear stale selection", "user_id", userID, "err", delErr)
		}
		return nil, nil
	}
	return selection, nil
}
