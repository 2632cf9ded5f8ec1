package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docchat/docchat-be/repository"
	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const chatPromptTemplate = `You are an AI assistant helping with questions about a PDF document titled '%s'.
Use the following PDF content to answer the user's questions accurately.
If the answer cannot be found in the PDF content, politely say so and suggest what might help.

PDF CONTENT:
%s`

type ChatService interface {
	Converse(ctx context.Context, userID, message string) (*types.ChatResponse, error)
	History(ctx context.Context, userID string, limit int64) ([]*types.ChatExchange, error)
}

type chatService struct {
	selector  ActiveDocumentService
	extractor ExtractionService
	ai        AIService
	exchanges repository.ChatRepo
}

func NewChatService(
	selector ActiveDocumentService,
	extractor ExtractionService,
	ai AIService,
	exchanges repository.ChatRepo,
) ChatService {
	return &chatService{
		selector:  selector,
		extractor: extractor,
		ai:        ai,
		exchanges: exchanges,
	}
}

func (s *chatService) Converse(ctx context.Context, userID, message string) (*types.ChatResponse, error) {
	selection, err := s.selector.GetSelected(ctx, userID)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, types.NewAppError(types.KindBadRequest, "no document selected for chat", nil)
	}

	content, err := s.extractor.GetOrExtract(ctx, selection.DocumentID, userID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, types.NewAppError(types.KindBadRequest, "selected document has no extractable text", nil)
	}

	prompt := fmt.Sprintf(chatPromptTemplate, selection.Title, content)
	answer, err := s.ai.Chat(ctx, prompt, message)
	if err != nil {
		return nil, err
	}

	// The answer is already committed to the caller at this point; losing the
	// transcript is logged, not surfaced.
	now := time.Now().Unix()
	userTurn := &types.ChatExchange{
		ID:        bson.NewObjectID().Hex(),
		UserID:    userID,
		Message:   message,
		IsUser:    true,
		Timestamp: now,
	}
	assistantTurn := &types.ChatExchange{
		ID:        bson.NewObjectID().Hex(),
		UserID:    userID,
		Message:   answer,
		IsUser:    false,
		Timestamp: now,
	}
	if err := s.exchanges.InsertPair(ctx, userTurn, assistantTurn); err != nil {
		slog.Error("failed to persist chat exchange", "user_id", userID, "err", err)
	}

	return &types.ChatResponse{
		Message:       message,
		Response:      answer,
		DocumentTitle: selection.Title,
	}, nil
}

func (s *chatService) History(ctx context.Context, userID string, limit int64) ([]*types.ChatExchange, error) {
	exchanges, err := s.exchanges.FindByUser(ctx, userID, limit)
	if err != nil {
		return nil, types.NewAppError(types.KindStorageFailure, "failed to load chat history", err)
	}
	return exchanges, nil
}
