package service

import (
	"context"
	"testing"

	"github.com/docchat/docchat-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverseNoSelection(t *testing.T) {
	exchanges := newMemChatRepo()
	ai := &stubAI{response: "unused"}
	svc := NewChatService(&stubSelector{}, &stubExtractor{text: "content"}, ai, exchanges)

	_, err := svc.Converse(context.Background(), "user-1", "hello?")
	require.Error(t, err)
	assert.Equal(t, types.KindBadRequest, types.KindOf(err))
	assert.Zero(t, ai.calls)
	assert.Empty(t, exchanges.exchanges, "nothing should be persisted")
}

func TestConverseEmptyExtraction(t *testing.T) {
	selection := &types.ActiveSelection{UserID: "user-1", DocumentID: "doc-1", Title: "Scanned"}
	exchanges := newMemChatRepo()
	ai := &stubAI{response: "unused"}
	svc := NewChatService(&stubSelector{selection: selection}, &stubExtractor{text: ""}, ai, exchanges)

	_, err := svc.Converse(context.Background(), "user-1", "what does it say?")
	require.Error(t, err)
	assert.Equal(t, types.KindBadRequest, types.KindOf(err))
	assert.Zero(t, ai.calls)
}

func TestConverseSuccess(t *testing.T) {
	selection := &types.ActiveSelection{UserID: "user-1", DocumentID: "doc-1", Title: "Annual Report"}
	exchanges := newMemChatRepo()
	ai := &stubAI{response: "Revenue grew 12%."}
	svc := NewChatService(&stubSelector{selection: selection}, &stubExtractor{text: "the report body"}, ai, exchanges)

	resp, err := svc.Converse(context.Background(), "user-1", "how did revenue do?")
	require.NoError(t, err)
	assert.Equal(t, "how did revenue do?", resp.Message)
	assert.Equal(t, "Revenue grew 12%.", resp.Response)
	assert.Equal(t, "Annual Report", resp.DocumentTitle)

	// The grounding prompt carries title and extracted content.
	assert.Contains(t, ai.lastSystem, "Annual Report")
	assert.Contains(t, ai.lastSystem, "the report body")
	assert.Equal(t, "how did revenue do?", ai.lastUser)

	require.Len(t, exchanges.exchanges, 2)
	userTurn, assistantTurn := exchanges.exchanges[0], exchanges.exchanges[1]
	assert.True(t, userTurn.IsUser)
	assert.Equal(t, "how did revenue do?", userTurn.Message)
	assert.False(t, assistantTurn.IsUser)
	assert.Equal(t, "Revenue grew 12%.", assistantTurn.Message)
	assert.Equal(t, userTurn.Timestamp, assistantTurn.Timestamp)
}

func TestConversePersistenceFailureStillSucceeds(t *testing.T) {
	selection := &types.ActiveSelection{UserID: "user-1", DocumentID: "doc-1", Title: "Doc"}
	exchanges := newMemChatRepo()
	exchanges.failInsert = true
	svc := NewChatService(&stubSelector{selection: selection}, &stubExtractor{text: "content"}, &stubAI{response: "an answer"}, exchanges)

	resp, err := svc.Converse(context.Background(), "user-1", "a question")
	require.NoError(t, err, "a lost transcript must not fail the chat")
	assert.Equal(t, "an answer", resp.Response)
}

func TestConverseAIFailure(t *testing.T) {
	selection := &types.ActiveSelection{UserID: "user-1", DocumentID: "doc-1", Title: "Doc"}
	exchanges := newMemChatRepo()
	upstream := types.NewAppError(types.KindUpstreamUnavailable, "AI service unavailable", nil)
	svc := NewChatService(&stubSelector{selection: selection}, &stubExtractor{text: "content"}, &stubAI{err: upstream}, exchanges)

	_, err := svc.Converse(context.Background(), "user-1", "a question")
	require.Error(t, err)
	assert.Equal(t, types.KindUpstreamUnavailable, types.KindOf(err))
	assert.Empty(t, exchanges.exchanges, "failed chats leave no transcript")
}

func TestHistoryOrderAndLimit(t *testing.T) {
	selection := &types.ActiveSelection{UserID: "user-1", DocumentID: "doc-1", Title: "Doc"}
	exchanges := newMemChatRepo()
	svc := NewChatService(&stubSelector{selection: selection}, &stubExtractor{text: "content"}, &stubAI{response: "ok"}, exchanges)

	for _, msg := range []string{"first", "second", "third"} {
		_, err := svc.Converse(context.Background(), "user-1", msg)
		require.NoError(t, err)
	}

	history, err := svc.History(context.Background(), "user-1", 50)
	require.NoError(t, err)
	require.Len(t, history, 6)
	// Reverse chronological: the assistant's last answer first, then the
	// question that produced it.
	assert.False(t, history[0].IsUser)
	assert.True(t, history[1].IsUser)
	assert.Equal(t, "third", history[1].Message)
	assert.Equal(t, "first", history[5].Message)

	limited, err := svc.History(context.Background(), "user-1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
