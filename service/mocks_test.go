package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/docchat/docchat-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var errStoreDown = errors.New("store unavailable")

type memDocumentRepo struct {
	mu         sync.Mutex
	docs       map[string]*types.DocumentMetadata
	failInsert bool
}

func newMemDocumentRepo() *memDocumentRepo {
	return &memDocumentRepo{docs: make(map[string]*types.DocumentMetadata)}
}

func (r *memDocumentRepo) Insert(_ context.Context, doc *types.DocumentMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return errStoreDown
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *memDocumentRepo) FindByID(_ context.Context, id string) (*types.DocumentMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *doc
	return &copied, nil
}

func (r *memDocumentRepo) FindByUser(_ context.Context, userID string, skip, limit int64) ([]*types.DocumentMetadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var docs []*types.DocumentMetadata
	for _, doc := range r.docs {
		if doc.UserID == userID {
			copied := *doc
			docs = append(docs, &copied)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].UploadDate != docs[j].UploadDate {
			return docs[i].UploadDate > docs[j].UploadDate
		}
		return docs[i].ID > docs[j].ID
	})
	if skip >= int64(len(docs)) {
		return nil, nil
	}
	docs = docs[skip:]
	if limit < int64(len(docs)) {
		docs = docs[:limit]
	}
	return docs, nil
}

func (r *memDocumentRepo) SetPageCount(_ context.Context, id string, pageCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	doc.PageCount = pageCount
	return nil
}

func (r *memDocumentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

type memBinaryStore struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	failPut    bool
	failOpen   bool
	failDelete bool
}

func newMemBinaryStore() *memBinaryStore {
	return &memBinaryStore{blobs: make(map[string][]byte)}
}

func (s *memBinaryStore) Put(_ context.Context, _ string, source io.Reader) (string, error) {
	if s.failPut {
		return "", errStoreDown
	}
	data, err := io.ReadAll(source)
	if err != nil {
		return "", err
	}
	id := bson.NewObjectID().Hex()
	s.mu.Lock()
	s.blobs[id] = data
	s.mu.Unlock()
	return id, nil
}

func (s *memBinaryStore) Open(_ context.Context, fileID string) (io.ReadCloser, error) {
	if s.failOpen {
		return nil, errStoreDown
	}
	s.mu.Lock()
	data, ok := s.blobs[fileID]
	s.mu.Unlock()
	if !ok {
		return nil, mongo.ErrFileNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memBinaryStore) Delete(_ context.Context, fileID string) error {
	if s.failDelete {
		return errStoreDown
	}
	s.mu.Lock()
	delete(s.blobs, fileID)
	s.mu.Unlock()
	return nil
}

type textKey struct {
	documentID string
	userID     string
}

type memTextRepo struct {
	mu    sync.Mutex
	texts map[textKey]*types.ExtractedText
}

func newMemTextRepo() *memTextRepo {
	return &memTextRepo{texts: make(map[textKey]*types.ExtractedText)}
}

func (r *memTextRepo) Upsert(_ context.Context, text *types.ExtractedText) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *text
	r.texts[textKey{text.DocumentID, text.UserID}] = &copied
	return nil
}

func (r *memTextRepo) Find(_ context.Context, documentID, userID string) (*types.ExtractedText, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	text, ok := r.texts[textKey{documentID, userID}]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *text
	return &copied, nil
}

type memSelectionRepo struct {
	mu         sync.Mutex
	selections map[string]*types.ActiveSelection
}

func newMemSelectionRepo() *memSelectionRepo {
	return &memSelectionRepo{selections: make(map[string]*types.ActiveSelection)}
}

func (r *memSelectionRepo) Upsert(_ context.Context, selection *types.ActiveSelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *selection
	r.selections[selection.UserID] = &copied
	return nil
}

func (r *memSelectionRepo) FindByUser(_ context.Context, userID string) (*types.ActiveSelection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	selection, ok := r.selections[userID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *selection
	return &copied, nil
}

func (r *memSelectionRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.selections, userID)
	return nil
}

type memChatRepo struct {
	mu         sync.Mutex
	exchanges  []*types.ChatExchange
	failInsert bool
}

func newMemChatRepo() *memChatRepo {
	return &memChatRepo{}
}

func (r *memChatRepo) InsertPair(_ context.Context, userTurn, assistantTurn *types.ChatExchange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return errStoreDown
	}
	u, a := *userTurn, *assistantTurn
	r.exchanges = append(r.exchanges, &u, &a)
	return nil
}

func (r *memChatRepo) FindByUser(_ context.Context, userID string, limit int64) ([]*types.ChatExchange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*types.ChatExchange
	for _, exchange := range r.exchanges {
		if exchange.UserID == userID {
			copied := *exchange
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp != result[j].Timestamp {
			return result[i].Timestamp > result[j].Timestamp
		}
		return result[i].ID > result[j].ID
	})
	if limit < int64(len(result)) {
		result = result[:limit]
	}
	return result, nil
}

type stubAI struct {
	response   string
	err        error
	lastSystem string
	lastUser   string
	calls      int
}

func (s *stubAI) Chat(_ context.Context, systemPrompt, message string) (string, error) {
	s.calls++
	s.lastSystem = systemPrompt
	s.lastUser = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

// stubRunner substitutes the poppler tools.
type stubRunner struct {
	run   func(name string, args ...string) ([]byte, error)
	calls int
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	s.calls++
	return s.run(name, args...)
}

type stubSelector struct {
	selection *types.ActiveSelection
	err       error
}

func (s *stubSelector) Select(_ context.Context, documentID, userID string) (*types.ActiveSelection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}

func (s *stubSelector) GetSelected(_ context.Context, _ string) (*types.ActiveSelection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.selection, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(_ context.Context, documentID, userID string) (*types.ExtractedText, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.ExtractedText{DocumentID: documentID, UserID: userID, Content: s.text}, nil
}

func (s *stubExtractor) GetOrExtract(_ context.Context, _, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}
