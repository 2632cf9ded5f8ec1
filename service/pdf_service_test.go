package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/docchat/docchat-be/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// popplerStub answers pdfinfo with a fixed page count and pdftotext with
// per-page canned text. Pages listed in corrupt fail.
func popplerStub(totalPages int, corrupt map[int]bool) *stubRunner {
	return &stubRunner{run: func(name string, args ...string) ([]byte, error) {
		switch name {
		case "pdfinfo":
			return []byte(fmt.Sprintf("Title: test\nPages:          %d\nEncrypted: no\n", totalPages)), nil
		case "pdftotext":
			page := 0
			fmt.Sscanf(args[1], "%d", &page)
			if corrupt[page] {
				return nil, errors.New("Syntax Error: stream damaged")
			}
			return []byte(fmt.Sprintf("page %d text", page)), nil
		default:
			return nil, fmt.Errorf("unexpected command %s", name)
		}
	}}
}

func newExtractionFixture(t *testing.T, runner CommandRunner) (*PDFService, DocumentService, *memTextRepo, *memDocumentRepo) {
	t.Helper()
	docs := newMemDocumentRepo()
	binaries := newMemBinaryStore()
	texts := newMemTextRepo()
	docSvc := NewDocumentService(docs, binaries)
	pdfSvc := NewPDFService(docSvc, docs, binaries, texts, runner)
	return pdfSvc, docSvc, texts, docs
}

func TestExtractSkipsFailedPages(t *testing.T) {
	runner := popplerStub(5, map[int]bool{3: true})
	pdfSvc, docSvc, texts, docs := newExtractionFixture(t, runner)

	doc, err := docSvc.Store(context.Background(), strings.NewReader("%PDF-1.4"), uploadReq("partial"), "user-1")
	require.NoError(t, err)

	text, err := pdfSvc.Extract(context.Background(), doc.ID, "user-1")
	require.NoError(t, err, "a failed page must not fail the extraction")

	for _, page := range []int{1, 2, 4, 5} {
		assert.Contains(t, text.Content, fmt.Sprintf("page %d text", page))
	}
	assert.NotContains(t, text.Content, "page 3 text")

	stored, err := texts.Find(context.Background(), doc.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, text.Content, stored.Content)

	updated, err := docs.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.PageCount)
}

func TestExtractUnreadablePDF(t *testing.T) {
	runner := &stubRunner{run: func(name string, _ ...string) ([]byte, error) {
		return nil, errors.New("pdfinfo: command failed")
	}}
	pdfSvc, docSvc, _, _ := newExtractionFixture(t, runner)

	doc, err := docSvc.Store(context.Background(), strings.NewReader("not a pdf"), uploadReq("broken"), "user-1")
	require.NoError(t, err)

	_, err = pdfSvc.Extract(context.Background(), doc.ID, "user-1")
	require.Error(t, err)
	assert.Equal(t, types.KindProcessingFailure, types.KindOf(err))
}

func TestExtractBinaryOpenFailure(t *testing.T) {
	docs := newMemDocumentRepo()
	binaries := newMemBinaryStore()
	texts := newMemTextRepo()
	docSvc := NewDocumentService(docs, binaries)
	pdfSvc := NewPDFService(docSvc, docs, binaries, texts, popplerStub(1, nil))

	doc, err := docSvc.Store(context.Background(), strings.NewReader("%PDF-1.4"), uploadReq("gone"), "user-1")
	require.NoError(t, err)

	binaries.failOpen = true
	_, err = pdfSvc.Extract(context.Background(), doc.ID, "user-1")
	require.Error(t, err)
	assert.Equal(t, types.KindProcessingFailure, types.KindOf(err))
}

func TestExtractOwnershipEnforced(t *testing.T) {
	pdfSvc, docSvc, _, _ := newExtractionFixture(t, popplerStub(1, nil))

	doc, err := docSvc.Store(context.Background(), strings.NewReader("%PDF-1.4"), uploadReq("private"), "owner")
	require.NoError(t, err)

	_, err = pdfSvc.Extract(context.Background(), doc.ID, "intruder")
	require.Error(t, err)
	assert.Equal(t, types.KindForbidden, types.KindOf(err))
}

func TestGetOrExtractUsesCache(t *testing.T) {
	runner := popplerStub(2, nil)
	pdfSvc, docSvc, texts, _ := newExtractionFixture(t, runner)

	doc, err := docSvc.Store(context.Background(), strings.NewReader("%PDF-1.4"), uploadReq("cached"), "user-1")
	require.NoError(t, err)

	require.NoError(t, texts.Upsert(context.Background(), &types.ExtractedText{
		DocumentID: doc.ID,
		UserID:     "user-1",
		Content:    "cached content",
	}))

	content, err := pdfSvc.GetOrExtract(context.Background(), doc.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "cached content", content)
	assert.Zero(t, runner.calls, "cache hit must not invoke poppler")
}

func TestGetOrExtractMissTriggersExtraction(t *testing.T) {
	pdfSvc, docSvc, _, _ := newExtractionFixture(t, popplerStub(2, nil))

	doc, err := docSvc.Store(context.Background(), strings.NewReader("%PDF-1.4"), uploadReq("fresh"), "user-1")
	require.NoError(t, err)

	content, err := pdfSvc.GetOrExtract(context.Background(), doc.ID, "user-1")
	require.NoError(t, err)
	assert.Contains(t, content, "page 1 text")
	assert.Contains(t, content, "page 2 text")
}

func TestGetOrExtractSwallowsFailures(t *testing.T) {
	runner := &stubRunner{run: func(string, ...string) ([]byte, error) {
		return nil, errors.New("pdfinfo: command failed")
	}}
	pdfSvc, docSvc, _, _ := newExtractionFixture(t, runner)

	doc, err := docSvc.Store(context.Background(), strings.NewReader("junk"), uploadReq("junk"), "user-1")
	require.NoError(t, err)

	content, err := pdfSvc.GetOrExtract(context.Background(), doc.ID, "user-1")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "hello\nworld", cleanText("hello\fworld\r"))
	assert.Equal(t, "spaced out", cleanText("spaced  out"))
	assert.Equal(t, "trimmed", cleanText("  trimmed \n"))
}
