package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/docchat/docchat-be/database"
	"github.com/docchat/docchat-be/repository"
	"github.com/docchat/docchat-be/types"
)

// CommandRunner executes an external command and returns its stdout. The
// poppler tools are invoked through this seam so tests can substitute them.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func NewExecRunner() CommandRunner {
	return execRunner{}
}

type ExtractionService interface {
	Extract(ctx context.Context, documentID, userID string) (*types.ExtractedText, error)
	GetOrExtract(ctx context.Context, documentID, userID string) (string, error)
}

// PDFService extracts plain text from stored PDFs page by page and caches the
// result per (document, owner).
type PDFService struct {
	documents DocumentService
	docRepo   repository.DocumentRepo
	binaries  database.BinaryStore
	texts     repository.ExtractedTextRepo
	runner    CommandRunner
}

func NewPDFService(
	documents DocumentService,
	docRepo repository.DocumentRepo,
	binaries database.BinaryStore,
	texts repository.ExtractedTextRepo,
	runner CommandRunner,
) *PDFService {
	return &PDFService{
		documents: documents,
		docRepo:   docRepo,
		binaries:  binaries,
		texts:     texts,
		runner:    runner,
	}
}

var pagesPattern = regexp.MustCompile(`Pages:\s+(\d+)`)

func (s *PDFService) Extract(ctx context.Context, documentID, userID string) (*types.ExtractedText, error) {
	doc, err := s.documents.Fetch(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	path, err := s.stageBinary(ctx, doc.FileID)
	if err != nil {
		return nil, types.NewAppError(types.KindProcessingFailure, "failed to open document binary", err)
	}
	defer os.Remove(path)

	totalPages, err := s.pageCount(ctx, path)
	if err != nil {
		return nil, types.NewAppError(types.KindProcessingFailure, "document is not a readable PDF", err)
	}

	var pages []string
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		pageText, err := s.extractPage(ctx, path, pageNum)
		if err != nil {
			slog.Warn("failed to extract page, skipping",
				"document_id", documentID,
				"page", pageNum,
				"err", err,
			)
			continue
		}
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}

	text := &types.ExtractedText{
		DocumentID:  documentID,
		UserID:      userID,
		Content:     strings.Join(pages, "\n"),
		ExtractedAt: time.Now().Unix(),
	}
	if err := s.texts.Upsert(ctx, text); err != nil {
		return nil, types.NewAppError(types.KindStorageFailure, "failed to store extracted text", err)
	}

	if doc.PageCount == 0 {
		if err := s.docRepo.SetPageCount(ctx, documentID, totalPages); err != nil {
			slog.Warn("failed to record page count", "document_id", documentID, "err", err)
		}
	}
	return text, nil
}

// GetOrExtract feeds the chat pipeline: a cached extraction wins, a miss
// triggers Extract, and any extraction failure degrades to empty text.
func (s *PDFService) GetOrExtract(ctx context.Context, documentID, userID string) (string, error) {
	cached, err := s.texts.Find(ctx, documentID, userID)
	if err == nil {
		return cached.Content, nil
	}

	text, err := s.Extract(ctx, documentID, userID)
	if err != nil {
		slog.Warn("extraction failed, continuing with empty text",
			"document_id", documentID,
			"err", err,
		)
		return "", nil
	}
	return text.Content, nil
}

// stageBinary copies the stored binary into a temp file so the poppler tools
// can read it.
func (s *PDFService) stageBinary(ctx context.Context, fileID string) (string, error) {
	stream, err := s.binaries.Open(ctx, fileID)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	tmp, err := os.CreateTemp("", "docchat-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, stream); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (s *PDFService) pageCount(ctx context.Context, path string) (int, error) {
	out, err := s.runner.Run(ctx, "pdfinfo", path)
	if err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %w", err)
	}
	if matches := pagesPattern.FindStringSubmatch(string(out)); len(matches) == 2 {
		return strconv.Atoi(matches[1])
	}
	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

func (s *PDFService) extractPage(ctx context.Context, path string, pageNum int) (string, error) {
	out, err := s.runner.Run(ctx, "pdftotext",
		"-f", strconv.Itoa(pageNum),
		"-l", strconv.Itoa(pageNum),
		"-enc", "UTF-8", "-nopgbrk",
		path, "-")
	if err != nil {
		return "", fmt.Errorf("failed to run pdftotext on page %d: %w", pageNum, err)
	}
	return cleanText(string(out)), nil
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\x00": "",   // Null character
		"�": "",   // Unicode replacement character
		"\x1b": "",   // Escape character
		"\r":     "",
		"\f":     "\n", // Form feed to newline
		"  ":     " ",
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
