package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/pdf"
	"github.com/anupamsr/skydoc/internal/pipeline"
	"github.com/anupamsr/skydoc/internal/repository"
)

// FileType constants
const (
	FileTypePDF = "pdf"
	FileTypeMD  = "md"
	FileTypeTXT = "txt"
)

// DetectFileType detects file type from filename
func DetectFileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FileTypePDF
	case ".md", ".markdown":
		return FileTypeMD
	case ".txt":
		return FileTypeTXT
	case "":
		return ""
	default:
		return ext[1:] // remove leading dot
	}
}

// IsSupported checks if file type is supported
func IsSupported(fileType string) bool {
	switch fileType {
	case FileTypePDF, FileTypeMD, FileTypeTXT:
		return true
	}
	return false
}

// IngestService turns uploaded files into indexed chunks and tracks each
// upload in the document registry.
type IngestService struct {
	docs     *repository.DocumentRepository
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(docs *repository.DocumentRepository, p *pipeline.Pipeline, logger *zap.Logger) *IngestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestService{docs: docs, pipeline: p, logger: logger}
}

// UploadDocument ingests a file synchronously: extract text, chunk, embed,
// store. The registry row moves pending -> processing -> ready, or failed
// with the error recorded.
func (s *IngestService) UploadDocument(ctx context.Context, data []byte, filename string) (*domain.Document, *domain.IngestResult, error) {
	fileType := DetectFileType(filename)
	if !IsSupported(fileType) {
		return nil, nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidArgument, fileType)
	}

	doc := &domain.Document{
		Filename: filename,
		FileType: fileType,
		FileSize: int64(len(data)),
		Status:   domain.DocumentStatusPending,
	}
	if err := s.docs.Create(doc); err != nil {
		return nil, nil, fmt.Errorf("registering document: %w", err)
	}

	doc.Status = domain.DocumentStatusProcessing
	if err := s.docs.Update(doc); err != nil {
		return nil, nil, fmt.Errorf("updating document status: %w", err)
	}

	text, info, err := s.extract(data, fileType)
	if err != nil {
		s.markFailed(doc, err)
		return doc, nil, err
	}
	if info != nil {
		doc.Pages = info.Pages
		doc.Title = info.Title
		doc.Author = info.Author
		doc.Subject = info.Subject
	}

	result, err := s.pipeline.Ingest(ctx, text, filename)
	if err != nil {
		s.markFailed(doc, err)
		return doc, nil, err
	}
	result.Info = info

	doc.Status = domain.DocumentStatusReady
	doc.ChunkCount = result.ChunksProcessed
	if err := s.docs.Update(doc); err != nil {
		return doc, result, fmt.Errorf("updating document status: %w", err)
	}

	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID),
		zap.String("filename", filename),
		zap.Int("chunks", result.ChunksProcessed))

	return doc, result, nil
}

// List returns the registry, newest first.
func (s *IngestService) List() ([]*domain.Document, error) {
	return s.docs.List()
}

// Get returns one registry record, or nil when absent.
func (s *IngestService) Get(id string) (*domain.Document, error) {
	return s.docs.Get(id)
}

func (s *IngestService) extract(data []byte, fileType string) (string, *domain.DocumentInfo, error) {
	if fileType == FileTypePDF {
		text, err := pdf.ExtractText(data)
		if err != nil {
			return "", nil, fmt.Errorf("%w: extracting pdf text: %v", domain.ErrIngestion, err)
		}
		info, err := pdf.Info(data)
		if err != nil {
			// Text extraction succeeded; metadata is best effort.
			s.logger.Warn("pdf metadata extraction failed", zap.Error(err))
			info = nil
		}
		return text, info, nil
	}
	return string(data), nil, nil
}

func (s *IngestService) markFailed(doc *domain.Document, cause error) {
	doc.Status = domain.DocumentStatusFailed
	doc.Error = cause.Error()
	if err := s.docs.Update(doc); err != nil {
		s.logger.Error("failed to record document failure",
			zap.String("document_id", doc.ID), zap.Error(err))
	}
}
