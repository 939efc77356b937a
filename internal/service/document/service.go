package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const urlExpiry = 15 * time.Minute

type DocumentServiceImpl struct {
	documentRepo document.DocumentRepository
	employeeRepo employee.EmployeeRepository
	storage      storage.FileStorage
	options      storage.UploadOptions
	metrics      metrics.Recorder
}

func NewDocumentService(
	documentRepo document.DocumentRepository,
	employeeRepo employee.EmployeeRepository,
	fileStorage storage.FileStorage,
	options storage.UploadOptions,
	recorder metrics.Recorder,
) *DocumentServiceImpl {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &DocumentServiceImpl{
		documentRepo: documentRepo,
		employeeRepo: employeeRepo,
		storage:      fileStorage,
		options:      options,
		metrics:      recorder,
	}
}

// objectKey lays documents out as documents/<employee>/<type>-<uuid><ext>.
func objectKey(employeeID string, docType string, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := fmt.Sprintf("%s-%s%s", strings.ToLower(docType), uuid.New().String(), ext)
	return path.Join("documents", employeeID, name)
}

func detectContentType(fileName, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// Upload implements document.DocumentService. The object is stored first and
// removed again when the metadata row cannot be written.
func (s *DocumentServiceImpl) Upload(ctx context.Context, req document.UploadDocumentRequest, file io.Reader) (document.DocumentResponse, error) {
	if file == nil || req.SizeBytes <= 0 {
		return document.DocumentResponse{}, document.ErrFileRequired
	}
	if !s.options.AllowsExt(req.FileName) {
		return document.DocumentResponse{}, document.ErrFileTypeNotAllowed
	}
	if s.options.MaxSize > 0 && req.SizeBytes > s.options.MaxSize {
		return document.DocumentResponse{}, document.ErrFileTooLarge
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return document.DocumentResponse{}, err
	}

	var uploadedBy *string
	if claims, err := auth.ClaimsFromContext(ctx); err == nil {
		uploadedBy = &claims.UserID
	}

	contentType := detectContentType(req.FileName, req.ContentType)
	key, err := s.storage.Upload(ctx, file, objectKey(req.EmployeeID, req.DocumentType, req.FileName), contentType)
	if err != nil {
		return document.DocumentResponse{}, fmt.Errorf("failed to upload document: %w", err)
	}

	created, err := s.documentRepo.Create(ctx, document.Document{
		EmployeeID:   req.EmployeeID,
		Title:        strings.TrimSpace(req.Title),
		DocumentType: document.Type(req.DocumentType),
		FileName:     filepath.Base(req.FileName),
		FilePath:     key,
		ContentType:  contentType,
		SizeBytes:    req.SizeBytes,
		UploadedBy:   uploadedBy,
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			slog.Error("failed to remove orphaned document object", "key", key, "error", delErr)
		}
		return document.DocumentResponse{}, err
	}

	s.metrics.Inc(metrics.EventDocumentUploaded)
	return s.toResponse(ctx, created), nil
}

func (s *DocumentServiceImpl) toResponse(ctx context.Context, d document.Document) document.DocumentResponse {
	resp := document.ToResponse(d)
	url, err := s.storage.GetURL(ctx, d.FilePath, urlExpiry)
	if err != nil {
		slog.Warn("failed to build document url", "document_id", d.ID, "error", err)
		return resp
	}
	resp.URL = url
	return resp
}

func (s *DocumentServiceImpl) GetByID(ctx context.Context, id string) (document.DocumentResponse, error) {
	d, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	return s.toResponse(ctx, d), nil
}

func (s *DocumentServiceImpl) List(ctx context.Context, filter document.DocumentFilter) (document.ListDocumentResponse, error) {
	documents, total, err := s.documentRepo.List(ctx, filter)
	if err != nil {
		return document.ListDocumentResponse{}, err
	}

	responses := make([]document.DocumentResponse, 0, len(documents))
	for _, d := range documents {
		responses = append(responses, document.ToResponse(d))
	}

	return document.ListDocumentResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: pagination.TotalPages(total, filter.Limit),
		Showing:    pagination.Showing(filter.Page, filter.Limit, total),
		Documents:  responses,
	}, nil
}

// Download opens the stored object. A row whose object has gone missing
// reads as not found.
func (s *DocumentServiceImpl) Download(ctx context.Context, id string) (document.Download, error) {
	d, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return document.Download{}, err
	}

	content, err := s.storage.Download(ctx, d.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return document.Download{}, document.ErrDocumentNotFound
		}
		return document.Download{}, fmt.Errorf("failed to open document: %w", err)
	}

	return document.Download{
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Content:     content,
	}, nil
}

// Delete removes the row, then the object. A leftover object is only logged.
func (s *DocumentServiceImpl) Delete(ctx context.Context, id string) error {
	d, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, d.FilePath); err != nil {
		slog.Error("failed to delete document object", "document_id", id, "key", d.FilePath, "error", err)
	}
	return nil
}

func (s *DocumentServiceImpl) MyList(ctx context.Context, filter document.DocumentFilter) (document.ListDocumentResponse, error) {
	employeeID, err := auth.EmployeeIDFromContext(ctx)
	if err != nil {
		return document.ListDocumentResponse{}, err
	}
	filter.EmployeeID = &employeeID
	return s.List(ctx, filter)
}

var _ document.DocumentService = (*DocumentServiceImpl)(nil)
