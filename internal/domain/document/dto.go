package document

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// UploadDocumentRequest carries the multipart form fields of an upload.
type UploadDocumentRequest struct {
	EmployeeID   string `validate:"required,uuid7" json:"employee_id"`
	Title        string `validate:"notblank,max=255" json:"title"`
	DocumentType string `validate:"required,oneof=CONTRACT ID_CARD CERTIFICATE PAYSLIP OTHER" json:"document_type"`
	FileName     string `validate:"required,max=255" json:"file_name"`
	ContentType  string `json:"content_type"`
	SizeBytes    int64  `json:"size_bytes"`
}

func (r *UploadDocumentRequest) Validate() error {
	errs := validator.Struct(r)
	if r.SizeBytes <= 0 && r.FileName != "" {
		errs.Add("file", ErrFileRequired.Error())
	}
	return errs.Err()
}

type DocumentFilter struct {
	EmployeeID   *string `json:"employee_id,omitempty" validate:"omitempty,uuid7"`
	DocumentType *string `json:"document_type,omitempty" validate:"omitempty,oneof=CONTRACT ID_CARD CERTIFICATE PAYSLIP OTHER"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *DocumentFilter) Validate() error {
	errs := validator.Struct(f)
	f.Page, f.Limit = pagination.Normalize(f.Page, f.Limit)
	return errs.Err()
}

type DocumentResponse struct {
	ID           string            `json:"id"`
	EmployeeID   string            `json:"employee_id"`
	Employee     *employee.Summary `json:"employee,omitempty"`
	Title        string            `json:"title"`
	DocumentType string            `json:"document_type"`
	FileName     string            `json:"file_name"`
	ContentType  string            `json:"content_type"`
	SizeBytes    int64             `json:"size_bytes"`
	URL          string            `json:"url,omitempty"`
	UploadedBy   *string           `json:"uploaded_by"`
	CreatedAt    string            `json:"created_at"`
}

func ToResponse(d Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		EmployeeID:   d.EmployeeID,
		Employee:     d.Employee,
		Title:        d.Title,
		DocumentType: string(d.DocumentType),
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		UploadedBy:   d.UploadedBy,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
}

type ListDocumentResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Documents  []DocumentResponse `json:"documents"`
}
