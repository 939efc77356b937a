package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/document"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/pagination"
)

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

const documentColumns = `
	doc.id, doc.employee_id, doc.title, doc.document_type, doc.file_name, doc.file_path,
	doc.content_type, doc.size_bytes, doc.uploaded_by, doc.created_at, ` +
	employeeSummaryColumns

func documentFrom() string {
	return ` FROM documents doc` + employeeSummaryJoins("doc")
}

func scanDocument(row rowScanner) (document.Document, error) {
	var (
		d   document.Document
		sum summaryRow
	)
	dest := append([]any{
		&d.ID,
		&d.EmployeeID,
		&d.Title,
		&d.DocumentType,
		&d.FileName,
		&d.FilePath,
		&d.ContentType,
		&d.SizeBytes,
		&d.UploadedBy,
		&d.CreatedAt,
	}, sum.dest()...)
	if err := row.Scan(dest...); err != nil {
		return document.Document{}, err
	}
	d.Employee = sum.summary()
	return d, nil
}

// GetByID implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + documentColumns + documentFrom() + ` WHERE doc.id = $1`
	found, err := scanDocument(q.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("failed to get document: %w", err)
	}
	return found, nil
}

// List implements document.DocumentRepository.
func (r *documentRepositoryImpl) List(ctx context.Context, filter document.DocumentFilter) ([]document.Document, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("doc.employee_id = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.DocumentType != nil && *filter.DocumentType != "" {
		conditions = append(conditions, fmt.Sprintf("doc.document_type = $%d", argIdx))
		args = append(args, *filter.DocumentType)
		argIdx++
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM documents doc WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY doc.created_at DESC LIMIT $%d OFFSET $%d`,
		documentColumns, documentFrom(), where, argIdx, argIdx+1)
	args = append(args, filter.Limit, pagination.Offset(filter.Page, filter.Limit))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	documents := []document.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return documents, total, nil
}

// Create implements document.DocumentRepository.
func (r *documentRepositoryImpl) Create(ctx context.Context, newDocument document.Document) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	if newDocument.ID == "" {
		newDocument.ID = newID()
	}

	query := `
		INSERT INTO documents (id, employee_id, title, document_type, file_name, file_path, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.Exec(ctx, query,
		newDocument.ID,
		newDocument.EmployeeID,
		newDocument.Title,
		newDocument.DocumentType,
		newDocument.FileName,
		newDocument.FilePath,
		newDocument.ContentType,
		newDocument.SizeBytes,
		newDocument.UploadedBy,
	)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return r.GetByID(ctx, newDocument.ID)
}

// Delete implements document.DocumentRepository.
func (r *documentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}
