package document

import (
	"context"
	"io"
)

type DocumentService interface {
	Upload(ctx context.Context, req UploadDocumentRequest, file io.Reader) (DocumentResponse, error)
	GetByID(ctx context.Context, id string) (DocumentResponse, error)
	List(ctx context.Context, filter DocumentFilter) (ListDocumentResponse, error)
	Download(ctx context.Context, id string) (Download, error)
	Delete(ctx context.Context, id string) error
	MyList(ctx context.Context, filter DocumentFilter) (ListDocumentResponse, error)
}

// Download is an open document stream; the caller closes Content.
type Download struct {
	FileName    string
	ContentType string
	SizeBytes   int64
	Content     io.ReadCloser
}
