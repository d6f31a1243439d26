package ledger

import (
	"context"

	"github.com/bahikhata/backend/internal/domain/shared"
)

// ErrBlobNotFound is returned when a requested attachment key does not exist
// in the blob store. It is distinct from transient storage failures, which
// surface as wrapped errors. Store implementations return the shared sentinel
// directly so they do not depend on this package.
var ErrBlobNotFound = shared.ErrAttachmentNotFound

// BlobStorage is the outbound port to the external object store holding
// receipt PDF attachments. The store is outside the relational transaction
// boundary; callers compensate explicitly on transaction failure.
type BlobStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// PDFRenderer turns uploaded receipt images into a single PDF document.
type PDFRenderer interface {
	Render(ctx context.Context, images [][]byte) ([]byte, error)
}
