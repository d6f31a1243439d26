package ledger

import (
	"fmt"
	"time"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Actor identifies who performs an operation and where the request came
// from. Every audit record carries both.
type Actor struct {
	UserID  uuid.UUID
	Context ledger.RequestContext
}

// Validate checks that the actor carries a user identity
func (a Actor) Validate() error {
	if a.UserID == uuid.Nil {
		return shared.ErrUnauthorized
	}
	return nil
}

// receiptObjectKey builds the blob store key for a receipt attachment.
// Keys are never reused across receipts; the random suffix keeps uploads
// for the same customer and day from colliding.
func receiptObjectKey(customerID uuid.UUID, date time.Time) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("receipts/%s/%s_%s.pdf", customerID, date.Format("20060102"), suffix)
}
