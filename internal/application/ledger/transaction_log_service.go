package ledger

import (
	"context"

	"github.com/bahikhata/backend/internal/domain/ledger"
	"github.com/bahikhata/backend/internal/domain/shared"
)

// TransactionLogService lists audit records. The log itself is written only
// inside the operation transactions; this service is read-only.
type TransactionLogService struct {
	logs ledger.TransactionLogRepository
}

// NewTransactionLogService creates a new TransactionLogService
func NewTransactionLogService(logs ledger.TransactionLogRepository) *TransactionLogService {
	return &TransactionLogService{logs: logs}
}

// ListTransactionLogs returns audit records newest first, optionally
// narrowed to one customer or a date window.
func (s *TransactionLogService) ListTransactionLogs(ctx context.Context, filter ledger.TransactionLogFilter) (shared.Paginated[ledger.TransactionLog], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	items, total, err := s.logs.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[ledger.TransactionLog]{}, err
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}
