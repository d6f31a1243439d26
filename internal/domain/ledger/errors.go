package ledger

import "github.com/bahikhata/backend/internal/domain/shared"

// Domain errors raised by ledger operations. Validation and ownership errors
// are produced at the point of detection and propagated unchanged to the
// boundary; storage errors are wrapped by the infrastructure layer instead.
var (
	ErrCustomerNotFound  = shared.NewDomainError("NOT_FOUND", "Customer not found")
	ErrReceiptNotFound   = shared.NewDomainError("NOT_FOUND", "Receipt not found")
	ErrDepositNotFound   = shared.NewDomainError("NOT_FOUND", "Deposit not found")
	ErrOwnershipMismatch = shared.NewDomainError("NOT_FOUND", "Entity does not belong to the given owner")

	ErrDueNegative        = shared.NewDomainError("DUE_NEGATIVE", "Resulting balance would be negative")
	ErrDepositExceedsDue  = shared.NewDomainError("DEPOSIT_EXCEEDS_DUE", "Deposit amount is greater than due amount")
	ErrDepositSettled     = shared.NewDomainError("INVALID_STATE", "Deposit is already settled to a receipt")
	ErrDepositNotSettled  = shared.NewDomainError("INVALID_STATE", "Deposit is not settled to this receipt")
	ErrCustomerNameTaken  = shared.NewDomainError("ALREADY_EXISTS", "Customer name already exists")
	ErrReceiptHasDeposits = shared.NewDomainError("INVALID_STATE", "Receipt still has settled deposits")
)
