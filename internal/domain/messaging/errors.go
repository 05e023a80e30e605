package messaging

import "github.com/marketplace/backend/internal/domain/shared"

// Authorization failures for order-scoped sends. Each is surfaced
// distinctly so the caller can explain the specific refusal.
var (
	// ErrOrderNotFound covers both an absent order and an order the
	// sender does not own; the two are deliberately indistinguishable.
	ErrOrderNotFound = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")

	// ErrReceiverMismatch means the receiver is not a seller of any
	// product on the order.
	ErrReceiverMismatch = shared.NewDomainError("RECEIVER_MISMATCH", "Receiver is not a seller on this order")

	// ErrDisallowedOrderState means the order exists and is owned by the
	// sender but its status does not permit messaging (e.g. canceled).
	ErrDisallowedOrderState = shared.NewDomainError("DISALLOWED_ORDER_STATE", "Order status does not allow messaging")

	// ErrEncryptionFailed means the body could not be sealed into an
	// envelope; nothing was stored. Kept apart from storage errors so a
	// crypto fault is never reported as a database fault.
	ErrEncryptionFailed = shared.NewDomainError("ENCRYPTION_FAILED", "Message body could not be encrypted")
)
