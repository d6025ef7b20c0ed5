package ports

import (
	"context"

	"quetzalship/internal/core/domain/model/kernel"
)

// IdempotencyRecord is the write-once association between a client-supplied
// idempotency token, the fingerprint of the creation payload it arrived with,
// and the order that creation produced.
type IdempotencyRecord struct {
	// Token is the client-supplied idempotency key. It is the primary key of
	// the ledger: at most one record ever exists per token.
	Token string

	// PayloadHash is the canonical SHA-256 fingerprint of the creation payload.
	PayloadHash string

	// OrderID is the order created under this token.
	OrderID kernel.OrderID
}

// IdempotencyLedger defines the persistence contract for idempotency records.
//
// Records are write-once: Add must fail with a precondition error when a
// record with the same token already exists, which the caller resolves by
// reading the winner back with Get and comparing payload hashes.
type IdempotencyLedger interface {
	// Add persists a new idempotency record. Fails with a precondition error
	// when the token is already claimed.
	Add(ctx context.Context, record IdempotencyRecord) error

	// Get retrieves the record for a token. Returns an object-not-found error
	// when the token has never been used.
	Get(ctx context.Context, token string) (IdempotencyRecord, error)
}
