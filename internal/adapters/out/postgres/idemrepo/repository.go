package idemrepo

import (
	"context"
	"errors"

	"quetzalship/internal/core/domain/model/kernel"
	"quetzalship/internal/core/ports"
	"quetzalship/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormIdempotencyLedger implements IdempotencyLedger using GORM.
type GormIdempotencyLedger struct {
	db *gorm.DB
}

// NewGormIdempotencyLedger creates a new GORM idempotency ledger.
func NewGormIdempotencyLedger(db *gorm.DB) *GormIdempotencyLedger {
	return &GormIdempotencyLedger{db: db}
}

// Add inserts a new ledger row. A duplicate token surfaces as a precondition
// error; the caller resolves it by reading the winning record back.
func (r *GormIdempotencyLedger) Add(ctx context.Context, record ports.IdempotencyRecord) error {
	dto := RecordDTO{
		Token:       record.Token,
		PayloadHash: record.PayloadHash,
		OrderID:     record.OrderID.UUID(),
	}

	// TranslateError lives on gorm.Config, not gorm.Session; WithContext
	// clones the config, so setting it here scopes translation to this call.
	tx := r.db.WithContext(ctx)
	tx.Config.TranslateError = true
	err := tx.Create(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewPreconditionFailedErrorWithCause("idempotency token already claimed", err)
		}
		return err
	}

	return nil
}

// Get retrieves the ledger row for a token.
func (r *GormIdempotencyLedger) Get(ctx context.Context, token string) (ports.IdempotencyRecord, error) {
	var dto RecordDTO
	err := r.db.WithContext(ctx).First(&dto, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, errs.NewObjectNotFoundError("token", token)
		}
		return ports.IdempotencyRecord{}, err
	}

	orderID, err := kernel.OrderIDFromUUID(dto.OrderID)
	if err != nil {
		return ports.IdempotencyRecord{}, err
	}

	return ports.IdempotencyRecord{
		Token:       dto.Token,
		PayloadHash: dto.PayloadHash,
		OrderID:     orderID,
	}, nil
}
