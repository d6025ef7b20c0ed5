// Package idemrepo persists the idempotency ledger. The token column is the
// primary key, so the database's unique constraint is what decides the winner
// when two creations race on one token.
package idemrepo

import (
	"time"

	"github.com/google/uuid"
)

// RecordDTO represents one write-once idempotency ledger row.
type RecordDTO struct {
	Token       string    `gorm:"type:varchar(255);primaryKey"`
	PayloadHash string    `gorm:"type:char(64)"`
	OrderID     uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time ``
}

// TableName specifies the database table name for idempotency records.
func (RecordDTO) TableName() string {
	return "idempotency_records"
}
