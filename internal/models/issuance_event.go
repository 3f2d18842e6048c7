package models

import (
	"time"

	"github.com/google/uuid"
)

// IssuanceEvent is an append-only audit record of one pass through the
// issuance pipeline.
type IssuanceEvent struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Reference  string    `json:"reference" db:"reference"`
	Outcome    string    `json:"outcome" db:"outcome"`
	PayerEmail string    `json:"payer_email" db:"payer_email"`
	Detail     string    `json:"detail" db:"detail"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Outcome constants for issuance events
const (
	OutcomeIssued   = "ISSUED"
	OutcomeRejected = "REJECTED"
	OutcomeError    = "ERROR"
)
