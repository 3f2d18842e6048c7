package models

import "time"

// License is the durable record issued after a verified payment. The
// provider transaction reference (PayPal order id or Stripe checkout session
// id) is the primary key; re-issuing for the same reference overwrites the
// previous row.
type License struct {
	Reference       string    `json:"reference" db:"reference"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	PayerEmail      string    `json:"payer_email" db:"payer_email"`
	PayerName       string    `json:"payer_name" db:"payer_name"`
	PropertyAddress string    `json:"property_address" db:"property_address"`
	PropertyState   string    `json:"property_state" db:"property_state"`
	LicenseKey      string    `json:"license_key" db:"license_key"`
}
