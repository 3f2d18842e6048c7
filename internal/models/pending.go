package models

import (
	"strings"
	"time"
)

// PendingPurchase holds the buyer-entered licensed location between the
// address form and the payment callback. It is stored in Redis under a
// one-time token and expires if the buyer abandons checkout.
type PendingPurchase struct {
	Token        string    `json:"token"`
	BusinessName string    `json:"business_name"`
	Street       string    `json:"street"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Zip          string    `json:"zip"`
	CreatedAt    time.Time `json:"created_at"`
}

// Location flattens the structured components into the single-line address
// that appears on the certificate. Empty components are omitted.
func (p *PendingPurchase) Location() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Street, p.City, p.State, p.Zip} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	return strings.Join(parts, ", ")
}
