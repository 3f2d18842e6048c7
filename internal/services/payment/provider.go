package payment

import (
	"context"
	"errors"
)

// Status is the provider's verdict on a transaction reference.
type Status string

const (
	StatusPaid    Status = "PAID"
	StatusNotPaid Status = "NOT_PAID"
)

// Sentinel errors. A NOT_PAID verdict is a Status, not an error: the
// pipeline must be able to tell a rejection apart from a transport fault.
var (
	// ErrAuthConfig means provider credentials are absent. This is a
	// startup/config fault; the purchase flow should never be reachable
	// with it outstanding.
	ErrAuthConfig = errors.New("payment: provider credentials are not configured")

	// ErrProviderUnavailable covers transport failures and non-2xx
	// responses from the provider. Never retried automatically.
	ErrProviderUnavailable = errors.New("payment: provider unavailable")
)

// InitiateParams carries everything needed to open a hosted checkout.
type InitiateParams struct {
	Amount    string // decimal string, e.g. "97.00"
	Currency  string // ISO code, e.g. "USD"
	ReturnURL string
	CancelURL string
}

// Checkout is the provider's handle on a newly created order/session.
type Checkout struct {
	Reference   string // transaction reference: PayPal order id / Stripe session id
	RedirectURL string // hosted payment page to send the buyer to
}

// Address holds the structured address components a provider may supply.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Empty reports whether the provider supplied no address at all.
func (a Address) Empty() bool {
	return a.Line1 == "" && a.Line2 == "" && a.City == "" && a.State == "" && a.PostalCode == "" && a.Country == ""
}

// Confirmation is the result of re-verifying a reference with the provider.
type Confirmation struct {
	Status     Status
	PayerEmail string
	PayerName  string
	Address    Address
}

// Provider abstracts over the two checkout protocols: PayPal's
// create-then-capture orders and Stripe's hosted Checkout Sessions. The
// issuance pipeline depends only on this interface.
//
// Confirm must be safe to call repeatedly for the same reference; the
// provider's own idempotency for capture-by-id is relied upon.
type Provider interface {
	Name() string
	Initiate(ctx context.Context, params InitiateParams) (*Checkout, error)
	Confirm(ctx context.Context, reference string) (*Confirmation, error)
}
