package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeClient implements Provider over Stripe Checkout Sessions: create a
// hosted session, redirect the buyer, then confirm by retrieving the session
// and inspecting its payment status. Session retrieval never captures
// anything, so Confirm is trivially idempotent here.
//
// The API client is per-instance; the global stripe.Key is never touched.
type StripeClient struct {
	api         *client.API
	productName string
}

// NewStripeClient builds a client from the configured secret key.
func NewStripeClient(secretKey string) (*StripeClient, error) {
	if secretKey == "" {
		return nil, ErrAuthConfig
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeClient{api: api, productName: "NILPF Property License"}, nil
}

func (s *StripeClient) Name() string { return "stripe" }

// Initiate opens a payment-mode Checkout Session. The return URL is expected
// to carry Stripe's {CHECKOUT_SESSION_ID} placeholder so the callback
// receives the transaction reference.
func (s *StripeClient) Initiate(ctx context.Context, params InitiateParams) (*Checkout, error) {
	cents, err := amountToMinorUnits(params.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", params.Amount, err)
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(params.ReturnURL),
		CancelURL:                stripe.String(params.CancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(params.Currency)),
					UnitAmount: stripe.Int64(cents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(s.productName),
					},
				},
			},
		},
	}
	sessionParams.Context = ctx

	sess, err := s.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("%w: checkout session creation failed: %v", ErrProviderUnavailable, err)
	}

	return &Checkout{Reference: sess.ID, RedirectURL: sess.URL}, nil
}

// Confirm retrieves the session and reports its payment status. An unknown
// session id is a NOT_PAID verdict, not a transport fault.
func (s *StripeClient) Confirm(ctx context.Context, reference string) (*Confirmation, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx

	sess, err := s.api.CheckoutSessions.Get(reference, getParams)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return &Confirmation{Status: StatusNotPaid}, nil
		}
		return nil, fmt.Errorf("%w: session retrieval failed: %v", ErrProviderUnavailable, err)
	}

	conf := &Confirmation{Status: StatusNotPaid}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return conf, nil
	}

	conf.Status = StatusPaid
	if details := sess.CustomerDetails; details != nil {
		conf.PayerEmail = details.Email
		conf.PayerName = details.Name
		if addr := details.Address; addr != nil {
			conf.Address = Address{
				Line1:      addr.Line1,
				Line2:      addr.Line2,
				City:       addr.City,
				State:      addr.State,
				PostalCode: addr.PostalCode,
				Country:    addr.Country,
			}
		}
	}
	return conf, nil
}

// amountToMinorUnits converts a decimal price string like "97.00" to cents.
func amountToMinorUnits(amount string) (int64, error) {
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}
	return int64(math.Round(value * 100)), nil
}
