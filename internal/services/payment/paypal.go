package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	paypalSandboxBase = "https://api-m.sandbox.paypal.com"
	paypalLiveBase    = "https://api-m.paypal.com"

	paypalAuthTimeout  = 20 * time.Second
	paypalOrderTimeout = 30 * time.Second
)

// PayPalClient implements Provider over PayPal's v2 Checkout Orders API:
// create an order with intent CAPTURE, redirect the buyer to the approval
// link, then capture by order id on the way back.
type PayPalClient struct {
	clientID string
	secret   string
	baseURL  string
	http     *http.Client
}

// NewPayPalClient builds a client against the sandbox or live environment.
func NewPayPalClient(clientID, secret, mode string) *PayPalClient {
	base := paypalSandboxBase
	if mode == "live" {
		base = paypalLiveBase
	}
	return &PayPalClient{
		clientID: clientID,
		secret:   secret,
		baseURL:  base,
		http:     &http.Client{},
	}
}

func (p *PayPalClient) Name() string { return "paypal" }

// accessToken exchanges the configured client credentials for a bearer token.
func (p *PayPalClient) accessToken(ctx context.Context) (string, error) {
	if p.clientID == "" || p.secret == "" {
		return "", ErrAuthConfig
	}

	ctx, cancel := context.WithTimeout(ctx, paypalAuthTimeout)
	defer cancel()

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request failed: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: malformed token response: %v", ErrProviderUnavailable, err)
	}
	return body.AccessToken, nil
}

type paypalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type paypalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		Name struct {
			GivenName string `json:"given_name"`
			Surname   string `json:"surname"`
		} `json:"name"`
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Shipping struct {
			Address struct {
				AddressLine1 string `json:"address_line_1"`
				AddressLine2 string `json:"address_line_2"`
				AdminArea2   string `json:"admin_area_2"`
				AdminArea1   string `json:"admin_area_1"`
				PostalCode   string `json:"postal_code"`
				CountryCode  string `json:"country_code"`
			} `json:"address"`
		} `json:"shipping"`
	} `json:"purchase_units"`
	Links []paypalLink `json:"links"`
}

// Initiate creates a CAPTURE-intent order and returns its approval link.
func (p *PayPalClient) Initiate(ctx context.Context, params InitiateParams) (*Checkout, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	orderData := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{"amount": map[string]string{
				"currency_code": params.Currency,
				"value":         params.Amount,
			}},
		},
		"application_context": map[string]string{
			"return_url": params.ReturnURL,
			"cancel_url": params.CancelURL,
		},
	}

	order, status, err := p.postOrder(ctx, token, "/v2/checkout/orders", orderData)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("%w: order creation returned %d", ErrProviderUnavailable, status)
	}

	for _, link := range order.Links {
		if link.Rel == "approve" {
			return &Checkout{Reference: order.ID, RedirectURL: link.Href}, nil
		}
	}
	return nil, fmt.Errorf("%w: no approval link in order %s", ErrProviderUnavailable, order.ID)
}

// Confirm captures the order. Capture-by-id is idempotent on PayPal's side:
// a second capture attempt fails with ORDER_ALREADY_CAPTURED, in which case
// the order is re-read and COMPLETED still counts as paid.
func (p *PayPalClient) Confirm(ctx context.Context, reference string) (*Confirmation, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	order, status, err := p.postOrder(ctx, token, "/v2/checkout/orders/"+reference+"/capture", map[string]any{})
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status <= 299:
		return confirmationFromOrder(order), nil
	case status == http.StatusUnprocessableEntity:
		if order.alreadyCaptured {
			return p.lookupOrder(ctx, token, reference)
		}
		// The buyer never approved the order, or it expired.
		return &Confirmation{Status: StatusNotPaid}, nil
	default:
		return nil, fmt.Errorf("%w: capture returned %d", ErrProviderUnavailable, status)
	}
}

// lookupOrder retrieves an order without mutating it.
func (p *PayPalClient) lookupOrder(ctx context.Context, token, reference string) (*Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, paypalOrderTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v2/checkout/orders/"+reference, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: order lookup failed: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: order lookup returned %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var order paypalOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("%w: malformed order response: %v", ErrProviderUnavailable, err)
	}
	return confirmationFromOrder(&parsedOrder{paypalOrder: order}), nil
}

// parsedOrder pairs the decoded order with error details from a failed call.
type parsedOrder struct {
	paypalOrder
	alreadyCaptured bool
}

func (p *PayPalClient) postOrder(ctx context.Context, token, path string, body any) (*parsedOrder, int, error) {
	ctx, cancel := context.WithTimeout(ctx, paypalOrderTimeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: reading response: %v", ErrProviderUnavailable, err)
	}

	order := &parsedOrder{}
	// Error bodies carry an issue list instead of an order; tolerate both.
	_ = json.Unmarshal(raw, &order.paypalOrder)
	order.alreadyCaptured = bytes.Contains(raw, []byte("ORDER_ALREADY_CAPTURED"))

	return order, resp.StatusCode, nil
}

func confirmationFromOrder(order *parsedOrder) *Confirmation {
	conf := &Confirmation{Status: StatusNotPaid}
	if order.Status != "COMPLETED" {
		return conf
	}

	conf.Status = StatusPaid
	conf.PayerEmail = order.Payer.EmailAddress
	conf.PayerName = strings.TrimSpace(order.Payer.Name.GivenName + " " + order.Payer.Name.Surname)

	if len(order.PurchaseUnits) > 0 {
		addr := order.PurchaseUnits[0].Shipping.Address
		conf.Address = Address{
			Line1:      addr.AddressLine1,
			Line2:      addr.AddressLine2,
			City:       addr.AdminArea2,
			State:      addr.AdminArea1,
			PostalCode: addr.PostalCode,
			Country:    addr.CountryCode,
		}
	}
	return conf
}
