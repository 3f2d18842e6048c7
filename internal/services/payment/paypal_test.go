package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayPalClient(srv *httptest.Server) *PayPalClient {
	return &PayPalClient{
		clientID: "client-id",
		secret:   "client-secret",
		baseURL:  srv.URL,
		http:     srv.Client(),
	}
}

func paypalTestServer(t *testing.T, orderHandler http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer"}`))
	})
	mux.HandleFunc("/v2/checkout/orders", orderHandler)
	mux.HandleFunc("/v2/checkout/orders/", orderHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPayPalInitiate_ReturnsApprovalLink(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "8GK12345XY678901L",
			"status": "CREATED",
			"links": [
				{"href": "https://api.sandbox.paypal.com/v2/checkout/orders/8GK12345XY678901L", "rel": "self"},
				{"href": "https://www.sandbox.paypal.com/checkoutnow?token=8GK12345XY678901L", "rel": "approve"}
			]
		}`))
	})
	client := newTestPayPalClient(srv)

	checkout, err := client.Initiate(context.Background(), InitiateParams{
		Amount:    "97.00",
		Currency:  "USD",
		ReturnURL: "http://127.0.0.1:10000/v1/checkout/success",
		CancelURL: "http://127.0.0.1:10000/v1/checkout/cancel",
	})

	require.NoError(t, err)
	assert.Equal(t, "8GK12345XY678901L", checkout.Reference)
	assert.Contains(t, checkout.RedirectURL, "checkoutnow?token=")
}

func TestPayPalInitiate_MissingCredentials(t *testing.T) {
	client := NewPayPalClient("", "", "sandbox")

	_, err := client.Initiate(context.Background(), InitiateParams{Amount: "97.00", Currency: "USD"})

	assert.ErrorIs(t, err, ErrAuthConfig)
}

func TestPayPalConfirm_CaptureCompleted(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{
			"id": "8GK12345XY678901L",
			"status": "COMPLETED",
			"payer": {
				"name": {"given_name": "Jordan", "surname": "Buyer"},
				"email_address": "buyer@example.com"
			},
			"purchase_units": [{
				"shipping": {
					"address": {
						"address_line_1": "12 Main St",
						"admin_area_2": "Columbus",
						"admin_area_1": "OH",
						"postal_code": "43004",
						"country_code": "US"
					}
				}
			}]
		}`))
	})
	client := newTestPayPalClient(srv)

	conf, err := client.Confirm(context.Background(), "8GK12345XY678901L")

	require.NoError(t, err)
	assert.Equal(t, StatusPaid, conf.Status)
	assert.Equal(t, "buyer@example.com", conf.PayerEmail)
	assert.Equal(t, "Jordan Buyer", conf.PayerName)
	assert.Equal(t, "OH", conf.Address.State)
	assert.Equal(t, "12 Main St", conf.Address.Line1)
}

func TestPayPalConfirm_AlreadyCapturedStillPaid(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"ORDER_ALREADY_CAPTURED"}]}`))
			return
		}
		// Follow-up order lookup
		w.Write([]byte(`{
			"id": "8GK12345XY678901L",
			"status": "COMPLETED",
			"payer": {"email_address": "buyer@example.com", "name": {"given_name": "Jordan", "surname": "Buyer"}}
		}`))
	})
	client := newTestPayPalClient(srv)

	conf, err := client.Confirm(context.Background(), "8GK12345XY678901L")

	require.NoError(t, err)
	assert.Equal(t, StatusPaid, conf.Status)
	assert.Equal(t, "buyer@example.com", conf.PayerEmail)
}

func TestPayPalConfirm_NotApprovedIsNotPaid(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"ORDER_NOT_APPROVED"}]}`))
	})
	client := newTestPayPalClient(srv)

	conf, err := client.Confirm(context.Background(), "8GK12345XY678901L")

	require.NoError(t, err)
	assert.Equal(t, StatusNotPaid, conf.Status)
}

func TestPayPalConfirm_ServerErrorIsUnavailable(t *testing.T) {
	srv := paypalTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client := newTestPayPalClient(srv)

	_, err := client.Confirm(context.Background(), "8GK12345XY678901L")

	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestPayPalConfirm_TokenEndpointDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	client := newTestPayPalClient(srv)

	_, err := client.Confirm(context.Background(), "8GK12345XY678901L")

	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
