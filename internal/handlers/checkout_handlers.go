package handlers

import (
	"errors"
	"net/http"
	"time"

	"nilpfstore/internal/caching"
	"nilpfstore/internal/common"
	"nilpfstore/internal/models"
	"nilpfstore/internal/services"
	"nilpfstore/internal/services/payment"

	"github.com/labstack/echo/v4"
)

// CheckoutHandlers handles the buyer-facing purchase flow: address form,
// hosted checkout hand-off, and the provider's success/cancel callbacks.
type CheckoutHandlers struct {
	licensingService services.LicensingService
	cache            caching.CacheService
	priceAmount      string
	priceCurrency    string
}

func NewCheckoutHandlers(licensingService services.LicensingService, cache caching.CacheService, priceAmount, priceCurrency string) *CheckoutHandlers {
	return &CheckoutHandlers{
		licensingService: licensingService,
		cache:            cache,
		priceAmount:      priceAmount,
		priceCurrency:    priceCurrency,
	}
}

// Home handles GET / with the storefront summary.
func (h *CheckoutHandlers) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"product":     "NILPF Property License",
		"price":       h.priceAmount,
		"currency":    h.priceCurrency,
		"address_url": "/v1/checkout/address",
	})
}

// SubmitAddress handles POST /v1/checkout/address. The licensed location is
// parked under a one-time token until the payment callback; nothing touches
// the database yet.
func (h *CheckoutHandlers) SubmitAddress(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		BusinessName string `json:"business_name" form:"business_name"`
		Street       string `json:"street" form:"street"`
		City         string `json:"city" form:"city"`
		State        string `json:"state" form:"state"`
		Zip          string `json:"zip" form:"zip"`
		Confirm      string `json:"confirm" form:"confirm"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.BusinessName, "business_name"); err != nil {
		return common.SendIncompleteLocation(c, "business_name", err.Error())
	}
	if err := common.ValidateRequiredString(req.Street, "street"); err != nil {
		return common.SendIncompleteLocation(c, "street", err.Error())
	}
	if err := common.ValidateRequiredString(req.City, "city"); err != nil {
		return common.SendIncompleteLocation(c, "city", err.Error())
	}
	if err := common.ValidateStateCode(req.State, "state"); err != nil {
		return common.SendIncompleteLocation(c, "state", err.Error())
	}
	if err := common.ValidateZip(req.Zip, "zip"); err != nil {
		return common.SendIncompleteLocation(c, "zip", err.Error())
	}
	switch req.Confirm {
	case "on", "true", "yes":
	default:
		return common.SendIncompleteLocation(c, "confirm", "the property details must be confirmed")
	}

	pending := &models.PendingPurchase{
		BusinessName: req.BusinessName,
		Street:       req.Street,
		City:         req.City,
		State:        common.NormalizeStateCode(req.State),
		Zip:          req.Zip,
	}
	token, err := h.licensingService.SavePendingPurchase(ctx, pending)
	if err != nil {
		return common.SendServerError(c, "Failed to save purchase details")
	}

	return c.Redirect(http.StatusSeeOther, "/v1/checkout/buy?pending="+token)
}

// Buy handles GET /v1/checkout/buy: opens a hosted checkout with the
// configured provider and redirects the buyer to it.
func (h *CheckoutHandlers) Buy(c echo.Context) error {
	ctx := c.Request().Context()

	pendingToken := c.QueryParam("pending")
	if pendingToken == "" {
		return common.SendValidationError(c, "pending", "submit the property address first")
	}

	limited, err := h.cache.IsRateLimited(ctx, "buy:"+c.RealIP(), 10, time.Minute)
	if err == nil && limited {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many checkout attempts, try again shortly")
	}

	redirectURL, err := h.licensingService.StartCheckout(ctx, pendingToken)
	if err != nil {
		if errors.Is(err, payment.ErrProviderUnavailable) {
			return common.SendProviderUnavailable(c)
		}
		return common.SendServerError(c, "Failed to start checkout")
	}

	return c.Redirect(http.StatusSeeOther, redirectURL)
}

// Success handles the provider's return redirect. PayPal appends the order id
// as ?token=, Stripe substitutes the session id into ?session_id=; either way
// it is the transaction reference the whole pipeline keys on.
func (h *CheckoutHandlers) Success(c echo.Context) error {
	ctx := c.Request().Context()

	reference := c.QueryParam("session_id")
	if reference == "" {
		reference = c.QueryParam("token")
	}

	result, err := h.licensingService.Issue(ctx, reference, c.QueryParam("pending"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingReference):
			return common.SendMissingReference(c)
		case errors.Is(err, services.ErrPaymentNotVerified):
			return common.SendPaymentNotVerified(c)
		case errors.Is(err, services.ErrMissingLocation):
			return common.SendIncompleteLocation(c, "address", "no licensed location was provided")
		case errors.Is(err, payment.ErrProviderUnavailable):
			return common.SendProviderUnavailable(c)
		default:
			return common.SendServerError(c, "License issuance failed")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":         "Payment verified, license issued",
		"reference":       result.Reference,
		"license_key":     result.LicenseKey,
		"certificate_url": result.CertificateURL,
	})
}

// Cancel handles the provider's cancel redirect. Nothing was persisted, so
// there is nothing to undo.
func (h *CheckoutHandlers) Cancel(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Checkout cancelled, no payment was taken",
		"address_url": "/v1/checkout/address",
	})
}
