package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"nilpfstore/internal/common"
	"nilpfstore/internal/services"
	"nilpfstore/internal/services/payment"

	"github.com/labstack/echo/v4"
)

// CertificateHandlers serves certificate downloads. Every download re-runs
// payment verification; the URL alone grants nothing.
type CertificateHandlers struct {
	licensingService services.LicensingService
}

func NewCertificateHandlers(licensingService services.LicensingService) *CertificateHandlers {
	return &CertificateHandlers{licensingService: licensingService}
}

// Download handles GET /v1/certificates/:reference?which=N.
func (h *CertificateHandlers) Download(c echo.Context) error {
	ctx := c.Request().Context()

	which := 1
	if whichParam := c.QueryParam("which"); whichParam != "" {
		parsed, err := strconv.Atoi(whichParam)
		if err != nil || parsed < 1 {
			return common.SendValidationError(c, "which", "must be a positive integer")
		}
		which = parsed
	}

	pdf, filename, err := h.licensingService.Certificate(ctx, c.Param("reference"), which)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingReference):
			return common.SendMissingReference(c)
		case errors.Is(err, services.ErrPaymentNotVerified):
			return common.SendPaymentNotVerified(c)
		case errors.Is(err, services.ErrRecordNotFound):
			return common.SendNotFoundError(c, "License record")
		case errors.Is(err, payment.ErrProviderUnavailable):
			return common.SendProviderUnavailable(c)
		default:
			return common.SendServerError(c, "Certificate generation failed")
		}
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
