package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"nilpfstore/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCertificateContext(e *echo.Echo, target string, reference string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/certificates/:reference")
	c.SetParamNames("reference")
	c.SetParamValues(reference)
	return c, rec
}

func TestDownload_ServesPDF(t *testing.T) {
	e := echo.New()
	svc := &MockLicensingService{}
	h := NewCertificateHandlers(svc)
	svc.On("Certificate", mock.Anything, "order-1", 2).
		Return([]byte("%PDF-1.3 fake"), "license-certificate-property-2.pdf", nil)

	c, rec := newCertificateContext(e, "/v1/certificates/order-1?which=2", "order-1")

	err := h.Download(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "license-certificate-property-2.pdf")
}

func TestDownload_DefaultsToFirstVariant(t *testing.T) {
	e := echo.New()
	svc := &MockLicensingService{}
	h := NewCertificateHandlers(svc)
	svc.On("Certificate", mock.Anything, "order-1", 1).
		Return([]byte("%PDF-1.3 fake"), "license-certificate-property-1.pdf", nil)

	c, rec := newCertificateContext(e, "/v1/certificates/order-1", "order-1")

	err := h.Download(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownload_InvalidVariant(t *testing.T) {
	e := echo.New()
	svc := &MockLicensingService{}
	h := NewCertificateHandlers(svc)

	c, rec := newCertificateContext(e, "/v1/certificates/order-1?which=zero", "order-1")

	err := h.Download(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Certificate", mock.Anything, mock.Anything, mock.Anything)
}

func TestDownload_RecordNotFound(t *testing.T) {
	e := echo.New()
	svc := &MockLicensingService{}
	h := NewCertificateHandlers(svc)
	svc.On("Certificate", mock.Anything, "order-9", 1).
		Return(nil, "", services.ErrRecordNotFound)

	c, rec := newCertificateContext(e, "/v1/certificates/order-9", "order-9")

	err := h.Download(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownload_PaymentNotVerified(t *testing.T) {
	e := echo.New()
	svc := &MockLicensingService{}
	h := NewCertificateHandlers(svc)
	svc.On("Certificate", mock.Anything, "order-1", 1).
		Return(nil, "", services.ErrPaymentNotVerified)

	c, rec := newCertificateContext(e, "/v1/certificates/order-1", "order-1")

	err := h.Download(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
}
