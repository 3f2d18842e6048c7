package services

import (
	"testing"
	"time"

	"nilpfstore/internal/models"

	"github.com/stretchr/testify/assert"
)

func testLicense() *models.License {
	return &models.License{
		Reference:       "8GK12345XY678901L",
		CreatedAt:       time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		PayerEmail:      "buyer@example.com",
		PayerName:       "Jordan Buyer",
		PropertyAddress: "12 Main St, Columbus, OH, 43004",
		PropertyState:   "OH",
		LicenseKey:      "NILPF-OH-20260314150926-A1B2C3",
	}
}

func TestCertificateLines_VariantIndex(t *testing.T) {
	license := testLicense()

	lines := certificateLines(license, 3)

	assert.Contains(t, lines, "Property #3")
	assert.Contains(t, lines, "License Key: NILPF-OH-20260314150926-A1B2C3")
	assert.Contains(t, lines, "Property Address: 12 Main St, Columbus, OH, 43004")
	assert.Contains(t, lines, "Jurisdiction: OH")
}

func TestRender_ProducesPDF(t *testing.T) {
	renderer := NewCertificateRenderer()

	pdf, err := renderer.Render(testLicense(), 1)

	assert.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRender_DeterministicForSameRecord(t *testing.T) {
	renderer := NewCertificateRenderer()
	license := testLicense()

	first, err := renderer.Render(license, 1)
	assert.NoError(t, err)
	second, err := renderer.Render(license, 1)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_VariantsDiffer(t *testing.T) {
	renderer := NewCertificateRenderer()
	license := testLicense()

	first, err := renderer.Render(license, 1)
	assert.NoError(t, err)
	second, err := renderer.Render(license, 2)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestFilename_PerVariant(t *testing.T) {
	renderer := NewCertificateRenderer()

	assert.Equal(t, "license-certificate-property-1.pdf", renderer.Filename(1))
	assert.Equal(t, "license-certificate-property-7.pdf", renderer.Filename(7))
}
