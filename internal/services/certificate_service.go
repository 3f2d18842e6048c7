package services

import (
	"bytes"
	"fmt"

	"nilpfstore/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// CertificateRenderer produces the downloadable license certificate. Pure
// rendering: no state, no external calls, and deterministic for a given
// record and variant index.
type CertificateRenderer interface {
	Render(license *models.License, which int) ([]byte, error)
	Filename(which int) string
}

type certificateRenderer struct{}

func NewCertificateRenderer() CertificateRenderer {
	return &certificateRenderer{}
}

// certificateLines is the visible body of the certificate, in order.
func certificateLines(license *models.License, which int) []string {
	return []string{
		"Issued To: " + license.PayerName,
		"Email: " + license.PayerEmail,
		"License Key: " + license.LicenseKey,
		fmt.Sprintf("Property #%d", which),
		"Property Address: " + license.PropertyAddress,
		"Jurisdiction: " + license.PropertyState,
		"Issued: " + license.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"),
	}
}

// Render lays out a fixed single-page certificate and returns the PDF as an
// in-memory buffer. Document dates are pinned to the record's issuance
// timestamp so repeated renders are byte-identical.
func (r *certificateRenderer) Render(license *models.License, which int) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(license.CreatedAt.UTC())
	pdf.SetModificationDate(license.CreatedAt.UTC())
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	// Title
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 12, "NILPF License Certificate")
	pdf.Ln(18)

	pdf.SetFont("Arial", "", 12)
	for _, line := range certificateLines(license, which) {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	// Footer
	pdf.Ln(12)
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 6, "Issued by NILPF Store. This certificate is valid only with a verifiable license key.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate certificate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is deterministic per variant index so repeated downloads of the
// same certificate get the same attachment name.
func (r *certificateRenderer) Filename(which int) string {
	return fmt.Sprintf("license-certificate-property-%d.pdf", which)
}
