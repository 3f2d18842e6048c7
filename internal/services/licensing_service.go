package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"nilpfstore/internal/caching"
	"nilpfstore/internal/common"
	"nilpfstore/internal/models"
	"nilpfstore/internal/repositories"
	"nilpfstore/internal/services/payment"

	"github.com/google/uuid"
)

// Typed pipeline outcomes. The handlers map these onto the HTTP error
// envelope; the service itself never touches echo.
var (
	ErrMissingReference   = errors.New("missing transaction reference")
	ErrPaymentNotVerified = errors.New("payment not verified")
	ErrRecordNotFound     = errors.New("license record not found")
	ErrMissingLocation    = errors.New("missing licensed location")
)

const pendingPurchaseTTL = 30 * time.Minute

// IssuanceResult is what a successful purchase callback yields.
type IssuanceResult struct {
	Reference      string `json:"reference"`
	LicenseKey     string `json:"license_key"`
	CertificateURL string `json:"certificate_url"`
}

type LicensingService interface {
	// SavePendingPurchase records the buyer's intended licensed location
	// under a fresh one-time token and returns the token.
	SavePendingPurchase(ctx context.Context, pending *models.PendingPurchase) (string, error)

	// StartCheckout opens a hosted checkout with the configured provider
	// and returns the URL to redirect the buyer to.
	StartCheckout(ctx context.Context, pendingToken string) (string, error)

	// Issue runs the verification-to-issuance pipeline for a provider
	// callback. Safe to call repeatedly for the same reference.
	Issue(ctx context.Context, reference, pendingToken string) (*IssuanceResult, error)

	// Certificate re-verifies payment for the reference and renders the
	// requested certificate variant. Returns the PDF bytes and filename.
	Certificate(ctx context.Context, reference string, which int) ([]byte, string, error)
}

type licensingService struct {
	provider payment.Provider
	licenses repositories.LicenseRepository
	events   repositories.IssuanceEventRepository
	cache    caching.CacheService
	renderer CertificateRenderer
	archive  ArchiveService // nil when object storage is not configured

	domainURL string
	amount    string
	currency  string
}

func NewLicensingService(
	provider payment.Provider,
	licenses repositories.LicenseRepository,
	events repositories.IssuanceEventRepository,
	cache caching.CacheService,
	renderer CertificateRenderer,
	archive ArchiveService,
	domainURL, amount, currency string,
) LicensingService {
	return &licensingService{
		provider:  provider,
		licenses:  licenses,
		events:    events,
		cache:     cache,
		renderer:  renderer,
		archive:   archive,
		domainURL: strings.TrimRight(domainURL, "/"),
		amount:    amount,
		currency:  currency,
	}
}

func (s *licensingService) SavePendingPurchase(ctx context.Context, pending *models.PendingPurchase) (string, error) {
	pending.Token = uuid.New().String()
	pending.CreatedAt = time.Now().UTC()
	if err := s.cache.SetPendingPurchase(ctx, pending, pendingPurchaseTTL); err != nil {
		return "", fmt.Errorf("failed to store pending purchase: %w", err)
	}
	return pending.Token, nil
}

// StartCheckout builds provider-appropriate return URLs. Stripe substitutes
// {CHECKOUT_SESSION_ID} server-side; PayPal appends ?token=<order id> to the
// return URL on its own.
func (s *licensingService) StartCheckout(ctx context.Context, pendingToken string) (string, error) {
	returnURL := s.domainURL + "/v1/checkout/success"
	if pendingToken != "" {
		returnURL += "?pending=" + pendingToken
	}
	if s.provider.Name() == "stripe" {
		if pendingToken != "" {
			returnURL += "&session_id={CHECKOUT_SESSION_ID}"
		} else {
			returnURL += "?session_id={CHECKOUT_SESSION_ID}"
		}
	}

	checkout, err := s.provider.Initiate(ctx, payment.InitiateParams{
		Amount:    s.amount,
		Currency:  s.currency,
		ReturnURL: returnURL,
		CancelURL: s.domainURL + "/v1/checkout/cancel",
	})
	if err != nil {
		return "", err
	}
	return checkout.RedirectURL, nil
}

func (s *licensingService) Issue(ctx context.Context, reference, pendingToken string) (*IssuanceResult, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrMissingReference
	}

	conf, err := s.provider.Confirm(ctx, reference)
	if err != nil {
		s.recordEvent(ctx, reference, models.OutcomeError, "", err.Error())
		return nil, err
	}
	if conf.Status != payment.StatusPaid {
		s.recordEvent(ctx, reference, models.OutcomeRejected, "", "provider reported payment not completed")
		return nil, ErrPaymentNotVerified
	}

	pending, err := s.cache.GetPendingPurchase(ctx, pendingToken)
	if err != nil {
		log.Printf("WARN: pending purchase lookup failed for token %s: %v", pendingToken, err)
		pending = nil
	}

	address, jurisdiction := resolveLocation(conf, pending)
	if address == "" {
		s.recordEvent(ctx, reference, models.OutcomeRejected, conf.PayerEmail, "no licensed location available")
		return nil, ErrMissingLocation
	}

	now := time.Now().UTC()
	license := &models.License{
		Reference:       reference,
		CreatedAt:       now,
		PayerEmail:      conf.PayerEmail,
		PayerName:       conf.PayerName,
		PropertyAddress: address,
		PropertyState:   normalizeJurisdiction(jurisdiction),
		LicenseKey:      GenerateLicenseKey(jurisdiction, reference, now),
	}

	if err := s.licenses.Upsert(ctx, license); err != nil {
		s.recordEvent(ctx, reference, models.OutcomeError, conf.PayerEmail, "license upsert failed: "+err.Error())
		return nil, fmt.Errorf("failed to save license record: %w", err)
	}

	// One-time token: spent once the record is written.
	if pendingToken != "" {
		if err := s.cache.DeletePendingPurchase(ctx, pendingToken); err != nil {
			log.Printf("WARN: failed to delete pending purchase token %s: %v", pendingToken, err)
		}
	}

	s.archiveCertificate(ctx, license)
	s.recordEvent(ctx, reference, models.OutcomeIssued, conf.PayerEmail, "license key "+license.LicenseKey)

	return &IssuanceResult{
		Reference:      reference,
		LicenseKey:     license.LicenseKey,
		CertificateURL: fmt.Sprintf("%s/v1/certificates/%s?which=1", s.domainURL, reference),
	}, nil
}

func (s *licensingService) Certificate(ctx context.Context, reference string, which int) ([]byte, string, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, "", ErrMissingReference
	}

	// Payment is re-verified on every download; possession of the URL is
	// not proof of payment.
	conf, err := s.provider.Confirm(ctx, reference)
	if err != nil {
		return nil, "", err
	}
	if conf.Status != payment.StatusPaid {
		return nil, "", ErrPaymentNotVerified
	}

	license, err := s.licenses.GetByReference(ctx, reference)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load license record: %w", err)
	}
	if license == nil {
		return nil, "", ErrRecordNotFound
	}

	pdf, err := s.renderer.Render(license, which)
	if err != nil {
		return nil, "", err
	}
	return pdf, s.renderer.Filename(which), nil
}

// resolveLocation flattens the licensed location. The provider-supplied
// address wins; the pending record fills in when the provider has none. The
// jurisdiction prefers the state the buyer declared up front.
func resolveLocation(conf *payment.Confirmation, pending *models.PendingPurchase) (address, jurisdiction string) {
	if !conf.Address.Empty() {
		address = common.JoinAddress(
			conf.Address.Line1,
			conf.Address.Line2,
			conf.Address.City,
			conf.Address.State,
			conf.Address.PostalCode,
			conf.Address.Country,
		)
		jurisdiction = conf.Address.State
	} else if pending != nil {
		address = pending.Location()
	}

	if pending != nil && strings.TrimSpace(pending.State) != "" {
		jurisdiction = pending.State
	}
	return address, jurisdiction
}

func (s *licensingService) archiveCertificate(ctx context.Context, license *models.License) {
	if s.archive == nil {
		return
	}
	pdf, err := s.renderer.Render(license, 1)
	if err != nil {
		log.Printf("WARN: certificate render for archive failed (%s): %v", license.Reference, err)
		return
	}
	if err := s.archive.StoreCertificate(ctx, license.Reference, pdf); err != nil {
		log.Printf("WARN: certificate archive failed (%s): %v", license.Reference, err)
	}
}

// recordEvent is best-effort audit; a failed write never changes the
// pipeline outcome.
func (s *licensingService) recordEvent(ctx context.Context, reference, outcome, payerEmail, detail string) {
	err := s.events.Create(ctx, &models.IssuanceEvent{
		Reference:  reference,
		Outcome:    outcome,
		PayerEmail: payerEmail,
		Detail:     detail,
	})
	if err != nil {
		log.Printf("WARN: failed to record issuance event for %s: %v", reference, err)
	}
}
