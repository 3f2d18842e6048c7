package handlers

import (
	"net/http"
	"strconv"
	"time"

	"nilpfstore/internal/common"
	"nilpfstore/internal/repositories"
	"nilpfstore/internal/services"

	"github.com/labstack/echo/v4"
)

// AdminHandlers exposes the JWT-protected back-office surface: issued
// licenses, the issuance audit trail, and archived certificate links.
type AdminHandlers struct {
	licenseRepo repositories.LicenseRepository
	eventRepo   repositories.IssuanceEventRepository
	archive     services.ArchiveService // nil when object storage is not configured
}

func NewAdminHandlers(licenseRepo repositories.LicenseRepository, eventRepo repositories.IssuanceEventRepository, archive services.ArchiveService) *AdminHandlers {
	return &AdminHandlers{
		licenseRepo: licenseRepo,
		eventRepo:   eventRepo,
		archive:     archive,
	}
}

func paginationParams(c echo.Context) (limit, offset int) {
	limit = 20
	offset = 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// ListLicenses handles GET /v1/admin/licenses
func (h *AdminHandlers) ListLicenses(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	licenses, err := h.licenseRepo.List(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list licenses")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"licenses": licenses,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetLicense handles GET /v1/admin/licenses/:reference
func (h *AdminHandlers) GetLicense(c echo.Context) error {
	ctx := c.Request().Context()
	reference := c.Param("reference")

	license, err := h.licenseRepo.GetByReference(ctx, reference)
	if err != nil {
		return common.SendServerError(c, "Failed to load license")
	}
	if license == nil {
		return common.SendNotFoundError(c, "License record")
	}

	events, err := h.eventRepo.ListByReference(ctx, reference)
	if err != nil {
		return common.SendServerError(c, "Failed to load issuance events")
	}

	resp := map[string]interface{}{
		"license": license,
		"events":  events,
	}
	if h.archive != nil {
		if url, err := h.archive.CertificateURL(reference, 15*time.Minute); err == nil {
			resp["archived_certificate_url"] = url
		}
	}

	return c.JSON(http.StatusOK, resp)
}

// ListEvents handles GET /v1/admin/events
func (h *AdminHandlers) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	events, err := h.eventRepo.ListRecent(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list issuance events")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"events": events,
		"limit":  limit,
		"offset": offset,
	})
}
