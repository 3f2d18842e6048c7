package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// APIVersion describes one supported API version.
type APIVersion struct {
	Version string `json:"version"`
	Status  string `json:"status"` // "active" or "deprecated"
	Message string `json:"message,omitempty"`
}

// VersionMiddleware pins the versioned route groups and stamps version
// headers on responses.
type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {
				Version: "v1",
				Status:  "active",
				Message: "Current stable API version",
			},
		},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if ver, exists := vm.supportedVersions[version]; exists {
				if ver.Status == "deprecated" {
					c.Response().Header().Set("X-API-Deprecated", "true")
				}
				c.Response().Header().Set("X-API-Message", ver.Message)
			}
			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(vm.VersionHeader(version))
	return group
}

// APIVersionResolver rejects requests for unsupported version prefixes.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if strings.HasPrefix(path, "/v") && len(path) > 2 {
				version := strings.SplitN(path[1:], "/", 2)[0]
				if len(version) >= 2 && version[1] >= '0' && version[1] <= '9' {
					if _, supported := vm.supportedVersions[version]; !supported {
						return c.JSON(http.StatusNotFound, map[string]string{
							"error":              "Unsupported API version",
							"supported_versions": strings.Join(vm.supportedVersionNames(), ", "),
						})
					}
					c.Set("api_version", version)
					return next(c)
				}
			}
			c.Set("api_version", vm.defaultVersion)
			return next(c)
		}
	}
}

func (vm *VersionMiddleware) supportedVersionNames() []string {
	var versions []string
	for version := range vm.supportedVersions {
		versions = append(versions, version)
	}
	return versions
}
