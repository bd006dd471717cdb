package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// VersionMiddleware tags responses with the API version that served them
type VersionMiddleware struct {
	supported      map[string]string
	defaultVersion string
}

func NewVersionMiddleware(buildVersion string) *VersionMiddleware {
	return &VersionMiddleware{
		supported:      map[string]string{"v1": buildVersion},
		defaultVersion: "v1",
	}
}

// VersionHeader adds version information to response headers
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if build, ok := vm.supported[version]; ok {
				c.Response().Header().Set("X-Build-Version", build)
			}
			return next(c)
		}
	}
}

// APIVersionResolver rejects unknown /vN prefixes and records the resolved
// version under "api_version".
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := extractVersion(c.Request().URL.Path)
			if version == "" {
				c.Set("api_version", vm.defaultVersion)
				return next(c)
			}
			if _, ok := vm.supported[version]; !ok {
				return echo.NewHTTPError(http.StatusNotFound, "Unsupported API version")
			}
			c.Set("api_version", version)
			return next(c)
		}
	}
}

// extractVersion returns "vN" when path starts with /vN/ or equals /vN.
func extractVersion(path string) string {
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	if len(segment) < 2 || segment[0] != 'v' {
		return ""
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return segment
}
