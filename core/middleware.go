package core

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxRequestBody is the cap on credential-bearing request bodies.
const MaxRequestBody = 1024

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session"

// MaxBodyMiddleware rejects oversized request bodies before the flows
// run. Requests with a declared length over the limit fail fast; for
// the rest the body reader enforces the cap during JSON binding.
func MaxBodyMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			respondError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body is too large")
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

// OriginRefererMiddleware guards the cookie-authenticated endpoints
// against cross-site calls. The browser dashboard sends the session
// cookie with every request, so only configured origins may talk to
// the API; requests without an Origin header (same-origin navigation,
// curl) always pass. Allowed cross-origin callers get matching CORS
// headers, credentials included.
func OriginRefererMiddleware(cfg Config) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, o := range cfg.AllowedOrigins {
		allowed[strings.ToLower(o)] = struct{}{}
	}

	isAllowed := func(origin string) bool {
		if origin == "" {
			return true
		}
		if len(allowed) == 0 {
			return false
		}
		_, ok := allowed[strings.ToLower(origin)]
		return ok
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			// Older form posts carry only a Referer; derive the origin
			// from it so they face the same check.
			if referer := c.GetHeader("Referer"); referer != "" {
				if u, err := url.Parse(referer); err == nil {
					origin = u.Scheme + "://" + u.Host
				}
			}
		}

		if !isAllowed(origin) {
			respondError(c, http.StatusForbidden, "FORBIDDEN", "origin not allowed")
			c.Abort()
			return
		}

		if c.Request.Method == http.MethodOptions && origin != "" {
			setCORSHeaders(c, origin)
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		if origin != "" {
			setCORSHeaders(c, origin)
		}
		c.Next()
	}
}

// setCORSHeaders advertises exactly what the API serves: JSON bodies
// over GET and POST, with cookies.
func setCORSHeaders(c *gin.Context, origin string) {
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Vary", "Origin")
	c.Header("Access-Control-Allow-Credentials", "true")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
}
