package server

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderDeviceID carries the device-scoped identity for anonymous
// callers.
const HeaderDeviceID = "X-Device-Id"

type contextKey string

const (
	contextIdentityKey     contextKey = "quota_identity"
	contextIdentityKindKey contextKey = "quota_identity_kind"
)

const (
	IdentityKindAccount = "account"
	IdentityKindDevice  = "device"
)

// IdentityRequired resolves the quota identity for the request: an
// authenticated account from the bearer token, or a device id for
// anonymous callers. Requests with neither are rejected rather than
// pooled into a shared anonymous bucket.
func (s *Server) IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, kind, ok := resolveIdentity(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, contextIdentityKey, identity)
		ctx = context.WithValue(ctx, contextIdentityKindKey, kind)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func resolveIdentity(c *gin.Context) (identity, kind string, ok bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", "", false
		}
		return strings.TrimSpace(parts[1]), IdentityKindAccount, true
	}

	if device := strings.TrimSpace(c.GetHeader(HeaderDeviceID)); device != "" {
		return device, IdentityKindDevice, true
	}
	return "", "", false
}

// IdentityFromContext returns the identity attached by IdentityRequired.
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(string)
	if !ok || identity == "" {
		return "", false
	}
	return identity, true
}

// IdentityKindFromContext reports whether the identity is an account or
// a device.
func IdentityKindFromContext(ctx context.Context) (string, bool) {
	kind, ok := ctx.Value(contextIdentityKindKey).(string)
	if !ok || kind == "" {
		return "", false
	}
	return kind, true
}
