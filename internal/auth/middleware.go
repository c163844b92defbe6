package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/storefront/internal/apperr"
	"github.com/MikeMC777/storefront/internal/httpx"
)

const identityKey = "auth.identity"

// Require rejects requests without a bearer token (401) or with a token the
// issuer does not accept (403), and stores the identity on the context.
func Require(is *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearer(c.GetHeader("Authorization"))
		if token == "" {
			httpx.Abort(c, apperr.ErrUnauthorized)
			return
		}
		id, err := is.Verify(token)
		if err != nil {
			httpx.Abort(c, apperr.ErrForbidden)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by Require.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func bearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
