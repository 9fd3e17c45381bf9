package security

import (
	"net/http"
	"strings"

	"FamilyHub/service/gateway"
	"FamilyHub/tools/errs"
	"FamilyHub/tools/security"

	"github.com/gin-gonic/gin"
)

type Options struct {
	Secret []byte
}

// Middleware authenticates REST requests with the same bearer secret the
// websocket handshake verifies against, and parks the resolved identity
// on the context under gateway.CtxIdentityKey.
func Middleware(opts Options) gin.HandlerFunc {
	verify := security.DefaultOptions(opts.Secret)
	return func(c *gin.Context) {
		token := ""
		if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("bearer "):])
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrNoCredential)
			return
		}
		claims, err := security.Verify(verify, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrInvalidCredential)
			return
		}
		c.Set(gateway.CtxIdentityKey, &gateway.UserIdentity{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		c.Next()
	}
}
