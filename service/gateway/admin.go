package gateway

import (
	"net/http"

	"FamilyHub/tools/errs"

	"github.com/gin-gonic/gin"
)

// CtxIdentityKey is where the REST auth middleware parks the resolved
// identity on the gin context.
const CtxIdentityKey = "identity"

// IdentityFromGin reads the acting identity set by the REST middleware.
func IdentityFromGin(c *gin.Context) *UserIdentity {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*UserIdentity)
	return id
}

// HandleEvict force-disconnects every connection of the target user.
// Admin only; the REST caller then owns telling the user why.
func (g *Gateway) HandleEvict(c *gin.Context) {
	actor := IdentityFromGin(c)
	if actor == nil || !actor.Elevated() {
		c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrNotRecordOwner.WithDetail("admin role required"))
		return
	}
	userID := c.Param("userId")
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("userId required"))
		return
	}
	n := g.Evict(userID)
	c.JSON(http.StatusOK, gin.H{"evicted": n})
}

// HandleOnline reports presence for the admin dashboard.
func (g *Gateway) HandleOnline(c *gin.Context) {
	actor := IdentityFromGin(c)
	if actor == nil || !actor.Elevated() {
		c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrNotRecordOwner.WithDetail("admin role required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": g.reg.OnlineUsers(),
		"total": g.reg.Total(),
	})
}
