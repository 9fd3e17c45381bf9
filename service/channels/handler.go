package channels

import (
	"net/http"

	"FamilyHub/service/gateway"
	"FamilyHub/tools/errs"

	"github.com/gin-gonic/gin"
)

type broadcastReq struct {
	FamilyID string         `json:"familyId" binding:"required"`
	Event    string         `json:"event" binding:"required"`
	Data     map[string]any `json:"data"`
}

// HandleBroadcast POST /api/admin/broadcast/:namespace — ops surface to
// push an arbitrary catalogued event into a family room. Admin only;
// same at-most-once semantics as any other cast.
func (h *Hub) HandleBroadcast(c *gin.Context) {
	actor := gateway.IdentityFromGin(c)
	if actor == nil || !actor.Elevated() {
		c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrNotRecordOwner.WithDetail("admin role required"))
		return
	}
	ch := h.ByNamespace(c.Param("namespace"))
	if ch == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, errs.ErrArgs.WithDetail("unknown namespace"))
		return
	}
	var req broadcastReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	delivered := ch.EmitToFamily(req.FamilyID, req.Event, req.Data)
	c.JSON(http.StatusOK, gin.H{"delivered": delivered})
}
