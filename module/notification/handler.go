package notification

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"FamilyHub/module/notification/service"
	"FamilyHub/service/gateway"
	"FamilyHub/tools/errs"

	"github.com/gin-gonic/gin"
)

// Handler exposes the REST query surface over NotificationRecord data.
// Every route sits behind the bearer middleware; the acting identity is
// always present.
type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// HandleList GET /api/notifications?limit=&offset=
func (h *Handler) HandleList(c *gin.Context) {
	actor := gateway.IdentityFromGin(c)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	list, err := h.svc.List(c.Request.Context(), actor, actor.UserID, limit, offset)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// HandleUnreadCount GET /api/notifications/unread_count
func (h *Handler) HandleUnreadCount(c *gin.Context) {
	actor := gateway.IdentityFromGin(c)
	count, err := h.svc.UnreadCount(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type createReq struct {
	UserID string `json:"userId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
}

// HandleCreate POST /api/notifications — internal surface for other
// services; admin only.
func (h *Handler) HandleCreate(c *gin.Context) {
	actor := gateway.IdentityFromGin(c)
	if !actor.Elevated() {
		c.AbortWithStatusJSON(http.StatusForbidden, errs.ErrNotRecordOwner.WithDetail("admin role required"))
		return
	}
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	n, err := h.svc.Create(c.Request.Context(), req.UserID, req.Title, req.Body)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

// HandleMarkRead PATCH /api/notifications/:id/read
func (h *Handler) HandleMarkRead(c *gin.Context) {
	actor := gateway.IdentityFromGin(c)
	if err := h.svc.MarkAsRead(c.Request.Context(), actor, c.Param("id")); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleMarkAllRead PATCH /api/notifications/read_all
func (h *Handler) HandleMarkAllRead(c *gin.Context) {
	actor := gateway.IdentityFromGin(c)
	modified, err := h.svc.MarkAllAsRead(c.Request.Context(), actor, actor.UserID)
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "modified": modified})
}

// HandleDelete DELETE /api/notifications/:id
func (h *Handler) HandleDelete(c *gin.Context) {
	actor := gateway.IdentityFromGin(c)
	if err := h.svc.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func abortWith(c *gin.Context, err error) {
	var ce *errs.CodeError
	if !stderrors.As(err, &ce) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errs.ErrInternal)
		return
	}
	status := http.StatusInternalServerError
	switch ce.Code {
	case errs.CodeArgs:
		status = http.StatusBadRequest
	case errs.CodeNoCredential, errs.CodeInvalidCredential:
		status = http.StatusUnauthorized
	case errs.CodeNotRecordOwner, errs.CodeNotFamilyMember:
		status = http.StatusForbidden
	case errs.CodeRecordNotFound:
		status = http.StatusNotFound
	}
	c.AbortWithStatusJSON(status, ce)
}
