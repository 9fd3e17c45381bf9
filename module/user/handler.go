package user

import (
	"net/http"

	"FamilyHub/global"
	"FamilyHub/tools/errs"
	"FamilyHub/tools/security"

	"github.com/gin-gonic/gin"
)

type loginReq struct {
	UserID string `json:"userId" binding:"required"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// HandlerLogin issues a signed token for local development and tests.
// The real application authenticates through the OTP registration flow;
// this route only exists behind the DevLogin config flag.
func HandlerLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	opts := security.DefaultOptions(global.GetJwtSecret())
	opts.TTL = global.Config.JwtTTL
	token, exp, err := security.Generate(opts, req.UserID, req.Email, req.Role)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errs.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"expireAt": exp.Unix(),
		"user": gin.H{
			"id":    req.UserID,
			"email": req.Email,
			"role":  req.Role,
		},
	})
}
