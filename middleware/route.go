package middleware

import (
	midsec "FamilyHub/middleware/security"

	"github.com/gin-gonic/gin"
)

type RouteOpt struct {
	IsAuth bool
	Secret []byte
}

func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(midsec.Options{Secret: opt.Secret}), handler)
	} else {
		r.POST(path, handler)
	}
}

func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(midsec.Options{Secret: opt.Secret}), handler)
	} else {
		r.GET(path, handler)
	}
}

func PATCH(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.PATCH(path, midsec.Middleware(midsec.Options{Secret: opt.Secret}), handler)
	} else {
		r.PATCH(path, handler)
	}
}

func DELETE(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.DELETE(path, midsec.Middleware(midsec.Options{Secret: opt.Secret}), handler)
	} else {
		r.DELETE(path, handler)
	}
}
