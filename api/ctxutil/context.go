// Package ctxutil carries gin request metadata into the context.Context handed to services.
package ctxutil

import (
	"context"

	"pos/api/response"
	"pos/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID 返回带有请求 ID 的 request context，日志与 GORM 适配器从中读取
func WithRequestID(ctx *gin.Context) context.Context {
	return persistence.ContextWithRequestID(ctx.Request.Context(), response.GetRequestID(ctx))
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
