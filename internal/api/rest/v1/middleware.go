package v1

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth rejects requests lacking the configured key. With an empty
// key the middleware is a pass-through, matching open local deployments.
// The key is read from the X-API-KEY header, or the api_key form field on
// uploads.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if apiKey == "" {
			ctx.Next()
			return
		}

		presented := ctx.GetHeader("X-API-KEY")
		if presented == "" {
			presented = ctx.PostForm("api_key")
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse("Unauthorized"))
			return
		}

		ctx.Next()
	}
}

// RequestTimeout bounds each request's context so queue waiting and
// execution together cannot exceed the configured deadline.
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestCtx, cancel := context.WithTimeout(ctx.Request.Context(), timeout)
		defer cancel()

		ctx.Request = ctx.Request.WithContext(requestCtx)
		ctx.Next()
	}
}
