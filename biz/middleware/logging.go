package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Logging logs one line per catalog request.
func Logging() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)

		status := c.Response.StatusCode()
		line := "[%s] %s %s %d %dB %v"
		args := []any{
			c.ClientIP(),
			string(c.Request.Method()),
			string(c.Request.URI().RequestURI()),
			status,
			len(c.Response.Body()),
			time.Since(start),
		}
		if status >= 500 {
			hlog.CtxErrorf(ctx, line, args...)
			return
		}
		hlog.CtxInfof(ctx, line, args...)
	}
}
