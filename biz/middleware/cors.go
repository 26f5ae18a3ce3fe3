package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/satimage_bridge/pkg/config"
)

// CORS lets browser map clients read the catalog. The API is read-only, so only
// GET and OPTIONS are advertised.
func CORS(cfg config.CORSConfig) app.HandlerFunc {
	allowOrigin := "*"
	if cfg.AllowOrigin != "" {
		allowOrigin = cfg.AllowOrigin
	}
	allowHeaders := "*"
	if cfg.AllowHeaders != "" {
		allowHeaders = cfg.AllowHeaders
	}

	return func(ctx context.Context, c *app.RequestContext) {
		c.Response.Header.Set("Access-Control-Allow-Origin", allowOrigin)
		c.Response.Header.Set("Access-Control-Allow-Methods", "GET,OPTIONS")
		c.Response.Header.Set("Access-Control-Allow-Headers", allowHeaders)

		if string(c.Request.Method()) == consts.MethodOptions {
			c.AbortWithStatus(consts.StatusNoContent)
			return
		}
		c.Next(ctx)
	}
}
