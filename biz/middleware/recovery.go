package middleware

import (
	"context"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/yi-nology/satimage_bridge/pkg/common"
)

// Recovery turns a handler panic into a 500 response and logs the stack.
func Recovery() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		defer func() {
			if r := recover(); r != nil {
				hlog.CtxErrorf(ctx, "panic serving %s: %v\n%s", string(c.Request.URI().Path()), r, debug.Stack())
				c.AbortWithStatusJSON(consts.StatusInternalServerError, common.CommonResponse{
					Code:  consts.StatusInternalServerError,
					Msg:   "internal error",
					Error: "internal server error",
				})
			}
		}()
		c.Next(ctx)
	}
}
