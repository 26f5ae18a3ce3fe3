package handler

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	pkgcommon "github.com/yi-nology/satimage_bridge/pkg/common"
)

// Ping answers liveness probes.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, pkgcommon.CommonResponse{Code: consts.StatusOK, Msg: "pong"})
}

// The catalog keeps the HTTP status and the response code in step so plain HTTP
// clients and code-checking clients both see failures.

func WriteBadRequest(c *app.RequestContext, err error) {
	writeError(c, consts.StatusBadRequest, err.Error(), err)
}

func WriteNotFound(c *app.RequestContext, err error) {
	writeError(c, consts.StatusNotFound, err.Error(), err)
}

func WriteInternalError(c *app.RequestContext, err error) {
	writeError(c, consts.StatusInternalServerError, "internal error", err)
}

func writeError(c *app.RequestContext, status int, msg string, err error) {
	c.JSON(status, pkgcommon.CommonResponse{
		Code:  status,
		Msg:   msg,
		Error: err.Error(),
	})
}

func RespondData(c *app.RequestContext, data interface{}) {
	c.JSON(consts.StatusOK, pkgcommon.CommonResponse{
		Code: consts.StatusOK,
		Msg:  http.StatusText(consts.StatusOK),
		Data: data,
	})
}
