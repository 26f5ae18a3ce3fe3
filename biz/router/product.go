package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/yi-nology/satimage_bridge/biz/handler"
)

// RegisterProductRoutes configures the catalog API.
func RegisterProductRoutes(r *server.Hertz, h *handler.ProductHandler) {
	r.GET("/ping", handler.Ping)
	if h == nil {
		return
	}

	v1 := r.Group("/api/v1")
	v1.GET("/products", h.List)
	v1.GET("/products/:productID", h.Get)
	v1.GET("/products/:productID/thumbnail", h.Thumbnail)
}
