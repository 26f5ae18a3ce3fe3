package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/yi-nology/satimage_bridge/pkg/config"
)

func TestCORS(t *testing.T) {
	h := server.New()
	h.Use(CORS(config.CORSConfig{AllowOrigin: "https://maps.example.com"}))
	h.GET("/x", func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "ok") })
	h.OPTIONS("/x", func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "not reached") })

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/x", nil).Result()
	if got := string(resp.Header.Peek("Access-Control-Allow-Origin")); got != "https://maps.example.com" {
		t.Fatalf("unexpected origin header %q", got)
	}
	if got := string(resp.Header.Peek("Access-Control-Allow-Methods")); got != "GET,OPTIONS" {
		t.Fatalf("unexpected methods header %q", got)
	}

	resp = ut.PerformRequest(h.Engine, http.MethodOptions, "/x", nil).Result()
	if resp.StatusCode() != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.StatusCode())
	}
}

func TestRecovery(t *testing.T) {
	h := server.New()
	h.Use(Recovery(), Logging())
	h.GET("/boom", func(ctx context.Context, c *app.RequestContext) { panic("boom") })

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/boom", nil).Result()
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode())
	}
}
