package main

import (
	"context"
	"errors"
	"flag"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/yi-nology/satimage_bridge/biz/handler"
	"github.com/yi-nology/satimage_bridge/biz/middleware"
	"github.com/yi-nology/satimage_bridge/biz/router"
	"github.com/yi-nology/satimage_bridge/pkg/docstore/backend"
)

// runServe starts the read-only catalog API over the target store.
func runServe(args []string) int {
	fs := flag.NewFlagSet("satimage_bridge serve", flag.ContinueOnError)
	var common commonFlags
	var addr string
	common.register(fs)
	fs.StringVar(&addr, "addr", "", "listen address, overrides server.address")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := common.load()
	if err != nil {
		hlog.Errorf("load config: %v", err)
		return 1
	}
	if addr != "" {
		cfg.Server.Address = addr
	}

	store, err := backend.Open(context.Background(), cfg.Database)
	if err != nil {
		hlog.Errorf("open store: %v", err)
		return 1
	}

	h := server.New(server.WithHostPorts(cfg.Server.Address))
	h.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS(cfg.Server.CORS))
	router.RegisterProductRoutes(h, handler.NewProductHandler(store))
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		if err := store.Close(); err != nil {
			hlog.CtxWarnf(ctx, "close store: %v", err)
		}
	})

	hlog.Infof("catalog API listening on %s (%s store)", cfg.Server.Address, cfg.Database.Driver)
	h.Spin()
	return 0
}
