// Package backend opens the configured catalog store.
package backend

import (
	"context"
	"strings"

	"github.com/yi-nology/satimage_bridge/pkg/config"
	"github.com/yi-nology/satimage_bridge/pkg/database"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
	"github.com/yi-nology/satimage_bridge/pkg/docstore/firestore"
	"github.com/yi-nology/satimage_bridge/pkg/docstore/mongostore"
	"github.com/yi-nology/satimage_bridge/pkg/docstore/sqlstore"
)

// Open opens the catalog backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (docstore.Backend, error) {
	switch strings.ToLower(cfg.Driver) {
	case "firestore":
		store, err := firestore.New(ctx, cfg.Firestore.ProjectID, cfg.Firestore.Collection)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "mongodb", "mongo":
		store, err := mongostore.New(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	store, err := sqlstore.New(ctx, db)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return store, nil
}
