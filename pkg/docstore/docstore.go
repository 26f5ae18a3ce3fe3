// Package docstore holds the catalog of migrated product documents.
package docstore

import (
	"context"
	"errors"

	"github.com/yi-nology/satimage_bridge/biz/dal/model"
)

var (
	ErrDuplicateProduct = errors.New("product already exists")
	ErrProductNotFound  = errors.New("product not found")
)

// Store is what the migration pipeline writes through.
type Store interface {
	// Exists reports whether a product with the identifier is already stored.
	Exists(ctx context.Context, productID string) (bool, error)
	// Insert stores a new product. A product with the same identifier yields ErrDuplicateProduct.
	Insert(ctx context.Context, product *model.Product) error
}

// Counter is implemented by stores that can report how many products they hold.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Catalog is the read side used by the catalog API.
type Catalog interface {
	// Get returns the product with the identifier or ErrProductNotFound.
	Get(ctx context.Context, productID string) (*model.Product, error)
	// List returns products newest acquisition first, without thumbnails.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)
}

// Backend is a store opened from configuration.
type Backend interface {
	Store
	Catalog
	Close() error
}
