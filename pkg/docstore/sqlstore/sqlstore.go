// Package sqlstore keeps catalog products in a relational database through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yi-nology/satimage_bridge/biz/dal/db"
	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"github.com/yi-nology/satimage_bridge/pkg/database"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
	"gorm.io/gorm"
)

// Store implements docstore.Backend on a gorm database.
type Store struct {
	db  *gorm.DB
	dao *db.ProductDAO
}

// New migrates the product table and returns the store.
func New(ctx context.Context, gdb *gorm.DB) (*Store, error) {
	if err := gdb.WithContext(ctx).AutoMigrate(&model.Product{}); err != nil {
		return nil, fmt.Errorf("migrate product table: %w", err)
	}
	return &Store{db: gdb, dao: db.NewProductDAO()}, nil
}

func (s *Store) Exists(ctx context.Context, productID string) (bool, error) {
	return s.dao.ExistsByProductID(ctx, s.db, productID)
}

func (s *Store) Insert(ctx context.Context, product *model.Product) error {
	if err := s.dao.Create(ctx, s.db, product); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", docstore.ErrDuplicateProduct, product.ProductID)
		}
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.dao.GetByProductID(ctx, s.db, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, docstore.ErrProductNotFound
	}
	return product, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	return s.dao.List(ctx, s.db, limit, offset)
}

// Count returns the number of stored products.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.dao.Count(ctx, s.db)
}

func (s *Store) Close() error {
	return database.Close(s.db)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
