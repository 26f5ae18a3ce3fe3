package db

import (
	"context"
	"errors"

	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"gorm.io/gorm"
)

// ProductDAO wraps persistence of catalog product documents.
type ProductDAO struct{}

func NewProductDAO() *ProductDAO { return &ProductDAO{} }

// Create persists a new product document.
func (dao *ProductDAO) Create(ctx context.Context, db *gorm.DB, entity *model.Product) error {
	if entity == nil {
		return errors.New("product must not be nil")
	}
	if entity.ProductID == "" {
		return errors.New("productid is required")
	}
	return db.WithContext(ctx).Create(entity).Error
}

// GetByProductID fetches a single product by its product identifier.
func (dao *ProductDAO) GetByProductID(ctx context.Context, db *gorm.DB, productID string) (*model.Product, error) {
	var entity model.Product
	if err := db.WithContext(ctx).
		Where("productid = ?", productID).
		First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// ExistsByProductID checks if a product with the given identifier exists.
func (dao *ProductDAO) ExistsByProductID(ctx context.Context, db *gorm.DB, productID string) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).
		Model(&model.Product{}).
		Where("productid = ?", productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns products ordered by acquisition time, newest first.
// Thumbnails are not loaded.
func (dao *ProductDAO) List(ctx context.Context, db *gorm.DB, limit, offset int) ([]model.Product, error) {
	tx := db.WithContext(ctx).Omit("thumbview")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}

	var entities []model.Product
	if err := tx.Order("acquisitiontime DESC, id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Count returns the number of stored products.
func (dao *ProductDAO) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
