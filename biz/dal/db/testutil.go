package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"gorm.io/datatypes"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite catalog database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Reduce log noise in tests
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every pooled connection would otherwise get its own empty :memory: database
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.Product{}); err != nil {
		t.Fatalf("Failed to migrate tables: %v", err)
	}

	return db
}

// CleanupTestDB closes the database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close DB: %v", err)
	}
}

// CreateTestProduct creates a catalog product with default values
func CreateTestProduct(t *testing.T, db *gorm.DB, productID string, acquired time.Time) *model.Product {
	t.Helper()
	dao := NewProductDAO()
	product := &model.Product{
		ProductID:       productID,
		Filename:        productID + ".tar",
		SatelliteID:     "GF1",
		SensorID:        "PMS1",
		AcquisitionTime: acquired,
		InputTime:       time.Now(),
		Boundary:        datatypes.NewJSONType(model.Footprint{Type: "Polygon"}),
		ThumbView:       []byte("thumb-" + productID),
		Metadata:        datatypes.JSON("{}"),
	}
	if err := dao.Create(context.Background(), db, product); err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

// CreateTestArchive writes a scene archive with the given records to dir and
// returns its path. The archive uses the producer's metadata table layout.
func CreateTestArchive(t *testing.T, dir, name string, records ...model.SourceRecord) string {
	t.Helper()
	path := filepath.Join(dir, name)

	db, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test archive: %v", err)
	}
	defer CleanupTestDB(t, db)

	if err := db.AutoMigrate(&model.SourceRecord{}); err != nil {
		t.Fatalf("Failed to migrate archive table: %v", err)
	}
	for i := range records {
		if err := db.Create(&records[i]).Error; err != nil {
			t.Fatalf("Failed to insert archive record %d: %v", i, err)
		}
	}
	return path
}
