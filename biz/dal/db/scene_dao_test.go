package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestArchive(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	return db
}

func TestSceneDAO_Each(t *testing.T) {
	path := CreateTestArchive(t, t.TempDir(), "scenes.db",
		model.SourceRecord{ProductID: "A", ProductName: "scene_a", TrackID: "101", ThumbImage: []byte{1, 2, 3}, DataUpperLeftLon: 10.5},
		model.SourceRecord{ProductID: "B", ProductName: "scene_b", TrackID: "102"},
		model.SourceRecord{ProductID: "C", ProductName: "scene_c", TrackID: "103"},
	)
	db := openTestArchive(t, path)
	defer CleanupTestDB(t, db)
	dao := NewSceneDAO()
	ctx := context.Background()

	t.Run("TableOrder", func(t *testing.T) {
		var ids []string
		err := dao.Each(ctx, db, func(rec *model.SourceRecord, scanErr error) bool {
			if scanErr != nil {
				t.Fatalf("unexpected scan error: %v", scanErr)
			}
			ids = append(ids, rec.ProductID)
			return true
		})
		if err != nil {
			t.Fatalf("Each failed: %v", err)
		}
		if len(ids) != 3 || ids[0] != "A" || ids[1] != "B" || ids[2] != "C" {
			t.Errorf("Unexpected iteration order: %v", ids)
		}
	})

	t.Run("ColumnMapping", func(t *testing.T) {
		var first *model.SourceRecord
		_ = dao.Each(ctx, db, func(rec *model.SourceRecord, _ error) bool {
			first = rec
			return false
		})
		if first == nil {
			t.Fatal("expected a record")
		}
		if first.ProductName != "scene_a" || first.TrackID != "101" {
			t.Errorf("Unexpected record: %+v", first)
		}
		if string(first.ThumbImage) != string([]byte{1, 2, 3}) {
			t.Errorf("Unexpected thumbnail payload: %v", first.ThumbImage)
		}
		if first.DataUpperLeftLon != 10.5 {
			t.Errorf("Expected DATAUPPERLEFTLONG 10.5, got %v", first.DataUpperLeftLon)
		}
	})

	t.Run("StopEarly", func(t *testing.T) {
		visited := 0
		err := dao.Each(ctx, db, func(*model.SourceRecord, error) bool {
			visited++
			return visited < 2
		})
		if err != nil {
			t.Fatalf("Each failed: %v", err)
		}
		if visited != 2 {
			t.Errorf("Expected 2 visited rows, got %d", visited)
		}
	})

	t.Run("Count", func(t *testing.T) {
		count, err := dao.Count(ctx, db)
		if err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 3 {
			t.Errorf("Expected 3 rows, got %d", count)
		}
	})
}

func TestSceneDAO_MissingTable(t *testing.T) {
	db := openTestArchive(t, filepath.Join(t.TempDir(), "empty.db"))
	defer CleanupTestDB(t, db)

	err := NewSceneDAO().Each(context.Background(), db, func(*model.SourceRecord, error) bool { return true })
	if err == nil {
		t.Fatal("expected error for database without metadata table")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("unexpected not-found error: %v", err)
	}
}
