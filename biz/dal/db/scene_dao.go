package db

import (
	"context"

	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"gorm.io/gorm"
)

// SceneDAO reads scene records out of a source archive.
type SceneDAO struct{}

func NewSceneDAO() *SceneDAO { return &SceneDAO{} }

// Each streams every row of the metadata table in table order and calls fn for it.
// A row that cannot be scanned is passed to fn as a nil record together with the scan
// error so the caller decides whether to continue. Iteration stops when fn returns false.
func (dao *SceneDAO) Each(ctx context.Context, db *gorm.DB, fn func(rec *model.SourceRecord, scanErr error) bool) error {
	rows, err := db.WithContext(ctx).Model(&model.SourceRecord{}).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rec model.SourceRecord
		if err := db.ScanRows(rows, &rec); err != nil {
			if !fn(nil, err) {
				return nil
			}
			continue
		}
		if !fn(&rec, nil) {
			return nil
		}
	}
	return rows.Err()
}

// Count returns the number of rows in the metadata table.
func (dao *SceneDAO) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.SourceRecord{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
