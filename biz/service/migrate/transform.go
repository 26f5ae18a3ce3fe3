package migrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"gorm.io/datatypes"
)

const acquisitionLayout = "2006-01-02 15:04:05"

var (
	ErrAcquisitionTime     = errors.New("invalid acquisition time")
	ErrThumbnailNotWritten = errors.New("thumbnail was not written")
)

// ParseAcquisitionTime parses archive timestamps such as "2021/05/01 10:00:00".
// Dates may use '/' or '-' separators. The result is in UTC.
func ParseAcquisitionTime(s string) (time.Time, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	t, err := time.ParseInLocation(acquisitionLayout, normalized, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrAcquisitionTime, s, err)
	}
	return t, nil
}

// Transformer turns a source record and its written assets into a catalog product.
type Transformer struct {
	assets *Materializer
	now    func() time.Time
}

func NewTransformer(assets *Materializer, now func() time.Time) *Transformer {
	if now == nil {
		now = time.Now
	}
	return &Transformer{assets: assets, now: now}
}

func (t *Transformer) Transform(ctx context.Context, rec *model.SourceRecord, fp model.Footprint, assets *AssetSet) (*model.Product, error) {
	acquired, err := ParseAcquisitionTime(rec.ImagingStartTime)
	if err != nil {
		return nil, err
	}
	if assets == nil || assets.Thumbnail == nil {
		return nil, ErrThumbnailNotWritten
	}
	thumb, err := t.assets.Read(ctx, assets.Thumbnail)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail %s: %w", assets.Thumbnail.Location, err)
	}

	return &model.Product{
		ProductID:        rec.ProductID,
		Filename:         rec.ProductName + ".tar",
		SatelliteID:      rec.SatelliteID,
		ReceiveStationID: rec.ReceiveStationID,
		SensorID:         rec.SensorID,
		AcquisitionTime:  acquired,
		InputTime:        t.now().UTC(),
		CloudPercent:     rec.CloudAmount,
		SceneID:          0,
		OrbitID:          rec.TrackID,
		ScenePath:        rec.ScenePath,
		SceneRow:         rec.SceneRow,
		TarURI:           "",
		QuickviewURI:     "",
		Boundary:         datatypes.NewJSONType(fp),
		ThumbView:        thumb,
		Metadata:         datatypes.JSON("{}"),
	}, nil
}
