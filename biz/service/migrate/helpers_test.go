package migrate

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
	"github.com/yi-nology/satimage_bridge/pkg/storage/local"
)

type memStore struct {
	mu        sync.Mutex
	products  map[string]*model.Product
	order     []string
	lookups   []string
	existsErr error
	insertErr error
}

func newMemStore() *memStore {
	return &memStore{products: map[string]*model.Product{}}
}

func (s *memStore) Exists(ctx context.Context, productID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, productID)
	if s.existsErr != nil {
		return false, s.existsErr
	}
	_, ok := s.products[productID]
	return ok, nil
}

func (s *memStore) Insert(ctx context.Context, product *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	if _, ok := s.products[product.ProductID]; ok {
		return fmt.Errorf("%w: %s", docstore.ErrDuplicateProduct, product.ProductID)
	}
	s.products[product.ProductID] = product
	s.order = append(s.order, product.ProductID)
	return nil
}

func (s *memStore) Count(ctx context.Context) (int64, error) {
	return int64(s.count()), nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func sceneRecord(t *testing.T, productID string) model.SourceRecord {
	t.Helper()
	return model.SourceRecord{
		ProductID:        productID,
		ProductName:      "GF1_PMS1_" + productID,
		SatelliteID:      "GF1",
		ReceiveStationID: "MYC",
		SensorID:         "PMS1",
		ImagingStartTime: "2021/05/01 10:00:00",
		CloudAmount:      3,
		TrackID:          "101",
		ScenePath:        "27",
		SceneRow:         "68",
		Metadata:         []byte("<meta/>"),
		QuickImage:       []byte("quick-" + productID),
		ThumbImage:       []byte("thumb-" + productID),
		ShapeImage:       pngBytes(t, 1600, 400),

		DataUpperLeftLon: 1, DataUpperLeftLat: 2,
		DataUpperRightLon: 3, DataUpperRightLat: 4,
		DataLowerLeftLon: 5, DataLowerLeftLat: 6,
		DataLowerRightLon: 7, DataLowerRightLat: 8,
	}
}

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type pipeline struct {
	out       *local.Storage
	store     *memStore
	processor *Processor
}

func newPipeline(t *testing.T, policy StopPolicy) *pipeline {
	t.Helper()
	out, err := local.New(t.TempDir())
	if err != nil {
		t.Fatalf("local storage: %v", err)
	}
	store := newMemStore()
	m := NewMaterializer(out, 800)
	tr := NewTransformer(m, func() time.Time { return fixedNow })
	return &pipeline{out: out, store: store, processor: NewProcessor(store, m, tr, policy)}
}
