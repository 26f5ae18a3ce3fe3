package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"github.com/yi-nology/satimage_bridge/pkg/config"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"gorm.io/datatypes"
)

func sampleProduct(id string, acquired time.Time) *model.Product {
	return &model.Product{
		ProductID:       id,
		Filename:        "GF1_PMS1_E10.0_N50.0_20210501.tar",
		SatelliteID:     "GF1",
		SensorID:        "PMS1",
		AcquisitionTime: acquired,
		InputTime:       time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		CloudPercent:    12.5,
		OrbitID:         "101",
		ScenePath:       "27",
		SceneRow:        "68",
		Boundary: datatypes.NewJSONType(model.Footprint{
			Type:        "Polygon",
			Coordinates: [][]model.Point{{{10, 50}, {10, 48}, {12, 48}, {12, 50}, {10, 50}}},
		}),
		ThumbView: []byte{0xff, 0xd8},
		Metadata:  datatypes.JSON("{}"),
	}
}

func TestDocumentEncoding(t *testing.T) {
	acquired := time.Date(2021, 5, 1, 10, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(toDocument(sampleProduct("P1", acquired)))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	doc := bson.Raw(raw)

	t.Run("no id until the server assigns one", func(t *testing.T) {
		if _, err := doc.LookupErr("_id"); err == nil {
			t.Fatalf("expected _id to be omitted")
		}
	})

	t.Run("boundary is GeoJSON", func(t *testing.T) {
		if got := doc.Lookup("boundary", "type").StringValue(); got != "Polygon" {
			t.Fatalf("unexpected boundary type %q", got)
		}
		ring := doc.Lookup("boundary", "coordinates", "0").Array()
		points, err := ring.Values()
		if err != nil || len(points) != 5 {
			t.Fatalf("expected 5 points, got %d err=%v", len(points), err)
		}
		first, err := points[0].Array().Values()
		if err != nil || len(first) != 2 || first[0].Double() != 10 || first[1].Double() != 50 {
			t.Fatalf("unexpected first point %v err=%v", first, err)
		}
	})

	t.Run("thumbview is binary", func(t *testing.T) {
		v := doc.Lookup("thumbview")
		if v.Type != bsontype.Binary {
			t.Fatalf("expected binary, got %s", v.Type)
		}
		subtype, data := v.Binary()
		if subtype != bsontype.BinaryGeneric || string(data) != string([]byte{0xff, 0xd8}) {
			t.Fatalf("unexpected thumbview %x %v", subtype, data)
		}
	})

	t.Run("acquisition time is a datetime", func(t *testing.T) {
		v := doc.Lookup("acquisitiontime")
		if v.Type != bsontype.DateTime || !v.Time().Equal(acquired) {
			t.Fatalf("unexpected acquisitiontime %s %v", v.Type, v)
		}
	})

	t.Run("decodes back", func(t *testing.T) {
		var d document
		if err := bson.Unmarshal(raw, &d); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		got := d.toProduct()
		if got.ProductID != "P1" || got.SceneRow != "68" || !got.AcquisitionTime.Equal(acquired) {
			t.Fatalf("unexpected product %+v", got)
		}
		ring := got.Footprint().Ring()
		if len(ring) != 5 || ring[2] != (model.Point{12, 48}) {
			t.Fatalf("unexpected ring %v", ring)
		}
		if string(got.ThumbView) != string([]byte{0xff, 0xd8}) {
			t.Fatalf("thumbnail not kept: %v", got.ThumbView)
		}
	})
}

func TestIndexModels(t *testing.T) {
	models := indexModels()
	if len(models) != 2 {
		t.Fatalf("expected 2 indexes, got %d", len(models))
	}
	unique := models[0].Options
	if unique.Unique == nil || !*unique.Unique || unique.Name == nil || *unique.Name != "uk_productid" {
		t.Fatalf("productid index must be unique and named uk_productid")
	}
}

func TestNewRequiresURI(t *testing.T) {
	if _, err := New(context.Background(), config.MongoConfig{}); err == nil {
		t.Fatalf("expected error without uri")
	}
}

// Runs against a live server when SATIMAGE_TEST_MONGO holds a mongodb:// uri.
func TestLiveStore(t *testing.T) {
	uri := os.Getenv("SATIMAGE_TEST_MONGO")
	if uri == "" {
		t.Skip("set SATIMAGE_TEST_MONGO to run MongoDB tests")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := "metadata_" + uuid.NewString()
	s, err := New(ctx, config.MongoConfig{URI: uri, Database: "satimage_test", Collection: collection})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(context.Background())
		s.Close()
	}()

	older := sampleProduct("P1", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := sampleProduct("P2", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	for _, p := range []*model.Product{older, newer} {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("Insert %s: %v", p.ProductID, err)
		}
	}

	if err := s.Insert(ctx, sampleProduct("P1", time.Now())); !errors.Is(err, docstore.ErrDuplicateProduct) {
		t.Fatalf("expected ErrDuplicateProduct, got %v", err)
	}
	exists, err := s.Exists(ctx, "P1")
	if err != nil || !exists {
		t.Fatalf("expected P1, exists=%v err=%v", exists, err)
	}
	exists, err = s.Exists(ctx, "missing")
	if err != nil || exists {
		t.Fatalf("expected missing to be absent, exists=%v err=%v", exists, err)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, docstore.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	got, err := s.Get(ctx, "P1")
	if err != nil || string(got.ThumbView) != string([]byte{0xff, 0xd8}) {
		t.Fatalf("Get P1: %+v err=%v", got, err)
	}

	list, err := s.List(ctx, 10, 0)
	if err != nil || len(list) != 2 || list[0].ProductID != "P2" || list[0].ThumbView != nil {
		t.Fatalf("unexpected list %+v err=%v", list, err)
	}
	n, err := s.Count(ctx)
	if err != nil || n != 2 {
		t.Fatalf("expected 2 products, got %d err=%v", n, err)
	}
}
