// Package firestore keeps catalog products as Firestore documents keyed by product identifier.
package firestore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/datatypes"
)

// Store implements docstore.Backend on a Firestore collection.
type Store struct {
	client     *firestore.Client
	collection string
}

// New creates a Firestore client for projectID. FIRESTORE_EMULATOR_HOST is honoured by the SDK.
func New(ctx context.Context, projectID, collection string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}
	if collection == "" {
		collection = "metadata"
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &Store{client: client, collection: collection}, nil
}

func (s *Store) doc(productID string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(docID(productID))
}

func (s *Store) Exists(ctx context.Context, productID string) (bool, error) {
	_, err := s.doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("get product %s: %w", productID, err)
	}
	return true, nil
}

// Insert creates the document; Firestore rejects an existing document ID, which gives
// store-level uniqueness on the product identifier.
func (s *Store) Insert(ctx context.Context, product *model.Product) error {
	if product == nil || product.ProductID == "" {
		return fmt.Errorf("product with productid is required")
	}
	if _, err := s.doc(product.ProductID).Create(ctx, toDocument(product)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%w: %s", docstore.ErrDuplicateProduct, product.ProductID)
		}
		return fmt.Errorf("create product %s: %w", product.ProductID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, productID string) (*model.Product, error) {
	snap, err := s.doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, docstore.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	var d document
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", productID, err)
	}
	return d.toProduct(), nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	q := s.client.Collection(s.collection).OrderBy("acquisitiontime", firestore.Desc)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]model.Product, 0, len(snaps))
	for _, snap := range snaps {
		var d document
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("decode product %s: %w", snap.Ref.ID, err)
		}
		p := d.toProduct()
		p.ThumbView = nil
		products = append(products, *p)
	}
	return products, nil
}

// Count runs a server-side count aggregation over the collection.
func (s *Store) Count(ctx context.Context) (int64, error) {
	res, err := s.client.Collection(s.collection).NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count products: unexpected aggregation result %T", res["all"])
	}
	return v.GetIntegerValue(), nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// docID escapes characters Firestore does not allow in document IDs.
func docID(productID string) string {
	return url.PathEscape(productID)
}

// Firestore cannot store nested arrays, so the ring is kept as a list of points.
type geoPoint struct {
	Lon float64 `firestore:"lon"`
	Lat float64 `firestore:"lat"`
}

type boundary struct {
	Type string     `firestore:"type"`
	Ring []geoPoint `firestore:"ring"`
}

type document struct {
	ProductID        string         `firestore:"productid"`
	Filename         string         `firestore:"filename"`
	SatelliteID      string         `firestore:"satelliteid"`
	ReceiveStationID string         `firestore:"receivestationid"`
	SensorID         string         `firestore:"sensorid"`
	AcquisitionTime  time.Time      `firestore:"acquisitiontime"`
	InputTime        time.Time      `firestore:"inputtime"`
	CloudPercent     float64        `firestore:"cloudpercent"`
	SceneID          int            `firestore:"sceneid"`
	OrbitID          string         `firestore:"orbitid"`
	ScenePath        string         `firestore:"scenepath"`
	SceneRow         string         `firestore:"scenerow"`
	TarURI           string         `firestore:"taruri"`
	QuickviewURI     string         `firestore:"quickviewuri"`
	Boundary         boundary       `firestore:"boundary"`
	ThumbView        []byte         `firestore:"thumbview"`
	Metadata         map[string]any `firestore:"metadata"`
}

func toDocument(p *model.Product) document {
	fp := p.Footprint()
	ring := make([]geoPoint, 0, len(fp.Ring()))
	for _, pt := range fp.Ring() {
		ring = append(ring, geoPoint{Lon: pt.Lon(), Lat: pt.Lat()})
	}
	return document{
		ProductID:        p.ProductID,
		Filename:         p.Filename,
		SatelliteID:      p.SatelliteID,
		ReceiveStationID: p.ReceiveStationID,
		SensorID:         p.SensorID,
		AcquisitionTime:  p.AcquisitionTime,
		InputTime:        p.InputTime,
		CloudPercent:     p.CloudPercent,
		SceneID:          p.SceneID,
		OrbitID:          p.OrbitID,
		ScenePath:        p.ScenePath,
		SceneRow:         p.SceneRow,
		TarURI:           p.TarURI,
		QuickviewURI:     p.QuickviewURI,
		Boundary:         boundary{Type: fp.Type, Ring: ring},
		ThumbView:        p.ThumbView,
		Metadata:         map[string]any{},
	}
}

func (d document) toProduct() *model.Product {
	ring := make([]model.Point, 0, len(d.Boundary.Ring))
	for _, pt := range d.Boundary.Ring {
		ring = append(ring, model.Point{pt.Lon, pt.Lat})
	}
	fp := model.Footprint{Type: d.Boundary.Type}
	if len(ring) > 0 {
		fp.Coordinates = [][]model.Point{ring}
	}
	return &model.Product{
		ProductID:        d.ProductID,
		Filename:         d.Filename,
		SatelliteID:      d.SatelliteID,
		ReceiveStationID: d.ReceiveStationID,
		SensorID:         d.SensorID,
		AcquisitionTime:  d.AcquisitionTime,
		InputTime:        d.InputTime,
		CloudPercent:     d.CloudPercent,
		SceneID:          d.SceneID,
		OrbitID:          d.OrbitID,
		ScenePath:        d.ScenePath,
		SceneRow:         d.SceneRow,
		TarURI:           d.TarURI,
		QuickviewURI:     d.QuickviewURI,
		Boundary:         datatypes.NewJSONType(fp),
		ThumbView:        d.ThumbView,
		Metadata:         datatypes.JSON("{}"),
	}
}
