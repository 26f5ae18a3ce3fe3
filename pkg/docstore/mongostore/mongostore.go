// Package mongostore keeps catalog products in a MongoDB collection, one document per product.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yi-nology/satimage_bridge/biz/dal/model"
	"github.com/yi-nology/satimage_bridge/pkg/config"
	"github.com/yi-nology/satimage_bridge/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/datatypes"
)

const (
	DefaultDatabase   = "satimage"
	DefaultCollection = "metadata"

	connectTimeout = 10 * time.Second
)

// Store implements docstore.Backend on a MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// New connects to cfg.URI, checks the connection and makes sure the indexes exist.
func New(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo uri must be configured")
	}
	database := cfg.Database
	if database == "" {
		database = DefaultDatabase
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &Store{client: client, coll: client.Database(database).Collection(collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// indexModels lists the indexes the catalog relies on. The unique productid index
// backs the duplicate check at store level.
func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "productid", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uk_productid"),
		},
		{
			Keys:    bson.D{{Key: "acquisitiontime", Value: -1}},
			Options: options.Index().SetName("idx_acquisitiontime"),
		},
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.coll.Indexes().CreateMany(ctx, indexModels()); err != nil {
		return fmt.Errorf("create mongo indexes: %w", err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, productID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"productid": productID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count product %s: %w", productID, err)
	}
	return n > 0, nil
}

func (s *Store) Insert(ctx context.Context, product *model.Product) error {
	if product == nil || product.ProductID == "" {
		return fmt.Errorf("product with productid is required")
	}
	if _, err := s.coll.InsertOne(ctx, toDocument(product)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", docstore.ErrDuplicateProduct, product.ProductID)
		}
		return fmt.Errorf("insert product %s: %w", product.ProductID, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, productID string) (*model.Product, error) {
	var d document
	err := s.coll.FindOne(ctx, bson.M{"productid": productID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, docstore.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	return d.toProduct(), nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "acquisitiontime", Value: -1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"thumbview": 0})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	products := make([]model.Product, 0, len(docs))
	for _, d := range docs {
		products = append(products, *d.toProduct())
	}
	return products, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// geometry is stored as GeoJSON so the field can take a 2dsphere index later.
type geometry struct {
	Type        string          `bson:"type"`
	Coordinates [][]model.Point `bson:"coordinates"`
}

type document struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ProductID        string             `bson:"productid"`
	Filename         string             `bson:"filename"`
	SatelliteID      string             `bson:"satelliteid"`
	ReceiveStationID string             `bson:"receivestationid"`
	SensorID         string             `bson:"sensorid"`
	AcquisitionTime  time.Time          `bson:"acquisitiontime"`
	InputTime        time.Time          `bson:"inputtime"`
	CloudPercent     float64            `bson:"cloudpercent"`
	SceneID          int                `bson:"sceneid"`
	OrbitID          string             `bson:"orbitid"`
	ScenePath        string             `bson:"scenepath"`
	SceneRow         string             `bson:"scenerow"`
	TarURI           string             `bson:"taruri"`
	QuickviewURI     string             `bson:"quickviewuri"`
	Boundary         geometry           `bson:"boundary"`
	ThumbView        primitive.Binary   `bson:"thumbview"`
	Metadata         bson.M             `bson:"metadata"`
}

func toDocument(p *model.Product) document {
	fp := p.Footprint()
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
		Boundary:         geometry{Type: fp.Type, Coordinates: fp.Coordinates},
		ThumbView:        primitive.Binary{Subtype: bsontype.BinaryGeneric, Data: p.ThumbView},
		Metadata:         bson.M{},
	}
}

func (d document) toProduct() *model.Product {
	return &model.Product{
		ProductID:        d.ProductID,
		Filename:         d.Filename,
		SatelliteID:      d.SatelliteID,
		ReceiveStationID: d.ReceiveStationID,
		SensorID:         d.SensorID,
		AcquisitionTime:  d.AcquisitionTime.UTC(),
		InputTime:        d.InputTime.UTC(),
		CloudPercent:     d.CloudPercent,
		SceneID:          d.SceneID,
		OrbitID:          d.OrbitID,
		ScenePath:        d.ScenePath,
		SceneRow:         d.SceneRow,
		TarURI:           d.TarURI,
		QuickviewURI:     d.QuickviewURI,
		Boundary:         datatypes.NewJSONType(model.Footprint{Type: d.Boundary.Type, Coordinates: d.Boundary.Coordinates}),
		ThumbView:        d.ThumbView.Data,
		Metadata:         datatypes.JSON("{}"),
	}
}
