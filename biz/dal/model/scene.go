package model

// SourceRecord is one row of the metadata table shipped inside every scene archive.
// Column names are fixed by the archive producer and must not be renamed.
type SourceRecord struct {
	ProductID        string  `gorm:"column:DATAID"`
	ProductName      string  `gorm:"column:F_PRODUCTNAME"`
	SatelliteID      string  `gorm:"column:SATELLITEID"`
	ReceiveStationID string  `gorm:"column:RECSTATIONID"`
	SensorID         string  `gorm:"column:SENSORID"`
	ImagingStartTime string  `gorm:"column:IMAGINGSTARTTIME"`
	CloudAmount      float64 `gorm:"column:CLOUDAMOUNT"`
	TrackID          string  `gorm:"column:TRACKID"`
	ScenePath        string  `gorm:"column:SCENEPATH"`
	SceneRow         string  `gorm:"column:SCENEROW"`

	Metadata   []byte `gorm:"column:F_METADATA"`
	QuickImage []byte `gorm:"column:F_QUICKIMAGE1"`
	ThumbImage []byte `gorm:"column:F_THUMIMAGE"`
	ShapeImage []byte `gorm:"column:F_SHAPEIMAGE"`

	DataUpperLeftLat  float64 `gorm:"column:DATAUPPERLEFTLAT"`
	DataUpperLeftLon  float64 `gorm:"column:DATAUPPERLEFTLONG"`
	DataUpperRightLat float64 `gorm:"column:DATAUPPERRIGHTLAT"`
	DataUpperRightLon float64 `gorm:"column:DATAUPPERRIGHTLONG"`
	DataLowerLeftLat  float64 `gorm:"column:DATALOWERLEFTLAT"`
	DataLowerLeftLon  float64 `gorm:"column:DATALOWERLEFTLONG"`
	DataLowerRightLat float64 `gorm:"column:DATALOWERRIGHTLAT"`
	DataLowerRightLon float64 `gorm:"column:DATALOWERRIGHTLONG"`

	ProductUpperLeftLat  float64 `gorm:"column:PRODUCTUPPERLEFTLAT"`
	ProductUpperLeftLon  float64 `gorm:"column:PRODUCTUPPERLEFTLONG"`
	ProductUpperRightLat float64 `gorm:"column:PRODUCTUPPERRIGHTLAT"`
	ProductUpperRightLon float64 `gorm:"column:PRODUCTUPPERRIGHTLONG"`
	ProductLowerLeftLat  float64 `gorm:"column:PRODUCTLOWERLEFTLAT"`
	ProductLowerLeftLon  float64 `gorm:"column:PRODUCTLOWERLEFTLONG"`
	ProductLowerRightLat float64 `gorm:"column:PRODUCTLOWERRIGHTLAT"`
	ProductLowerRightLon float64 `gorm:"column:PRODUCTLOWERRIGHTLONG"`
}

// TableName overrides gorm to read the archive's metadata table.
func (SourceRecord) TableName() string {
	return "metadata"
}

// Corners holds one set of scene corner coordinates in degrees.
type Corners struct {
	UpperLeftLon, UpperLeftLat   float64
	UpperRightLon, UpperRightLat float64
	LowerLeftLon, LowerLeftLat   float64
	LowerRightLon, LowerRightLat float64
}

// IsZero reports whether every coordinate of the set is exactly 0.
func (c Corners) IsZero() bool {
	return c == Corners{}
}

// DataCorners returns the raw data footprint corners of the record.
func (r *SourceRecord) DataCorners() Corners {
	return Corners{
		UpperLeftLon: r.DataUpperLeftLon, UpperLeftLat: r.DataUpperLeftLat,
		UpperRightLon: r.DataUpperRightLon, UpperRightLat: r.DataUpperRightLat,
		LowerLeftLon: r.DataLowerLeftLon, LowerLeftLat: r.DataLowerLeftLat,
		LowerRightLon: r.DataLowerRightLon, LowerRightLat: r.DataLowerRightLat,
	}
}

// ProductCorners returns the product footprint corners of the record.
func (r *SourceRecord) ProductCorners() Corners {
	return Corners{
		UpperLeftLon: r.ProductUpperLeftLon, UpperLeftLat: r.ProductUpperLeftLat,
		UpperRightLon: r.ProductUpperRightLon, UpperRightLat: r.ProductUpperRightLat,
		LowerLeftLon: r.ProductLowerLeftLon, LowerLeftLat: r.ProductLowerLeftLat,
		LowerRightLon: r.ProductLowerRightLon, LowerRightLat: r.ProductLowerRightLat,
	}
}
