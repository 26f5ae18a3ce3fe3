package model

import (
	"time"

	"gorm.io/datatypes"
)

// Product is the catalog document stored for every migrated scene.
type Product struct {
	ID               uint                          `gorm:"primaryKey" json:"-"`
	ProductID        string                        `gorm:"column:productid;uniqueIndex:uk_productid" json:"productid"`
	Filename         string                        `gorm:"column:filename" json:"filename"`
	SatelliteID      string                        `gorm:"column:satelliteid" json:"satelliteid"`
	ReceiveStationID string                        `gorm:"column:receivestationid" json:"receivestationid"`
	SensorID         string                        `gorm:"column:sensorid" json:"sensorid"`
	AcquisitionTime  time.Time                     `gorm:"column:acquisitiontime;index:idx_acquisitiontime" json:"acquisitiontime"`
	InputTime        time.Time                     `gorm:"column:inputtime" json:"inputtime"`
	CloudPercent     float64                       `gorm:"column:cloudpercent" json:"cloudpercent"`
	SceneID          int                           `gorm:"column:sceneid;default:0" json:"sceneid"`
	OrbitID          string                        `gorm:"column:orbitid" json:"orbitid"`
	ScenePath        string                        `gorm:"column:scenepath" json:"scenepath"`
	SceneRow         string                        `gorm:"column:scenerow" json:"scenerow"`
	TarURI           string                        `gorm:"column:taruri" json:"taruri"`
	QuickviewURI     string                        `gorm:"column:quickviewuri" json:"quickviewuri"`
	Boundary         datatypes.JSONType[Footprint] `gorm:"column:boundary" json:"boundary"`
	ThumbView        []byte                        `gorm:"column:thumbview" json:"-"`
	Metadata         datatypes.JSON                `gorm:"column:metadata" json:"metadata"`
}

// TableName keeps the collection name used by existing catalog consumers.
func (Product) TableName() string {
	return "metadata"
}

// Footprint returns the decoded boundary of the product.
func (p *Product) Footprint() Footprint {
	return p.Boundary.Data()
}
