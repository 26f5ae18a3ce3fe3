package model

// Point is a [lon, lat] coordinate pair.
type Point [2]float64

// Lon returns the longitude of the point.
func (p Point) Lon() float64 { return p[0] }

// Lat returns the latitude of the point.
func (p Point) Lat() float64 { return p[1] }

// Footprint is a GeoJSON polygon describing the ground coverage of a scene.
// It always holds a single closed ring of five points.
type Footprint struct {
	Type        string    `json:"type"`
	Coordinates [][]Point `json:"coordinates"`
}

// Ring returns the outer ring, or nil when the footprint is empty.
func (f Footprint) Ring() []Point {
	if len(f.Coordinates) == 0 {
		return nil
	}
	return f.Coordinates[0]
}
