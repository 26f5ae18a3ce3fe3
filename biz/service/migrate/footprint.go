package migrate

import "github.com/yi-nology/satimage_bridge/biz/dal/model"

const polygonType = "Polygon"

// BuildFootprint builds a closed polygon from four corners. The ring runs
// UL, LL, LR, UR and back to UL. Coordinates are taken as given.
func BuildFootprint(ulLon, ulLat, urLon, urLat, llLon, llLat, lrLon, lrLat float64) model.Footprint {
	ul := model.Point{ulLon, ulLat}
	return model.Footprint{
		Type: polygonType,
		Coordinates: [][]model.Point{{
			ul,
			{llLon, llLat},
			{lrLon, lrLat},
			{urLon, urLat},
			ul,
		}},
	}
}

func BuildFootprintFromCorners(c model.Corners) model.Footprint {
	return BuildFootprint(
		c.UpperLeftLon, c.UpperLeftLat,
		c.UpperRightLon, c.UpperRightLat,
		c.LowerLeftLon, c.LowerLeftLat,
		c.LowerRightLon, c.LowerRightLat,
	)
}

// SelectCorners prefers the data corners and falls back to the product corners
// when every data coordinate is 0. The two sets are never mixed.
func SelectCorners(rec *model.SourceRecord) model.Corners {
	if data := rec.DataCorners(); !data.IsZero() {
		return data
	}
	return rec.ProductCorners()
}
