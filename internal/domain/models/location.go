// internal/domain/models/location.go
package models

// GeoPoint is a GeoJSON Point as MongoDB's 2dsphere index expects it.
// Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `bson:"type" json:"type"`
	Coordinates [2]float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a latitude/longitude pair.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// Lat returns the latitude of the point.
func (p GeoPoint) Lat() float64 { return p.Coordinates[1] }

// Lng returns the longitude of the point.
func (p GeoPoint) Lng() float64 { return p.Coordinates[0] }

// Location pairs a coordinate with the free-text landmark users actually
// navigate by ("blue gate behind the market").
type Location struct {
	Point    GeoPoint `bson:"point" json:"point"`
	Landmark string   `bson:"landmark,omitempty" json:"landmark,omitempty"`
}
