package geo

import (
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// SRID of every stored geometry.
const SRID = 4326

func (c Coord) point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Lon, c.Lat}).SetSRID(SRID)
}

func fromGeometry(g geom.T) (Coord, error) {
	p, ok := g.(*geom.Point)
	if !ok {
		return Coord{}, fmt.Errorf("%w: expected Point, got %T", ErrUndefinedGeometry, g)
	}
	if p.Empty() {
		return Coord{}, fmt.Errorf("%w: empty point", ErrUndefinedGeometry)
	}
	c := Coord{Lon: p.X(), Lat: p.Y()}
	if err := c.Validate(); err != nil {
		return Coord{}, err
	}
	return c, nil
}

// ParseGeoJSON decodes a GeoJSON Point geometry.
func ParseGeoJSON(data []byte) (Coord, error) {
	if len(data) == 0 || string(data) == "null" {
		return Coord{}, ErrUndefinedGeometry
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return Coord{}, fmt.Errorf("invalid geojson: %w", err)
	}
	return fromGeometry(g)
}

// MarshalGeoJSON encodes c as a GeoJSON Point geometry.
func MarshalGeoJSON(c Coord) (json.RawMessage, error) {
	data, err := geojson.Marshal(c.point())
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// FromGeometry converts a decoded go-geom geometry into a Coord.
func FromGeometry(g geom.T) (Coord, error) {
	return fromGeometry(g)
}

// EncodeWKB encodes c as little endian WKB, the form PostGIS ST_GeomFromWKB reads.
func EncodeWKB(c Coord) ([]byte, error) {
	return wkb.Marshal(c.point(), wkb.NDR)
}

// DecodeWKB decodes WKB produced by PostGIS ST_AsBinary.
func DecodeWKB(data []byte) (Coord, error) {
	if len(data) == 0 {
		return Coord{}, ErrUndefinedGeometry
	}
	g, err := wkb.Unmarshal(data)
	if err != nil {
		return Coord{}, fmt.Errorf("invalid wkb: %w", err)
	}
	return fromGeometry(g)
}

// DecodeNullableWKB is DecodeWKB for nullable columns; NULL yields nil.
func DecodeNullableWKB(data []byte) (*Coord, error) {
	if data == nil {
		return nil, nil
	}
	c, err := DecodeWKB(data)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// EncodeNullableWKB is EncodeWKB for nullable columns; nil yields SQL NULL.
func EncodeNullableWKB(c *Coord) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	return EncodeWKB(*c)
}
