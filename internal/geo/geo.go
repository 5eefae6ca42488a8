package geo

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadius is the WGS84 semi-major axis. ESRI:54009 is a spherical
// projection, so PROJ uses the ellipsoid's semi-major axis as the sphere radius.
const EarthRadius = 6378137.0

const (
	mollCx      = 2 * math.Sqrt2 / math.Pi
	mollCy      = math.Sqrt2
	mollMaxIter = 30
	mollTol     = 1e-7
)

var (
	ErrUndefinedGeometry = errors.New("undefined geometry")
	ErrOutOfRange        = errors.New("coordinate out of range")
)

// Coord is a WGS84 longitude/latitude pair in degrees.
type Coord struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

func (c Coord) Validate() error {
	if math.IsNaN(c.Lon) || math.IsNaN(c.Lat) || math.IsInf(c.Lon, 0) || math.IsInf(c.Lat, 0) {
		return fmt.Errorf("%w: not a number", ErrOutOfRange)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", ErrOutOfRange, c.Lon)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrOutOfRange, c.Lat)
	}
	return nil
}

// Mollweide projects c into the world Mollweide projection (ESRI:54009)
// and returns easting and northing in meters.
func Mollweide(c Coord) (x, y float64) {
	lam := c.Lon * math.Pi / 180
	phi := c.Lat * math.Pi / 180

	// solve 2θ + sin 2θ = π sin φ for t = 2θ
	k := math.Pi * math.Sin(phi)
	t := phi
	converged := false
	for i := 0; i < mollMaxIter; i++ {
		denom := 1 + math.Cos(t)
		if denom < 1e-15 {
			break
		}
		v := (t + math.Sin(t) - k) / denom
		t -= v
		if math.Abs(v) < mollTol {
			converged = true
			break
		}
	}

	var theta float64
	if converged {
		theta = t / 2
	} else if phi < 0 {
		theta = -math.Pi / 2
	} else {
		theta = math.Pi / 2
	}

	x = EarthRadius * mollCx * lam * math.Cos(theta)
	y = EarthRadius * mollCy * math.Sin(theta)
	return x, y
}

// Distance projects both points with Mollweide and returns the straight
// line distance between them in meters.
func Distance(a, b *Coord) (float64, error) {
	if a == nil || b == nil {
		return 0, ErrUndefinedGeometry
	}
	ax, ay := Mollweide(*a)
	bx, by := Mollweide(*b)
	return math.Hypot(ax-bx, ay-by), nil
}
