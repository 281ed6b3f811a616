package office

import (
	"math"
)

// DistanceToMatch is the maximum distance, in meters, at which an ambiguous
// SSID match is attributed to the nearest office. Beyond it the network is
// treated as a shared/guest network and resolution falls back.
const DistanceToMatch = 500

const earthRadiusMeters = 6371000

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64
	Lon float64
}

// Office is an immutable catalog entry: a known physical or virtual location
// together with the status it maps to. Identity is the ID field; display
// text and glyphs change over the life of the catalog, IDs do not.
type Office struct {
	ID           string
	Location     *Location
	SSIDs        []string
	Text         string
	Glyph        string
	MeetingGlyph string
}

func (o Office) HasSSID(ssid string) bool {
	for _, s := range o.SSIDs {
		if s == ssid {
			return true
		}
	}
	return false
}

// DistanceTo returns the haversine distance in meters from the office to loc.
// Offices without a coordinate sort last.
func (o Office) DistanceTo(loc Location) float64 {
	if o.Location == nil {
		return math.MaxFloat64
	}
	return haversine(*o.Location, loc)
}

func haversine(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
