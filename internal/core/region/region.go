// Package region maps coordinates onto named geographic buckets.
//
// Buckets are rectangular lat/lon ranges with inclusive bounds. Tables are
// ordered and may overlap; the first bucket containing a point wins.
package region

import "fmt"

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Bucket associates a lat/lon rectangle with a value.
type Bucket[T any] struct {
	Lat   Range
	Lon   Range
	Value T
}

// Contains reports whether the point falls inside the bucket.
func (b Bucket[T]) Contains(lat, lon float64) bool {
	return b.Lat.Contains(lat) && b.Lon.Contains(lon)
}

// Table is an ordered list of buckets evaluated first match wins.
type Table[T any] []Bucket[T]

// Lookup returns the value of the first bucket containing the point.
func (t Table[T]) Lookup(lat, lon float64) (T, bool) {
	if i := t.Index(lat, lon); i >= 0 {
		return t[i].Value, true
	}

	var zero T

	return zero, false
}

// Index returns the position of the first bucket containing the point, or -1.
func (t Table[T]) Index(lat, lon float64) int {
	for i, b := range t {
		if b.Contains(lat, lon) {
			return i
		}
	}

	return -1
}

// Name is the display label of a region.
type Name struct {
	Prefecture string
	Area       string
}

// String joins prefecture and area with a comma, omitting an empty area.
func (n Name) String() string {
	if n.Area == "" {
		return n.Prefecture
	}

	return n.Prefecture + ", " + n.Area
}

func span(latMin, latMax, lonMin, lonMax float64, prefecture, area string) Bucket[Name] {
	return Bucket[Name]{
		Lat:   Range{Min: latMin, Max: latMax},
		Lon:   Range{Min: lonMin, Max: lonMax},
		Value: Name{Prefecture: prefecture, Area: area},
	}
}

// Japan is ordered ward, city, then broad region. Entries fully shadowed by
// an earlier bucket are omitted.
var Japan = Table[Name]{
	span(35.6, 35.7, 139.7, 139.8, "東京都", "新宿区"),
	span(35.6, 35.7, 139.7, 139.9, "東京都", "千代田区"),
	span(35.6, 35.7, 139.6, 139.8, "東京都", "渋谷区"),
	span(35.6, 35.8, 139.7, 139.9, "東京都", "港区"),
	span(35.6, 35.8, 139.6, 139.9, "東京都", ""),
	span(35.3, 35.6, 139.4, 139.8, "神奈川県", "川崎市宮前区"),
	span(35.5, 35.7, 139.6, 139.9, "神奈川県", "川崎市"),
	span(34.6, 34.8, 135.4, 135.6, "大阪府", "大阪市"),
	span(35.0, 35.2, 135.7, 135.8, "京都府", "京都市"),
	span(34.6, 34.8, 135.1, 135.3, "兵庫県", "神戸市"),
	span(35.1, 35.3, 136.8, 137.0, "愛知県", "名古屋市"),
	span(36.3, 36.5, 140.4, 140.6, "茨城県", "つくば市"),
	span(43.0, 43.1, 141.3, 141.4, "北海道", "札幌市"),
	span(33.5, 33.7, 130.3, 130.5, "福岡県", "福岡市"),
	span(35.0, 35.5, 139.0, 139.5, "関東地方", ""),
	span(34.0, 35.0, 135.0, 136.0, "関西地方", ""),
	span(35.0, 36.0, 136.0, 138.0, "中部地方", ""),
	span(42.0, 44.0, 140.0, 145.0, "北海道", ""),
	span(33.0, 35.0, 130.0, 132.0, "九州地方", ""),
}

// Resolve returns the display name for the coordinates, or a formatted
// coordinate string when no bucket matches.
func Resolve(lat, lon float64) string {
	if name, ok := Japan.Lookup(lat, lon); ok {
		return name.String()
	}

	return fmt.Sprintf("lat: %.4f, lon: %.4f", lat, lon)
}
