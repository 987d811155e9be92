package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{name: "shinjuku wins overlapping tokyo buckets", lat: 35.65, lon: 139.75, want: "東京都, 新宿区"},
		{name: "chiyoda", lat: 35.65, lon: 139.85, want: "東京都, 千代田区"},
		{name: "shibuya", lat: 35.65, lon: 139.65, want: "東京都, 渋谷区"},
		{name: "minato", lat: 35.75, lon: 139.85, want: "東京都, 港区"},
		{name: "tokyo", lat: 35.75, lon: 139.65, want: "東京都"},
		{name: "miyamae", lat: 35.5, lon: 139.7, want: "神奈川県, 川崎市宮前区"},
		{name: "kawasaki", lat: 35.55, lon: 139.85, want: "神奈川県, 川崎市"},
		{name: "osaka", lat: 34.7, lon: 135.5, want: "大阪府, 大阪市"},
		{name: "kyoto", lat: 35.1, lon: 135.75, want: "京都府, 京都市"},
		{name: "kobe", lat: 34.7, lon: 135.2, want: "兵庫県, 神戸市"},
		{name: "nagoya", lat: 35.2, lon: 136.9, want: "愛知県, 名古屋市"},
		{name: "tsukuba", lat: 36.4, lon: 140.5, want: "茨城県, つくば市"},
		{name: "sapporo", lat: 43.05, lon: 141.35, want: "北海道, 札幌市"},
		{name: "fukuoka", lat: 33.6, lon: 130.4, want: "福岡県, 福岡市"},
		{name: "kanto", lat: 35.2, lon: 139.2, want: "関東地方"},
		{name: "kansai", lat: 34.2, lon: 135.8, want: "関西地方"},
		{name: "chubu", lat: 35.8, lon: 137.5, want: "中部地方"},
		{name: "hokkaido", lat: 42.5, lon: 143.0, want: "北海道"},
		{name: "kyushu", lat: 33.2, lon: 131.0, want: "九州地方"},
		{name: "inclusive upper bound", lat: 35.7, lon: 139.8, want: "東京都, 新宿区"},
		{name: "no match", lat: 0, lon: 0, want: "lat: 0.0000, lon: 0.0000"},
		{name: "no match keeps sign", lat: -33.86, lon: 151.2093, want: "lat: -33.8600, lon: 151.2093"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.lat, tt.lon))
		})
	}
}

func TestJapan_EveryBucketReachable(t *testing.T) {
	for i, b := range Japan {
		found := false

		for lat := b.Lat.Min; lat <= b.Lat.Max+1e-9 && !found; lat += 0.005 {
			for lon := b.Lon.Min; lon <= b.Lon.Max+1e-9; lon += 0.005 {
				if got, ok := Japan.Lookup(lat, lon); ok && got == b.Value {
					found = true

					break
				}
			}
		}

		assert.Truef(t, found, "bucket %d (%s) is shadowed", i, b.Value)
	}
}

func TestTable_Lookup(t *testing.T) {
	table := Table[int]{
		{Lat: Range{0, 10}, Lon: Range{0, 10}, Value: 1},
		{Lat: Range{0, 20}, Lon: Range{0, 20}, Value: 2},
	}

	v, ok := table.Lookup(5, 5)
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = table.Lookup(15, 15)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = table.Lookup(-1, 5)
	assert.False(t, ok)
}

func TestTable_Index(t *testing.T) {
	table := Table[int]{
		{Lat: Range{0, 10}, Lon: Range{0, 10}, Value: 1},
		{Lat: Range{0, 20}, Lon: Range{0, 20}, Value: 2},
	}

	assert.Equal(t, 0, table.Index(10, 10), "upper bounds are inclusive")
	assert.Equal(t, 1, table.Index(10.01, 10))
	assert.Equal(t, -1, table.Index(21, 0))
}
