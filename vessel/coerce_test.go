package vessel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_NestedValues(t *testing.T) {
	in := map[string]any{
		"mmsi":   "710000001",
		"name":   "ATLANTIS",
		"blank":  "  ",
		"nested": map[string]any{"lat": "-1.46", "flag": "BR"},
		"list":   []any{"1", "x", 2.5, nil, true},
	}

	out := Coerce(in).(map[string]any)

	assert.Equal(t, 710000001.0, out["mmsi"])
	assert.Equal(t, "ATLANTIS", out["name"])
	assert.Equal(t, "  ", out["blank"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, -1.46, nested["lat"])
	assert.Equal(t, "BR", nested["flag"])
	assert.Equal(t, []any{1.0, "x", 2.5, nil, true}, out["list"])
}

func TestDecodeObservations(t *testing.T) {
	data := []byte(`[
		{"mmsi":"710000001","tstamp":"1700000000","lat":"-1.46","lon":"-56.38","cog":"350.5","sog":"7.2","rot":null,"head":"","vessel_name":"ATLANTIS","vessel_type":"70","dimBow":"100","dimStern":"20","imo":"9123456"},
		{"mmsi":"bogus","lat":"1"},
		"not an object",
		{"mmsi":710000002,"timestamp":1700000060.6,"lat":"n/a","lon":2,"vessel_name":"1234"}
	]`)

	obs, err := DecodeObservations(data)
	require.NoError(t, err)
	require.Len(t, obs, 2)

	a := obs[0]
	assert.Equal(t, int64(710000001), a.MMSI)
	assert.Equal(t, int64(1700000000), a.Timestamp)
	require.NotNil(t, a.Lat)
	assert.Equal(t, -1.46, *a.Lat)
	require.NotNil(t, a.COG)
	assert.Equal(t, 350.5, *a.COG)
	assert.Nil(t, a.ROT)
	assert.Nil(t, a.Head, "empty string is not a number")
	assert.Equal(t, "ATLANTIS", a.Name)
	assert.Equal(t, 70, a.Type)
	assert.Equal(t, 120.0, a.Length())
	require.NotNil(t, a.IMO)
	assert.Equal(t, int64(9123456), *a.IMO)

	b := obs[1]
	assert.Equal(t, int64(710000002), b.MMSI)
	assert.Equal(t, int64(1700000061), b.Timestamp)
	assert.Nil(t, b.Lat, "non-numeric latitude is treated as unknown")
	require.NotNil(t, b.Lon)
	assert.Equal(t, "1234", b.Name)
}

func TestDecodeObservations_InvalidJSON(t *testing.T) {
	_, err := DecodeObservations([]byte(`{"mmsi":1}`))
	assert.Error(t, err)
}

func TestObservation_Heading(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		obs  Observation
		want float64
	}{
		{name: "heading present", obs: Observation{Head: f(90), COG: f(80)}, want: 90},
		{name: "heading missing", obs: Observation{COG: f(80)}, want: 80},
		{name: "heading unavailable", obs: Observation{Head: f(511), COG: f(80)}, want: 80},
		{name: "nothing known", obs: Observation{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.obs.Heading())
		})
	}
}

func TestSnapshot_Ordering(t *testing.T) {
	s := NewSnapshot([]Observation{{MMSI: 3, Timestamp: 5}, {MMSI: 1, Timestamp: 9}, {MMSI: 2}})

	assert.Equal(t, []int64{1, 2, 3}, s.MMSIs())
	assert.Equal(t, int64(9), s.Latest())
	obs := s.Observations()
	require.Len(t, obs, 3)
	assert.Equal(t, int64(1), obs[0].MMSI)
}

func TestModelClass(t *testing.T) {
	cases := map[int]string{
		0:  "vessel",
		21: "tug",
		36: "vessel",
		40: "boat",
		52: "fixed/tug-0",
		60: "passenger",
		70: "bulk",
		84: "tanker",
		99: "vessel",
	}
	for code, want := range cases {
		assert.Equal(t, want, ModelClass(code), "type %d", code)
	}
}
