package interpolate

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/seascape/vessel"
)

func f(v float64) *float64 { return &v }

func fleet(obs ...vessel.Observation) vessel.Snapshot { return vessel.NewSnapshot(obs) }

var (
	prevA = vessel.Observation{
		MMSI: 1, Timestamp: 1000,
		Lat: f(-1.0), Lon: f(-56.0), COG: f(350), SOG: f(4), ROT: f(0), Head: f(340),
		Static: vessel.Static{Name: "OLD NAME"},
	}
	currA = vessel.Observation{
		MMSI: 1, Timestamp: 1120,
		Lat: f(-1.2), Lon: f(-56.4), COG: f(10), SOG: f(8), ROT: f(2), Head: f(20),
		Static: vessel.Static{Name: "NEW NAME"},
	}
	onlyPrev = vessel.Observation{MMSI: 2, Timestamp: 900, Lat: f(3), Lon: f(4)}
	onlyCurr = vessel.Observation{MMSI: 3, Timestamp: 1100, Lat: f(5), Lon: f(6)}
)

func TestSnapshots_Identities(t *testing.T) {
	prev := fleet(prevA, onlyPrev)
	curr := fleet(currA, onlyCurr)

	for _, tt := range []float64{-1, 0, 0.25, 0.5, 1, 2} {
		got := Snapshots(nil, curr, tt)
		assert.Empty(t, cmp.Diff(curr, got), "empty prev at t=%v", tt)
	}
	assert.Empty(t, cmp.Diff(prev, Snapshots(prev, curr, 0)))
	assert.Empty(t, cmp.Diff(curr, Snapshots(prev, curr, 1)))
	assert.Empty(t, cmp.Diff(prev, Snapshots(prev, curr, -0.5)), "t is clamped")
	assert.Empty(t, cmp.Diff(curr, Snapshots(prev, curr, 1.5)), "t is clamped")
}

func TestSnapshots_UnionOfKeys(t *testing.T) {
	prev := fleet(prevA, onlyPrev)
	curr := fleet(currA, onlyCurr)

	for _, tt := range []float64{0.1, 0.5, 0.9} {
		got := Snapshots(prev, curr, tt)
		require.Len(t, got, 3)
		assert.Empty(t, cmp.Diff(onlyCurr, got[3]), "new arrival is unchanged at t=%v", tt)
		assert.Empty(t, cmp.Diff(onlyPrev, got[2]), "stale vessel keeps its last state at t=%v", tt)
	}

	_, present := Snapshots(prev, curr, 0)[3]
	assert.False(t, present, "new arrival is absent at t=0")
}

func TestSnapshots_Blend(t *testing.T) {
	got := Snapshots(fleet(prevA), fleet(currA), 0.5)[1]

	assert.Equal(t, int64(1060), got.Timestamp)
	assert.InDelta(t, -1.1, *got.Lat, 1e-9)
	assert.InDelta(t, -56.2, *got.Lon, 1e-9)
	assert.InDelta(t, 6, *got.SOG, 1e-9)
	assert.InDelta(t, 1, *got.ROT, 1e-9)
	assert.InDelta(t, 0, *got.COG, 1e-9)
	assert.InDelta(t, 0, *got.Head, 1e-9)
	assert.Equal(t, "NEW NAME", got.Name, "static fields come from the newer observation")
}

func TestSnapshots_TimestampRounding(t *testing.T) {
	p := vessel.Observation{MMSI: 1, Timestamp: 0}
	c := vessel.Observation{MMSI: 1, Timestamp: 10}

	assert.Equal(t, int64(3), Snapshots(fleet(p), fleet(c), 1.0/3)[1].Timestamp)
	assert.Equal(t, int64(7), Snapshots(fleet(p), fleet(c), 2.0/3)[1].Timestamp)
}

func TestLerp_BetweenAndMonotonic(t *testing.T) {
	pairs := [][2]float64{{-1.0, -1.2}, {4, 8}, {10, 10}, {-56.4, 12.9}}
	for _, pair := range pairs {
		lo, hi := math.Min(pair[0], pair[1]), math.Max(pair[0], pair[1])
		last := pair[0]
		for i := 0; i <= 20; i++ {
			tt := float64(i) / 20
			v := Lerp(f(pair[0]), f(pair[1]), tt)
			require.NotNil(t, v)
			assert.GreaterOrEqual(t, *v, lo-1e-12)
			assert.LessOrEqual(t, *v, hi+1e-12)
			if pair[1] >= pair[0] {
				assert.GreaterOrEqual(t, *v, last-1e-12)
			} else {
				assert.LessOrEqual(t, *v, last+1e-12)
			}
			last = *v
		}
	}
}

func TestLerpAngle(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		t          float64
		want       float64
	}{
		{name: "wrap through north", start: 350, end: 10, t: 0.5, want: 0},
		{name: "wrap through north reversed", start: 10, end: 350, t: 0.5, want: 0},
		{name: "quarter past north", start: 350, end: 10, t: 0.75, want: 5},
		{name: "plain", start: 90, end: 180, t: 0.5, want: 135},
		{name: "exactly opposite", start: 0, end: 180, t: 0.5, want: 90},
		{name: "out of range inputs", start: -10, end: 370, t: 0.5, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LerpAngle(f(tt.start), f(tt.end), tt.t)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestLerpAngle_Range(t *testing.T) {
	for s := 0.0; s < 360; s += 15 {
		for e := 0.0; e < 360; e += 15 {
			for i := 1; i < 10; i++ {
				got := LerpAngle(f(s), f(e), float64(i)/10)
				require.NotNil(t, got)
				assert.GreaterOrEqual(t, *got, 0.0)
				assert.Less(t, *got, 360.0)
			}
		}
	}
}

func TestLerp_Nulls(t *testing.T) {
	assert.Nil(t, Lerp(nil, nil, 0.5))
	assert.Equal(t, 5.0, *Lerp(nil, f(5), 0.5))
	assert.Equal(t, 5.0, *Lerp(f(5), nil, 0.5))
	assert.Equal(t, 370.0, *LerpAngle(nil, f(370), 0.5), "a lone endpoint is returned unchanged")
	assert.Equal(t, 5.0, *Lerp(f(math.NaN()), f(5), 0.5), "NaN counts as unknown")
	assert.Nil(t, Lerp(f(math.Inf(1)), nil, 0.5))

	p := vessel.Observation{MMSI: 1, SOG: nil, COG: nil}
	c := vessel.Observation{MMSI: 1, SOG: f(5), COG: nil}
	got := Snapshots(fleet(p), fleet(c), 0.5)[1]
	require.NotNil(t, got.SOG)
	assert.Equal(t, 5.0, *got.SOG)
	assert.Nil(t, got.COG)
}

func TestWrapAndClamp(t *testing.T) {
	assert.Equal(t, 0.0, Wrap(360))
	assert.Equal(t, 350.0, Wrap(-10))
	assert.Equal(t, 10.0, Wrap(730))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 1.0, Clamp(3))
	assert.Equal(t, 0.25, Clamp(0.25))
}
