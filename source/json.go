package source

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/seascape/tracking"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// JSON reads a fleet from the seascape HTTP API:
//
//	GET {base}/tracking/{fleet}?ts=&tf=&dt=   history window
//	GET {base}/seascape/{fleet}               live snapshot
//
// When base is a directory the same layout is read from
// {base}/tracking/{fleet}.json and {base}/seascape/{fleet}.json.
type JSON struct {
	client *Client
	base   string
	fleet  string
}

// NewJSON returns a JSON source for fleet under base.
func NewJSON(client *Client, base, fleet string) *JSON {
	return &JSON{client: client, base: strings.TrimRight(base, "/"), fleet: fleet}
}

// SnapshotURL is the location of the live snapshot.
func (s *JSON) SnapshotURL() string {
	if !isHTTP(s.base) {
		return filepath.Join(s.base, "seascape", s.fleet+".json")
	}
	return s.base + "/seascape/" + url.PathEscape(s.fleet)
}

// TracksURL is the location of the history window for q.
func (s *JSON) TracksURL(q tracking.Query) string {
	if !isHTTP(s.base) {
		return filepath.Join(s.base, "tracking", s.fleet+".json")
	}
	v := url.Values{}
	v.Set("ts", strconv.FormatInt(q.Start, 10))
	v.Set("tf", strconv.FormatInt(q.End, 10))
	v.Set("dt", strconv.FormatInt(q.DT, 10))
	return s.base + "/tracking/" + url.PathEscape(s.fleet) + "?" + v.Encode()
}

// FetchSnapshot fetches the current fleet state.
func (s *JSON) FetchSnapshot(ctx context.Context) (vessel.Snapshot, error) {
	u := s.SnapshotURL()
	data, err := s.client.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	obs, err := vessel.DecodeObservations(data)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	return vessel.NewSnapshot(obs), nil
}

// FetchTracks fetches one history window.
func (s *JSON) FetchTracks(ctx context.Context, q tracking.Query) (*tracking.Payload, error) {
	if q.End < q.Start {
		return nil, fmt.Errorf("invalid history window: end %d before start %d", q.End, q.Start)
	}
	u := s.TracksURL(q)
	data, err := s.client.Fetch(ctx, u)
	if err != nil {
		return nil, err
	}
	p, err := tracking.DecodePayload(data)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	return p, nil
}
