package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/seascape/gtfsrt"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// GTFSRT reads live snapshots from a GTFS-Realtime VehiclePositions feed.
type GTFSRT struct {
	client *Client
	url    string
	log    *zap.Logger
}

// NewGTFSRT returns a live source reading the feed at urlOrPath.
func NewGTFSRT(client *Client, urlOrPath string, log *zap.Logger) *GTFSRT {
	if log == nil {
		log = zap.NewNop()
	}
	return &GTFSRT{client: client, url: urlOrPath, log: log}
}

// FetchSnapshot fetches and decodes the feed.
func (s *GTFSRT) FetchSnapshot(ctx context.Context) (vessel.Snapshot, error) {
	data, err := s.client.Fetch(ctx, s.url)
	if err != nil {
		return nil, err
	}
	feed, err := gtfsrt.Decode(data)
	if err != nil {
		return nil, &TransportError{URL: s.url, Err: err}
	}
	if feed.Skipped > 0 {
		s.log.Debug("skipped vehicles without numeric id", zap.Int("count", feed.Skipped))
	}
	return feed.Snapshot(), nil
}
