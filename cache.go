package seascape

import (
	"strings"
	"sync"

	"github.com/theoremus-urban-solutions/seascape/formatter"
	"github.com/theoremus-urban-solutions/seascape/render"
)

const maxCachedResponses = 256

// responseCache memoizes encoded VM responses until the store changes.
type responseCache struct {
	store *render.SIRIStore

	mu      sync.Mutex
	version uint64
	entries map[string][]byte
}

func newResponseCache(store *render.SIRIStore) *responseCache {
	return &responseCache{store: store, entries: map[string][]byte{}}
}

func memoKey(args ...string) string { return strings.Join(args, "|") }

// vehicleMonitoring returns the encoded response for q in format.
func (c *responseCache) vehicleMonitoring(q vmQuery, format string) ([]byte, error) {
	v := c.store.Version()
	key := memoKey(format, q.vehicleRef, strings.ToLower(q.name))

	c.mu.Lock()
	defer c.mu.Unlock()
	if v != c.version || len(c.entries) >= maxCachedResponses {
		c.entries = map[string][]byte{}
		c.version = v
	}
	if buf, ok := c.entries[key]; ok {
		return buf, nil
	}

	res := c.store.Response(q.vehicleRef, q.name)
	rb := formatter.NewResponseBuilder()
	var buf []byte
	if format == "xml" {
		buf = rb.BuildXML(res)
	} else {
		var err error
		if buf, err = rb.BuildJSON(res); err != nil {
			return nil, err
		}
	}
	c.entries[key] = buf
	return buf, nil
}
