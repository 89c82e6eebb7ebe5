package render

import (
	"context"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/seascape/metrics"
	"github.com/theoremus-urban-solutions/seascape/scheduler"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

const (
	broadcastBuffer = 1024
	// maxSamplesPerEntity caps the samples kept for one entity whatever the
	// retention.
	maxSamplesPerEntity = 4096
)

// Hub fans events out to websocket clients. Clients choose their encoding
// with ?format=json|msgpack and receive the current entities, their recent
// samples, the clock stop and the last frame as soon as they connect.
//
// Events waiting in the broadcast queue are delivered as one batch, so a
// burst costs a client one queue slot per batch rather than per event.
//
// Run must be running for events to be delivered.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	register   chan *client
	unregister chan *client
	broadcast  chan Event
	done       chan struct{}

	clients  map[*client]struct{}
	nclients atomic.Int64

	// state replayed to late joiners, owned by Run
	retention int64
	entities  map[string]Event
	samples   map[string][]Event // per entity, ascending ts
	newest    int64
	clockStop *Event
	lastFrame *Event
}

// NewHub creates a Hub. Samples up to retention older than the newest one are
// replayed to late joiners; with retention 0 only the last sample of each
// entity is. Call Run to start it.
func NewHub(log *zap.Logger, retention time.Duration) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, broadcastBuffer),
		done:       make(chan struct{}),
		clients:    map[*client]struct{}{},
		retention:  int64(retention / time.Second),
		entities:   map[string]Event{},
		samples:    map[string][]Event{},
	}
}

// Run handles registration, unregistration and broadcasting until ctx is
// done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.setCount()
			h.replay(c)
			h.log.Info("websocket client connected",
				zap.String("client", c.id),
				zap.String("remote", c.remote),
				zap.String("format", c.format.String()),
			)
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Info("websocket client disconnected", zap.String("client", c.id))
			}
		case ev := <-h.broadcast:
			h.dispatch(ev)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int { return int(h.nclients.Load()) }

// ServeHTTP upgrades the request to a websocket and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := newClient(h, conn, ParseFormat(r.URL.Query().Get("format")), r.RemoteAddr)

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (h *Hub) Upsert(id string, s vessel.Static) { h.publish(UpsertEvent(id, s)) }

func (h *Hub) AppendSample(id string, ts int64, pos vessel.Position, heading float64) {
	h.publish(SampleEvent(id, ts, pos, heading))
}

func (h *Hub) ExtendClockStop(ts int64) { h.publish(ClockStopEvent(ts)) }

func (h *Hub) Frame(f scheduler.Frame) { h.publish(FrameEvent(f)) }

func (h *Hub) publish(ev Event) {
	select {
	case h.broadcast <- ev:
	case <-h.done:
	}
}

// dispatch delivers first together with whatever else is already queued.
func (h *Hub) dispatch(first Event) {
	evs := []Event{first}
drain:
	for len(evs) < broadcastBuffer {
		select {
		case ev := <-h.broadcast:
			evs = append(evs, ev)
		default:
			break drain
		}
	}
	for _, ev := range evs {
		h.remember(ev)
	}
	h.deliver(evs)
}

func (h *Hub) remember(ev Event) {
	switch ev.Type {
	case EventUpsert:
		h.entities[ev.ID] = ev
	case EventSample:
		h.rememberSample(ev)
	case EventClockStop:
		h.clockStop = &ev
	case EventFrame:
		h.lastFrame = &ev
	}
}

// rememberSample keeps the entity's samples sorted by ts. A sample with the
// same ts as a kept one replaces it.
func (h *Hub) rememberSample(ev Event) {
	if ev.TS > h.newest {
		h.newest = ev.TS
	}
	list := h.samples[ev.ID]
	i := sort.Search(len(list), func(i int) bool { return list[i].TS >= ev.TS })
	switch {
	case i < len(list) && list[i].TS == ev.TS:
		list[i] = ev
	case h.retention == 0 && i < len(list):
		return
	default:
		list = append(list, Event{})
		copy(list[i+1:], list[i:])
		list[i] = ev
	}

	keep := 1
	if h.retention > 0 {
		cutoff := h.newest - h.retention
		keep = len(list) - sort.Search(len(list), func(i int) bool { return list[i].TS >= cutoff })
		if keep > maxSamplesPerEntity {
			keep = maxSamplesPerEntity
		}
	}
	if keep == 0 {
		delete(h.samples, ev.ID)
		return
	}
	h.samples[ev.ID] = list[len(list)-keep:]
}

// replayedSamples returns the retained samples of every entity ordered by ts
// then id.
func (h *Hub) replayedSamples() []Event {
	var cutoff int64
	if h.retention > 0 {
		cutoff = h.newest - h.retention
	}
	var out []Event
	for _, list := range h.samples {
		for _, ev := range list {
			if ev.TS >= cutoff {
				out = append(out, ev)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TS != out[j].TS {
			return out[i].TS < out[j].TS
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// replay sends the remembered state to a new client as one batch: entities
// ordered by id, then samples in ts order, then the clock stop and the last
// frame.
func (h *Hub) replay(c *client) {
	ids := make([]string, 0, len(h.entities))
	for id := range h.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var evs []Event
	for _, id := range ids {
		evs = append(evs, h.entities[id])
	}
	evs = append(evs, h.replayedSamples()...)
	if h.clockStop != nil {
		evs = append(evs, *h.clockStop)
	}
	if h.lastFrame != nil {
		evs = append(evs, *h.lastFrame)
	}
	batch := make([][]byte, 0, len(evs))
	for _, ev := range evs {
		data, err := c.format.Marshal(ev)
		if err != nil {
			h.encodeFailed(ev, err)
			continue
		}
		batch = append(batch, data)
	}
	if len(batch) > 0 && !c.offer(batch...) {
		h.drop(c)
	}
}

// deliver encodes evs once per format in use and queues them for every
// client as one batch. Clients whose queue is full are disconnected.
func (h *Hub) deliver(evs []Event) {
	encoded := map[Format][][]byte{}
	for c := range h.clients {
		batch, ok := encoded[c.format]
		if !ok {
			batch = make([][]byte, 0, len(evs))
			for _, ev := range evs {
				data, err := c.format.Marshal(ev)
				if err != nil {
					h.encodeFailed(ev, err)
					continue
				}
				batch = append(batch, data)
			}
			encoded[c.format] = batch
		}
		if len(batch) == 0 {
			continue
		}
		if !c.offer(batch...) {
			h.log.Warn("dropping slow websocket client", zap.String("client", c.id))
			h.drop(c)
		}
	}
}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.setCount()
}

func (h *Hub) setCount() {
	h.nclients.Store(int64(len(h.clients)))
	metrics.HubClients.Set(float64(len(h.clients)))
}

func (h *Hub) encodeFailed(ev Event, err error) {
	metrics.RenderErrors.WithLabelValues("websocket").Inc()
	h.log.Error("encode event", zap.String("type", ev.Type), zap.Error(err))
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBufferSize = 256
)
