package render

import (
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/theoremus-urban-solutions/seascape/scheduler"
	"github.com/theoremus-urban-solutions/seascape/vessel"
)

// Adapter is a Renderer that also consumes interpolated frames.
type Adapter interface {
	scheduler.Renderer
	Frame(f scheduler.Frame)
}

// Event types.
const (
	EventUpsert    = "upsert"
	EventSample    = "sample"
	EventClockStop = "clockstop"
	EventFrame     = "frame"
)

// Event is the wire form of one adapter call.
type Event struct {
	Type     string           `json:"type" msgpack:"type"`
	ID       string           `json:"id,omitempty" msgpack:"id,omitempty"`
	Model    string           `json:"model,omitempty" msgpack:"model,omitempty"`
	Static   *vessel.Static   `json:"static,omitempty" msgpack:"static,omitempty"`
	TS       int64            `json:"ts,omitempty" msgpack:"ts,omitempty"`
	Position *vessel.Position `json:"position,omitempty" msgpack:"position,omitempty"`
	Heading  *float64         `json:"heading,omitempty" msgpack:"heading,omitempty"`
	Frame    *FrameData       `json:"frame,omitempty" msgpack:"frame,omitempty"`
}

// FrameData is the payload of a frame event.
type FrameData struct {
	Window  int64                `json:"window" msgpack:"window"`
	Step    int                  `json:"step" msgpack:"step"`
	Steps   int                  `json:"steps" msgpack:"steps"`
	T       float64              `json:"t" msgpack:"t"`
	Vessels []vessel.Observation `json:"vessels" msgpack:"vessels"`
}

// UpsertEvent describes an entity with its static fields and model class.
func UpsertEvent(id string, s vessel.Static) Event {
	return Event{Type: EventUpsert, ID: id, Model: s.ModelClass(), Static: &s}
}

// SampleEvent describes one timed position sample.
func SampleEvent(id string, ts int64, pos vessel.Position, heading float64) Event {
	return Event{Type: EventSample, ID: id, TS: ts, Position: &pos, Heading: &heading}
}

// ClockStopEvent describes a timeline extension.
func ClockStopEvent(ts int64) Event {
	return Event{Type: EventClockStop, TS: ts}
}

// FrameEvent describes an interpolated frame. Vessels are ordered by MMSI.
func FrameEvent(f scheduler.Frame) Event {
	return Event{
		Type: EventFrame,
		TS:   f.Snapshot.Latest(),
		Frame: &FrameData{
			Window:  f.Window,
			Step:    f.Step,
			Steps:   f.Steps,
			T:       f.T,
			Vessels: f.Snapshot.Observations(),
		},
	}
}

// Format is a wire encoding for events.
type Format int

const (
	FormatJSON Format = iota
	FormatMsgpack
)

// ParseFormat maps "msgpack" (any case) to FormatMsgpack and everything else
// to FormatJSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "msgpack") {
		return FormatMsgpack
	}
	return FormatJSON
}

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// Marshal encodes v in format f.
func (f Format) Marshal(v any) ([]byte, error) {
	if f == FormatMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

// Unmarshal decodes data in format f into v.
func (f Format) Unmarshal(data []byte, v any) error {
	if f == FormatMsgpack {
		return msgpack.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// MessageType is the websocket message type carrying format f.
func (f Format) MessageType() int {
	if f == FormatMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Multi fans every call out to each adapter in order.
type Multi []Adapter

func (m Multi) Upsert(id string, s vessel.Static) {
	for _, a := range m {
		a.Upsert(id, s)
	}
}

func (m Multi) AppendSample(id string, ts int64, pos vessel.Position, heading float64) {
	for _, a := range m {
		a.AppendSample(id, ts, pos, heading)
	}
}

func (m Multi) ExtendClockStop(ts int64) {
	for _, a := range m {
		a.ExtendClockStop(ts)
	}
}

func (m Multi) Frame(f scheduler.Frame) {
	for _, a := range m {
		a.Frame(f)
	}
}
