// Package render delivers vessel entities, samples and interpolated frames to
// their consumers.
//
// Every adapter implements scheduler.Renderer plus Frame for the paced frame
// stream:
//
//   - Hub pushes events to websocket clients, as JSON text or msgpack binary
//     messages, and replays the current state to clients that join late.
//   - Redis keeps the latest vessel state in hashes and publishes every
//     event on a pub/sub channel.
//   - SIRIStore keeps the latest fleet state for SIRI VehicleMonitoring
//     responses.
//   - Stream writes newline-delimited events to an io.Writer.
//
// Multi fans one call out to several adapters.
package render
