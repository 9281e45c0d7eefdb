// Package bridge exposes a connected processor over WebSocket so that
// home automation systems and web UIs can follow device state without
// speaking the serial protocol.
//
// Every status update the processor pushes is fanned out to all
// connected WebSocket clients as a JSON event. Clients can also submit
// commands; replies are correlated by a client-chosen request id.
//
// The bridge deliberately allows many WebSocket clients even though
// the processor accepts only one command at a time: the engine's
// command slot serializes them.
package bridge
