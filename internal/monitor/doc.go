// Package monitor is the live status dashboard: a terminal UI that
// shows the processor's state and reacts to its pushed updates in
// real time.
//
// The dashboard subscribes to the full update stream, so anything that
// changes the processor (its remote, the front panel, another control
// system) is reflected immediately. A small set of key bindings issues
// the most common commands.
package monitor
