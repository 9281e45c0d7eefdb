// Package device provides a typed client for Lyngdorf MP-50 and MP-60
// surround sound processors on top of the protocol engine.
//
// Controls are grouped the way the processor's command set is grouped:
// power, volume, mute, source, RoomPerfect, audio mode, channel trims,
// lipsync, loudness, DTS dialog control (MP-60) and Zone 2. Every
// method takes a context and returns explicit errors; values are
// expressed in natural units (dB, milliseconds) rather than raw
// protocol integers.
//
// Connecting sets the processor's verbosity to level 1 so it pushes
// status updates, which are delivered through Subscribe.
package device
