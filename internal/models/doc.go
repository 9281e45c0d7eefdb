// Package models defines the capability tables for supported Lyngdorf
// processors and the dB conversion used across the control protocol.
//
// The protocol transmits level values as integers at 0.1 dB resolution:
// -35.0 dB on the wire is -350. Config describes everything that varies
// per model: volume range, command timing, serial parameters, and which
// optional features (DTS Dialog Control, network streaming, 16-channel
// AES input) the model carries.
//
// Two models are currently described, the MP-50 and MP-60 surround
// sound processors. Both speak the same command set at 115200 8N1 over
// RS-232 or TCP port 84; they differ in volume ceiling and optional
// features.
//
//	cfg, err := models.Lookup("mp60")
//	if err != nil { ... }
//	wire := models.DBToProtocol(-35.5) // -355
package models
