// Package transport provides the byte-stream session layer for talking
// to Lyngdorf processors over RS-232 or TCP.
//
// A Session is a connected byte stream with a small amount of lifecycle
// state on top: endpoint identity, a Disconnected/Connecting/Connected
// state machine, and explicit input-buffer clearing. The protocol engine
// owns exactly one Session and is the only reader and writer.
//
// # Endpoints
//
// Endpoints are written as strings and dispatched on their shape:
//
//	/dev/ttyUSB0              serial port
//	COM3                      serial port (Windows)
//	socket://192.168.1.50:84  TCP socket
//	192.168.1.50:84           TCP socket
//	192.168.1.50              TCP socket, default port 84
//
// # Opening
//
//	sess, err := transport.Open(ctx, "socket://192.168.1.50:84", transport.Config{
//	    ConnectTimeout: 5 * time.Second,
//	})
//
// Serial sessions take their line parameters (baud rate, parity, stop
// bits) from Config.Serial; the defaults match the processors' fixed
// 115200 8N1 setup.
//
// # Connectivity
//
// Read returns an error when the underlying connection is lost; the
// caller is expected to Close the session, which transitions it to
// Disconnected. Sessions do not reconnect on their own.
package transport
