// Package protocol implements the Lyngdorf ASCII control protocol engine.
//
// Lyngdorf MP-50/MP-60 processors speak a line-oriented request/response
// command language over RS-232 or TCP. Commands and replies share one
// byte stream with asynchronous, device-initiated status push-messages,
// so the central problem this package solves is telling "the reply to
// the command just sent" apart from "a spontaneous state announcement"
// on a single shared transport.
//
// # Wire Format
//
// One command or reply per line, terminated by a carriage return:
//
//	!POWERONMAIN          action
//	!VOL(-350)            set (value in 0.1 dB units)
//	!VOL?                 query
//	!VOL+  /  !VOL-       increment / decrement
//	!SRC(3)"Blu-ray"      indexed reply with display name
//	#!VOL(-350)           command echo (verbosity level 2)
//
// Boolean encodings vary by command family: some use ON/OFF suffix
// tokens (!MUTEON), others 0/1 inside parentheses (!POWER(1)).
//
// # Engine
//
// The Engine composes a transport session, a throttle, the line
// classifier, and a callback dispatcher:
//
//	eng, err := protocol.Connect(ctx, "socket://192.168.1.50:84", protocol.Config{})
//	if err != nil { ... }
//	defer eng.Close()
//
//	reply, err := eng.Send(ctx, "!VOL?", true)
//
// Send holds a single in-flight-command slot: concurrent callers are
// serialized in FIFO arrival order, throttled to the configured minimum
// inter-command interval, and each command cycle starts by discarding
// stale buffered input. When waiting for a reply, echo lines are
// skipped and the first non-echo line wins; extra lines are logged, not
// treated as errors.
//
// # Unsolicited Updates
//
// A continuous read loop drains the transport whether or not a command
// is pending. Every received line is classified; lines matching a known
// state-update pattern are delivered to subscribers registered on the
// Dispatcher, in addition to (not instead of) satisfying a pending
// reply wait:
//
//	eng.Subscribe(protocol.KindVolume, func(u protocol.StateUpdate) {
//	    fmt.Println("volume now", u.Fields[0])
//	})
//	eng.Subscribe(protocol.KindAny, logAll)
//
// Handler panics are recovered and logged; a failing handler never
// stalls the read loop or blocks other subscribers.
//
// # Errors
//
// Send fails with a *TimeoutError when no qualifying reply arrives in
// time (carrying whatever partial input was buffered, for diagnostics)
// or a *ConnectionError when the transport is lost or the engine is
// closed. Malformed lines never kill the read loop; they are logged and
// dropped.
package protocol
