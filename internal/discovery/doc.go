// Package discovery finds Lyngdorf processors on the local network
// via mDNS.
//
// The processors advertise an HTTP service for their web setup page;
// the hostname identifies the model (mp-60-123456.local and similar).
// The discovered address is combined with the fixed control port, not
// the advertised HTTP port, because the command protocol always
// listens on port 84.
package discovery
