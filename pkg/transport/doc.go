// Package transport carries SCMI messages over stream sockets.
//
// Every message travels in one frame: a 4-byte big-endian length followed
// by the message bytes (SCMI header and payload). A Server accepts
// connections on one TCP or unix socket and hands each received frame to
// its OnMessage callback. Each connection gets a random UUID used to
// correlate protocol log events.
//
//	┌────────────────────────────────┐
//	│   SCMI header + payload (LE)   │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│         TCP or unix            │
//	└────────────────────────────────┘
//
// The transport does not authenticate peers. A responder binds one
// listener per agent and derives the caller's identity from the listener
// a frame arrived on, so access to each socket must be restricted by the
// host (file permissions for unix sockets, loopback or firewalling for
// TCP).
package transport
