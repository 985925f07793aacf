// Package discovery advertises pin-control responder channels over
// mDNS/DNS-SD and lets controllers find them.
//
// Each TCP channel of a responder is published as one instance of
// _scmi-pinctrl._tcp. The instance name is "<responder>-a<agent>" and the
// TXT records carry:
//
//	proto  protocol identifier, hex ("0x19")
//	ver    protocol version, hex ("0x10000")
//	agent  agent identifier served on the channel, decimal
//	name   agent name (optional)
//
// Unix socket channels are never advertised.
package discovery
