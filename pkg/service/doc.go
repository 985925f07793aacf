// Package service runs a pin control responder.
//
// A Responder serves one ownership table to several agents. Every agent
// reaches the responder over its own transport channel (a TCP or unix
// socket listener); the channel a frame arrives on is the only source of
// the caller's identity.
//
// For each frame the responder decodes the SCMI header, checks the
// protocol identifier, and hands the payload to a pinctrl.Protocol. The
// response carries the command's header back with the status and
// payload.
//
// Example usage:
//
//	table, _ := ownership.New(catalog.Reference(), 2)
//	registry := agent.NewRegistry()
//	registry.Add(0, "platform", true)
//	registry.Add(1, "ospm", false)
//
//	config := service.DefaultConfig()
//	config.Channels = []service.ChannelConfig{
//		{AgentID: 0, Network: "unix", Address: "/run/pinctrl/platform.sock"},
//		{AgentID: 1, Network: "tcp", Address: ":4190"},
//	}
//
//	r, err := service.NewResponder(table, registry, config)
//	r.Start(ctx)
//	defer r.Stop(ctx)
//
// # Events
//
// OnEvent handlers see agent connects and disconnects, ownership changes
// and releases triggered by a disconnect. Handlers run on their own
// goroutine.
package service
