// Package client is an agent-side API for the pin control protocol.
//
// A Client owns one connection to a responder channel. Commands are
// matched to responses by the 10-bit header token, so several goroutines
// may issue commands over the same client:
//
//	c, err := client.Dial(ctx, "tcp", "board.local:4190")
//	defer c.Close()
//
//	if err := c.Request(ctx, wire.SelectorGroup, 3); err != nil {
//	    if errors.Is(err, wire.ErrInUse) { ... }
//	}
//
// Non-success statuses come back as *StatusError, which unwraps to the
// wire package's sentinel for the status.
package client
