// Package pinctrl implements the responder side of the SCMI pin control
// protocol.
//
// A Protocol owns the message table: for every supported message id it
// knows the exact request payload size and the handler that answers it.
// HandleMessage checks the id and the payload size before it resolves the
// calling agent, then runs exactly one handler and sends exactly one
// response over the Channel the message arrived on.
//
// Handlers never return Go errors for protocol failures. They build a
// typed wire response carrying a status, and the dispatcher encodes it.
// Go errors from HandleMessage are internal faults: the agent could not be
// resolved or the response could not be sent.
//
// State lives in an ownership.Table shared by every channel, so the
// handlers may run concurrently for any number of agents.
package pinctrl
