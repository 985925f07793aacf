// Package ownership implements the runtime state of the pin control
// protocol: who owns each pin and group, which function is selected, the
// configs written to it, and the live permission masks of all resources.
//
// # Ownership
//
// Each pin and group is either Unowned or owned by exactly one agent.
// Only Request, Release, SetPermission (on revocation) and ReleaseAll
// change the owner. Request is not idempotent: a second Request by the
// owner fails with StatusInUse. Release of an unowned resource succeeds.
//
// An agent can only own a resource whose permission mask has its bit set.
// Revoking the bit of the owner releases the resource.
//
// # Locking
//
// Every pin and group has its own mutex. Permission masks are stored in
// atomics so read-only queries never block on writers.
package ownership
