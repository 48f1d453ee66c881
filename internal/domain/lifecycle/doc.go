// Package lifecycle builds and tears down the access point interface.
//
// Start walks a linear state machine:
//
//	START -> PARENT_CREATED -> CTX_ALLOCATED -> EP1_CREATED -> EP2_CREATED
//	      -> EP3_CREATED -> EP4_CREATED -> READY
//
// Every successful step pushes its undo action. When a step fails the
// stack is unwound in reverse order and the manager is back at START, so a
// caller never sees a half-registered interface.
//
// Stop powers the context off, removes the whole subtree in one call and
// only then releases the context. Endpoints are unreachable before their
// backing state goes away.
package lifecycle
