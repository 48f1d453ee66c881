// Package access implements the access point namespace and the registry
// that binds endpoint handlers into it.
//
// Components:
//   - Registrar: the registration service the core talks to
//   - Namespace: an in-process Registrar that also dispatches caller
//     requests and enforces permission masks and capabilities
//   - Registry: one container plus its child endpoints, created and
//     destroyed as a unit
//
// Permission model:
//
// Every node has an owner uid/gid and a unix-style mode. Readers need the
// read bit of their class (owner, group, other); writers need the write bit
// and a node whose handler table has an apply function. Uid 0 bypasses the
// mode bits but never the capability. Callers that fail either check get
// fault.KindPermission and never reach the handler.
//
// Example Usage:
//
//	ns := access.NewNamespace()
//	reg := access.NewRegistry(ns, "procintf")
//	reg.CreateParent()
//	reg.Create("debug-level", 0644, access.Ops{Show: show, Apply: apply})
//	out, err := ns.Read(ctx, "procintf/debug-level", access.Caller{UID: 1000})
package access
