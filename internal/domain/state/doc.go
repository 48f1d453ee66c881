// Package state holds the shared diagnostics context and the debug level.
//
// Both live behind a single interruptible lock and are treated as one unit
// of consistency. Nothing outside this package touches the fields directly:
// callers acquire a Guard, read or mutate through it, and release it.
//
//	store := state.New()
//	err := store.Do(ctx, func(g *state.Guard) error {
//		g.SetLevel(2)
//		return nil
//	})
//
// Acquisition honours context cancellation. A cancelled wait returns a
// fault.KindInterrupted error and leaves the state untouched.
package state
