// Package endpoint implements the show/apply handlers behind each access
// point and the table that binds them to names and modes.
//
// Endpoints:
//   - primary-config (0644, rw): config1 in decimal and hex; writes set
//     config1 and the debug level
//   - show-page-offset (0444, ro): the platform's kernel/user split
//   - show-context (0440, ro): every field of the shared context
//   - debug-level (0644, rw): the debug level; writes outside [0,2] fail
//     and reset it to 0
//
// Writes are copied into a bounded buffer and validated before the store
// lock is taken. Only parse-and-apply runs under the lock.
package endpoint
