// Command procctl reads and writes procintf access points.
//
//	procctl ls
//	procctl cat debug-level show-page-offset
//	procctl -uid 0 write primary-config 0x2A
//	procctl -uid 0 shell
//
// Interrupted requests are retried; rejected writes exit with status 1 and
// print the server's cause code.
package main
