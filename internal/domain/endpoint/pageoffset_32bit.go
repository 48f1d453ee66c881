//go:build 386 || arm

package endpoint

// Default 3G/1G split.
const platformPageOffset uint64 = 0xc0000000
