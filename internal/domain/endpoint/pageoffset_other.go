//go:build !amd64 && !arm64 && !386 && !arm

package endpoint

const platformPageOffset uint64 = 0
