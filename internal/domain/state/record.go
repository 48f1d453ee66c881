package state

import "bytes"

// SecretCap is the capacity of the secret buffer including its NUL terminator
const SecretCap = 128

// Debug level bounds
const (
	DebugLevelMin     = 0
	DebugLevelMax     = 2
	DebugLevelDefault = DebugLevelMin
)

// Context defaults applied right after allocation
const (
	DefaultConfig2 uint32 = 0x48524a5f
	DefaultConfig3 uint64 = 0x424c0a52
	DefaultSecret         = "AhA xxx"
)

// record is the guarded diagnostics context. The zero value is what a
// fresh allocation holds before defaults are applied.
type record struct {
	tx, rx, errs uint64
	words        [2]int32
	power        bool
	config1      uint32
	config2      uint32
	config3      uint64
	secret       [SecretCap]byte
}

func newRecord(secret string) *record {
	c := &record{
		config2: DefaultConfig2,
		config3: DefaultConfig3,
		power:   true,
	}
	c.setSecret(secret)
	return c
}

// setSecret copies s into the fixed buffer, truncating so that a NUL
// terminator always fits.
func (c *record) setSecret(s string) {
	c.secret = [SecretCap]byte{}
	copy(c.secret[:SecretCap-1], s)
}

func (c *record) secretString() string {
	if i := bytes.IndexByte(c.secret[:], 0); i >= 0 {
		return string(c.secret[:i])
	}
	return string(c.secret[:])
}

// Snapshot is a consistent copy of the context and debug level
type Snapshot struct {
	TX         uint64
	RX         uint64
	Errors     uint64
	MyWord     int32
	AuxWord    int32
	Power      bool
	Config1    uint32
	Config2    uint32
	Config3    uint64
	Secret     string
	DebugLevel int
}
