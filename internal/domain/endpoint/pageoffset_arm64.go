package endpoint

// Linear map base with 48-bit virtual addresses.
const platformPageOffset uint64 = 0xffff000000000000
