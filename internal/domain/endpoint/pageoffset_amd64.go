package endpoint

// Start of the direct mapping with 4-level paging.
const platformPageOffset uint64 = 0xffff888000000000
