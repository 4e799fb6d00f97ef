package interp

import "runtime"

// SysInfoMemoryLimit is the 'EJ' property number that gets/sets MemLimit,
// mirroring the original's EJ_MEMORY_LIMIT enumerator
// (original_source/src/parser.cpp's 'J' case).
const SysInfoMemoryLimit int64 = 4

// MemLimit enforces spec.md §4.6 step 2's "check memory limit; raise if
// exceeded", grounded on original_source/src/parser.cpp's memlimit.check()
// (called once per character, line ~127) and the EJ_MEMORY_LIMIT get/set
// property (~lines 2402-2452). The original's memlimit object tracks a
// process-wide allocation counter sciteco has no Go analogue for; Bytes is
// instead compared against runtime.MemStats.Alloc, the heap bytes
// currently in use, which is the standard library's own answer to "how
// much memory has this process allocated" and has no third-party
// counterpart in the retrieval pack.
type MemLimit struct {
	Bytes int64 // 0 means unlimited, matching memlimit.limit's default
}

// SetLimit clamps a negative value to 0, per the original's
// "memlimit.set_limit(MAX(0, value))".
func (m *MemLimit) SetLimit(n int64) {
	if n < 0 {
		n = 0
	}
	m.Bytes = n
}

// Check raises a memory-kind Error once the heap exceeds the configured
// limit. A limit of 0 (the default) disables the check entirely.
func (m *MemLimit) Check() error {
	if m.Bytes <= 0 {
		return nil
	}
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	if int64(stats.Alloc) > m.Bytes {
		return NewError(KindMemory, "memory limit of %d bytes exceeded", m.Bytes)
	}
	return nil
}
