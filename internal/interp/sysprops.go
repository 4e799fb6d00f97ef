package interp

import "github.com/dswartz/teco-core/internal/sysinfo"

// SysInfo implements 'EJ's system-property query, per spec.md §4.1's
// Meta family, backed by real sysconf(3) values.
func (it *Interpreter) SysInfo(which int64) int64 {
	return sysinfo.Query(sysinfo.Property(which))
}
