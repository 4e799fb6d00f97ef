// Package sysinfo backs the 'EJ' command's system-property queries
// (spec.md §4.1's Meta family) with real POSIX sysconf(3) values via
// go-sysconf, the direct generalization of the teacher's CPU-time
// reporting in basic.go, which pulls the same package in transitively
// through its own process-time accounting.
package sysinfo

import "github.com/tklauser/go-sysconf"

// Property names the EJ argument selecting which value to report.
type Property int64

const (
	PropPageSize Property = 1
	PropClockTicksPerSec Property = 2
	PropOpenMax Property = 3
)

// Query returns the sysconf(3) value for prop, or 0 if prop is
// unrecognized or the platform query fails.
func Query(prop Property) int64 {
	switch prop {
	case PropPageSize:
		v, err := sysconf.Sysconf(sysconf.SC_PAGE_SIZE)
		if err != nil {
			return 0
		}
		return v
	case PropClockTicksPerSec:
		v, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
		if err != nil {
			return 0
		}
		return v
	case PropOpenMax:
		v, err := sysconf.Sysconf(sysconf.SC_OPEN_MAX)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}
