package common

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// MemoryStats is a human-readable snapshot of process memory usage.
type MemoryStats struct {
	Alloc      string `json:"alloc"`
	TotalAlloc string `json:"totalAlloc"`
	Sys        string `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

// FormatUptime renders a duration as "1d 2h 3m 4s", omitting zero units.
func FormatUptime(d time.Duration) string {
	seconds := int64(d.Seconds())
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}

// FormatBytes renders a byte count in megabytes.
func FormatBytes(b uint64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/1024/1024)
}

// ReadMemoryStats samples the runtime memory counters.
func ReadMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		Alloc:      FormatBytes(m.Alloc),
		TotalAlloc: FormatBytes(m.TotalAlloc),
		Sys:        FormatBytes(m.Sys),
		NumGC:      m.NumGC,
	}
}
