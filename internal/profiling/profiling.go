package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Per-tick CPU accounting for engine stages. Worker goroutines and the main
// loop report into the same table.

// Stat is the accumulated time and call count for one tracked name.
type Stat struct {
	Total time.Duration
	Calls int
}

var (
	mu     sync.Mutex
	totals = make(map[string]Stat)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("subsystem.Operation")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := totals[name]
		s.Total += d
		s.Calls++
		totals[name] = s
		mu.Unlock()
	}
}

// ResetFrame clears the accumulated totals.
func ResetFrame() {
	mu.Lock()
	clear(totals)
	mu.Unlock()
}

// Snapshot returns a copy of the accumulated totals.
func Snapshot() map[string]Stat {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]Stat, len(totals))
	for k, v := range totals {
		out[k] = v
	}
	return out
}

// TopN formats the n most expensive names.
// Example: "meshing.Build:4.2ms/12, terrain.Generate:2.1ms/3"
func TopN(n int) string {
	ss := Snapshot()
	names := make([]string, 0, len(ss))
	for k := range ss {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if ss[names[i]].Total == ss[names[j]].Total {
			return names[i] < names[j]
		}
		return ss[names[i]].Total > ss[names[j]].Total
	})
	if n > len(names) {
		n = len(names)
	}
	parts := make([]string, 0, n)
	for _, name := range names[:n] {
		s := ss[name]
		ms := float64(s.Total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", name, ms, s.Calls))
	}
	return strings.Join(parts, ", ")
}
