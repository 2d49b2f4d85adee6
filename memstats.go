package pagetree

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"
)

// MemSnapshot captures memory statistics at a point in time, e.g. before and
// after a Load call, to see what a deeply nested inclusion/macro tree costs.
type MemSnapshot struct {
	Name         string
	Timestamp    time.Time
	Alloc        uint64
	TotalAlloc   uint64
	HeapObjects  uint64
	HeapInuse    uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// MemStats collects memory snapshots for analysis.
type MemStats struct {
	snapshots []*MemSnapshot
}

func NewMemStats() *MemStats {
	return &MemStats{snapshots: make([]*MemSnapshot, 0)}
}

// Snapshot captures current memory statistics with the given name.
func (m *MemStats) Snapshot(name string) *MemSnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	snap := &MemSnapshot{
		Name:         name,
		Timestamp:    time.Now(),
		Alloc:        ms.Alloc,
		TotalAlloc:   ms.TotalAlloc,
		HeapObjects:  ms.HeapObjects,
		HeapInuse:    ms.HeapInuse,
		NumGC:        ms.NumGC,
		PauseTotalNs: ms.PauseTotalNs,
	}
	m.snapshots = append(m.snapshots, snap)
	return snap
}

// SnapshotWithGC forces a GC before taking the snapshot, for a more accurate
// "live" memory picture at the cost of speed.
func (m *MemStats) SnapshotWithGC(name string) *MemSnapshot {
	runtime.GC()
	return m.Snapshot(name)
}

func (m *MemStats) Snapshots() []*MemSnapshot { return m.snapshots }

func (m *MemStats) Reset() { m.snapshots = m.snapshots[:0] }

// Delta calculates the difference between two named snapshots. Returns nil
// if either name is not found.
func (m *MemStats) Delta(fromName, toName string) *MemDelta {
	var from, to *MemSnapshot
	for _, s := range m.snapshots {
		if s.Name == fromName {
			from = s
		}
		if s.Name == toName {
			to = s
		}
	}
	if from == nil || to == nil {
		return nil
	}
	return NewMemDelta(from, to)
}

// Report writes a formatted table of every snapshot, plus consecutive
// deltas, to w.
func (m *MemStats) Report(w io.Writer) {
	if len(m.snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots captured")
		return
	}

	fmt.Fprintf(w, "%-20s | %12s | %12s | %12s | %8s | %12s\n",
		"Phase", "Alloc", "TotalAlloc", "HeapInuse", "Objects", "NumGC")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, s := range m.snapshots {
		fmt.Fprintf(w, "%-20s | %12s | %12s | %12s | %8d | %12d\n",
			truncate(s.Name, 20),
			formatBytes(s.Alloc),
			formatBytes(s.TotalAlloc),
			formatBytes(s.HeapInuse),
			s.HeapObjects,
			s.NumGC)
	}

	if len(m.snapshots) > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Deltas:")
		fmt.Fprintf(w, "%-30s | %12s | %12s | %12s | %10s\n",
			"Transition", "ΔAlloc", "ΔTotalAlloc", "ΔObjects", "Duration")
		fmt.Fprintln(w, strings.Repeat("-", 85))

		for i := 1; i < len(m.snapshots); i++ {
			delta := NewMemDelta(m.snapshots[i-1], m.snapshots[i])
			fmt.Fprintf(w, "%-30s | %12s | %12s | %+10d | %10s\n",
				truncate(delta.FromName+" → "+delta.ToName, 30),
				formatBytesDelta(delta.AllocDelta),
				formatBytesDelta(delta.TotalAllocDelta),
				delta.HeapObjectsDelta,
				delta.Duration.Round(time.Microsecond))
		}
	}
}

// MemDelta is the difference between two memory snapshots.
type MemDelta struct {
	FromName         string
	ToName           string
	Duration         time.Duration
	AllocDelta       int64
	TotalAllocDelta  int64
	HeapObjectsDelta int64
	HeapInuseDelta   int64
	NumGCDelta       int32
}

func NewMemDelta(from, to *MemSnapshot) *MemDelta {
	return &MemDelta{
		FromName:         from.Name,
		ToName:           to.Name,
		Duration:         to.Timestamp.Sub(from.Timestamp),
		AllocDelta:       int64(to.Alloc) - int64(from.Alloc),
		TotalAllocDelta:  int64(to.TotalAlloc) - int64(from.TotalAlloc),
		HeapObjectsDelta: int64(to.HeapObjects) - int64(from.HeapObjects),
		HeapInuseDelta:   int64(to.HeapInuse) - int64(from.HeapInuse),
		NumGCDelta:       int32(to.NumGC) - int32(from.NumGC),
	}
}

func (d *MemDelta) String() string {
	return fmt.Sprintf("%s → %s: Alloc %s, TotalAlloc %s, Objects %+d, Duration %s",
		d.FromName, d.ToName,
		formatBytesDelta(d.AllocDelta),
		formatBytesDelta(d.TotalAllocDelta),
		d.HeapObjectsDelta,
		d.Duration.Round(time.Microsecond))
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}

func formatBytesDelta(b int64) string {
	sign := "+"
	if b < 0 {
		sign = "-"
		b = -b
	}
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%s%d B", sign, b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%s%.1f %cB", sign, float64(b)/float64(div), "KMGTPE"[exp])
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
