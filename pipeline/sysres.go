package pipeline

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/teranos/decross/errors"
)

// framesPerJob approximates how many frame-sized buffers one in-flight job
// keeps alive: its output plus a share of the read-ahead window and the
// reorder queue.
const framesPerJob = 4

// Resources is a snapshot of the host capacity relevant to worker sizing
type Resources struct {
	LogicalCPUs     int
	AvailableMemory uint64
}

// ProbeResources reads the logical CPU count and available memory
func ProbeResources() (Resources, error) {
	cpus, err := cpu.Counts(true)
	if err != nil || cpus <= 0 {
		cpus = runtime.NumCPU()
	}

	v, err := mem.VirtualMemory()
	if err != nil {
		return Resources{LogicalCPUs: cpus}, errors.Wrap(err, "failed to get memory stats")
	}
	return Resources{LogicalCPUs: cpus, AvailableMemory: v.Available}, nil
}

// WorkersFor returns a worker count for frames of frameBytes bytes: one per
// logical CPU, reduced so that in-flight jobs fit in available memory, and
// never below one.
func (r Resources) WorkersFor(frameBytes int) int {
	workers := r.LogicalCPUs
	if workers < 1 {
		workers = 1
	}
	if r.AvailableMemory > 0 && frameBytes > 0 {
		fit := r.AvailableMemory / uint64(frameBytes*framesPerJob)
		if fit < uint64(workers) {
			workers = int(fit)
		}
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// AutoWorkers probes the host and returns WorkersFor(frameBytes). When the
// memory probe fails only the CPU count is used.
func AutoWorkers(frameBytes int) int {
	res, _ := ProbeResources()
	return res.WorkersFor(frameBytes)
}
