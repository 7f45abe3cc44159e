package memhold

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"

	"mosn.io/memhold/internal/cg/cgroups"
)

// Usage is one reading of resident memory.
type Usage struct {
	RSS uint64 // bytes
	// Limit is the cgroup memory limit, or total host memory when the
	// process is not limited. 0 when neither is known.
	Limit   uint64
	Percent float64 // RSS of Limit, 0 when Limit is 0
	// CGroupLimited is true when Limit comes from a cgroup
	CGroupLimited bool
}

func (u Usage) MB() float64 {
	return float64(u.RSS) / bytesPerMB
}

func (u Usage) GB() float64 {
	return u.MB() / mbPerGB
}

func (u Usage) limitSource() string {
	if u.CGroupLimited {
		return "cgroup limit"
	}
	return "host memory"
}

// UsageProvider reports the resident memory of the running process.
type UsageProvider interface {
	Usage() (Usage, error)
}

// UsageFunc adapts a plain function to UsageProvider.
type UsageFunc func() (Usage, error)

func (f UsageFunc) Usage() (Usage, error) {
	return f()
}

// ProcessUsage reads the current process through gopsutil.
type ProcessUsage struct {
	proc  *process.Process
	limit uint64
	// true when limit comes from a cgroup rather than host memory
	cgroupLimited bool
}

// NewProcessUsage probes the memory introspection facility once. The
// returned error matches ErrIntrospectionUnavailable when RSS can't be read.
func NewProcessUsage() (*ProcessUsage, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, introspectionError(err)
	}
	if _, err := p.MemoryInfo(); err != nil {
		return nil, introspectionError(err)
	}

	pu := &ProcessUsage{proc: p}

	// is this a container with a memory limit or a physical machine?
	if limit, ok := cgroupMemLimit(); ok {
		pu.limit = limit
		pu.cgroupLimited = true
	} else if vm, err := mem.VirtualMemory(); err == nil {
		pu.limit = vm.Total
	}
	return pu, nil
}

func (pu *ProcessUsage) Usage() (Usage, error) {
	info, err := pu.proc.MemoryInfo()
	if err != nil {
		return Usage{}, errors.Wrap(err, "read process memory")
	}
	u := newUsage(info.RSS, pu.limit)
	u.CGroupLimited = pu.cgroupLimited
	return u, nil
}

func newUsage(rss, limit uint64) Usage {
	u := Usage{RSS: rss, Limit: limit}
	if limit > 0 {
		u.Percent = float64(rss) * 100 / float64(limit)
	}
	return u
}

// cgroupMemLimit returns the memory limit of this process' cgroup, if any.
func cgroupMemLimit() (uint64, bool) {
	cg, err := cgroups.LoadCGroupsForCurrentProcess()
	if err != nil {
		return 0, false
	}
	limit, ok, err := cg.MemLimit()
	if err != nil || !ok {
		return 0, false
	}
	return limit, true
}

func introspectionError(cause error) error {
	return errors.WithStack(fmt.Errorf("%w: %v", ErrIntrospectionUnavailable, cause))
}
