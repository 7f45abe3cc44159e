package memhold

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/pkg/errors"
	mlog "mosn.io/pkg/log"
)

// Job allocates a block of memory and keeps it resident for a while,
// printing memory usage along the way.
type Job struct {
	opts  *options
	state State
}

// Result is the outcome of Job.Run.
type Result struct {
	State State
	// Err is nil for StateDone
	Err error
	// progress lines printed
	Ticks   int
	Elapsed time.Duration
}

// New creates a job. Unless WithUsageProvider is given it probes the
// current process and fails with ErrIntrospectionUnavailable when its
// resident memory can't be read.
func New(opts ...Option) (*Job, error) {
	o := newOptions()
	for _, opt := range opts {
		if err := opt.apply(o); err != nil {
			return nil, err
		}
	}
	if err := o.Config.Validate(); err != nil {
		return nil, err
	}

	if o.Logger == nil {
		o.Logger = NewStdLogger(mlog.INFO)
	}
	if o.Allocator == nil {
		o.Allocator = defaultAllocator()
	}
	if o.Usage == nil {
		pu, err := NewProcessUsage()
		if err != nil {
			return nil, err
		}
		o.Usage = pu
	}

	return &Job{opts: o, state: StateStart}, nil
}

// Config returns the configuration the job runs with.
func (j *Job) Config() Config {
	return j.opts.Config
}

// State is the last state the job reached.
func (j *Job) State() State {
	return j.state
}

func (j *Job) transition(s State) {
	j.opts.Logger.Debugf("[memhold] state %v -> %v", j.state, s)
	j.state = s
}

// Run allocates, holds and reports. Allocation failures and unexpected
// faults, panics included, are reported and returned in the Result; the
// final status line is printed exactly once on every path. Cancelling ctx
// ends the hold early.
func (j *Job) Run(ctx context.Context) (res Result) {
	cfg := j.opts.Config
	r := &reporter{
		out:    j.opts.Out,
		usage:  j.opts.Usage,
		logger: j.opts.Logger,
		now:    j.opts.now,
	}
	samples := newRing(j.opts.SampleRingSize)

	var block *Block
	defer func() {
		if p := recover(); p != nil {
			res.State, res.Err = StateCrashed, panicError(p)
			r.unexpected(res.Err)
			j.logError(res.Err, "panic")
		}
		j.transition(res.State)
		r.finished(&samples)

		// the block lives until the final report is out
		runtime.KeepAlive(block)
		if err := block.Release(); err != nil {
			j.logError(err, "release block")
		}
		j.opts.Logger.Infof("[memhold] job %v after %d ticks", res.State, res.Ticks)
	}()

	j.opts.Logger.Infof("[memhold] elements: %d, hold: %v, tick: %v", cfg.ElementCount, cfg.HoldDuration, cfg.TickInterval)
	r.banner(cfg)

	j.transition(StateAllocating)
	var err error
	block, err = j.opts.Allocator.Allocate(cfg.ElementCount)
	if err != nil {
		if IsAllocationFailure(err) {
			r.allocationFailed(err)
			j.logError(err, "allocate")
			return Result{State: StateFailed, Err: err}
		}
		r.unexpected(err)
		j.logError(err, "allocate")
		return Result{State: StateCrashed, Err: err}
	}
	r.allocated(cfg)

	j.transition(StateHolding)
	res.Ticks, res.Elapsed, err = j.hold(ctx, r, &samples)
	if err != nil {
		if errors.Is(err, ErrInterrupted) {
			r.interrupted(res.Elapsed)
			res.State, res.Err = StateInterrupted, err
			return res
		}
		r.unexpected(err)
		j.logError(err, "hold")
		res.State, res.Err = StateCrashed, err
		return res
	}

	res.State = StateDone
	return res
}

// hold sleeps in ticks of at most TickInterval until HoldDuration has
// elapsed, printing a progress line after each tick.
func (j *Job) hold(ctx context.Context, r *reporter, samples *ring) (ticks int, elapsed time.Duration, err error) {
	total := j.opts.HoldDuration
	for elapsed < total {
		step := j.opts.TickInterval
		if remaining := total - elapsed; remaining < step {
			step = remaining
		}

		if err := j.opts.sleep(ctx, step); err != nil {
			if ctx.Err() != nil {
				return ticks, elapsed, errors.WithStack(fmt.Errorf("%w: %v", ErrInterrupted, err))
			}
			return ticks, elapsed, errors.Wrap(err, "sleep")
		}
		elapsed += step
		ticks++

		if u, ok := r.progress(elapsed, total); ok {
			samples.push(u.RSS)
		}
	}
	return ticks, elapsed, nil
}
