package memhold

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	mlog "mosn.io/pkg/log"
)

type options struct {
	Config

	Out       io.Writer // status lines, default stdout
	Logger    mlog.ErrorLogger
	Usage     UsageProvider
	Allocator Allocator

	// sample ring capacity for the exit summary
	SampleRingSize int

	sleep sleepFunc
	now   func() time.Time
}

type Option interface {
	apply(*options) error
}

type optionFunc func(*options) error

func (f optionFunc) apply(opts *options) error {
	return f(opts)
}

func newOptions() *options {
	return &options{
		Config:         DefaultConfig(),
		Out:            os.Stdout,
		SampleRingSize: defaultSampleRingSize,
		sleep:          contextSleep,
		now:            time.Now,
	}
}

// WithElementCount sets how many int64 elements are allocated.
func WithElementCount(n int64) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.ElementCount = n
		return
	})
}

// duration must be valid time duration string,
// eg. "ns", "us" (or "µs"), "ms", "s", "m", "h".
func WithHoldDuration(duration string) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.HoldDuration, err = time.ParseDuration(duration)
		return errors.Wrap(err, "hold duration")
	})
}

// interval must be valid time duration string,
// eg. "ns", "us" (or "µs"), "ms", "s", "m", "h".
func WithTickInterval(interval string) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.TickInterval, err = time.ParseDuration(interval)
		return errors.Wrap(err, "tick interval")
	})
}

// WithConfig replaces the whole job configuration.
func WithConfig(c Config) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.Config = c
		return
	})
}

// WithOutput sets where status lines are printed.
func WithOutput(w io.Writer) Option {
	return optionFunc(func(opts *options) (err error) {
		if w == nil {
			return errors.New("nil output writer")
		}
		opts.Out = w
		return
	})
}

func WithLogger(logger mlog.ErrorLogger) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.Logger = logger
		return
	})
}

// WithUsageProvider sets the resident memory source, the default is the
// current process read through gopsutil.
func WithUsageProvider(p UsageProvider) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.Usage = p
		return
	})
}

func WithAllocator(a Allocator) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.Allocator = a
		return
	})
}

func WithSampleRingSize(n int) Option {
	return optionFunc(func(opts *options) (err error) {
		if n < 0 {
			return errors.Errorf("negative sample ring size %d", n)
		}
		opts.SampleRingSize = n
		return
	})
}

type sleepFunc func(ctx context.Context, d time.Duration) error

// withSleeper and withClock let tests run a hold without waiting.
func withSleeper(s sleepFunc) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.sleep = s
		return
	})
}

func withClock(now func() time.Time) Option {
	return optionFunc(func(opts *options) (err error) {
		opts.now = now
		return
	})
}

// contextSleep blocks for d or until ctx is done.
func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
