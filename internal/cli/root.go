package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"mosn.io/memhold"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// exitError carries a specific process exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

// newUsageProvider probes memory introspection for the current process.
var newUsageProvider = func() (memhold.UsageProvider, error) {
	pu, err := memhold.NewProcessUsage()
	if err != nil {
		return nil, err
	}
	return pu, nil
}

type flags struct {
	config    memhold.Config
	allocator string
	logLevel  string
}

func newRootCmd() *cobra.Command {
	f := &flags{config: memhold.DefaultConfig()}

	cmd := &cobra.Command{
		Use:   "memhold",
		Short: "Allocate a large block of memory and hold it",
		Long: `memhold allocates one large block of memory, keeps it resident for a fixed
duration while printing the process' resident memory, and reports timing and
memory at the start and the end. Use it to watch how a host or container
reacts to sustained memory pressure: memory limits, the OOM killer, dashboards.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	fs := cmd.Flags()
	fs.Int64Var(&f.config.ElementCount, "elements", f.config.ElementCount,
		fmt.Sprintf("number of int64 elements to allocate, %d bytes each", memhold.ElementSize))
	fs.DurationVar(&f.config.HoldDuration, "duration", f.config.HoldDuration, "how long to hold the memory")
	fs.DurationVar(&f.config.TickInterval, "tick", f.config.TickInterval, "longest wait between progress lines")
	fs.StringVar(&f.allocator, "allocator", "", `where the block lives: "mmap" or "heap" (default: mmap where supported)`)
	fs.StringVar(&f.logLevel, "log-level", "info", "diagnostic log level on stderr: fatal, error, warn, info, debug, trace")

	cmd.SetVersionTemplate(fmt.Sprintf("memhold version %s\ncommit: %s\nbuilt: %s\n", Version, GitCommit, BuildDate))
	return cmd
}

func run(ctx context.Context, out io.Writer, f *flags) error {
	level, err := memhold.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}
	alloc, err := memhold.NewAllocator(f.allocator)
	if err != nil {
		return err
	}
	if err := f.config.Validate(); err != nil {
		return err
	}

	usage, err := newUsageProvider()
	if err != nil {
		if errors.Is(err, memhold.ErrIntrospectionUnavailable) {
			return errors.Wrap(err, "memhold needs to read the resident memory of its own process")
		}
		return err
	}

	job, err := memhold.New(
		memhold.WithConfig(f.config),
		memhold.WithAllocator(alloc),
		memhold.WithUsageProvider(usage),
		memhold.WithLogger(memhold.NewStdLogger(level)),
		memhold.WithOutput(out),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// allocation failures and unexpected faults are reported by the job
	// itself and still count as a completed run
	res := job.Run(ctx)
	if res.State == memhold.StateInterrupted {
		return &exitError{code: exitInterrupted, err: res.Err}
	}
	return nil
}

// Execute runs the root command and returns the process exit status.
func Execute() int {
	return execute(newRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitFailure
}
