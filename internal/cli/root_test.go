package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"mosn.io/memhold"
)

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "memhold", cmd.Use)

	for _, name := range []string{"elements", "duration", "tick", "allocator", "log-level"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "536870912", cmd.Flags().Lookup("elements").DefValue)
	assert.Equal(t, "1m40s", cmd.Flags().Lookup("duration").DefValue)
	assert.Equal(t, "30s", cmd.Flags().Lookup("tick").DefValue)
}

func TestExecuteVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute(newRootCmd(), []string{"--version"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "memhold version dev")
}

func TestExecuteInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero elements", []string{"--elements", "0"}, "element count must be positive"},
		{"bad allocator", []string{"--allocator", "swap"}, `unknown allocator "swap"`},
		{"bad log level", []string{"--log-level", "loud"}, `unknown log level "loud"`},
		{"positional arg", []string{"4GB"}, "unknown command"},
		{"unknown flag", []string{"--size", "4GB"}, "unknown flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := execute(newRootCmd(), tt.args, &stdout, &stderr)
			assert.Equal(t, exitFailure, code)
			assert.Contains(t, stderr.String(), tt.want)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestExecuteIntrospectionUnavailable(t *testing.T) {
	saved := newUsageProvider
	defer func() { newUsageProvider = saved }()
	newUsageProvider = func() (memhold.UsageProvider, error) {
		return nil, errors.Wrap(memhold.ErrIntrospectionUnavailable, "open /proc/self/statm")
	}

	var stdout, stderr bytes.Buffer
	code := execute(newRootCmd(), []string{"--elements", "16", "--allocator", "heap"}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "memhold needs to read the resident memory of its own process")
	assert.Contains(t, stderr.String(), memhold.ErrIntrospectionUnavailable.Error())
}

func TestExecuteShortRun(t *testing.T) {
	if _, err := memhold.NewProcessUsage(); err != nil {
		t.Skipf("no memory introspection: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := execute(newRootCmd(), []string{
		"--elements", "4096",
		"--duration", "30ms",
		"--tick", "10ms",
		"--allocator", "heap",
		"--log-level", "error",
	}, &stdout, &stderr)
	assert.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Allocating 4,096 elements (~32 KiB)...")
	assert.Contains(t, out, "Allocation succeeded")
	assert.Equal(t, 3, strings.Count(out, "Progress: "))
	assert.Contains(t, out, "Progress: 0.03s of 0.03s (100%)")
	assert.Equal(t, 1, strings.Count(out, "Job finished at"))
}
