package memhold

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	mlog "mosn.io/pkg/log"
)

// status line prefixes, one per kind of line
const (
	lineStarted     = "Memory hold job started at"
	lineDuration    = "Hold duration:"
	lineAllocating  = "Allocating"
	lineInitialRSS  = "Initial RSS:"
	lineAllocStart  = "--- starting allocation ---"
	lineAllocated   = "Allocation succeeded"
	lineAllocRSS    = "RSS after allocation:"
	lineSeparator   = "-----------------------------------"
	lineHolding     = "Holding memory for"
	lineProgress    = "Progress:"
	lineAllocFailed = "ERROR: the system could not allocate the requested memory"
	lineUnexpected  = "ERROR: unexpected error:"
	lineInterrupted = "Hold interrupted after"
	lineFinished    = "Job finished at"
)

// reporter prints the human readable status lines of a run.
type reporter struct {
	out    io.Writer
	usage  UsageProvider
	logger mlog.ErrorLogger
	now    func() time.Time
}

func (r *reporter) printf(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(r.out, format+"\n", args...); err != nil {
		r.logger.Warnf("[memhold] write status line: %v", err)
	}
}

func (r *reporter) timestamp() string {
	return r.now().Format(timestampLayout)
}

// read takes one usage sample, a failed read is logged and not fatal.
func (r *reporter) read() (Usage, bool) {
	u, err := r.usage.Usage()
	if err != nil {
		r.logger.Warnf("[memhold] read memory usage: %v", err)
		return Usage{}, false
	}
	return u, true
}

// safeRead is read for the final report, which runs after a panic has
// already been recovered. A provider that panics again reads as unavailable.
func (r *reporter) safeRead() (u Usage, ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warnf("[memhold] read memory usage: %v", panicError(p))
			u, ok = Usage{}, false
		}
	}()
	return r.read()
}

func formatMB(u Usage, ok bool) string {
	if !ok {
		return "unavailable"
	}
	return fmt.Sprintf("%.2f MB", u.MB())
}

// formatSeconds prints d as seconds without trailing zeros, e.g. 30s, 1.5s.
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}

func (r *reporter) banner(c Config) {
	r.printf("%s %s", lineStarted, r.timestamp())
	r.printf("%s %s", lineDuration, formatSeconds(c.HoldDuration))
	r.printf("%s %s elements (~%s)...", lineAllocating, humanize.Comma(c.ElementCount), humanize.IBytes(c.TargetBytes()))
	r.printf("%s %s", lineInitialRSS, formatMB(r.read()))
	r.printf("")
	r.printf(lineAllocStart)
}

func (r *reporter) allocated(c Config) {
	r.printf(lineAllocated)
	u, ok := r.read()
	if !ok {
		r.printf("%s unavailable", lineAllocRSS)
	} else if u.Limit > 0 {
		r.printf("%s %.2f MB (%.2f GB) | %.1f%% of %s %s", lineAllocRSS, u.MB(), u.GB(), u.Percent, humanize.IBytes(u.Limit), u.limitSource())
	} else {
		r.printf("%s %.2f MB (%.2f GB)", lineAllocRSS, u.MB(), u.GB())
	}
	r.printf(lineSeparator)
	r.printf("")
	r.printf("%s %s...", lineHolding, formatSeconds(c.HoldDuration))
}

func (r *reporter) progress(elapsed, total time.Duration) (Usage, bool) {
	u, ok := r.read()
	pct := float64(elapsed) / float64(total) * 100
	r.printf("%s %s of %s (%.0f%%) | RSS: %s", lineProgress, formatSeconds(elapsed), formatSeconds(total), pct, formatMB(u, ok))
	return u, ok
}

func (r *reporter) allocationFailed(err error) {
	r.printf("")
	r.printf("%s, the job will exit: %v", lineAllocFailed, err)
}

func (r *reporter) unexpected(err error) {
	r.printf("")
	r.printf("%s %v", lineUnexpected, err)
}

func (r *reporter) interrupted(elapsed time.Duration) {
	r.printf("")
	r.printf("%s %s", lineInterrupted, formatSeconds(elapsed))
}

func (r *reporter) finished(samples *ring) {
	r.printf("")
	line := fmt.Sprintf("%s %s | RSS at exit: %s", lineFinished, r.timestamp(), formatMB(r.safeRead()))
	if n := samples.len(); n > 0 {
		line += fmt.Sprintf(" | avg RSS over last %d ticks: %.2f MB", n, float64(samples.avg())/bytesPerMB)
	}
	r.printf("%s", line)
}
