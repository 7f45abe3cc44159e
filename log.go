package memhold

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	mlog "mosn.io/pkg/log"
)

// NewFileLog creates an error logger writing to path. "stdout" and
// "stderr" select the standard streams.
func NewFileLog(path string, level mlog.Level) mlog.ErrorLogger {
	logger, err := mlog.GetOrCreateLogger(path, nil)
	if err != nil {
		// can't use the file, fall back to the shared default
		fmt.Println("create logger err:", err)
		return mlog.DefaultLogger
	}
	return &mlog.SimpleErrorLog{
		Logger: logger,
		Level:  level,
	}
}

// NewStdLogger logs to stderr so that stdout only carries status lines.
func NewStdLogger(level mlog.Level) mlog.ErrorLogger {
	return NewFileLog("stderr", level)
}

var name2level = map[string]mlog.Level{
	"fatal": mlog.FATAL,
	"error": mlog.ERROR,
	"warn":  mlog.WARN,
	"info":  mlog.INFO,
	"debug": mlog.DEBUG,
	"trace": mlog.TRACE,
}

// ParseLevel maps a case-insensitive level name onto a log level.
func ParseLevel(name string) (mlog.Level, error) {
	level, ok := name2level[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return mlog.INFO, errors.Errorf("unknown log level %q", name)
	}
	return level, nil
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// logError writes err and, at debug level, the stack it was wrapped with.
func (j *Job) logError(err error, msg string) {
	if err == nil {
		return
	}
	j.opts.Logger.Errorf("[memhold] %s: %v", msg, err)

	var st stackTracer
	if errors.As(err, &st) && j.opts.Logger.GetLogLevel() >= mlog.DEBUG {
		j.opts.Logger.Debugf("[memhold] stacktrace:%+v", st.StackTrace())
	}
}
