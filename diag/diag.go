// Package diag holds the diagnostic context shared by framebuffers, font
// engines and device handles, and the error taxonomy they report with.
//
// A Context bundles a logrus logger writing to a configurable sink, the last
// error code and message, and a reference count. Every owner that is handed a
// Context retains it and releases it when it is closed; the sink is closed
// when the last holder lets go.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// debug is read before std is built.
var debug = os.Getenv("DISPLAY_DEBUG") != ""

// std is used by nil and released contexts.
var std = New(nil)

// Context is a reference counted diagnostic sink.
type Context struct {
	refs   atomic.Int32
	closed atomic.Bool
	w      io.Writer
	log    *logrus.Logger

	mu   sync.Mutex
	code Code
	msg  string
}

// New returns a context logging to w, or to standard error if w is nil. The
// caller holds the first reference.
func New(w io.Writer) *Context {
	if w == nil {
		w = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: !debug,
	})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}

	c := &Context{
		w:   w,
		log: log,
	}
	c.refs.Store(1)
	return c
}

// Retain adds a reference and returns c.
func (c *Context) Retain() *Context {
	if c != nil {
		c.refs.Add(1)
	}
	return c
}

// Release drops a reference. It returns true if this was the last one, in
// which case the sink is closed (unless it is stdout or stderr) and further
// logging on c goes to standard error.
func (c *Context) Release() bool {
	if c == nil {
		return false
	}
	switch n := c.refs.Add(-1); {
	case n > 0:
		return false
	case n < 0:
		c.refs.Store(0)
		return false
	}

	c.closed.Store(true)
	if closer, ok := c.w.(io.Closer); ok && c.w != os.Stderr && c.w != os.Stdout {
		_ = closer.Close()
	}
	return true
}

// Refs is the current reference count.
func (c *Context) Refs() int32 {
	if c == nil {
		return 0
	}
	return c.refs.Load()
}

// Logger returns the underlying logger.
func (c *Context) Logger() *logrus.Logger {
	if c == nil || c.closed.Load() {
		return std.log
	}
	return c.log
}

// Writer returns the sink, for debug dumps.
func (c *Context) Writer() io.Writer {
	if c == nil || c.closed.Load() {
		return os.Stderr
	}
	return c.w
}

func (c *Context) Debugf(format string, args ...interface{}) {
	c.Logger().Debugf(format, args...)
}

func (c *Context) Infof(format string, args ...interface{}) {
	c.Logger().Infof(format, args...)
}

func (c *Context) Warnf(format string, args ...interface{}) {
	c.Logger().Warnf(format, args...)
}

// Errorf logs at error level and records the message with CodeUnknown.
func (c *Context) Errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.Logger().Error(msg)
	c.record(CodeUnknown, msg)
}

// Fail logs err, records it as the last error and returns it unchanged, so
// call sites can write "return dc.Fail(err)".
func (c *Context) Fail(err error) error {
	if err == nil {
		return nil
	}
	c.Logger().Error(err.Error())
	c.record(CodeOf(err), err.Error())
	return err
}

// LastError returns the code and message of the last recorded failure.
func (c *Context) LastError() (Code, string) {
	if c == nil {
		return std.LastError()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code, c.msg
}

// Reset forgets the last error.
func (c *Context) Reset() {
	c.record(CodeOK, "")
}

func (c *Context) record(code Code, msg string) {
	if c == nil {
		c = std
	}
	c.mu.Lock()
	c.code, c.msg = code, msg
	c.mu.Unlock()
}

// Acquire returns dc retained, or a fresh context on standard error if dc is
// nil. Either way the caller owns exactly one reference.
func Acquire(dc *Context) *Context {
	if dc == nil {
		return New(nil)
	}
	return dc.Retain()
}
