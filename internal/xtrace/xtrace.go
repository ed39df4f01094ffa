// Package xtrace provides the ambient logging and step-timing helpers
// every loom command shares: caller-prefixed error logging through
// logrus, and a Tracker that reports step durations under --debug.
package xtrace

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

func location(skip int) (string, int) {
	pc, _, line, ok := runtime.Caller(skip)
	if !ok {
		return "?", line
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "?", line
	}
	return fn.Name(), line
}

// Errorf logs format/a at the caller's location and returns the same
// message as an error, so call sites can `return xtrace.Errorf(...)`.
func Errorf(format string, a ...any) error {
	fn, line := location(2)
	msg := fmt.Sprintf(format, a...)
	logrus.Error(fn, ":", line, " ", msg)
	return errors.New(msg)
}

// Tracker reports the elapsed time between successive StepNext calls
// to stderr, but only when debug mode is on.
type Tracker struct {
	debug bool
	last  time.Time
}

func NewTracker(debug bool) *Tracker {
	return &Tracker{debug: debug, last: time.Now()}
}

func (t *Tracker) StepNext(format string, a ...any) {
	if !t.debug {
		return
	}
	s := fmt.Sprintf(format, a...)
	now := time.Now()
	fmt.Fprintf(os.Stderr, "* %s use time: %v\n", strings.Trim(s, "\n"), now.Sub(t.last))
	t.last = now
}
