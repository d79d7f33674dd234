// pkg/util/error.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"strings"

	"github.com/mmp/trajgen/pkg/log"
)

// ErrorLog accumulates errors and warnings, tracking context about what is
// currently being processed so that a long-running computation can note
// problems and continue. The zero value is ready to use.
type ErrorLog struct {
	// Tracked via Push()/Pop() calls to remember what we're looking at if
	// an error is found.
	hierarchy []string
	entries   []LogEntry
}

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	return [...]string{"warning", "error"}[s]
}

// LogEntry is a single message; Index is the plan index the message
// refers to, or -1 if there isn't one.
type LogEntry struct {
	Severity Severity
	Index    int
	Msg      string
}

func (e LogEntry) String() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s [%d]: %s", e.Severity, e.Index, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Severity, e.Msg)
}

func (e *ErrorLog) Push(s string) {
	e.hierarchy = append(e.hierarchy, s)
}

func (e *ErrorLog) Pop() {
	if len(e.hierarchy) > 0 {
		e.hierarchy = e.hierarchy[:len(e.hierarchy)-1]
	}
}

func (e *ErrorLog) add(sev Severity, idx int, s string) {
	if len(e.hierarchy) > 0 {
		s = strings.Join(e.hierarchy, " / ") + ": " + s
	}
	e.entries = append(e.entries, LogEntry{Severity: sev, Index: idx, Msg: s})
}

// ErrorString records an error associated with the given index.
func (e *ErrorLog) ErrorString(idx int, s string, args ...any) {
	e.add(SeverityError, idx, fmt.Sprintf(s, args...))
}

func (e *ErrorLog) Error(idx int, err error) {
	e.add(SeverityError, idx, err.Error())
}

func (e *ErrorLog) WarningString(idx int, s string, args ...any) {
	e.add(SeverityWarning, idx, fmt.Sprintf(s, args...))
}

func (e *ErrorLog) HaveErrors() bool {
	for _, ent := range e.entries {
		if ent.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (e *ErrorLog) HaveMessages() bool {
	return len(e.entries) > 0
}

// Clear discards all entries.
func (e *ErrorLog) Clear() {
	e.entries = nil
}

func (e *ErrorLog) LogTo(lg *log.Logger) {
	for _, ent := range e.entries {
		if ent.Severity == SeverityError {
			lg.Errorf("%s", ent)
		} else {
			lg.Warnf("%s", ent)
		}
	}
}

func (e *ErrorLog) String() string {
	var s []string
	for _, ent := range e.entries {
		s = append(s, ent.String())
	}
	return strings.Join(s, "\n")
}
