package cache

import (
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/sim"
)

// EventLogger is a hook that writes one log line per cache event.
type EventLogger struct {
	w io.Writer
}

// NewEventLogger creates an EventLogger writing to w.
func NewEventLogger(w io.Writer) *EventLogger {
	return &EventLogger{w: w}
}

// Func implements sim.Hook.
func (l *EventLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosCacheAccess {
		return
	}

	event, ok := ctx.Item.(Event)
	if !ok {
		return
	}

	_, _ = fmt.Fprintln(l.w, event)
}

// EventRecorder is a hook that keeps every cache event in memory.
type EventRecorder struct {
	Events []Event
}

// Func implements sim.Hook.
func (r *EventRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosCacheAccess {
		return
	}

	if event, ok := ctx.Item.(Event); ok {
		r.Events = append(r.Events, event)
	}
}

// Count returns how many recorded events match the cache name and kind.
func (r *EventRecorder) Count(cacheName string, kind EventKind) int {
	n := 0
	for _, e := range r.Events {
		if e.Cache == cacheName && e.Kind == kind {
			n++
		}
	}
	return n
}
