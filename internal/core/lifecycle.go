package core

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LifecycleState tracks one invocation through the hook pipeline.
type LifecycleState int

const (
	StatePending LifecycleState = iota
	StateExecuting
	StateCompleting
	StateDone
	StateAborted
	StateFailed
)

func (s LifecycleState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateExecuting:
		return "executing"
	case StateCompleting:
		return "completing"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Lifecycle runs the before/execute/after hooks of an admitted invocation
// with failure containment: a failing hook produces exactly one
// command-error event and never reaches the dispatcher's caller.
type Lifecycle struct {
	Bus *Bus
	Log zerolog.Logger
}

// Run drives one invocation to a terminal state and returns it.
func (l *Lifecycle) Run(c *Context) LifecycleState {
	l.Bus.Publish(Event{Type: EventCommandUsed, Ctx: c})

	if c.Command.Before != nil {
		ok, err := runBefore(c)
		if err != nil {
			l.fail(c, err)
			return StateFailed
		}
		if !ok {
			// A false before-hook is a deliberate veto, not an error.
			return StateAborted
		}
	}

	result, err := runExecute(c)
	if err != nil {
		l.fail(c, err)
		return StateFailed
	}

	if c.Command.After != nil {
		if err := runAfter(c, result); err != nil {
			// After-hook failures are reported but never fatal; the
			// invocation already did its work.
			l.Log.Warn().Err(err).Str("command", c.Command.Name).Msg("after hook failed")
		}
	}

	return StateDone
}

func (l *Lifecycle) fail(c *Context, err error) {
	l.Bus.Publish(Event{Type: EventCommandError, Ctx: c, Err: err})
}

// The run* helpers convert hook panics into errors so one misbehaving
// handler cannot take down event processing.

func runBefore(c *Context) (ok bool, err error) {
	defer recoverHook(c, &err)
	return c.Command.Before(c)
}

func runExecute(c *Context) (result any, err error) {
	defer recoverHook(c, &err)
	return c.Command.Execute(c)
}

func runAfter(c *Context, result any) (err error) {
	defer recoverHook(c, &err)
	return c.Command.After(c, result)
}

func recoverHook(c *Context, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("command %s panicked: %v", c.Command.Name, r)
	}
}
