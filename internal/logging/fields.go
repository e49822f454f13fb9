package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// With applies fields to an event in order.
func With(e *bolt.Event, fields ...Field) *bolt.Event {
	for _, f := range fields {
		e = f(e)
	}
	return e
}

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Strategy adds a strategy field.
func Strategy(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("strategy", name)
	}
}

// Prisoners adds the prisoner count.
func Prisoners(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("prisoners", n)
	}
}

// Trials adds the trial count.
func Trials(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("trials", n)
	}
}

// Tally adds pass and fail counters.
func Tally(passes, failures int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("passes", passes).Int("failures", failures)
	}
}

// Seed adds a seed field. Seeds are logged as decimal strings since they use
// the full uint64 range.
func Seed(s uint64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("seed", strconv.FormatUint(s, 10))
	}
}

// Workers adds the worker count.
func Workers(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("workers", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
