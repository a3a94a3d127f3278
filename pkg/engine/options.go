package engine

import "time"

// Options configures a single Engine instance — the constructor-level
// knobs spec.md §4.1 fixes per crawl: its seed list, its name, and the
// two timing parameters governing the periodic dispatch loop.
type Options struct {
	// Name identifies the Engine in logs; defaults to "engine" if empty.
	Name string

	// URLs is the initial seed list, in declared order. StartRequests
	// (default or overridden) is invoked against this list every tick.
	URLs []string

	// Interval is the delay between the end of one dispatch cycle's last
	// completion and the start of the next. Zero (the default) means
	// one-shot: the Engine dispatches its seed list exactly once and then
	// settles Idle with no timer armed at all.
	Interval time.Duration

	// Timeout bounds a single top-level Request's Await during dispatch
	// accounting; it does not bound nested sub-Request awaits, which are
	// unconditional per spec.md §4.4.4. Defaults to 30s.
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "engine"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return o
}
