// Package task implements the core of the service: a bounded FIFO work queue
// that makes submitters wait when it is full, a single background worker that
// drains it one item at a time, and a bounded, time-windowed history of the
// items the worker completed.
//
// A processing failure is isolated to its item: the item is reported, dropped
// and never retried, and the worker moves on. Cancelling the worker aborts
// the in-flight item without recording it.
package task
