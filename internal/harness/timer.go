package harness

import (
    "time"
)

// ElapsedTimer is a one-shot stopwatch used by the harness to bound the
// duration of an experiment. Ported from the original ElapsedTimer; panics
// instead of printf+exit(1) when misused, which is the idiomatic Go
// equivalent of "this is a programming error, abort immediately".
type ElapsedTimer struct {
    start      time.Time
    startedAt  bool
}

// Start records the current time as the timer's zero point.
func (t *ElapsedTimer) Start() {
    t.start = time.Now()
    t.startedAt = true
}

// ElapsedMillis returns milliseconds since Start. Calling it before Start
// panics.
func (t *ElapsedTimer) ElapsedMillis() int64 {
    if !t.startedAt {
        panic("harness: ElapsedMillis called without calling Start")
    }
    return time.Since(t.start).Milliseconds()
}
