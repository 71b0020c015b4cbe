// Package timing measures named spans of the query pipeline. A mark with
// a new name opens a span; a second mark with the same name closes it and
// logs the elapsed time. Purely observational.
package timing

import (
	"sync"
	"time"

	"github.com/jdfortress/benchrag/internal/logger"
)

// ProcessTimer records mark events bracketing pipeline stages.
type ProcessTimer struct {
	mu      sync.Mutex
	open    map[string]time.Time
	elapsed map[string]time.Duration
	now     func() time.Time
}

// NewProcessTimer creates an empty timer.
func NewProcessTimer() *ProcessTimer {
	return &ProcessTimer{
		open:    make(map[string]time.Time),
		elapsed: make(map[string]time.Duration),
		now:     time.Now,
	}
}

// Mark opens the named span, or closes it if already open and logs the
// duration.
func (t *ProcessTimer) Mark(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if start, ok := t.open[name]; ok {
		d := t.now().Sub(start)
		delete(t.open, name)
		t.elapsed[name] = d
		logger.Info("%s took %s", name, d)
		return
	}
	t.open[name] = t.now()
}

// Elapsed returns the duration of a closed span and whether it was
// recorded.
func (t *ProcessTimer) Elapsed(name string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.elapsed[name]
	return d, ok
}
