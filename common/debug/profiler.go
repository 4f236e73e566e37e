package debug

import (
	"sort"
	"time"

	"github.com/meverselabs/ammcore/common/rlog"
)

// Profiler accumulates the wall time spent per named point.
// It is not safe for concurrent use.
type Profiler struct {
	total map[string]time.Duration
	count map[string]int
}

// NewProfiler returns an empty Profiler
func NewProfiler() *Profiler {
	return &Profiler{
		total: map[string]time.Duration{},
		count: map[string]int{},
	}
}

// Start begins timing one call of the named point
func (p *Profiler) Start(name string) *Timer {
	return &Timer{
		p:     p,
		name:  name,
		begin: time.Now(),
	}
}

// Count returns how many calls of the named point were stopped
func (p *Profiler) Count(name string) int {
	return p.count[name]
}

// Total returns the time accumulated by the named point
func (p *Profiler) Total(name string) time.Duration {
	return p.total[name]
}

// Report logs every point by name and resets the profiler
func (p *Profiler) Report() {
	names := make([]string, 0, len(p.total))
	for name := range p.total {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n := p.count[name]
		rlog.Printf("%-12s %6d calls %12v total %12v avg", name, n, p.total[name], p.total[name]/time.Duration(n))
	}
	p.total = map[string]time.Duration{}
	p.count = map[string]int{}
}

// Timer measures one call
type Timer struct {
	p     *Profiler
	name  string
	begin time.Time
}

// Stop adds the elapsed time to the profiler
func (t *Timer) Stop() {
	t.p.total[t.name] += time.Since(t.begin)
	t.p.count[t.name]++
}
