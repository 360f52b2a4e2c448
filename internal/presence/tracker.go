// Package presence tracks which departments currently hold a live realtime connection.
package presence

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Tracker is the presence contract shared by the realtime hub and the notification dispatcher.
type Tracker interface {
	MarkOnline(department string)
	MarkOffline(department string)
	IsOnline(department string) bool
}

// Counter counts live connections per department. A department stays online
// until every one of its connections has gone away.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int
	gauge  prometheus.Gauge
}

// NewCounter returns an empty tracker. gauge may be nil.
func NewCounter(gauge prometheus.Gauge) *Counter {
	return &Counter{
		counts: make(map[string]int),
		gauge:  gauge,
	}
}

func (c *Counter) MarkOnline(department string) {
	if department == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[department]++
	c.report()
}

// MarkOffline releases one connection of the department. Extra calls are ignored.
func (c *Counter) MarkOffline(department string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.counts[department]
	if !ok {
		return
	}

	if n <= 1 {
		delete(c.counts, department)
	} else {
		c.counts[department] = n - 1
	}
	c.report()
}

func (c *Counter) IsOnline(department string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[department] > 0
}

// Connections returns the number of live connections of a department.
func (c *Counter) Connections(department string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[department]
}

// Online lists the online departments in lexical order.
func (c *Counter) Online() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	departments := make([]string, 0, len(c.counts))
	for dept := range c.counts {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	return departments
}

// report must be called with mu held.
func (c *Counter) report() {
	if c.gauge != nil {
		c.gauge.Set(float64(len(c.counts)))
	}
}
