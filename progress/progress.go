// Package progress reference-counts requests that want a visible loading
// indicator. The indicator is shown when the first ticket enters the queue
// and hidden when the last one leaves, however the requests overlap.
package progress

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Ticket is one active "show progress" obligation
type Ticket = uuid.UUID

// Coordinator owns the ticket queue and drives an Indicator
type Coordinator struct {
	mu        sync.Mutex
	queue     []Ticket
	indicator Indicator
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithIndicator sets the indicator driven by queue transitions
func WithIndicator(indicator Indicator) Option {
	return func(c *Coordinator) {
		if indicator != nil {
			c.indicator = indicator
		}
	}
}

// New creates a Coordinator. Without WithIndicator it logs transitions.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{indicator: NewLogIndicator(nil)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start enqueues a new ticket, showing the indicator on the 0 -> 1
// transition, and returns the function that releases it. Calling the
// returned function more than once is a no-op after the first call.
//
// Indicator callbacks run under the coordinator lock so show and hide can
// never interleave; they must not call back into the Coordinator.
func (c *Coordinator) Start() (stop func()) {
	ticket := newTicket()

	c.mu.Lock()
	c.queue = append(c.queue, ticket)
	if len(c.queue) == 1 {
		c.indicator.Show()
	}
	c.mu.Unlock()

	return func() {
		c.release(ticket)
	}
}

func (c *Coordinator) release(ticket Ticket) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := slices.Index(c.queue, ticket)
	if i < 0 {
		return
	}
	c.queue = slices.Delete(c.queue, i, i+1)
	if len(c.queue) == 0 {
		c.indicator.Hide()
	}
}

// Len returns the number of active tickets
func (c *Coordinator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Active reports whether the indicator is currently shown
func (c *Coordinator) Active() bool {
	return c.Len() > 0
}

// newTicket returns a time-ordered UUIDv7, falling back to a random v4
// if the clock sequence cannot be read
func newTicket() Ticket {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}
