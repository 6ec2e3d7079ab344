package progress

import (
	"bytes"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"

	"github.com/kochabx/requex/log"
)

type counter struct {
	shows atomic.Int32
	hides atomic.Int32
}

func (c *counter) indicator() Indicator {
	return Funcs{
		OnShow: func() { c.shows.Add(1) },
		OnHide: func() { c.hides.Add(1) },
	}
}

func TestSingleStartStop(t *testing.T) {
	var cnt counter
	c := New(WithIndicator(cnt.indicator()))

	stop := c.Start()
	assert.True(t, c.Active())
	assert.Equal(t, int32(1), cnt.shows.Load())

	stop()
	stop()
	assert.False(t, c.Active())
	assert.Equal(t, int32(1), cnt.hides.Load())
}

func TestOverlappingAnyOrder(t *testing.T) {
	const n = 8

	for round := 0; round < 20; round++ {
		var cnt counter
		c := New(WithIndicator(cnt.indicator()))

		stops := make([]func(), n)
		for i := range stops {
			stops[i] = c.Start()
		}
		assert.Equal(t, n, c.Len())

		for _, i := range rand.Perm(n) {
			stops[i]()
		}

		assert.Equal(t, int32(1), cnt.shows.Load())
		assert.Equal(t, int32(1), cnt.hides.Load())
		assert.Equal(t, 0, c.Len())
	}
}

func TestDoubleStopDoesNotEvictOthers(t *testing.T) {
	var cnt counter
	c := New(WithIndicator(cnt.indicator()))

	first := c.Start()
	second := c.Start()

	first()
	first()
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int32(0), cnt.hides.Load())

	second()
	assert.Equal(t, int32(1), cnt.hides.Load())
}

func TestConcurrentStartStop(t *testing.T) {
	var cnt counter
	c := New(WithIndicator(cnt.indicator()))

	const n = 100
	stops := make([]func(), n)

	var g errgroup.Group
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		g.Go(func() error {
			stop := c.Start()
			mu.Lock()
			stops[i] = stop
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	assert.Equal(t, n, c.Len())

	for _, stop := range stops {
		g.Go(func() error {
			stop()
			return nil
		})
	}
	_ = g.Wait()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int32(1), cnt.shows.Load())
	assert.Equal(t, int32(1), cnt.hides.Load())
}

func TestReshowAfterIdle(t *testing.T) {
	var cnt counter
	c := New(WithIndicator(cnt.indicator()))

	c.Start()()
	c.Start()()

	assert.Equal(t, int32(2), cnt.shows.Load())
	assert.Equal(t, int32(2), cnt.hides.Load())
}

func TestTicketsAreOrdered(t *testing.T) {
	a, b := newTicket(), newTicket()
	assert.NotEqual(t, a, b)
	assert.Less(t, a.String(), b.String())
}

func TestLogIndicator(t *testing.T) {
	var buf bytes.Buffer
	c := New(WithIndicator(NewLogIndicator(log.New(log.WithOutput(&buf)))))

	c.Start()()
	assert.Contains(t, buf.String(), "loading started")
	assert.Contains(t, buf.String(), "loading finished")
}
