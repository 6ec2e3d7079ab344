package transport

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/requex/core/rate"
	"github.com/kochabx/requex/request"
)

type budget struct {
	left int
	err  error
}

func (b *budget) Allow(ctx context.Context) (bool, error) {
	return b.AllowN(ctx, time.Now(), 1)
}

func (b *budget) AllowN(_ context.Context, _ time.Time, n int) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	if b.left < n {
		return false, nil
	}
	b.left -= n
	return true, nil
}

func TestLimited(t *testing.T) {
	var sent int
	next := Func(func(context.Context, *request.Descriptor) (*RawResponse, error) {
		sent++
		return &RawResponse{Status: 200}, nil
	})
	d := &request.Descriptor{Method: "GET", BaseURL: "https://api.example.com", URL: "/x"}

	tr := Limited(next, &budget{left: 2})
	for range 2 {
		raw, err := tr.Send(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, 200, raw.Status)
	}

	_, err := tr.Send(context.Background(), d)
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 2, sent)

	_, err = Limited(next, &budget{err: fmt.Errorf("dial tcp: refused")}).Send(context.Background(), d)
	assert.ErrorIs(t, err, ErrLimiter)
	assert.Equal(t, 2, sent)

	_, err = Limited(next, rate.Unlimited{}).Send(context.Background(), d)
	assert.NoError(t, err)
	assert.Equal(t, 3, sent)
}
