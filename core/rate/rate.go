// Package rate throttles outgoing requests against a budget shared
// through redis, so every process using the same key draws from one pool.
package rate

import (
	"context"
	"time"

	"github.com/kochabx/requex/errors"
)

var ErrInvalidLimit = errors.BadRequest("invalid rate limit")

// Limiter reports whether n units may be spent now
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
	AllowN(ctx context.Context, t time.Time, n int) (bool, error)
}

// Unlimited allows everything
type Unlimited struct{}

func (Unlimited) Allow(context.Context) (bool, error) { return true, nil }

func (Unlimited) AllowN(context.Context, time.Time, int) (bool, error) { return true, nil }
