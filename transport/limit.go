package transport

import (
	"context"
	"time"

	"github.com/kochabx/requex/core/rate"
	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/request"
)

var (
	ErrRateLimited = errors.TooManyRequests("request rate limited")
	ErrLimiter     = errors.ServiceUnavailable("rate limiter unavailable")
)

// Limited sends through next only while l allows it. Requests over the
// budget fail with ErrRateLimited without reaching the wire.
func Limited(next Transport, l rate.Limiter) Transport {
	return Func(func(ctx context.Context, d *request.Descriptor) (*RawResponse, error) {
		ok, err := l.AllowN(ctx, time.Now(), 1)
		if err != nil {
			return nil, ErrLimiter.WithCause(err)
		}
		if !ok {
			return nil, ErrRateLimited.WithMetadata(map[string]string{
				"method": d.Method,
				"url":    d.FullURL(),
			})
		}
		return next.Send(ctx, d)
	})
}
