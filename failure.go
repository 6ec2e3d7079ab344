package requex

import (
	"fmt"

	"github.com/kochabx/requex/errors"
	"github.com/kochabx/requex/response"
)

var (
	// ErrCanceled matches requests aborted by the caller or superseded by
	// a newer duplicate
	ErrCanceled = errors.ClientClosed("request canceled")
	// ErrRejected matches non-2xx replies
	ErrRejected = errors.BadGateway("request rejected")
	// ErrBusiness matches 2xx replies the success predicate refused
	ErrBusiness = errors.UnprocessableEntity("business request failed")
	// ErrClosed is the cancellation cause of requests still running at Close
	ErrClosed = errors.ServiceUnavailable("client closed")
)

// FailureError is returned together with an unsuccessful Verdict. It
// matches exactly one of ErrCanceled, ErrRejected and ErrBusiness.
type FailureError struct {
	Verdict response.Verdict
	err     *errors.Error
}

func newFailure(v response.Verdict, kind *errors.Error, cause error) *FailureError {
	err := kind.WithMetadata(map[string]string{"status": v.Status.String()})
	if cause != nil {
		err = err.WithCause(cause)
	}
	return &FailureError{Verdict: v, err: err}
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("requex: %s", e.err.Error())
}

func (e *FailureError) Unwrap() error {
	return e.err
}

// Status returns the status carried by the verdict
func (e *FailureError) Status() response.Status {
	return e.Verdict.Status
}

// AsFailure extracts the *FailureError in err's chain
func AsFailure(err error) (*FailureError, bool) {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
