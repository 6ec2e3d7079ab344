package response

import (
	"strconv"
)

// Status is an HTTP status code, or StatusCanceled for a request that was
// aborted before any reply arrived
type Status int

// StatusCanceled marks a canceled or superseded request
const StatusCanceled Status = -1

func (s Status) String() string {
	if s == StatusCanceled {
		return "(canceled)"
	}
	return strconv.Itoa(int(s))
}

// Code returns the HTTP status code, or 0 for StatusCanceled
func (s Status) Code() int {
	if s < 0 {
		return 0
	}
	return int(s)
}

// Canceled reports whether s is StatusCanceled
func (s Status) Canceled() bool {
	return s == StatusCanceled
}

// OK reports whether s is a 2xx code
func (s Status) OK() bool {
	return s >= 200 && s < 300
}

// Unauthorized reports whether s asks the user to authenticate again
func (s Status) Unauthorized() bool {
	return s == 401 || s == 403
}
