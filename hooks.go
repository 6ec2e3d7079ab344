package requex

import (
	"fmt"
	"strings"

	"github.com/kochabx/requex/core/qs"
	"github.com/kochabx/requex/request"
	"github.com/kochabx/requex/response"
	"github.com/kochabx/requex/ui"
)

// Hooks observe the outcome of every request. data is the decoded body
// (an empty map for canceled requests), status the HTTP status or
// response.StatusCanceled, d the transformed descriptor.
type Hooks interface {
	OnSuccess(data any, status response.Status, d request.Descriptor)
	OnFailure(data any, status response.Status, d request.Descriptor)
}

// HookFuncs adapts functions to Hooks. Nil functions are skipped.
type HookFuncs struct {
	Success func(data any, status response.Status, d request.Descriptor)
	Failure func(data any, status response.Status, d request.Descriptor)
}

func (h HookFuncs) OnSuccess(data any, status response.Status, d request.Descriptor) {
	if h.Success != nil {
		h.Success(data, status, d)
	}
}

func (h HookFuncs) OnFailure(data any, status response.Status, d request.Descriptor) {
	if h.Failure != nil {
		h.Failure(data, status, d)
	}
}

// NopHooks ignores every outcome
type NopHooks struct{}

func (NopHooks) OnSuccess(any, response.Status, request.Descriptor) {}
func (NopHooks) OnFailure(any, response.Status, request.Descriptor) {}

// overrides replaces single callbacks of base, the way a per-call hook
// replaces only the client hook of the same kind
type overrides struct {
	base      Hooks
	onSuccess func(data any, status response.Status, d request.Descriptor)
	onFailure func(data any, status response.Status, d request.Descriptor)
}

func (o overrides) OnSuccess(data any, status response.Status, d request.Descriptor) {
	if o.onSuccess != nil {
		o.onSuccess(data, status, d)
		return
	}
	o.base.OnSuccess(data, status, d)
}

func (o overrides) OnFailure(data any, status response.Status, d request.Descriptor) {
	if o.onFailure != nil {
		o.onFailure(data, status, d)
		return
	}
	o.base.OnFailure(data, status, d)
}

// DefaultBusinessFailure is shown for 2xx replies without a message
const DefaultBusinessFailure = "business request error"

// DefaultHooks is the stock UI policy:
//
//	success with respDesc  success notification
//	401 or 403             redirect to {LoginBase}/me?redirect_uri={CurrentURL()}
//	other 2xx failure      failure notification with respDesc, errorMsg or a stock text
//	anything else          "request error {status}: {url}" with a status description
type DefaultHooks struct {
	Notifier   ui.Notifier
	Redirector ui.Redirector
	LoginBase  string
	CurrentURL func() string
}

// NewDefaultHooks creates DefaultHooks that report through the logger
func NewDefaultHooks(loginBase string) *DefaultHooks {
	l := ui.NewLogger(nil)
	return &DefaultHooks{
		Notifier:   l,
		Redirector: l,
		LoginBase:  loginBase,
	}
}

func (h *DefaultHooks) OnSuccess(data any, _ response.Status, _ request.Descriptor) {
	if env, ok := EnvelopeOf(data); ok && env.RespDesc != "" {
		h.Notifier.NotifySuccess(env.RespDesc)
	}
}

func (h *DefaultHooks) OnFailure(data any, status response.Status, d request.Descriptor) {
	env, _ := EnvelopeOf(data)

	switch {
	case status.Unauthorized():
		h.Redirector.RedirectToLogin(h.LoginURL())
	case status.OK():
		msg := env.Message()
		if msg == "" {
			msg = DefaultBusinessFailure
		}
		h.Notifier.NotifyFailure(msg, "")
	default:
		desc := env.Message()
		if desc == "" {
			desc = StatusMessage(status)
		}
		h.Notifier.NotifyFailure(fmt.Sprintf("request error %s: %s", status, d.URL), desc)
	}
}

// LoginURL builds the login redirect target for the current location
func (h *DefaultHooks) LoginURL() string {
	current := ""
	if h.CurrentURL != nil {
		current = h.CurrentURL()
	}
	return strings.TrimSuffix(h.LoginBase, "/") + "/me?redirect_uri=" + qs.Escape(current)
}
