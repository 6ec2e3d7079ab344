// Package ui holds the user-facing collaborators of a request: toast style
// notifications and the login redirect. The defaults write to the logger,
// which is what a headless client wants.
package ui

import (
	"github.com/kochabx/requex/log"
)

// Notifier shows a transient success or failure message
type Notifier interface {
	NotifySuccess(message string)
	NotifyFailure(message, description string)
}

// Redirector sends the user to the login page
type Redirector interface {
	RedirectToLogin(url string)
}

// NotifierFuncs adapts functions to Notifier. Nil functions are skipped.
type NotifierFuncs struct {
	Success func(message string)
	Failure func(message, description string)
}

func (n NotifierFuncs) NotifySuccess(message string) {
	if n.Success != nil {
		n.Success(message)
	}
}

func (n NotifierFuncs) NotifyFailure(message, description string) {
	if n.Failure != nil {
		n.Failure(message, description)
	}
}

// RedirectorFunc adapts a function to Redirector
type RedirectorFunc func(url string)

func (f RedirectorFunc) RedirectToLogin(url string) {
	f(url)
}

// Logger implements Notifier and Redirector on top of a log.Logger
type Logger struct {
	logger *log.Logger
}

// NewLogger creates a Logger; a nil logger uses the global one
func NewLogger(logger *log.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) log() *log.Logger {
	if l.logger != nil {
		return l.logger
	}
	return log.G()
}

func (l *Logger) NotifySuccess(message string) {
	l.log().Info().Msg(message)
}

func (l *Logger) NotifyFailure(message, description string) {
	l.log().Warn().Str("description", description).Msg(message)
}

func (l *Logger) RedirectToLogin(url string) {
	l.log().Warn().Str("url", url).Msg("authentication required")
}
