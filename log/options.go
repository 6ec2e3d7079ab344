package log

import (
	"io"

	"github.com/rs/zerolog"
)

// Option Logger 选项函数
type Option func(*Logger)

// WithOutput 设置输出目标
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.writer = w
			l.custom = true
		}
	}
}

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

// WithCaller 设置调用栈信息
func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// WithCallerSkip 设置调用栈跳过的帧数
func WithCallerSkip(skip int) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().CallerWithSkipFrameCount(skip).Logger()
	}
}
