package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/requex/log/writer"
)

// Logger 日志记录器
type Logger struct {
	zerolog.Logger
	writer io.Writer
	custom bool // writer 由 WithOutput 指定
}

// Writer 返回底层输出
func (l *Logger) Writer() io.Writer {
	return l.writer
}

// With 返回附带固定字段的子日志记录器
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{
		Logger: l.Logger.With().Fields(fields).Logger(),
		writer: l.writer,
		custom: l.custom,
	}
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// SetZerologGlobalLevel 设置 zerolog 全局日志级别
func SetZerologGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// New 创建新的 Logger 实例，默认输出到控制台
func New(opts ...Option) *Logger {
	logger := &Logger{writer: writer.Console()}
	logger.Logger = zerolog.New(logger.writer).With().Timestamp().Logger()

	for _, opt := range opts {
		opt(logger)
	}

	// 输出被替换时重建 Logger 并重新应用选项
	if logger.custom {
		logger.Logger = zerolog.New(logger.writer).With().Timestamp().Logger()
		for _, opt := range opts {
			opt(logger)
		}
	}

	return logger
}

// Nop 返回丢弃所有输出的 Logger
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop(), writer: io.Discard}
}
