package clog

import (
	"fmt"
	"io"
	"sync"

	"github.com/apex/log"
)

const (
	GlobalLoggerCtx = "global"
	ModelCtx        = "model"
	TransportCtx    = "transport"
	APICtx          = "api"
)

// ContextLogger hands out log entries tagged with a context name. A context
// without its own logger writes through the global logger, so levels can be
// raised for a single context (e.g. transport) without touching the others.
type ContextLogger struct {
	GlobalLogger   *log.Logger
	ContextLoggers sync.Map
}

func NewContextLogger(globalLoggerWriter io.WriteCloser) *ContextLogger {
	return &ContextLogger{
		GlobalLogger: &log.Logger{
			Handler: NewHandler(globalLoggerWriter),
			Level:   log.InfoLevel,
		},
	}
}

func (l *ContextLogger) AddLoggingContext(ctx string, w io.WriteCloser) {
	l.ContextLoggers.Store(ctx, &log.Logger{
		Handler: NewHandler(w),
		Level:   l.GlobalLogger.Level,
	})
}

func (l *ContextLogger) RemoveLoggingContext(ctx string) {
	logger, ok := l.ContextLoggers.LoadAndDelete(ctx)
	if !ok {
		return
	}

	if h := handlerOf(logger); h != nil {
		h.Close()
	}
}

// SetLevel sets the level of ctx. A context with no logger of its own gets
// one sharing the global handler.
func (l *ContextLogger) SetLevel(ctx string, level log.Level) {
	if ctx == GlobalLoggerCtx {
		l.GlobalLogger.Level = level
		return
	}

	if logger := l.contextLogger(ctx); logger != nil {
		logger.Level = level
		return
	}

	l.ContextLoggers.Store(ctx, &log.Logger{Handler: l.GlobalLogger.Handler, Level: level})
}

func (l *ContextLogger) SetLevelFromString(ctx, s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return fmt.Errorf("context %s: %w", ctx, err)
	}

	l.SetLevel(ctx, level)
	return nil
}

// SetLevels applies a context -> level name map, stopping at the first bad level.
func (l *ContextLogger) SetLevels(levels map[string]string) error {
	for ctx, s := range levels {
		if err := l.SetLevelFromString(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (l *ContextLogger) SetOutput(ctx string, w io.WriteCloser) error {
	var h *Handler
	if ctx == GlobalLoggerCtx {
		h, _ = l.GlobalLogger.Handler.(*Handler)
	} else {
		h = handlerOf(l.contextLogger(ctx))
	}

	if h == nil {
		return fmt.Errorf("no such context %s", ctx)
	}

	h.SetOutput(w)
	return nil
}

func (l *ContextLogger) UsingCtx(ctx string) *log.Entry {
	if logger := l.contextLogger(ctx); logger != nil {
		return logger.WithField("ctx", ctx)
	}
	return l.GlobalLogger.WithField("ctx", ctx)
}

func (l *ContextLogger) Global() *log.Entry {
	return l.UsingCtx(GlobalLoggerCtx)
}

func (l *ContextLogger) contextLogger(ctx string) *log.Logger {
	logger, ok := l.ContextLoggers.Load(ctx)
	if !ok {
		return nil
	}

	clogger, _ := logger.(*log.Logger)
	return clogger
}

func handlerOf(logger any) *Handler {
	clogger, ok := logger.(*log.Logger)
	if !ok || clogger == nil {
		return nil
	}

	h, _ := clogger.Handler.(*Handler)
	return h
}
