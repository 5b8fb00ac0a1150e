// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpsync

import (
	"log"

	"github.com/rs/zerolog"
)

// Logger receives the diagnostic output of clients, servers and their
// sessions. Message dumps are logged at debug level, phase and session
// failures at error level.
//
// Implementations of Logger must be safe for concurrent use by multiple
// goroutines.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// NoopLogger discards everything logged to it. It is the logger used
// when Config.Logger is nil.
type NoopLogger struct{}

func (NoopLogger) Debugf(_ string, _ ...interface{}) {}
func (NoopLogger) Infof(_ string, _ ...interface{})  {}
func (NoopLogger) Warnf(_ string, _ ...interface{})  {}
func (NoopLogger) Errorf(_ string, _ ...interface{}) {}

// A Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// NewStdLogger returns a Logger writing to l every line at or above
// the min level. Each line is tagged with its level.
func NewStdLogger(l *log.Logger, min Level) Logger {
	if l == nil {
		panic("httpsync: nil logger")
	}
	return &stdLogger{l: l, min: min}
}

type stdLogger struct {
	l   *log.Logger
	min Level
}

func (s *stdLogger) logf(level Level, format string, v []interface{}) {
	if level < s.min {
		return
	}
	s.l.Printf("[%s] "+format, append([]interface{}{level}, v...)...)
}

func (s *stdLogger) Debugf(format string, v ...interface{}) { s.logf(LevelDebug, format, v) }
func (s *stdLogger) Infof(format string, v ...interface{})  { s.logf(LevelInfo, format, v) }
func (s *stdLogger) Warnf(format string, v ...interface{})  { s.logf(LevelWarn, format, v) }
func (s *stdLogger) Errorf(format string, v ...interface{}) { s.logf(LevelError, format, v) }

// NewZerologLogger returns a Logger writing to l. Level filtering is
// left to l, for example through zerolog.Logger.Level.
func NewZerologLogger(l zerolog.Logger) Logger {
	return zerologLogger{l: l}
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z zerologLogger) Debugf(format string, v ...interface{}) { z.l.Debug().Msgf(format, v...) }
func (z zerologLogger) Infof(format string, v ...interface{})  { z.l.Info().Msgf(format, v...) }
func (z zerologLogger) Warnf(format string, v ...interface{})  { z.l.Warn().Msgf(format, v...) }
func (z zerologLogger) Errorf(format string, v ...interface{}) { z.l.Error().Msgf(format, v...) }

// component prefixes every line with the name of the part of the
// library producing it.
type component struct {
	name string
	l    Logger
}

func (c component) Debugf(format string, v ...interface{}) { c.l.Debugf(c.name+": "+format, v...) }
func (c component) Infof(format string, v ...interface{})  { c.l.Infof(c.name+": "+format, v...) }
func (c component) Warnf(format string, v ...interface{})  { c.l.Warnf(c.name+": "+format, v...) }
func (c component) Errorf(format string, v ...interface{}) { c.l.Errorf(c.name+": "+format, v...) }
