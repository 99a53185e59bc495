package relational

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger adapts a zerolog.Logger to GORM's logger interface.
//
// Statements are traced at debug level, failed statements at error level.
// Record-not-found is not an error for the benchmark and is traced like any
// other statement.
type Logger struct {
	log   zerolog.Logger
	level gormlogger.LogLevel
}

var _ gormlogger.Interface = (*Logger)(nil)

// NewLogger returns a GORM logger writing to log.
func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log.With().Str("component", "gorm").Logger(), level: gormlogger.Info}
}

func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *Logger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		if l.level < gormlogger.Error {
			return
		}
		sql, rows := fc()
		l.log.Error().Err(err).Str("sql", sql).Int64("rows", rows).Dur("elapsed", time.Since(begin)).Msg("query failed")
		return
	}
	// fc renders the statement; skip it when nothing would be written.
	if l.level < gormlogger.Info || l.log.GetLevel() > zerolog.DebugLevel {
		return
	}
	sql, rows := fc()
	l.log.Debug().Str("sql", sql).Int64("rows", rows).Dur("elapsed", time.Since(begin)).Msg("query")
}
