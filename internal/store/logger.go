package store

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// gormLogrusAdapter routes gorm logging through logrus.
type gormLogrusAdapter struct {
	level logger.LogLevel
}

// NewGormLogger creates a gorm logger backed by the logrus standard logger.
func NewGormLogger(level logger.LogLevel) logger.Interface {
	return &gormLogrusAdapter{level: level}
}

func (g *gormLogrusAdapter) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogrusAdapter{level: level}
}

func (g *gormLogrusAdapter) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Info {
		logrus.Infof(msg, data...)
	}
}

func (g *gormLogrusAdapter) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Warn {
		logrus.Warnf(msg, data...)
	}
}

func (g *gormLogrusAdapter) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Error {
		logrus.Errorf(msg, data...)
	}
}

func (g *gormLogrusAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := logrus.WithFields(logrus.Fields{
		"elapsed": elapsed,
		"rows":    rows,
		"sql":     sql,
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= logger.Error:
		entry.WithError(err).Error("database query failed")
	case elapsed > slowQueryThreshold && g.level >= logger.Warn:
		entry.Warn("slow database query")
	case g.level >= logger.Info:
		entry.Debug("database query")
	}
}
