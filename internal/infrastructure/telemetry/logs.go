package telemetry

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Bridge returns a logger that writes to l and also ships every record at
// or above l's level over OTLP. Without a log provider it returns l.
func (p *Providers) Bridge(l *zap.Logger) *zap.Logger {
	if p.logs == nil {
		return l
	}
	otelCore := otelzap.NewCore(p.service, otelzap.WithLoggerProvider(p.logs))
	return l.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, minLevelCore{Core: otelCore, min: l.Level()})
	}))
}

// minLevelCore drops entries below min before they reach the wrapped core.
// The otelzap core accepts every level on its own.
type minLevelCore struct {
	zapcore.Core
	min zapcore.LevelEnabler
}

func (c minLevelCore) Enabled(lvl zapcore.Level) bool {
	return c.min.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c minLevelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.min.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return minLevelCore{Core: c.Core.With(fields), min: c.min}
}
