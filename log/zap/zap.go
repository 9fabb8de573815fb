// Package zap adapts a *zap.Logger to tuplekv.Logger.
package zap

import (
	"github.com/unkn0wn-root/tuplekv"
	"go.uber.org/zap"
)

var _ tuplekv.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

func (z ZapLogger) Debug(msg string, f tuplekv.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f tuplekv.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f tuplekv.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f tuplekv.Fields) { z.L.Error(msg, zf(f)...) }

func (z ZapLogger) With(f tuplekv.Fields) tuplekv.Logger {
	return ZapLogger{L: z.L.With(zf(f)...)}
}

func zf(f tuplekv.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
