// Package zapadapter routes pgx pool logs to a go.uber.org/zap.Logger,
// tagging every entry with the request id carried by the query context.
package zapadapter

import (
	"context"
	"github.com/jackc/pgx/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"sort"
)

type ctxKey struct{}

// RequestIDField is the zap field name used for the request id
const RequestIDField = "request_id"

// argsKey is the pgx data key holding query arguments, it may contain message content
const argsKey = "args"

// ContextWithRequestID returns a copy of ctx carrying request id
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestIDFromContext returns request id stored by ContextWithRequestID
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Logger implements pgx.Logger
type Logger struct {
	logger   *zap.Logger
	withArgs bool
}

// NewLogger wraps logger. Query arguments are dropped unless withArgs is given.
func NewLogger(logger *zap.Logger, withArgs ...bool) *Logger {
	l := &Logger{logger: logger.WithOptions(zap.AddCallerSkip(1)).Named("pgx")}
	if len(withArgs) > 0 {
		l.withArgs = withArgs[0]
	}
	return l
}

func (l *Logger) fields(ctx context.Context, data map[string]interface{}) []zapcore.Field {
	keys := make([]string, 0, len(data))
	for k := range data {
		if k == argsKey && !l.withArgs {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zapcore.Field, 0, len(keys)+1)
	if id, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, zap.String(RequestIDField, id))
	}
	for _, k := range keys {
		fields = append(fields, zap.Any(k, data[k]))
	}

	return fields
}

// Log writes a pgx log entry at the matching zap level
func (l *Logger) Log(ctx context.Context, level pgx.LogLevel, msg string, data map[string]interface{}) {
	fields := l.fields(ctx, data)

	switch level {
	case pgx.LogLevelTrace, pgx.LogLevelDebug:
		l.logger.Debug(msg, append(fields, zap.Stringer("pgx_level", level))...)
	case pgx.LogLevelInfo:
		l.logger.Info(msg, fields...)
	case pgx.LogLevelWarn:
		l.logger.Warn(msg, fields...)
	default:
		l.logger.Error(msg, append(fields, zap.Stringer("pgx_level", level))...)
	}
}
