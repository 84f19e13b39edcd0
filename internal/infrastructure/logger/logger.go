package logger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/infrastructure/config"
)

// Logger is the sugared zap logger shared by every layer of the service
type Logger struct {
	*zap.SugaredLogger
}

// New builds a logger from cfg. The json format selects zap's production
// encoder; anything else gets the development console encoder.
func New(cfg config.LoggerConfig) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapConfig := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	if cfg.Output == "file" && cfg.Filename != "" {
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	}

	zapLogger, err := zapConfig.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return wrap(zapLogger), nil
}

// NewNop returns a logger that discards everything. Used by tests and CLI
// commands that run before configuration is loaded.
func NewNop() *Logger {
	return wrap(zap.NewNop())
}

func wrap(z *zap.Logger) *Logger {
	return &Logger{SugaredLogger: z.Sugar()}
}

func (l *Logger) with(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(kv...)}
}

// WithError tags entries with err and its board error code
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.with("error", err.Error(), "error_code", entities.ErrorCode(err))
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	if requestID == "" {
		return l
	}
	return l.with("request_id", requestID)
}

func (l *Logger) WithUserID(userID uuid.UUID) *Logger {
	return l.with("user_id", userID.String())
}

func (l *Logger) WithComponent(component string) *Logger {
	return l.with("component", component)
}

// LogHTTPRequest records a served request. route is the matched echo path,
// so board ids do not end up in the message key space.
func (l *Logger) LogHTTPRequest(method, route string, status int, latency time.Duration, remoteIP, userAgent string) {
	fields := []interface{}{
		"method", method,
		"route", route,
		"status_code", status,
		"duration_ms", millis(latency),
		"ip", remoteIP,
		"user_agent", userAgent,
	}
	if status >= 500 {
		l.Errorw("HTTP request", fields...)
		return
	}
	l.Infow("HTTP request", fields...)
}

// LogDatabaseQuery logs one statement of a board session. Whitespace in the
// query is collapsed so multi-line SQL stays on one log line.
func (l *Logger) LogDatabaseQuery(query string, elapsed time.Duration, err error) {
	fields := []interface{}{
		"query", strings.Join(strings.Fields(query), " "),
		"duration_ms", millis(elapsed),
	}
	if err != nil {
		l.Errorw("Database query failed", append(fields, "error", err.Error())...)
		return
	}
	l.Debugw("Database query executed", fields...)
}

// LogBoardOperation records the outcome of an engine operation. Rejections
// (archived, template, invalid, missing) log at warn; anything else is a
// failure and logs at error.
func (l *Logger) LogBoardOperation(op string, elapsed time.Duration, err error, metadata map[string]interface{}) {
	fields := appendSorted([]interface{}{
		"operation", op,
		"duration_ms", millis(elapsed),
	}, metadata)

	if err == nil {
		l.Infow("Board operation", fields...)
		return
	}

	code := entities.ErrorCode(err)
	fields = append(fields, "error", err.Error(), "error_code", code)
	if code == "internal" {
		l.Errorw("Board operation failed", fields...)
		return
	}
	l.Warnw("Board operation rejected", fields...)
}

func (l *Logger) LogSecurityEvent(event, ip string, details map[string]interface{}) {
	l.Warnw("Security event", appendSorted([]interface{}{
		"security_event", event,
		"ip", ip,
	}, details)...)
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

// appendSorted appends m as key/value pairs in key order
func appendSorted(fields []interface{}, m map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, k, m[k])
	}
	return fields
}
