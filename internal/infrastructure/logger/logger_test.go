package logger

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskmaster/boards/internal/domain/entities"
	"github.com/taskmaster/boards/internal/infrastructure/config"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return wrap(zap.New(core)), logs
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)

	l, err := New(config.LoggerConfig{Level: "info", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestLogBoardOperationLevels(t *testing.T) {
	l, logs := observed()
	id := uuid.New()

	l.LogBoardOperation("move_card", 1500*time.Microsecond, nil, map[string]interface{}{"boards": []uuid.UUID{id}})
	l.LogBoardOperation("move_card", time.Millisecond, &entities.ArchivedError{Kind: entities.KindCard, ID: id}, nil)
	l.LogBoardOperation("move_card", time.Millisecond, errors.New("connection reset"), nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, 1.5, entries[0].ContextMap()["duration_ms"])
	assert.Contains(t, entries[0].ContextMap(), "boards")

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "Board operation rejected", entries[1].Message)
	assert.Equal(t, "archived", entries[1].ContextMap()["error_code"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "internal", entries[2].ContextMap()["error_code"])
}

func TestLogDatabaseQueryCollapsesWhitespace(t *testing.T) {
	l, logs := observed()

	l.LogDatabaseQuery("SELECT id\n\t\tFROM boards\n\tWHERE id = $1", time.Millisecond, nil)
	l.LogDatabaseQuery("DELETE FROM boards WHERE id = $1", time.Millisecond, errors.New("deadlock detected"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "SELECT id FROM boards WHERE id = $1", entries[0].ContextMap()["query"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "deadlock detected", entries[1].ContextMap()["error"])
}

func TestContextHelpers(t *testing.T) {
	l, logs := observed()
	user := uuid.New()

	l.WithComponent("board_service").
		WithRequestID("req-1").
		WithUserID(user).
		WithError(nil).
		Infow("done")
	l.WithRequestID("").WithError(&entities.NotFoundError{Kind: entities.KindList, ID: user}).Infow("missing")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{
		"component":  "board_service",
		"request_id": "req-1",
		"user_id":    user.String(),
	}, entries[0].ContextMap())

	assert.NotContains(t, entries[1].ContextMap(), "request_id")
	assert.Equal(t, "not_found", entries[1].ContextMap()["error_code"])
}

func TestLogHTTPRequestAndSecurityEvent(t *testing.T) {
	l, logs := observed()

	l.LogHTTPRequest("GET", "/api/v1/boards/:id", 200, 2*time.Millisecond, "10.0.0.1", "curl")
	l.LogHTTPRequest("POST", "/api/v1/boards", 503, time.Millisecond, "10.0.0.1", "curl")
	l.LogSecurityEvent("invalid_token", "10.0.0.2", map[string]interface{}{"endpoint": "/api/v1/boards"})

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "/api/v1/boards/:id", entries[0].ContextMap()["route"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "/api/v1/boards", entries[2].ContextMap()["endpoint"])
}
