package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taskmaster/boards/internal/domain/entities"
)

func TestEngineMetricsCountsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)

	m.ObserveOperation("move_card", nil, 3*time.Millisecond)
	m.ObserveOperation("move_card", nil, time.Millisecond)
	m.ObserveOperation("move_card", fmt.Errorf("move_card: %w", &entities.ArchivedError{Kind: entities.KindList, ID: uuid.New()}), time.Millisecond)
	m.ObserveOperation("copy_card", entities.Invalid("copy card", "target board is a template", &entities.TemplateViolationError{}), time.Millisecond)
	m.ObserveOperation("get_board", errors.New("connection reset"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("move_card", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("move_card", "archived")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("copy_card", "invalid_operation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("get_board", "internal")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.duration))
}
