package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRecorders_NoApplication(t *testing.T) {
	ctx := NewContext(context.Background(), nil)

	_, ok := fromContext(ctx)
	assert.False(t, ok)

	RecordCount(ctx, "count", 1)
	RecordDuration(ctx, "duration", time.Second)
	RecordEvent(ctx, "event", map[string]interface{}{"key": "value"})

	tracer := TraceMethodCall(ctx, "metrics", "TestRecorders_NoApplication")
	assert.Nil(t, tracer)
	tracer.AddAttribute("key", "value")
	tracer.OnError(context.Canceled)
	tracer.End()
}

func TestForwardedMessage(t *testing.T) {
	logger := logrus.New()

	entry := logrus.NewEntry(logger)
	entry.Message = "plain"
	assert.Equal(t, "plain", forwardedMessage(entry))

	entry = logger.WithError(errors.New("boom")).WithField("event", "abc")
	entry.Message = "failed"
	assert.Equal(t, `message="failed", error="boom", data={"event":"abc"}`, forwardedMessage(entry))

	entry = logger.WithField("count", 2)
	entry.Message = "counted"
	assert.Equal(t, `message="counted", error=<nil>, data={"count":2}`, forwardedMessage(entry))
}
