package eventlog

import (
	"context"

	"github.com/sirupsen/logrus"
)

type logEmitter struct {
	log *logrus.Entry
}

// NewLogEmitter writes every event as a structured info log line
func NewLogEmitter() Emitter {
	return &logEmitter{
		log: logrus.StandardLogger().WithField("type", "eventlog/log"),
	}
}

func (e *logEmitter) Emit(ctx context.Context, event *Event) error {
	fields := logrus.Fields{
		"event_id":   event.Id,
		"event_type": event.Type,
		"account":    event.Account,
		"signer":     event.Signer,
	}
	for k, v := range event.Attributes {
		fields["attr_"+k] = v
	}

	e.log.WithContext(ctx).WithFields(fields).Info("program event")
	return nil
}
