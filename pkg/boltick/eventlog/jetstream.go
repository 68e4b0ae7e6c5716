package eventlog

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// JetStreamConfig configures the NATS JetStream emitter
type JetStreamConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	ConnectionName string        `mapstructure:"connection_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
}

// JetStream is the subset of jetstream.JetStream the emitter publishes with
type JetStream interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type jetStreamEmitter struct {
	log           *logrus.Entry
	nc            *nats.Conn
	js            JetStream
	subjectPrefix string
}

// NewJetStreamEmitter connects to NATS, ensures the stream capturing
// "<prefix>.>" exists and returns an emitter publishing to it
func NewJetStreamEmitter(ctx context.Context, cfg *JetStreamConfig) (Emitter, func(), error) {
	log := logrus.StandardLogger().WithField("type", "eventlog/jetstream")

	nc, err := nats.Connect(
		cfg.URL,
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Warn("disconnected from nats")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("reconnected to nats")
		}),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error connecting to nats")
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, errors.Wrap(err, "error creating jetstream context")
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
	})
	if err != nil {
		nc.Close()
		return nil, nil, errors.Wrapf(err, "error ensuring stream %s", cfg.StreamName)
	}

	emitter := newJetStreamEmitter(js, cfg.SubjectPrefix)
	emitter.nc = nc
	return emitter, nc.Close, nil
}

func newJetStreamEmitter(js JetStream, subjectPrefix string) *jetStreamEmitter {
	return &jetStreamEmitter{
		log:           logrus.StandardLogger().WithField("type", "eventlog/jetstream"),
		js:            js,
		subjectPrefix: subjectPrefix,
	}
}

func (e *jetStreamEmitter) Emit(ctx context.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "error marshalling event")
	}

	subject := e.buildSubject(event)
	_, err = e.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.Id))
	if err != nil {
		return errors.Wrapf(err, "error publishing event to %s", subject)
	}

	e.log.WithFields(logrus.Fields{
		"subject":  subject,
		"event_id": event.Id,
	}).Trace("event published")
	return nil
}

// buildSubject maps "ticketing.ticket_minted" onto
// "<prefix>.ticketing.ticket_minted"
func (e *jetStreamEmitter) buildSubject(event *Event) string {
	return strings.Join([]string{e.subjectPrefix, string(event.Type)}, ".")
}
