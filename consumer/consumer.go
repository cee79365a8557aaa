// Package consumer runs the Kafka consume loop: fetch, decode, dispatch,
// commit. Malformed messages are committed and skipped; handler failures are
// logged and committed so a poison message can never wedge the group.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	processor "github.com/topcoder-platform/member-profile-processor"
	"github.com/topcoder-platform/member-profile-processor/logging"
	"github.com/topcoder-platform/member-profile-processor/metrics"
)

// Reader is the subset of kafka.Reader the dispatcher depends on.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded bus event.
type Handler interface {
	Handle(ctx context.Context, ev processor.LifecycleEvent) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev processor.LifecycleEvent) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, ev processor.LifecycleEvent) error {
	return f(ctx, ev)
}

// Config holds configuration for the Dispatcher.
type Config struct {
	// Reader supplies messages, typically built with NewReader (required).
	Reader Reader

	// Handler processes decoded events (required).
	Handler Handler

	// Brokers are the Kafka broker addresses, used by health checks.
	Brokers []string

	// CommitTimeout bounds each offset commit (default: 5s).
	CommitTimeout time.Duration

	// Logger is for observability (optional).
	Logger logging.Logger
}

// Dispatcher drives the consume loop. Messages are committed exactly once
// each, whether they decoded, handled, or failed: processing is idempotent
// downstream, so at-most-once effects per delivery beat a stuck partition.
type Dispatcher struct {
	reader        Reader
	handler       Handler
	brokers       []string
	commitTimeout time.Duration
	logger        logging.Logger

	mu         sync.Mutex
	collectors map[string]*metrics.Collector
}

// NewReader builds a kafka.Reader subscribed to the given topics as one
// consumer group.
func NewReader(brokers []string, groupID string, topics ...string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     time.Second,
	})
}

// NewDispatcher creates a Dispatcher with the given configuration.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.CommitTimeout == 0 {
		cfg.CommitTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	return &Dispatcher{
		reader:        cfg.Reader,
		handler:       cfg.Handler,
		brokers:       cfg.Brokers,
		commitTimeout: cfg.CommitTimeout,
		logger:        cfg.Logger,
		collectors:    make(map[string]*metrics.Collector),
	}
}

// Run consumes messages until the context is canceled or the reader closes.
// It returns nil on orderly shutdown and the fetch error otherwise.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("consumer started")

	for {
		msg, err := d.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				d.logger.Info("consumer stopped")
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		d.process(ctx, msg)
	}
}

// process decodes and dispatches one message, then commits its offset.
func (d *Dispatcher) process(ctx context.Context, msg kafka.Message) {
	start := time.Now()
	coll := d.collector(msg.Topic)
	coll.IncConsumed()

	log := d.logger.With(
		"correlationId", uuid.NewString(),
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)

	ev, err := processor.ParseLifecycleEvent(msg.Value)
	if err != nil {
		coll.IncDecodeFailure()
		log.Warn("skipping undecodable message", "error", err)
	} else if err := d.handler.Handle(ctx, ev); err != nil {
		coll.IncHandlerError()
		log.Error("handler failed", "error", err)
	}

	d.commit(msg, coll, log)
	coll.ObserveProcessingDuration(time.Since(start).Seconds())
}

// commit acknowledges one message with its own bounded context so shutdown
// cancellation cannot lose the final offset.
func (d *Dispatcher) commit(msg kafka.Message, coll *metrics.Collector, log logging.Logger) {
	commitCtx, cancel := context.WithTimeout(context.Background(), d.commitTimeout)
	defer cancel()

	if err := d.reader.CommitMessages(commitCtx, msg); err != nil {
		log.Error("failed to commit offset", "error", err)
		return
	}
	coll.IncCommit()
}

func (d *Dispatcher) collector(topic string) *metrics.Collector {
	d.mu.Lock()
	defer d.mu.Unlock()

	coll, ok := d.collectors[topic]
	if !ok {
		coll = metrics.NewCollector(topic)
		d.collectors[topic] = coll
	}
	return coll
}

// Healthy reports whether every configured broker accepts a connection.
func (d *Dispatcher) Healthy(ctx context.Context) bool {
	for _, broker := range d.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			d.logger.Warn("broker health check failed", "broker", broker, "error", err)
			return false
		}
		conn.Close()
	}
	return true
}

// Close releases the underlying reader.
func (d *Dispatcher) Close() error {
	return d.reader.Close()
}
