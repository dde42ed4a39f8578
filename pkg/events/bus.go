// Package events is the PostgreSQL-backed event bus built on Watermill's SQL
// transport.
//
// Producers write events inside their own database transaction through
// NewTxPublisher. With Forward enabled those messages land in an outbox
// topic first and a background forwarder moves them to their real topics,
// so an event is never visible unless the row change committed.
//
// Consumers register handlers with Handle and start them with Run. Handlers
// run on a Watermill router: panics are recovered, failures are retried with
// exponential backoff, and the publisher's trace context is restored on the
// message context. Handlers must be idempotent since delivery is
// at-least-once.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/ghuser/grocerylist/pkg/logger"
)

const (
	defaultMaxRetries      = 3
	defaultRetryInterval   = time.Second
	routerCloseTimeout     = 30 * time.Second
	forwarderTopic         = "grocery_outbox"
	forwarderConsumerGroup = "grocery-forwarder"
)

// Options configures an EventBus.
type Options struct {
	// ConsumerGroup load-balances handlers across instances sharing it.
	// Required before calling Handle.
	ConsumerGroup string
	// Forward routes published messages through the outbox topic. Call
	// StartForwarder to drain it.
	Forward bool
	// MaxRetries is the number of redeliveries after a handler error.
	MaxRetries int
	// RetryInterval is the first backoff delay; it doubles on each retry.
	RetryInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetries
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = defaultRetryInterval
	}
	return o
}

// HandlerFunc processes one message. A non-nil error triggers a retry.
type HandlerFunc func(ctx context.Context, msg *message.Message) error

// EventBus publishes and consumes messages stored in PostgreSQL. It borrows
// the caller's *sql.DB and never closes it.
type EventBus struct {
	db   *sql.DB
	log  logger.Logger
	wlog watermill.LoggerAdapter
	opts Options

	publisher message.Publisher

	mu         sync.Mutex
	router     *message.Router
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
}

// New builds an EventBus over db.
func New(db *sql.DB, log logger.Logger, opts Options) (*EventBus, error) {
	opts = opts.withDefaults()
	wlog := &slogAdapter{log: log}

	pub, err := newPublisher(db, wlog, true)
	if err != nil {
		return nil, err
	}

	return &EventBus{
		db:        db,
		log:       log,
		wlog:      wlog,
		opts:      opts,
		publisher: wrapForwarder(pub, opts.Forward),
	}, nil
}

func newPublisher(db watermillsql.ContextExecutor, wlog watermill.LoggerAdapter, autoInit bool) (*watermillsql.Publisher, error) {
	pub, err := watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}
	return pub, nil
}

func newSubscriber(db *sql.DB, wlog watermill.LoggerAdapter, group string) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}
	return sub, nil
}

func wrapForwarder(pub message.Publisher, forward bool) message.Publisher {
	if !forward {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// NewTxPublisher returns a Publisher whose writes belong to tx, so the
// message commits or rolls back together with the caller's row changes.
// Schema is not initialized here; the forwarder or subscriber has already
// created the tables.
func (b *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := newPublisher(tx, b.wlog, false)
	if err != nil {
		return nil, err
	}
	return wrapForwarder(pub, b.opts.Forward), nil
}

// Publish sends msgs to topic outside any transaction, stamping the trace
// context of ctx on each.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	InjectTrace(ctx, msgs...)
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Handle registers fn for topic under a unique handler name. Call it before
// Run.
func (b *EventBus) Handle(topic, name string, fn HandlerFunc) error {
	if b.opts.ConsumerGroup == "" {
		return errors.New("events: Handle requires Options.ConsumerGroup")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.router == nil {
		if err := b.initRouter(); err != nil {
			return err
		}
	}
	b.router.AddNoPublisherHandler(name, topic, b.subscriber, func(msg *message.Message) error {
		return fn(msg.Context(), msg)
	})
	return nil
}

func (b *EventBus) initRouter() error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, b.wlog)
	if err != nil {
		return fmt.Errorf("events: new router: %w", err)
	}
	router.AddMiddleware(
		traceMiddleware,
		middleware.Retry{
			MaxRetries:      b.opts.MaxRetries,
			InitialInterval: b.opts.RetryInterval,
			Multiplier:      2,
			Logger:          b.wlog,
		}.Middleware,
		middleware.Recoverer,
	)

	sub, err := newSubscriber(b.db, b.wlog, b.opts.ConsumerGroup)
	if err != nil {
		_ = router.Close()
		return err
	}
	b.router = router
	b.subscriber = sub
	return nil
}

// Run blocks processing messages for every registered handler until ctx is
// cancelled or Close is called.
func (b *EventBus) Run(ctx context.Context) error {
	b.mu.Lock()
	router := b.router
	b.mu.Unlock()
	if router == nil {
		return errors.New("events: Run called with no handlers registered")
	}
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("events: router: %w", err)
	}
	return nil
}

// Running is closed once Run has started every handler. It is nil when no
// handler has been registered.
func (b *EventBus) Running() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.router == nil {
		return nil
	}
	return b.router.Running()
}

// StartForwarder launches the daemon that moves outbox messages to their
// target topics and returns once it is running. Only valid with Forward set.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if !b.opts.Forward {
		return errors.New("events: StartForwarder requires Options.Forward")
	}

	b.mu.Lock()
	if b.fwd != nil {
		b.mu.Unlock()
		return errors.New("events: forwarder already started")
	}

	sub, err := newSubscriber(b.db, b.wlog, forwarderConsumerGroup)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	target, err := newPublisher(b.db, b.wlog, true)
	if err != nil {
		_ = sub.Close()
		b.mu.Unlock()
		return err
	}
	fwd, err := forwarder.NewForwarder(sub, target, b.wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = target.Close()
		_ = sub.Close()
		b.mu.Unlock()
		return fmt.Errorf("events: new forwarder: %w", err)
	}
	b.fwd = fwd
	b.mu.Unlock()

	go func() {
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		b.log.InfoContext(ctx, "events: forwarder running", "topic", forwarderTopic)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// Close stops the router (waiting for in-flight handlers), the forwarder
// and the publisher.
func (b *EventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	if b.router != nil {
		errs = append(errs, b.router.Close())
	}
	if b.subscriber != nil {
		errs = append(errs, b.subscriber.Close())
	}
	if b.fwd != nil {
		errs = append(errs, b.fwd.Close())
	}
	errs = append(errs, b.publisher.Close())

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("events: close: %w", err)
	}
	return nil
}
