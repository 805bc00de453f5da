package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("advert-service/nats-subscriber")

const invalidateTimeout = 5 * time.Second

// CacheInvalidator drops derived category data.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// CategoryEventSubscriber listens for category mutations published by the
// catalogue owner and flushes the category subtree cache on every one of them.
type CategoryEventSubscriber struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
	cache   CacheInvalidator
	logger  *logger.Logger
}

func NewCategoryEventSubscriber(url, subject string, cache CacheInvalidator, log *logger.Logger, appName string) (*CategoryEventSubscriber, error) {
	log.Info("NATS Subscriber: connecting...", zap.String("url", url))

	opts := []nats.Option{
		nats.Name(fmt.Sprintf("%s NATS Subscriber", appName)),
		nats.Timeout(10 * time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			subject := ""
			if sub != nil {
				subject = sub.Subject
			}
			log.Error("NATS error", zap.String("subject", subject), zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		log.Error("NATS Subscriber: failed to connect", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	s := &CategoryEventSubscriber{
		conn:    conn,
		subject: subject,
		cache:   cache,
		logger:  log.Named("NATSSubscriber"),
	}
	s.sub, err = conn.Subscribe(subject, s.handle)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	log.Info("NATS Subscriber: listening", zap.String("url", conn.ConnectedUrl()), zap.String("subject", subject))
	return s, nil
}

func (s *CategoryEventSubscriber) handle(msg *nats.Msg) {
	ctx := context.Background()
	if msg.Header != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier(msg.Header))
	}
	ctx, span := tracer.Start(ctx, "NATS.Consume."+msg.Subject,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("messaging.destination", msg.Subject)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, invalidateTimeout)
	defer cancel()

	if err := s.cache.Invalidate(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("Failed to invalidate category cache", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	s.logger.Info("Category cache invalidated", zap.String("subject", msg.Subject))
}

// Close drains the subscription and the connection.
func (s *CategoryEventSubscriber) Close() {
	s.logger.Info("NATS Subscriber: closing connection...")
	if s.conn == nil || s.conn.IsClosed() {
		return
	}
	if err := s.conn.Drain(); err != nil {
		s.logger.Error("NATS Subscriber: failed to drain connection", zap.Error(err))
		s.conn.Close()
	}
}
