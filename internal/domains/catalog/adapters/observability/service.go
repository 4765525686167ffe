package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/domain"
	"github.com/Simon-Kral/Coderr/internal/domains/catalog/ports"
)

const tracerName = "github.com/Simon-Kral/Coderr/internal/domains/catalog/adapters/observability/service"

// Service decorates a catalog application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// CreateOffer persists a new offer aggregate with instrumentation.
func (s *Service) CreateOffer(ctx context.Context, input catalogtypes.CreateOfferInput) (*catalogtypes.OfferProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOffer", attribute.Int64("offer.owner_id", input.OwnerID))
	defer span.End()

	s.logInfo(ctx, "creating offer", slog.Int64("offer.owner_id", input.OwnerID))
	result, err := s.inner.CreateOffer(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create offer", slog.Int64("offer.owner_id", input.OwnerID))
	}
	if result != nil && result.Offer != nil {
		s.metrics.recordCreated(ctx)
		s.logInfo(ctx, "offer created", slog.Int64("offer.id", result.Offer.ID))
	}
	return result, nil
}

// UpdateOffer applies a partial update to an existing offer.
func (s *Service) UpdateOffer(ctx context.Context, input catalogtypes.UpdateOfferInput) (*catalogtypes.OfferProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateOffer", attribute.Int64("offer.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "updating offer", slog.Int64("offer.id", input.ID))
	result, err := s.inner.UpdateOffer(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update offer", slog.Int64("offer.id", input.ID))
	}
	if result != nil && result.Offer != nil {
		s.metrics.recordUpdated(ctx)
		s.logInfo(ctx, "offer updated", slog.Int64("offer.id", result.Offer.ID))
	}
	return result, nil
}

// GetByID loads a single offer aggregate.
func (s *Service) GetByID(ctx context.Context, input catalogtypes.OfferIdentifier) (*catalogtypes.OfferProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.GetByID", attribute.Int64("offer.id", input.ID))
	defer span.End()

	result, err := s.inner.GetByID(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load offer", slog.Int64("offer.id", input.ID))
	}
	return result, nil
}

// List returns the offers matching the filter.
func (s *Service) List(ctx context.Context, filter ports.ListFilter) ([]*catalogtypes.OfferProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.List", attribute.String("offer.ordering", string(filter.Ordering)))
	defer span.End()

	s.logInfo(ctx, "listing offers")
	result, err := s.inner.List(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list offers")
	}
	span.SetAttributes(attribute.Int("offer.result.count", len(result)))
	s.logInfo(ctx, "listed offers", slog.Int("count", len(result)))
	return result, nil
}

// Delete removes an offer.
func (s *Service) Delete(ctx context.Context, input catalogtypes.OfferIdentifier) error {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.Int64("offer.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "deleting offer", slog.Int64("offer.id", input.ID))
	if err := s.inner.Delete(ctx, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete offer", slog.Int64("offer.id", input.ID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "offer deleted", slog.Int64("offer.id", input.ID))
	return nil
}

// Count reports the catalog size.
func (s *Service) Count(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "Service.Count")
	defer span.End()

	count, err := s.inner.Count(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to count offers")
	}
	return count, nil
}

// GetDetail loads a single pricing package.
func (s *Service) GetDetail(ctx context.Context, id int64) (*domain.OfferDetail, error) {
	ctx, span := s.startSpan(ctx, "Service.GetDetail", attribute.Int64("offer.detail.id", id))
	defer span.End()

	result, err := s.inner.GetDetail(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load offer detail", slog.Int64("offer.detail.id", id))
	}
	return result, nil
}

// UpdateDetail mutates one pricing package.
func (s *Service) UpdateDetail(ctx context.Context, input catalogtypes.UpdateDetailInput) (*domain.OfferDetail, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateDetail", attribute.Int64("offer.detail.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "updating offer detail", slog.Int64("offer.detail.id", input.ID))
	result, err := s.inner.UpdateDetail(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update offer detail", slog.Int64("offer.detail.id", input.ID))
	}
	s.metrics.recordUpdated(ctx)
	return result, nil
}

// DeleteDetail removes a single pricing package.
func (s *Service) DeleteDetail(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteDetail", attribute.Int64("offer.detail.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting offer detail", slog.Int64("offer.detail.id", id))
	if err := s.inner.DeleteDetail(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete offer detail", slog.Int64("offer.detail.id", id))
	}
	s.metrics.recordDeleted(ctx)
	return nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	offersCreated metric.Int64Counter
	offersUpdated metric.Int64Counter
	offersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	offersCreated, _ := m.Int64Counter("catalog.service.created", metric.WithDescription("Number of offers created"))
	offersUpdated, _ := m.Int64Counter("catalog.service.updated", metric.WithDescription("Number of offer mutations"))
	offersDeleted, _ := m.Int64Counter("catalog.service.deleted", metric.WithDescription("Number of offer or detail deletions"))
	return serviceMetrics{
		offersCreated: offersCreated,
		offersUpdated: offersUpdated,
		offersDeleted: offersDeleted,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	addCounter(ctx, m.offersCreated, 1)
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	addCounter(ctx, m.offersUpdated, 1)
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.offersDeleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
