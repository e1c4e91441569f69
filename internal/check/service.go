// Package check runs the lookup pipeline: gate, fetch, parse, aggregate,
// format. Each invocation is one sequential unit of work over its own
// freshly fetched bundle; the only shared state lives in the collaborators.
package check

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"kontra/internal/audit"
	"kontra/internal/facet"
	"kontra/internal/platform/metrics"
	"kontra/internal/provider"
	"kontra/internal/quota"
	"kontra/internal/report"
	"kontra/internal/risk"
	"kontra/pkg/domain"
	derrors "kontra/pkg/domain-errors"
)

var tracer = otel.Tracer("kontra/check")

// Fetcher is the provider-facing slice of provider.Client.
type Fetcher interface {
	Fetch(ctx context.Context, taxID domain.TaxID, facets []provider.Facet) (provider.Bundle, error)
}

// Gate authorizes one check per call.
type Gate interface {
	TryConsume(ctx context.Context, id domain.UserID) (quota.Grant, error)
}

// Recorder appends completed checks to the user's history.
type Recorder interface {
	Record(ctx context.Context, userID domain.UserID, taxID domain.TaxID, name string, tier risk.Tier) error
}

// Result is what the transport hands back for one completed check.
type Result struct {
	Report risk.Report
	Text   string
	Grant  quota.Grant
}

// Service orchestrates the pipeline.
type Service struct {
	fetcher    Fetcher
	gate       Gate
	aggregator *risk.Aggregator
	history    Recorder
	cache      CompanyCache
	renderer   report.Renderer
	publisher  *audit.Publisher
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithRenderer(r report.Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

func NewService(fetcher Fetcher, gate Gate, aggregator *risk.Aggregator, history Recorder, cache CompanyCache, publisher *audit.Publisher, opts ...Option) *Service {
	s := &Service{
		fetcher:    fetcher,
		gate:       gate,
		aggregator: aggregator,
		history:    history,
		cache:      cache,
		publisher:  publisher,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one full company check for the user. A not-found tax ID
// surfaces as CodeNotFound with no history entry; an exhausted quota as
// CodeQuotaExceeded with nothing fetched.
func (s *Service) Run(ctx context.Context, userID domain.UserID, taxID domain.TaxID) (Result, error) {
	ctx, span := tracer.Start(ctx, "check.Run", trace.WithAttributes(
		attribute.Int64("user.id", userID.Int64()),
		attribute.String("company.tax_id", string(taxID)),
	))
	defer span.End()
	started := time.Now()

	grant, err := s.gate.TryConsume(ctx, userID)
	if err != nil {
		if derrors.HasCode(err, derrors.CodeQuotaExceeded) {
			s.count(func(m *metrics.Metrics) { m.QuotaDenied.Inc() })
			s.publisher.Emit(ctx, audit.Event{UserID: userID, Action: audit.ActionCheckDenied, TaxID: taxID})
		}
		return Result{}, err
	}

	company, err := s.fetchAndParse(ctx, taxID)
	if err != nil {
		if derrors.HasCode(err, derrors.CodeNotFound) {
			s.publisher.Emit(ctx, audit.Event{UserID: userID, Action: audit.ActionCheckNotFound, TaxID: taxID})
		}
		return Result{}, err
	}

	rep := s.aggregator.Evaluate(company)
	text := report.Text(rep)

	// The report already belongs to the user; history and cache failures
	// must not take it away.
	if err := s.history.Record(ctx, userID, taxID, company.Card.DisplayName(), rep.Tier); err != nil {
		s.logger.ErrorContext(ctx, "history write failed",
			slog.Int64("user_id", userID.Int64()),
			slog.Any("error", err))
	}
	if err := s.cache.Set(ctx, taxID, company); err != nil {
		s.logger.WarnContext(ctx, "company cache write failed", slog.Any("error", err))
	}

	s.publisher.Emit(ctx, audit.Event{
		UserID: userID,
		Action: audit.ActionCheckCompleted,
		TaxID:  taxID,
		Tier:   rep.Tier,
	})
	s.count(func(m *metrics.Metrics) {
		m.ChecksTotal.WithLabelValues(string(rep.Tier)).Inc()
		m.CheckDuration.Observe(time.Since(started).Seconds())
	})
	span.SetAttributes(attribute.String("check.tier", string(rep.Tier)))

	return Result{Report: rep, Text: text, Grant: grant}, nil
}

// Document renders the PDF report for a recently checked company. A cache
// hit is served as-is: the check that filled the cache already passed the
// gate. A miss means a fresh provider fetch, which requires gate
// authorization like any other lookup.
func (s *Service) Document(ctx context.Context, userID domain.UserID, taxID domain.TaxID) ([]byte, error) {
	if s.renderer == nil {
		return nil, derrors.New(derrors.CodeUnavailable, "document rendering is not available")
	}
	ctx, span := tracer.Start(ctx, "check.Document", trace.WithAttributes(
		attribute.String("company.tax_id", string(taxID)),
	))
	defer span.End()

	company, hit, err := s.cache.Get(ctx, taxID)
	if err != nil {
		s.logger.WarnContext(ctx, "company cache read failed", slog.Any("error", err))
	}
	if !hit {
		if _, err := s.gate.TryConsume(ctx, userID); err != nil {
			if derrors.HasCode(err, derrors.CodeQuotaExceeded) {
				s.count(func(m *metrics.Metrics) { m.QuotaDenied.Inc() })
				s.publisher.Emit(ctx, audit.Event{UserID: userID, Action: audit.ActionCheckDenied, TaxID: taxID})
			}
			return nil, err
		}
		company, err = s.fetchAndParse(ctx, taxID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, taxID, company); err != nil {
			s.logger.WarnContext(ctx, "company cache write failed", slog.Any("error", err))
		}
	}

	rep := s.aggregator.Evaluate(company)
	pdf, err := s.renderer.Render(ctx, report.Document(rep))
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "render document")
	}

	s.count(func(m *metrics.Metrics) { m.DocumentsRendered.Inc() })
	s.publisher.Emit(ctx, audit.Event{
		UserID: userID,
		Action: audit.ActionDocumentExport,
		TaxID:  taxID,
		Tier:   rep.Tier,
	})
	return pdf, nil
}

func (s *Service) fetchAndParse(ctx context.Context, taxID domain.TaxID) (facet.Company, error) {
	bundle, err := s.fetcher.Fetch(ctx, taxID, provider.DefaultFacets)
	if err != nil {
		category := provider.CategoryOf(err)
		s.count(func(m *metrics.Metrics) {
			m.ProviderErrors.WithLabelValues(string(category)).Inc()
		})
		return facet.Company{}, mapProviderError(err, category)
	}
	return facet.Parse(bundle), nil
}

// mapProviderError translates the registry taxonomy into caller-facing codes.
func mapProviderError(err error, category provider.ErrorCategory) error {
	switch category {
	case provider.ErrorNotFound:
		return derrors.New(derrors.CodeNotFound, "компания с таким ИНН не найдена")
	case provider.ErrorTimeout:
		return derrors.Wrap(err, derrors.CodeTimeout, "реестр не ответил вовремя, попробуйте позже")
	case provider.ErrorNetwork:
		return derrors.Wrap(err, derrors.CodeUnavailable, "реестр недоступен, попробуйте позже")
	case provider.ErrorConfig:
		return derrors.Wrap(err, derrors.CodeInternal, "provider credentials rejected")
	default:
		var pe *provider.Error
		message := "реестр вернул ошибку"
		if errors.As(err, &pe) && pe.Message != "" {
			message = fmt.Sprintf("реестр вернул ошибку: %s", pe.Message)
		}
		return derrors.Wrap(err, derrors.CodeUnavailable, message)
	}
}

func (s *Service) count(fn func(*metrics.Metrics)) {
	if s.metrics != nil {
		fn(s.metrics)
	}
}
