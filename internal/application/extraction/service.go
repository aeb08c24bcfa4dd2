// Package extraction provides the application-level service driving one
// full aggregation run: token exchange, windowed search, per-document
// enrichment, and record assembly. The remote layer is consumed through
// narrow interfaces so the run logic can be tested against stubs.
package extraction

import (
	"context"
	"time"

	"github.com/Sanaks-uk/EPO-data/internal/domain/patent"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/logging"
	"github.com/Sanaks-uk/EPO-data/internal/infrastructure/monitoring/metrics"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// Authenticator performs the one-time credential exchange.
type Authenticator interface {
	Authenticate(ctx context.Context, clientID, clientSecret string) error
}

// SearchCursor fetches one result window of a query.
type SearchCursor interface {
	Fetch(ctx context.Context, query string, start, end int) (int, []patent.SearchEntry, error)
}

// DetailEnricher fetches bibliographic detail for one document.
type DetailEnricher interface {
	Enrich(ctx context.Context, id string) (patent.BiblioFields, error)
}

// ClassificationEnricher fetches classification codes for one document.
type ClassificationEnricher interface {
	Enrich(ctx context.Context, id string) (patent.ClassificationFields, error)
}

// RegisterEnricher fetches legal-status data for one document.
type RegisterEnricher interface {
	Enrich(ctx context.Context, id string) (patent.RegisterFields, error)
}

// Gateways bundles the remote ports a run depends on.
type Gateways struct {
	Auth            Authenticator
	Search          SearchCursor
	Details         DetailEnricher
	Classifications ClassificationEnricher
	Register        RegisterEnricher
}

// RunInput is everything that parameterizes one run.
type RunInput struct {
	ClientID     string
	ClientSecret string

	Criteria patent.SearchCriteria

	// RecordLimit caps the number of assembled records. The run stops
	// issuing enrichment calls the moment the cap is reached, even
	// mid-window.
	RecordLimit int

	// WindowSize is the maximum documents per search request. Effective
	// window size is the smaller of this and the remaining budget.
	WindowSize int

	// WindowDelay is the pause between consecutive search windows.
	WindowDelay time.Duration
}

// RunResult is the outcome of a completed (or cancelled) run. Records are
// in discovery order.
type RunResult struct {
	Records []patent.PatentRecord

	// TotalResults is the result count advertised by the first search
	// window, which may far exceed len(Records).
	TotalResults int

	Stats Stats
}

// Service drives aggregation runs.
type Service interface {
	Run(ctx context.Context, input *RunInput) (*RunResult, error)
}

type serviceImpl struct {
	gw        Gateways
	logger    logging.Logger
	collector *metrics.Collector
}

// NewService builds the extraction service over the given remote gateways.
func NewService(gw Gateways, logger logging.Logger, collector *metrics.Collector) Service {
	return &serviceImpl{
		gw:        gw,
		logger:    logger.Named("extraction"),
		collector: collector,
	}
}

// Run executes one aggregation run. Authentication failure and a failed
// first window are fatal; any later window failure is skipped and any
// per-document enrichment failure degrades that record to its search-level
// fallback fields. Cancellation between documents or windows returns the
// records assembled so far together with ctx.Err().
func (s *serviceImpl) Run(ctx context.Context, input *RunInput) (*RunResult, error) {
	if input.RecordLimit < 1 {
		return nil, errors.InvalidParam("record limit must be at least 1")
	}
	if input.WindowSize < 1 {
		return nil, errors.InvalidParam("window size must be at least 1")
	}

	if err := s.gw.Auth.Authenticate(ctx, input.ClientID, input.ClientSecret); err != nil {
		return nil, err
	}

	query := input.Criteria.BuildQuery()
	s.logger.Info("starting run",
		logging.String("query", query),
		logging.Int("limit", input.RecordLimit),
		logging.Int("window", input.WindowSize),
	)

	result := &RunResult{}
	start := 1
	totalKnown := false

	for len(result.Records) < input.RecordLimit {
		if err := ctx.Err(); err != nil {
			s.finish(result)
			return result, err
		}

		remaining := input.RecordLimit - len(result.Records)
		size := input.WindowSize
		if remaining < size {
			size = remaining
		}
		end := start + size - 1

		total, entries, err := s.gw.Search.Fetch(ctx, query, start, end)
		if err != nil {
			if !totalKnown {
				// Without the first window there is no result count and
				// no reason to believe later windows will fare better.
				return nil, err
			}
			s.logger.Warn("search window failed, skipping",
				logging.Int("start", start), logging.Int("end", end), logging.Err(err))
			s.collector.ObserveSkippedWindow()
			result.Stats.WindowsSkipped++
			start = end + 1
			if start > result.TotalResults {
				break
			}
			if err := s.pause(ctx, input.WindowDelay); err != nil {
				s.finish(result)
				return result, err
			}
			continue
		}

		if !totalKnown {
			result.TotalResults = total
			totalKnown = true
			s.logger.Info("result count known", logging.Int("total", total))
		}

		if len(entries) == 0 {
			break
		}

		for _, entry := range entries {
			if len(result.Records) >= input.RecordLimit {
				break
			}
			if err := ctx.Err(); err != nil {
				s.finish(result)
				return result, err
			}

			id, ok := entry.ResolveIdentifier()
			if !ok {
				s.logger.Warn("entry has no resolvable identifier, dropping",
					logging.String("original_id", entry.OriginalID))
				result.Stats.EntriesDropped++
				continue
			}

			biblio, cls, reg := s.enrich(ctx, id)
			record := patent.Assemble(id, entry, biblio, cls, reg)
			result.Records = append(result.Records, record)
			s.collector.ObserveRecord()
		}

		start = end + 1
		if start > result.TotalResults || len(result.Records) >= input.RecordLimit {
			break
		}
		if err := s.pause(ctx, input.WindowDelay); err != nil {
			s.finish(result)
			return result, err
		}
	}

	s.finish(result)
	s.logger.Info("run complete",
		logging.Int("records", len(result.Records)),
		logging.Int("total_results", result.TotalResults),
	)
	return result, nil
}

// enrich performs the three independent per-document fetches. A failed
// fetch contributes empty fields; the record is still assembled from
// whatever the other calls and the search-level fallbacks provide.
func (s *serviceImpl) enrich(ctx context.Context, id string) (patent.BiblioFields, patent.ClassificationFields, patent.RegisterFields) {
	biblio, err := s.gw.Details.Enrich(ctx, id)
	if err != nil {
		s.logger.Warn("biblio enrichment failed", logging.String("doc", id), logging.Err(err))
	}

	cls, err := s.gw.Classifications.Enrich(ctx, id)
	if err != nil {
		s.logger.Warn("classification enrichment failed", logging.String("doc", id), logging.Err(err))
	}

	reg, err := s.gw.Register.Enrich(ctx, id)
	if err != nil {
		s.logger.Warn("register enrichment failed", logging.String("doc", id), logging.Err(err))
	}

	return biblio, cls, reg
}

// pause waits the inter-window delay, honoring cancellation.
func (s *serviceImpl) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish fills the run statistics from the assembled records.
func (s *serviceImpl) finish(result *RunResult) {
	result.Stats.fill(result.Records)
}
