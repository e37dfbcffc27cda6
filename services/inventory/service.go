package inventory

import (
	"context"
	"log/slog"

	"shottys-backend/lib/scrapers/markov"
	"shottys-backend/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/inventory")

const (
	DefaultDashboardId = "100-ShottysLLC"
	DefaultItemId      = "gridDashboardItem6"
)

// Scraper is the dashboard session the pipeline pulls its payload
// from. markov.Client is the real one.
type Scraper interface {
	Login(ctx context.Context, creds markov.Credentials) error
	FetchDashboardItem(ctx context.Context, req markov.FetchRequest) (*markov.DashboardItemData, error)
	Logout(ctx context.Context) error
}

type Options struct {
	Credentials markov.Credentials
	// defaults to DefaultDashboardId
	DashboardId string
	// defaults to DefaultItemId
	ItemId string

	Owners       map[string]string
	AllowedAreas []string
}

type Service struct {
	scraper Scraper
	store   Store
	options Options
}

func NewService(scraper Scraper, store Store, options Options) Service {
	if options.DashboardId == "" {
		options.DashboardId = DefaultDashboardId
	}
	if options.ItemId == "" {
		options.ItemId = DefaultItemId
	}
	return Service{
		scraper: scraper,
		store:   store,
		options: options,
	}
}

// Scrape runs login, fetch, decode, normalize and aggregate, and
// returns the aggregated records without touching the store.
func (s Service) Scrape(ctx context.Context) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	err := s.scraper.Login(ctx, s.options.Credentials)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}
	// the session must be released no matter how the fetch went, a
	// failing logout itself is only logged
	defer func() {
		err := s.scraper.Logout(context.WithoutCancel(ctx))
		if err != nil {
			slog.WarnContext(ctx, "best-effort logout failed", "err", err)
		}
	}()

	data, err := s.scraper.FetchDashboardItem(ctx, markov.FetchRequest{
		DashboardId: s.options.DashboardId,
		ItemId:      s.options.ItemId,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}

	rows, err := markov.DecodeRows(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode failed")
		return nil, err
	}

	refDate := ReferenceDate(timezone.Now())
	candidates := Normalize(rows, NormalizeOptions{
		ReferenceDate: refDate,
		Owners:        s.options.Owners,
		AllowedAreas:  s.options.AllowedAreas,
	})
	records := Aggregate(candidates)

	span.SetAttributes(
		attribute.String("reference_date", refDate),
		attribute.Int("rows", len(rows)),
		attribute.Int("candidates", len(candidates)),
		attribute.Int("records", len(records)),
	)
	slog.InfoContext(ctx, "scraped inventory records",
		"reference_date", refDate,
		"rows", len(rows),
		"candidates", len(candidates),
		"records", len(records),
	)
	return records, nil
}

// Run executes the full pipeline once and reports how many records
// were written to the store.
func (s Service) Run(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	records, err := s.Scrape(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		// a quiet day is a no-op success, not a failure
		slog.WarnContext(ctx, "no inventory records scraped, nothing to upload")
		return 0, nil
	}

	written, err := s.store.Upsert(ctx, records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload failed")
		return 0, err
	}
	return written, nil
}
