package olas

import (
	"context"
	"fmt"
	"log/slog"
	"olasagents-backend/lib/agentstore"
	"olasagents-backend/lib/poll"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTooltipTimeout = time.Second
	DefaultPollInterval   = 100 * time.Millisecond
)

// number of cells in an agents table row: id, name, owner, hash, status
const rowCellCount = 5

const (
	idCell    = 0
	nameCell  = 1
	ownerCell = 2
	hashCell  = 3
)

type Options struct {
	// used to build each record's agent_url
	RegistryBase string
	// how long to wait for a tooltip after hovering before recording N/A
	TooltipTimeout time.Duration
	PollInterval   time.Duration
	// stop after this many pages, 0 means until the last page
	MaxPages int
	Progress ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.RegistryBase == "" {
		o.RegistryBase = agentstore.DefaultRegistryBase
	}
	if o.TooltipTimeout <= 0 {
		o.TooltipTimeout = DefaultTooltipTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.Progress == nil {
		o.Progress = func(int, int) {}
	}
	return o
}

type scraper struct {
	source PageSource
	opts   Options
}

// Scrape walks every page of source in order and returns the records of all
// well-formed rows. Nothing is persisted, the caller merges the returned
// batch into a store. Any error from source aborts the scrape.
func Scrape(ctx context.Context, source PageSource, opts Options) ([]agentstore.AgentRecord, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	s := scraper{source: source, opts: opts.withDefaults()}
	batch, pages, err := s.run(ctx)
	span.SetAttributes(
		attribute.Int("pages", pages),
		attribute.Int("records", len(batch)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape failed")
		return nil, err
	}

	slog.InfoContext(ctx, "scraping completed", "pages", pages, "records", len(batch))
	return batch, nil
}

func (s scraper) run(ctx context.Context) ([]agentstore.AgentRecord, int, error) {
	var batch []agentstore.AgentRecord
	page := 1

	for {
		slog.InfoContext(ctx, "scraping page", "page", page)

		records, err := s.scrapePage(ctx, page)
		if err != nil {
			return nil, page, err
		}
		batch = append(batch, records...)
		pageCounter.Add(ctx, 1)

		if s.opts.MaxPages > 0 && page >= s.opts.MaxPages {
			slog.InfoContext(ctx, "reached page limit", "max_pages", s.opts.MaxPages)
			break
		}

		hasNext, err := s.source.HasNext(ctx)
		if err != nil {
			return nil, page, fmt.Errorf("page %d: look for next page: %w", page, err)
		}
		if !hasNext {
			break
		}
		err = s.source.ClickNext(ctx)
		if err != nil {
			return nil, page, fmt.Errorf("page %d: go to next page: %w", page, err)
		}

		page++
		s.opts.Progress(page, pagePercent(page))
	}

	s.opts.Progress(page, 100)
	return batch, page, nil
}

func (s scraper) scrapePage(ctx context.Context, page int) ([]agentstore.AgentRecord, error) {
	ctx, span := tracer.Start(ctx, "scrapePage", trace.WithAttributes(attribute.Int("page", page)))
	defer span.End()

	rows, err := s.source.ListRows(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list rows")
		return nil, fmt.Errorf("page %d: list rows: %w", page, err)
	}

	var records []agentstore.AgentRecord
	for i, row := range rows {
		record, ok, err := s.scrapeRow(ctx, row)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to scrape row")
			return nil, fmt.Errorf("page %d: row %d: %w", page, i, err)
		}
		if !ok {
			slog.DebugContext(ctx, "skipping malformed row", "page", page, "row", i)
			rowCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "skipped")))
			continue
		}
		rowCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "recorded")))
		records = append(records, record)
	}

	span.SetAttributes(attribute.Int("rows", len(rows)), attribute.Int("records", len(records)))
	return records, nil
}

// scrapeRow returns ok == false for rows that do not have exactly the
// expected number of cells.
func (s scraper) scrapeRow(ctx context.Context, row Row) (agentstore.AgentRecord, bool, error) {
	cells, err := row.Cells(ctx)
	if err != nil {
		return agentstore.AgentRecord{}, false, err
	}
	if len(cells) != rowCellCount {
		return agentstore.AgentRecord{}, false, nil
	}

	id, err := cells[idCell].Text(ctx)
	if err != nil {
		return agentstore.AgentRecord{}, false, fmt.Errorf("id: %w", err)
	}
	name, err := cells[nameCell].Text(ctx)
	if err != nil {
		return agentstore.AgentRecord{}, false, fmt.Errorf("name: %w", err)
	}
	owner, err := s.tooltip(ctx, cells[ownerCell], "owner")
	if err != nil {
		return agentstore.AgentRecord{}, false, err
	}
	hash, err := s.tooltip(ctx, cells[hashCell], "hash")
	if err != nil {
		return agentstore.AgentRecord{}, false, err
	}

	record := agentstore.NewAgentRecord(
		s.opts.RegistryBase,
		strings.TrimSpace(id),
		strings.TrimSpace(name),
		owner,
		hash,
	)
	return record, true, nil
}

// tooltip hovers the cell and waits for its tooltip, a tooltip that never
// shows up is recorded as agentstore.Missing.
func (s scraper) tooltip(ctx context.Context, cell Cell, field string) (string, error) {
	err := cell.Hover(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: hover: %w", field, err)
	}

	text, found, err := poll.Until[string](ctx, s.opts.TooltipTimeout, s.opts.PollInterval, cell.Tooltip)
	if err != nil {
		return "", fmt.Errorf("%s: tooltip: %w", field, err)
	}
	if !found {
		slog.DebugContext(ctx, "tooltip did not appear", "field", field)
		missingTooltipCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("field", field)))
		return agentstore.Missing, nil
	}
	return text, nil
}
