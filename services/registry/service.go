package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	devenv "olasagents-backend/dev/env"
	"olasagents-backend/lib/agentsearch"
	"olasagents-backend/lib/agentstore"
	"olasagents-backend/lib/render"
	"olasagents-backend/lib/scrapers/ipfs"
	"olasagents-backend/lib/scrapers/olas"
	"olasagents-backend/lib/scrapers/olas/browser"
	"olasagents-backend/lib/scrapers/olas/fixture"
	"olasagents-backend/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("olasagents.services.registry")

// Source is a page source that holds resources until closed.
type Source interface {
	olas.PageSource
	Close() error
}

// OpenSource returns a source positioned on the first page of the agents
// table.
type OpenSource func(ctx context.Context) (Source, error)

// MetadataResolver returns the metadata document behind a content hash.
type MetadataResolver interface {
	Resolve(ctx context.Context, hash string) (ipfs.AgentMetadata, error)
}

// SourceFromConfig opens a headless browser on the live registry, or
// replays saved pages when a fixture directory is configured.
func SourceFromConfig(cfg Config) OpenSource {
	if cfg.Browser.FixtureDir != "" {
		return func(ctx context.Context) (Source, error) {
			dir, err := devenv.ResolvePath(cfg.Browser.FixtureDir)
			if err != nil {
				return nil, err
			}
			source, err := fixture.LoadDir(dir)
			if err != nil {
				return nil, err
			}
			return source, nil
		}
	}
	return func(ctx context.Context) (Source, error) {
		source, err := browser.Open(ctx, cfg.BrowserOptions())
		if err != nil {
			return nil, err
		}
		return source, nil
	}
}

type ServiceOptions struct {
	Config   Config
	Open     OpenSource
	Metadata MetadataResolver
	Render   render.Options
}

// Service is the dashboard over the record store. It keeps the loaded
// records in memory and is not safe for concurrent use.
type Service struct {
	cfg       Config
	storePath string
	open      OpenSource
	metadata  MetadataResolver
	render    render.Options
	records   []agentstore.AgentRecord
}

func NewService(opts ServiceOptions) (*Service, error) {
	storePath, err := devenv.ResolvePath(opts.Config.StorePath)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}
	if opts.Open == nil {
		opts.Open = SourceFromConfig(opts.Config)
	}
	return &Service{
		cfg:       opts.Config,
		storePath: storePath,
		open:      opts.Open,
		metadata:  opts.Metadata,
		render:    opts.Render,
		records:   []agentstore.AgentRecord{},
	}, nil
}

func (s *Service) StorePath() string {
	return s.storePath
}

// SetMaxPages caps the number of pages the next scrape visits, 0 removes the
// cap.
func (s *Service) SetMaxPages(n int) {
	s.cfg.Scrape.MaxPages = n
}

func (s *Service) Records() []agentstore.AgentRecord {
	return s.records
}

// Load replaces the in-memory records with the contents of the store.
func (s *Service) Load(ctx context.Context) error {
	records, err := agentstore.Load(s.storePath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		slog.WarnContext(
			ctx, "agent store not found or is empty, scrape the registry first",
			"path", s.storePath,
		)
	}
	s.records = records
	return nil
}

func (s *Service) Search(ctx context.Context, query string) []agentstore.AgentRecord {
	slog.InfoContext(ctx, "searching for agents", "query", query)
	return agentsearch.Search(s.records, query)
}

func (s *Service) FuzzySearch(ctx context.Context, query string, threshold float64) []agentsearch.Match {
	slog.InfoContext(ctx, "fuzzy searching for agents", "query", query, "threshold", threshold)
	return agentsearch.FuzzySearch(s.records, query, threshold)
}

func (s *Service) Render(w io.Writer, results []agentstore.AgentRecord) error {
	return render.Results(w, results, s.render)
}

// Scrape walks every page of the registry, merges the new records into the
// store and reloads it. It returns the records that were added.
func (s *Service) Scrape(ctx context.Context, progress olas.ProgressFunc) ([]agentstore.AgentRecord, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	batch, err := s.scrapeBatch(ctx, progress)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape failed")
		return nil, err
	}

	added, err := agentstore.MergeFile(s.storePath, batch)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to merge batch into store")
		return nil, fmt.Errorf("merge into %s: %w", s.storePath, err)
	}
	span.SetAttributes(
		attribute.Int("batch", len(batch)),
		attribute.Int("added", len(added)),
	)
	slog.InfoContext(
		ctx, "merged scraped agents",
		"path", s.storePath,
		"scraped", len(batch),
		"added", len(added),
	)

	err = s.Load(ctx)
	if err != nil {
		return added, err
	}
	return added, nil
}

func (s *Service) scrapeBatch(ctx context.Context, progress olas.ProgressFunc) ([]agentstore.AgentRecord, error) {
	source, err := s.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer func() {
		err := source.Close()
		if err != nil {
			slog.WarnContext(ctx, "failed to close page source", "err", err)
		}
	}()

	return olas.Scrape(ctx, source, s.cfg.ScrapeOptions(progress))
}

// Metadata resolves the ipfs metadata of the loaded agent with id.
func (s *Service) Metadata(ctx context.Context, id string) (agentstore.AgentRecord, ipfs.AgentMetadata, error) {
	ctx, span := tracer.Start(ctx, "Metadata")
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	record, err := agentstore.Find(s.records, id)
	if err != nil {
		return agentstore.AgentRecord{}, ipfs.AgentMetadata{}, err
	}
	if !record.HasHash() {
		return record, ipfs.AgentMetadata{}, ipfs.ErrNoHash
	}
	if s.metadata == nil {
		return record, ipfs.AgentMetadata{}, errors.New("metadata resolver is not configured")
	}

	meta, err := s.metadata.Resolve(ctx, record.Hash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve metadata")
		return record, ipfs.AgentMetadata{}, err
	}
	return record, meta, nil
}
