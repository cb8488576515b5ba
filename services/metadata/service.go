package metadata

import (
	"context"
	"log/slog"
	"olasagents-backend/lib/scrapers/ipfs"
	"olasagents-backend/lib/telemetry"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("olasagents.services.metadata")

// Fetcher retrieves the metadata document of a hash from its origin.
type Fetcher interface {
	Fetch(ctx context.Context, hash string) (ipfs.AgentMetadata, error)
}

// Service resolves agent metadata, serving repeated hashes from the store.
// Documents on ipfs are content addressed so cached entries never expire.
type Service struct {
	store   Store
	fetcher Fetcher
}

func NewService(store Store, fetcher Fetcher) Service {
	return Service{
		store:   store,
		fetcher: fetcher,
	}
}

func (s Service) Resolve(ctx context.Context, hash string) (ipfs.AgentMetadata, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	hash = strings.TrimSpace(hash)
	span.SetAttributes(attribute.String("hash", hash))

	meta, found, err := s.store.Get(ctx, hash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cache")
		return ipfs.AgentMetadata{}, err
	}
	if found {
		span.SetAttributes(attribute.Bool("cached", true))
		slog.DebugContext(ctx, "metadata cache hit", "hash", hash)
		return meta, nil
	}

	meta, err = s.fetcher.Fetch(ctx, hash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch metadata")
		return ipfs.AgentMetadata{}, err
	}
	err = s.store.Put(ctx, meta)
	if err != nil {
		slog.WarnContext(ctx, "failed to cache metadata", "hash", hash, "err", err)
	}
	return meta, nil
}
