package metadata

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"olasagents-backend/lib/scrapers/ipfs"
	"olasagents-backend/services/metadata/db"
	"time"
)

// Store persists fetched metadata documents keyed by hash.
type Store struct {
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{qry: db.New(database)}
}

// Get returns the cached metadata of hash, found is false on a miss.
func (s Store) Get(ctx context.Context, hash string) (ipfs.AgentMetadata, bool, error) {
	row, err := s.qry.GetAgentMetadata(ctx, hash)
	if errors.Is(err, sql.ErrNoRows) {
		return ipfs.AgentMetadata{}, false, nil
	}
	if err != nil {
		return ipfs.AgentMetadata{}, false, err
	}

	meta := ipfs.AgentMetadata{
		Hash:        row.Hash,
		Name:        row.Name,
		Description: row.Description,
		CodeUri:     row.CodeUri,
		Image:       row.Image,
		FetchedAt:   time.Unix(row.FetchedAt, 0).UTC(),
	}
	err = json.Unmarshal([]byte(row.AttributesJson), &meta.Attributes)
	if err != nil {
		return ipfs.AgentMetadata{}, false, err
	}
	return meta, true, nil
}

func (s Store) Put(ctx context.Context, meta ipfs.AgentMetadata) error {
	attributes, err := json.Marshal(meta.Attributes)
	if err != nil {
		return err
	}
	return s.qry.UpsertAgentMetadata(ctx, db.UpsertAgentMetadataParams{
		Hash:           meta.Hash,
		Name:           meta.Name,
		Description:    meta.Description,
		CodeUri:        meta.CodeUri,
		Image:          meta.Image,
		AttributesJson: string(attributes),
		FetchedAt:      meta.FetchedAt.Unix(),
	})
}
