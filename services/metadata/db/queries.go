package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type AgentMetadatum struct {
	Hash           string
	Name           string
	Description    string
	CodeUri        string
	Image          string
	AttributesJson string
	FetchedAt      int64
}

const getAgentMetadata = `select hash, name, description, code_uri, image, attributes_json, fetched_at
from agent_metadata
where hash = ?`

func (q *Queries) GetAgentMetadata(ctx context.Context, hash string) (AgentMetadatum, error) {
	row := q.db.QueryRowContext(ctx, getAgentMetadata, hash)
	var i AgentMetadatum
	err := row.Scan(
		&i.Hash,
		&i.Name,
		&i.Description,
		&i.CodeUri,
		&i.Image,
		&i.AttributesJson,
		&i.FetchedAt,
	)
	return i, err
}

const upsertAgentMetadata = `insert into agent_metadata (hash, name, description, code_uri, image, attributes_json, fetched_at)
values (?, ?, ?, ?, ?, ?, ?)
on conflict (hash) do update set
    name = excluded.name,
    description = excluded.description,
    code_uri = excluded.code_uri,
    image = excluded.image,
    attributes_json = excluded.attributes_json,
    fetched_at = excluded.fetched_at`

type UpsertAgentMetadataParams struct {
	Hash           string
	Name           string
	Description    string
	CodeUri        string
	Image          string
	AttributesJson string
	FetchedAt      int64
}

func (q *Queries) UpsertAgentMetadata(ctx context.Context, arg UpsertAgentMetadataParams) error {
	_, err := q.db.ExecContext(ctx, upsertAgentMetadata,
		arg.Hash,
		arg.Name,
		arg.Description,
		arg.CodeUri,
		arg.Image,
		arg.AttributesJson,
		arg.FetchedAt,
	)
	return err
}
