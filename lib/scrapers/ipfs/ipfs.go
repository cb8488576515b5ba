package ipfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"olasagents-backend/lib/agentstore"
	"olasagents-backend/lib/restyutil"
	"olasagents-backend/lib/telemetry"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("olasagents.lib.scrapers.ipfs")

var ErrNoHash = errors.New("agent has no metadata hash")

const DefaultTimeout = 30 * time.Second

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// AgentMetadata is the document the registry pins to ipfs for an agent.
type AgentMetadata struct {
	Hash        string      `json:"hash"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	CodeUri     string      `json:"code_uri"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	FetchedAt   time.Time   `json:"fetched_at"`
}

type ClientOptions struct {
	// defaults to the autonolas gateway
	GatewayUrl string
	Timeout    time.Duration
	// route requests through a transport that mimics a browser tls handshake
	CloudflareBypass bool
	// where request/response dumps go, nil disables them
	Output restyutil.InstrumentOutput
}

type Client struct {
	http *resty.Client
	now  func() time.Time
}

func NewClient(opts ClientOptions) *Client {
	if opts.GatewayUrl == "" {
		opts.GatewayUrl = agentstore.IpfsGatewayUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.GatewayUrl, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetHeader("accept", "application/json")
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	restyutil.InstrumentClient(client, tracer, opts.Output)

	return &Client{http: client, now: time.Now}
}

// metadata documents are not consistent about value types, so attributes are
// decoded loosely and stringified
type rawMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CodeUri     string `json:"code_uri"`
	Image       string `json:"image"`
	Attributes  []struct {
		TraitType string `json:"trait_type"`
		Value     any    `json:"value"`
	} `json:"attributes"`
}

// Fetch downloads and decodes the metadata document stored under hash.
func (c *Client) Fetch(ctx context.Context, hash string) (AgentMetadata, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	hash = strings.TrimSpace(hash)
	span.SetAttributes(attribute.String("hash", hash))
	if hash == "" || hash == agentstore.Missing {
		return AgentMetadata{}, ErrNoHash
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("hash", hash).
		Get("/{hash}")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch metadata")
		return AgentMetadata{}, err
	}
	if res.IsError() {
		err = fmt.Errorf("fetch metadata %s: unexpected status %s", hash, res.Status())
		span.SetStatus(codes.Error, err.Error())
		return AgentMetadata{}, err
	}

	var raw rawMetadata
	err = json.Unmarshal(res.Body(), &raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode metadata")
		return AgentMetadata{}, fmt.Errorf("decode metadata %s: %w", hash, err)
	}

	meta := AgentMetadata{
		Hash:        hash,
		Name:        raw.Name,
		Description: raw.Description,
		CodeUri:     raw.CodeUri,
		Image:       raw.Image,
		FetchedAt:   c.now().UTC(),
	}
	for _, a := range raw.Attributes {
		meta.Attributes = append(meta.Attributes, Attribute{
			TraitType: a.TraitType,
			Value:     stringify(a.Value),
		})
	}

	slog.DebugContext(ctx, "fetched agent metadata", "hash", hash, "name", meta.Name)
	return meta, nil
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
