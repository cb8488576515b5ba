package olas

import (
	"olasagents-backend/lib/telemetry"

	"go.opentelemetry.io/otel/metric"
)

var tracer = telemetry.Tracer("olasagents.lib.scrapers.olas")
var meter = telemetry.Meter("olasagents.lib.scrapers.olas")

var rowCounter, _ = meter.Int64Counter(
	"olas.scraper.rows",
	metric.WithDescription("table rows seen by the scraper, by outcome"),
)
var missingTooltipCounter, _ = meter.Int64Counter(
	"olas.scraper.tooltips_missing",
	metric.WithDescription("owner or hash tooltips that never appeared"),
)
var pageCounter, _ = meter.Int64Counter("olas.scraper.pages")
