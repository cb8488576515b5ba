package render

import (
	"fmt"
	"io"
	"olasagents-backend/lib/agentstore"
	"olasagents-backend/lib/scrapers/ipfs"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const NoResults = "No results found."

type Status string

const (
	StatusCritical Status = "Critical"
	StatusMedium   Status = "Medium"
	StatusPerfect  Status = "Perfect"
)

func (s Status) color() text.Colors {
	switch s {
	case StatusCritical:
		return text.Colors{text.FgRed, text.Bold}
	case StatusMedium:
		return text.Colors{text.FgYellow}
	case StatusPerfect:
		return text.Colors{text.FgGreen}
	}
	return nil
}

func (s Status) Details() string {
	switch s {
	case StatusCritical:
		return "This section requires immediate attention."
	case StatusMedium:
		return "This section needs to be monitored closely."
	case StatusPerfect:
		return "This section is in good condition."
	}
	return ""
}

type Risk struct {
	Section string
	Status  Status
}

// RiskOverview is the fixed assessment shown next to every set of results.
var RiskOverview = []Risk{
	{Section: "UX risk", Status: StatusCritical},
	{Section: "Model risk", Status: StatusMedium},
	{Section: "Agentic memory", Status: StatusPerfect},
	{Section: "Metadata analysis", Status: StatusMedium},
	{Section: "Unchain-risk", Status: StatusPerfect},
}

// Options control terminal specific formatting.
type Options struct {
	// colorize risk statuses with ansi escapes
	Color bool
}

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// Results writes the records table followed by the risk overview, or
// NoResults when there is nothing to show.
func Results(w io.Writer, records []agentstore.AgentRecord, opts Options) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, NoResults)
		return err
	}

	t := NewTable(w)
	t.SetTitle("Search Results")
	t.AppendHeader(table.Row{"ID", "Name", "Owner", "Hash", "Agent URL", "Owner Link", "Hash Link"})
	for _, r := range records {
		t.AppendRow(table.Row{r.ID, r.Name, r.Owner, r.Hash, r.AgentUrl, r.OwnerLink, r.HashLink})
	}
	t.Render()

	Risks(w, opts)
	return nil
}

func Risks(w io.Writer, opts Options) {
	t := NewTable(w)
	t.SetTitle("Risk Analysis")
	t.AppendHeader(table.Row{"Section", "Status", "Details"})
	for _, risk := range RiskOverview {
		status := string(risk.Status)
		if opts.Color {
			status = risk.Status.color().Sprint(status)
		}
		t.AppendRow(table.Row{risk.Section, status, risk.Status.Details()})
	}
	t.Render()
}

func Metadata(w io.Writer, record agentstore.AgentRecord, meta ipfs.AgentMetadata) {
	t := NewTable(w)
	t.SetTitle(fmt.Sprintf("Agent %s", record.ID))
	t.AppendRows([]table.Row{
		{"Name", record.Name},
		{"Owner", record.Owner},
		{"Hash", meta.Hash},
		{"Package", meta.Name},
		{"Description", meta.Description},
		{"Code URI", meta.CodeUri},
		{"Image", meta.Image},
	})
	for _, attr := range meta.Attributes {
		t.AppendRow(table.Row{attr.TraitType, attr.Value})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 80},
	})
	t.Render()
}
