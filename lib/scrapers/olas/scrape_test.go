package olas

import (
	"context"
	"errors"
	"olasagents-backend/lib/agentstore"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeCell struct {
	text    string
	tooltip string
	// number of Tooltip calls after hovering before the tooltip shows
	delay   int
	hovered bool
	probes  int
}

func (c *fakeCell) Text(context.Context) (string, error) {
	return c.text, nil
}

func (c *fakeCell) Hover(context.Context) error {
	c.hovered = true
	return nil
}

func (c *fakeCell) Tooltip(context.Context) (string, bool, error) {
	if !c.hovered || c.tooltip == "" {
		return "", false, nil
	}
	c.probes++
	if c.probes <= c.delay {
		return "", false, nil
	}
	return c.tooltip, true, nil
}

type fakeRow []*fakeCell

func (r fakeRow) Cells(context.Context) ([]Cell, error) {
	cells := make([]Cell, len(r))
	for i, c := range r {
		cells[i] = c
	}
	return cells, nil
}

type fakeSource struct {
	pages      [][]fakeRow
	current    int
	clicks     int
	listErr    error
	hasNextErr error
	clickErr   error
}

func (s *fakeSource) ListRows(context.Context) ([]Row, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	rows := []Row{}
	for _, r := range s.pages[s.current] {
		rows = append(rows, r)
	}
	return rows, nil
}

func (s *fakeSource) HasNext(context.Context) (bool, error) {
	if s.hasNextErr != nil {
		return false, s.hasNextErr
	}
	return s.current+1 < len(s.pages), nil
}

func (s *fakeSource) ClickNext(context.Context) error {
	if s.clickErr != nil {
		return s.clickErr
	}
	s.current++
	s.clicks++
	return nil
}

func agentRow(id, name, owner, hash string) fakeRow {
	return fakeRow{
		{text: id},
		{text: name},
		{text: "0x12…", tooltip: owner},
		{text: "Qm12…", tooltip: hash},
		{text: "Active"},
	}
}

var fastOptions = Options{
	TooltipTimeout: 20 * time.Millisecond,
	PollInterval:   time.Millisecond,
}

func TestScrapeSinglePage(t *testing.T) {
	source := &fakeSource{pages: [][]fakeRow{{
		agentRow("42", "TradeBot", "0xABC", "Qm123"),
	}}}

	batch, err := Scrape(context.Background(), source, fastOptions)
	require.NoError(t, err)

	expected := []agentstore.AgentRecord{{
		ID:        "42",
		Name:      "TradeBot",
		Owner:     "0xABC",
		Hash:      "Qm123",
		AgentUrl:  "https://registry.olas.network/ethereum/agents/42",
		OwnerLink: "https://etherscan.io/address/0xABC",
		HashLink:  "https://gateway.autonolas.tech/ipfs/Qm123",
	}}
	if diff := cmp.Diff(expected, batch); diff != "" {
		t.Fatalf("batch mismatch (-want +got):\n%s", diff)
	}
}

func TestScrapePaginates(t *testing.T) {
	source := &fakeSource{pages: [][]fakeRow{
		{agentRow("1", "a", "0x1", "Qm1"), agentRow("2", "b", "0x2", "Qm2")},
		{agentRow("3", "c", "0x3", "Qm3")},
		{agentRow("4", "d", "0x4", "Qm4")},
	}}

	var progress [][2]int
	opts := fastOptions
	opts.Progress = func(page, percent int) {
		progress = append(progress, [2]int{page, percent})
	}

	batch, err := Scrape(context.Background(), source, opts)
	require.NoError(t, err)
	require.Len(t, batch, 4)
	require.Equal(t, 2, source.clicks)
	for i, r := range batch {
		require.Equal(t, string(rune('1'+i)), r.ID)
	}
	require.Equal(t, [][2]int{{2, 20}, {3, 30}, {3, 100}}, progress)
}

func TestScrapeSkipsMalformedRows(t *testing.T) {
	short := agentRow("9", "short", "0x9", "Qm9")[:4]
	long := append(agentRow("8", "long", "0x8", "Qm8"), &fakeCell{text: "extra"})
	source := &fakeSource{pages: [][]fakeRow{{
		short,
		agentRow("1", "ok", "0x1", "Qm1"),
		long,
		{},
	}}}

	batch, err := Scrape(context.Background(), source, fastOptions)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, "1", batch[0].ID)
}

func TestScrapeMissingTooltip(t *testing.T) {
	source := &fakeSource{pages: [][]fakeRow{{
		agentRow("5", "NoTips", "", ""),
	}}}

	batch, err := Scrape(context.Background(), source, fastOptions)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, "N/A", batch[0].Owner)
	require.Equal(t, "N/A", batch[0].Hash)
	require.Equal(t, "https://etherscan.io/address/N/A", batch[0].OwnerLink)
}

func TestScrapeSlowTooltip(t *testing.T) {
	row := agentRow("6", "Slow", "0xSLOW", "QmSLOW")
	row[ownerCell].delay = 3
	source := &fakeSource{pages: [][]fakeRow{{row}}}

	opts := fastOptions
	opts.TooltipTimeout = time.Second
	batch, err := Scrape(context.Background(), source, opts)
	require.NoError(t, err)
	require.Equal(t, "0xSLOW", batch[0].Owner)
	require.True(t, row[ownerCell].hovered)
	require.True(t, row[hashCell].hovered)
}

func TestScrapeTrimsIdAndName(t *testing.T) {
	source := &fakeSource{pages: [][]fakeRow{{
		agentRow(" 7\n", "  Spacey ", "0x7", "Qm7"),
	}}}

	batch, err := Scrape(context.Background(), source, fastOptions)
	require.NoError(t, err)
	require.Equal(t, "7", batch[0].ID)
	require.Equal(t, "Spacey", batch[0].Name)
	require.True(t, strings.HasSuffix(batch[0].AgentUrl, "/agents/7"))
}

func TestScrapeMaxPages(t *testing.T) {
	source := &fakeSource{pages: [][]fakeRow{
		{agentRow("1", "a", "0x1", "Qm1")},
		{agentRow("2", "b", "0x2", "Qm2")},
	}}

	opts := fastOptions
	opts.MaxPages = 1
	batch, err := Scrape(context.Background(), source, opts)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.Equal(t, 0, source.clicks)
}

func TestScrapeSourceError(t *testing.T) {
	boom := errors.New("selector timeout")
	source := &fakeSource{pages: [][]fakeRow{{}}, listErr: boom}

	batch, err := Scrape(context.Background(), source, fastOptions)
	require.ErrorIs(t, err, boom)
	require.Nil(t, batch)
}

func TestScrapePaginationErrors(t *testing.T) {
	boom := errors.New("detached node")
	pages := [][]fakeRow{
		{agentRow("1", "a", "0x1", "Qm1")},
		{agentRow("2", "b", "0x2", "Qm2")},
	}

	cases := []struct {
		name   string
		source *fakeSource
		want   string
	}{
		{
			name:   "has next",
			source: &fakeSource{pages: pages, hasNextErr: boom},
			want:   "page 1: look for next page",
		},
		{
			name:   "click next",
			source: &fakeSource{pages: pages, clickErr: boom},
			want:   "page 1: go to next page",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var reported []int
			opts := fastOptions
			opts.Progress = func(_, percent int) {
				reported = append(reported, percent)
			}

			batch, err := Scrape(context.Background(), c.source, opts)
			require.ErrorIs(t, err, boom)
			require.ErrorContains(t, err, c.want)
			require.Nil(t, batch)
			require.Equal(t, 0, c.source.current)
			require.Empty(t, reported)
		})
	}
}

func TestScrapeRepeatedCallsDoNotShareState(t *testing.T) {
	pages := [][]fakeRow{{agentRow("1", "a", "0x1", "Qm1")}}

	first, err := Scrape(context.Background(), &fakeSource{pages: pages}, fastOptions)
	require.NoError(t, err)
	second, err := Scrape(context.Background(), &fakeSource{pages: pages}, fastOptions)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Len(t, second, 1)
}

func TestPagePercentClamped(t *testing.T) {
	require.Equal(t, 0, pagePercent(-1))
	require.Equal(t, 10, pagePercent(1))
	require.Equal(t, 100, pagePercent(10))
	require.Equal(t, 100, pagePercent(11))
	require.Equal(t, 100, pagePercent(250))
}
