// Package fixture replays saved registry pages as an olas.PageSource. A hover
// reveals the ".ant-tooltip" markup that the page ships inside a cell, which
// mirrors what the live table renders.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"olasagents-backend/lib/htmlutil"
	"olasagents-backend/lib/scrapers/olas"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoTable = errors.New("table body not found")
var ErrLastPage = errors.New("already on the last page")

const tooltipContainer = ".ant-tooltip"

type Source struct {
	pages   []*goquery.Document
	current int
}

// Parse builds a source from page documents in pagination order.
func Parse(pages ...io.Reader) (*Source, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("fixture: no pages")
	}
	s := &Source{}
	for i, r := range pages {
		doc, err := goquery.NewDocumentFromReader(r)
		if err != nil {
			return nil, fmt.Errorf("fixture: page %d: %w", i+1, err)
		}
		s.pages = append(s.pages, doc)
	}
	return s, nil
}

// LoadDir reads every *.html file in dir, ordered by file name.
func LoadDir(dir string) (*Source, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var readers []io.Reader
	for _, p := range paths {
		contents, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		readers = append(readers, strings.NewReader(string(contents)))
	}
	return Parse(readers...)
}

// Close exists so a fixture can stand in wherever a browser source is
// closed, it holds no resources.
func (s *Source) Close() error {
	return nil
}

// Page returns the 1-based number of the current page.
func (s *Source) Page() int {
	return s.current + 1
}

func (s *Source) doc() *goquery.Document {
	return s.pages[s.current]
}

func (s *Source) ListRows(ctx context.Context) ([]olas.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.doc().Find(olas.TableBodySelector).Length() == 0 {
		return nil, fmt.Errorf("page %d: %w", s.Page(), ErrNoTable)
	}

	var rows []olas.Row
	s.doc().Find(olas.RowSelector).Each(func(_ int, sel *goquery.Selection) {
		rows = append(rows, row{sel: sel})
	})
	return rows, nil
}

func (s *Source) HasNext(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.doc().Find(olas.NextSelector).Length() > 0, nil
}

func (s *Source) ClickNext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.current+1 >= len(s.pages) {
		return ErrLastPage
	}
	s.current++
	return nil
}

type row struct {
	sel *goquery.Selection
}

func (r row) Cells(context.Context) ([]olas.Cell, error) {
	var cells []olas.Cell
	r.sel.Find(olas.CellSelector).Each(func(_ int, sel *goquery.Selection) {
		cells = append(cells, &cell{sel: sel})
	})
	return cells, nil
}

type cell struct {
	sel     *goquery.Selection
	hovered bool
}

// Text is the visible text of the cell, tooltips are hidden until hovered.
func (c *cell) Text(context.Context) (string, error) {
	visible := c.sel.Clone()
	visible.Find(tooltipContainer).Remove()
	return htmlutil.NormalizeText(visible.Text()), nil
}

func (c *cell) Hover(context.Context) error {
	c.hovered = true
	return nil
}

func (c *cell) Tooltip(context.Context) (string, bool, error) {
	if !c.hovered {
		return "", false, nil
	}
	tooltip := c.sel.Find(olas.TooltipSelector).First()
	if tooltip.Length() == 0 {
		return "", false, nil
	}
	return htmlutil.NodeText(tooltip.Nodes[0]), true, nil
}
