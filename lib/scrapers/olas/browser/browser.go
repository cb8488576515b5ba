// Package browser implements olas.PageSource on top of a headless Chromium
// driven through the devtools protocol.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"olasagents-backend/lib/scrapers/olas"
	"olasagents-backend/lib/telemetry"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("olasagents.lib.scrapers.olas.browser")

const (
	DefaultWaitTimeout = 30 * time.Second
	DefaultIdleWindow  = 500 * time.Millisecond
)

type Options struct {
	// page to navigate to, usually <registry>/agents
	Url string
	// show the browser window instead of running headless
	Headful bool
	// path to a chromium binary, rod downloads one when empty
	Bin string
	// upper bound of every wait for an element or navigation
	WaitTimeout time.Duration
	// the network must be quiet for this long after a page turn
	IdleWindow time.Duration
}

// Source is a live registry page. Close must be called once the scrape is
// done, whatever its outcome.
type Source struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	opts     Options
}

// Open launches a browser and navigates to opts.Url.
func Open(ctx context.Context, opts Options) (*Source, error) {
	ctx, span := tracer.Start(ctx, "Open")
	defer span.End()

	if opts.Url == "" {
		return nil, fmt.Errorf("browser: no url to open")
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = DefaultWaitTimeout
	}
	if opts.IdleWindow <= 0 {
		opts.IdleWindow = DefaultIdleWindow
	}

	l := launcher.New().Context(ctx).Headless(!opts.Headful)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	controlUrl, err := l.Launch()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to launch browser")
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	s := &Source{launcher: l, opts: opts}
	s.browser = rod.New().ControlURL(controlUrl)
	err = s.browser.Connect()
	if err != nil {
		l.Kill()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to connect to browser")
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	slog.DebugContext(ctx, "opening registry page", "url", opts.Url)
	err = s.navigate(ctx)
	if err != nil {
		s.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to open page")
		return nil, err
	}
	return s, nil
}

func (s *Source) navigate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WaitTimeout)
	defer cancel()

	page, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: s.opts.Url})
	if err != nil {
		return fmt.Errorf("open %s: %w", s.opts.Url, err)
	}
	s.page = page
	err = page.WaitLoad()
	if err != nil {
		return fmt.Errorf("load %s: %w", s.opts.Url, err)
	}
	return nil
}

// Close releases the page and the browser process.
func (s *Source) Close() error {
	var errs []error
	if s.browser != nil {
		errs = append(errs, s.browser.Close())
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
	return errors.Join(errs...)
}

// bounded returns the page bound to ctx with the wait timeout applied.
func (s *Source) bounded(ctx context.Context) (*rod.Page, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.WaitTimeout)
	return s.page.Context(ctx), cancel
}

func (s *Source) ListRows(ctx context.Context) ([]olas.Row, error) {
	page, cancel := s.bounded(ctx)
	defer cancel()

	// Element retries until the table body is rendered
	_, err := page.Element(olas.TableBodySelector)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", olas.TableBodySelector, err)
	}
	elements, err := page.Elements(olas.RowSelector)
	if err != nil {
		return nil, err
	}

	rows := make([]olas.Row, len(elements))
	for i, el := range elements {
		rows[i] = row{el: el, timeout: s.opts.WaitTimeout}
	}
	return rows, nil
}

func (s *Source) HasNext(ctx context.Context) (bool, error) {
	page, cancel := s.bounded(ctx)
	defer cancel()

	has, _, err := page.Has(olas.NextSelector)
	return has, err
}

func (s *Source) ClickNext(ctx context.Context) error {
	page, cancel := s.bounded(ctx)
	defer cancel()

	next, err := page.Element(olas.NextSelector)
	if err != nil {
		return err
	}

	waitIdle := page.WaitRequestIdle(s.opts.IdleWindow, nil, nil, nil)
	err = next.Click(proto.InputMouseButtonLeft, 1)
	if err != nil {
		return err
	}
	waitIdle()
	return nil
}

type row struct {
	el      *rod.Element
	timeout time.Duration
}

func (r row) Cells(ctx context.Context) ([]olas.Cell, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	elements, err := r.el.Context(ctx).Elements(olas.CellSelector)
	if err != nil {
		return nil, err
	}
	cells := make([]olas.Cell, len(elements))
	for i, el := range elements {
		cells[i] = cell{el: el, timeout: r.timeout}
	}
	return cells, nil
}

type cell struct {
	el      *rod.Element
	timeout time.Duration
}

func (c cell) bounded(ctx context.Context) (*rod.Element, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	return c.el.Context(ctx), cancel
}

func (c cell) Text(ctx context.Context) (string, error) {
	el, cancel := c.bounded(ctx)
	defer cancel()
	return el.Text()
}

func (c cell) Hover(ctx context.Context) error {
	el, cancel := c.bounded(ctx)
	defer cancel()
	return el.Hover()
}

func (c cell) Tooltip(ctx context.Context) (string, bool, error) {
	el, cancel := c.bounded(ctx)
	defer cancel()

	has, tooltip, err := el.Has(olas.TooltipSelector)
	if err != nil || !has {
		return "", false, err
	}
	text, err := tooltip.Text()
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}
