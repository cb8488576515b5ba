package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

const renderStartTimeout = time.Second

// ScrapeProgress draws a single progress bar for a running scrape. The page
// count is unknown until the scrape ends, so the bar has no total until Stop.
type ScrapeProgress struct {
	pw      progress.Writer
	tracker *progress.Tracker
}

func NewScrapeProgress(w io.Writer) *ScrapeProgress {
	pw := progress.NewWriter()
	pw.SetOutputWriter(w)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	// the writer stops once the tracker is done, which only Stop does
	pw.SetAutoStop(true)

	tracker := &progress.Tracker{
		Message: pageMessage(1, 0),
		Total:   0,
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(tracker)
	go pw.Render()

	deadline := time.Now().Add(renderStartTimeout)
	for !pw.IsRenderInProgress() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	return &ScrapeProgress{pw: pw, tracker: tracker}
}

// Update has the signature of olas.ProgressFunc.
func (p *ScrapeProgress) Update(page int, percent int) {
	p.tracker.UpdateMessage(pageMessage(page, percent))
	p.tracker.SetValue(int64(page))
}

// Stop completes (or fails) the bar and waits for the final frame.
func (p *ScrapeProgress) Stop(failed bool) {
	pages := p.tracker.Value()
	if failed {
		p.tracker.MarkAsErrored()
	} else {
		p.tracker.UpdateTotal(pages)
		p.tracker.MarkAsDone()
	}
	for p.pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}

// Pages is the last page reported to the bar.
func (p *ScrapeProgress) Pages() int64 {
	return p.tracker.Value()
}

func pageMessage(page, percent int) string {
	return fmt.Sprintf("scraping agents (page %d, %d%%)", page, percent)
}
