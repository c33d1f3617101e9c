package pipeline

import (
	"context"
	"time"

	"github.com/listingkit/listingkit/internal/logger"
)

// BatchItem is the outcome for one URL in a batch run.
type BatchItem struct {
	URL    string  `json:"url"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// Report summarizes a batch run. AttributeHits counts, per attribute name,
// how many records in the batch carried that attribute.
type Report struct {
	TotalURLs      int            `json:"total_urls"`
	Successful     int            `json:"successful"`
	Failed         int            `json:"failed"`
	TotalPhotos    int            `json:"total_photos"`
	AttributeHits  map[string]int `json:"attribute_hits"`
	TotalAttribute int            `json:"total_attributes"`
	Elapsed        time.Duration  `json:"elapsed"`
	Items          []BatchItem    `json:"items"`
}

func (r *Report) countAttributes(attrs []string) {
	for _, name := range attrs {
		r.AttributeHits[name]++
		r.TotalAttribute++
	}
}

// RunBatch harvests URLs sequentially with a pause between items. One URL
// failing never aborts the batch; the failure lands in its item and the
// report counts move on. Cancelling the context stops the batch after the
// in-flight URL.
func (h *Harvester) RunBatch(ctx context.Context, urls []string) Report {
	start := time.Now()
	report := Report{TotalURLs: len(urls), AttributeHits: make(map[string]int)}

	for i, url := range urls {
		if ctx.Err() != nil {
			remaining := urls[i:]
			for _, u := range remaining {
				report.Items = append(report.Items, BatchItem{URL: u, Err: ctx.Err(), Error: ctx.Err().Error()})
				report.Failed++
			}
			break
		}

		if i > 0 && h.config.BatchDelay > 0 {
			select {
			case <-time.After(h.config.BatchDelay):
			case <-ctx.Done():
			}
			// The delay may have ended on cancellation; fail the rest with
			// the cancellation cause rather than attempting a dead fetch.
			if err := ctx.Err(); err != nil {
				for _, u := range urls[i:] {
					report.Items = append(report.Items, BatchItem{URL: u, Err: err, Error: err.Error()})
					report.Failed++
				}
				break
			}
		}

		item := BatchItem{URL: url}
		res, err := h.Run(ctx, url)
		if err != nil {
			item.Err = err
			item.Error = err.Error()
			report.Failed++
			logger.Warn("batch item failed", "url", url, "error", err)
		} else {
			item.Result = res
			report.Successful++
			switch {
			case res.Property != nil:
				report.countAttributes(res.Property.Fields.Attributes())
				report.TotalPhotos += res.Property.Fields.PhotoCount()
			case res.Agent != nil:
				report.countAttributes(res.Agent.Fields.Attributes())
			}
		}
		report.Items = append(report.Items, item)
	}

	report.Elapsed = time.Since(start)
	logger.Info("batch complete",
		"total", report.TotalURLs, "successful", report.Successful,
		"failed", report.Failed, "elapsed", report.Elapsed)
	return report
}
