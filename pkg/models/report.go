package models

import (
	"time"

	"github.com/kpauljoseph/convtools/pkg/logger"
)

type FileStatus int

const (
	StatusSucceeded FileStatus = iota
	StatusSkipped
	StatusFailed
)

type FileResult struct {
	Source string
	Output string
	Status FileStatus
	Err    error
}

// BatchReport counts what happened to each file of a run. A failed file never
// stops the batch, so the report is the only place failures add up.
type BatchReport struct {
	Tool      string
	Processed int
	Succeeded int
	Skipped   int
	Failed    int
	Outputs   []string
	StartTime time.Time
	EndTime   time.Time
}

func NewBatchReport(tool string) *BatchReport {
	return &BatchReport{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

func (r *BatchReport) Add(res FileResult) {
	r.Processed++
	switch res.Status {
	case StatusSucceeded:
		r.Succeeded++
		if res.Output != "" {
			r.Outputs = append(r.Outputs, res.Output)
		}
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

func (r *BatchReport) Finish() {
	r.EndTime = time.Now()
}

func (r *BatchReport) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}
	return r.EndTime.Sub(r.StartTime)
}

func (r *BatchReport) Print(log *logger.Logger) {
	log.Info("%s complete:", r.Tool)
	log.Info("- Files processed: %d", r.Processed)
	log.Info("- Succeeded: %d", r.Succeeded)
	if r.Skipped > 0 {
		log.Info("- Skipped: %d", r.Skipped)
	}
	if r.Failed > 0 {
		log.Warn("- Failed: %d", r.Failed)
	}
	log.Info("- Took: %s", r.Duration().Round(time.Millisecond))
	if log.IsVerbose() {
		for _, out := range r.Outputs {
			log.Info("  %s", out)
		}
	}
}
