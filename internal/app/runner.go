package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"rulings-crawler/internal/classifier"
	"rulings-crawler/internal/crawler"
	"rulings-crawler/internal/observability"
	"rulings-crawler/internal/report"
	"rulings-crawler/internal/sets"
)

var (
	ErrNoInput        = errors.New("exactly one of a single set or all sets must be requested")
	ErrDigestMismatch = errors.New("report digest differs from the expected one")
)

// Request: либо один сет, либо все известные сеты
type Request struct {
	SetID string
	All   bool
}

func (r Request) Validate() error {
	if (r.SetID == "") == !r.All {
		return ErrNoInput
	}
	return nil
}

type SetCrawler interface {
	Crawl(ctx context.Context, setID string) (*crawler.SetResult, error)
}

type Runner struct {
	registry *sets.Registry
	crawler  SetCrawler
	mode     classifier.Mode
	logger   *observability.Logger
	colored  bool
	summary  io.Writer
}

// NewRunner: colored - цветной отчёт в stdout, summary - куда печатать таблицу по сетам (nil = не печатать)
func NewRunner(
	registry *sets.Registry,
	c SetCrawler,
	mode classifier.Mode,
	logger *observability.Logger,
	colored bool,
	summary io.Writer,
) *Runner {
	return &Runner{
		registry: registry,
		crawler:  c,
		mode:     mode,
		logger:   logger,
		colored:  colored,
		summary:  summary,
	}
}

// SetOrder возвращает сеты для запроса в порядке обхода
func (r *Runner) SetOrder(req Request) []string {
	if req.All {
		return r.registry.CrawlOrder()
	}
	return []string{req.SetID}
}

// Run обходит сеты и всегда выводит отчёт, даже частичный после ошибки
func (r *Runner) Run(ctx context.Context, req Request, params ...interface{}) (*report.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.logger.Debug("\n\n\n\n" + strings.Repeat("=", 60) + "\n")
	r.logger.Debug("Running rulings-crawler")
	r.logger.Debug("args", append([]interface{}{"set", req.SetID, "all", req.All, "mode", r.mode.Name()}, params...)...)

	if !r.mode.Implemented() {
		r.logger.Warn("Classification mode is not implemented, every card classifies false", "mode", r.mode.Name())
	}

	rep := report.New(r.mode.Title())

	var runErr error
	for _, setID := range r.SetOrder(req) {
		res, err := r.crawler.Crawl(ctx, setID)
		rep.Add(res)
		if err != nil {
			r.logger.Error("Crawl stopped", "set", setID, "error", err.Error())
			runErr = err
			break
		}
	}

	r.logger.Report(rep.Text(false), rep.Text(r.colored))
	r.logger.Info("Report digest", "hits", len(rep.Hits), "sha256", rep.Digest())

	if r.summary != nil {
		summary := rep.Summary()
		r.logger.Debug("Summary\n" + summary)
		if _, err := io.WriteString(r.summary, summary+"\n"); err != nil {
			r.logger.Warn("Failed to write summary", "error", err.Error())
		}
	}

	return rep, runErr
}

// CheckDigest сверяет отчёт с хешем прошлого запуска. Пустой expected не проверяется.
func (r *Runner) CheckDigest(rep *report.Report, expected string) error {
	if expected == "" || rep == nil {
		return nil
	}
	if !rep.MatchesDigest(expected) {
		r.logger.Warn("Report changed since the expected run", "expected", expected, "actual", rep.Digest())
		return fmt.Errorf("%w: expected %s, got %s", ErrDigestMismatch, expected, rep.Digest())
	}
	r.logger.Info("Report matches expected digest", "sha256", expected)
	return nil
}
