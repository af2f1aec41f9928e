package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"rulings-crawler/internal/checksum"
	"rulings-crawler/internal/crawler"
)

// Report - итог запуска: заголовок режима и хиты в порядке обхода
type Report struct {
	Title string
	Hits  []crawler.Hit
	Sets  []crawler.SetStats
}

func New(title string) *Report {
	return &Report{Title: title}
}

// Add дописывает результат сета в конец, без сортировки и дедупликации
func (r *Report) Add(res *crawler.SetResult) {
	if res == nil {
		return
	}
	r.Hits = append(r.Hits, res.Hits...)
	r.Sets = append(r.Sets, res.Stats)
}

func (r *Report) CardIDs() []string {
	ids := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		ids = append(ids, h.CardID)
	}
	return ids
}

func (r *Report) Digest() string {
	return checksum.ReportHash(r.Title, r.CardIDs())
}

// MatchesDigest сравнивает отчёт с хешем прошлого запуска
func (r *Report) MatchesDigest(expected string) bool {
	return checksum.VerifyReportHash(expected, r.Title, r.CardIDs())
}

// Render пишет заголовок и строки "- {id}: {link}"
func (r *Report) Render(w io.Writer, colored bool) {
	title := color.New(color.Bold, color.FgCyan)
	id := color.New(color.FgYellow)
	if colored {
		title.EnableColor()
		id.EnableColor()
	} else {
		title.DisableColor()
		id.DisableColor()
	}

	fmt.Fprintln(w, title.Sprint(r.Title))
	for _, h := range r.Hits {
		fmt.Fprintf(w, "- %s: %s\n", id.Sprint(h.CardID), h.Link)
	}
}

func (r *Report) Text(colored bool) string {
	var b strings.Builder
	r.Render(&b, colored)
	return strings.TrimRight(b.String(), "\n")
}

// Summary - таблица по сетам
func (r *Report) Summary() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Set", "Cards", "Fetched", "Not found", "Skipped", "Hits"})

	var total crawler.SetStats
	for _, s := range r.Sets {
		name := s.SetID
		if !s.Known {
			name += " (unknown)"
		}
		t.AppendRow(table.Row{name, s.Cards, s.Fetched, s.NotFound, s.Skipped, s.Hits})

		total.Cards += s.Cards
		total.Fetched += s.Fetched
		total.NotFound += s.NotFound
		total.Skipped += s.Skipped
		total.Hits += s.Hits
	}
	t.AppendFooter(table.Row{"Total", total.Cards, total.Fetched, total.NotFound, total.Skipped, total.Hits})
	t.SetStyle(table.StyleLight)

	return t.Render()
}
