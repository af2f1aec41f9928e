package crawler

import (
	"context"
	"errors"
	"fmt"

	"rulings-crawler/internal/classifier"
	"rulings-crawler/internal/fetcher"
	"rulings-crawler/internal/observability"
	"rulings-crawler/internal/sets"
	"rulings-crawler/internal/wikitext"
)

type SetCrawler struct {
	registry *sets.Registry
	source   PageSource
	waiter   Waiter
	mode     classifier.Mode
	linkURL  func(cardID string) string
	logger   *observability.Logger
}

func NewSetCrawler(
	registry *sets.Registry,
	source PageSource,
	waiter Waiter,
	mode classifier.Mode,
	linkURL func(cardID string) string,
	logger *observability.Logger,
) *SetCrawler {
	return &SetCrawler{
		registry: registry,
		source:   source,
		waiter:   waiter,
		mode:     mode,
		linkURL:  linkURL,
		logger:   logger,
	}
}

// Crawl проверяет все карты сета по порядку. Неизвестный сет даёт пустой результат без запросов.
// Ошибка возвращается только при отмене ctx; собранные хиты при этом сохраняются.
// Сбой загрузки или классификатора для одной карты = false, обход продолжается.
func (c *SetCrawler) Crawl(ctx context.Context, setID string) (*SetResult, error) {
	count, known := c.registry.Count(setID)
	result := &SetResult{
		Stats: SetStats{SetID: setID, Known: known, Cards: count},
	}

	if !known {
		c.logger.Warn("Unknown set, nothing to crawl", "set", setID)
	}

	for _, cardID := range c.registry.CardIDs(setID, count) {
		hit, err := c.testCard(ctx, cardID, &result.Stats)
		if err != nil {
			return result, err
		}
		if hit {
			result.Hits = append(result.Hits, Hit{CardID: cardID, Link: c.linkURL(cardID)})
			result.Stats.Hits++
		}

		if err := c.waiter.Wait(ctx); err != nil {
			return result, err
		}
	}

	c.logger.Info(fmt.Sprintf("Found %d hits in %s", len(result.Hits), setID),
		"cards", result.Stats.Cards,
		"not_found", result.Stats.NotFound,
		"skipped", result.Stats.Skipped,
	)

	return result, nil
}

func (c *SetCrawler) testCard(ctx context.Context, cardID string, stats *SetStats) (bool, error) {
	raw, err := c.source.FetchRulings(ctx, cardID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}

		var te *fetcher.TransportError
		switch {
		case errors.Is(err, fetcher.ErrNotFound):
			c.logger.Debug(fmt.Sprintf("No rulings for %s", cardID))
			stats.NotFound++
		case errors.As(err, &te):
			c.logger.Warn("Fetch failed, card skipped",
				"card", cardID,
				"attempts", te.Attempts,
				"error", err.Error(),
			)
			stats.Skipped++
		default:
			c.logger.Warn("Card skipped", "card", cardID, "error", err.Error())
			stats.Skipped++
		}
		return false, nil
	}
	stats.Fetched++

	doc := wikitext.Parse(raw)
	hit, err := c.mode.Classify(doc)
	if err != nil {
		c.logger.Warn("Classification failed, card skipped",
			"card", cardID,
			"mode", c.mode.Name(),
			"error", err.Error(),
		)
		stats.Skipped++
		return false, nil
	}

	c.logger.Debug("Card classified",
		"card", cardID,
		"lists", len(doc.Lists()),
		"hit", hit,
	)

	return hit, nil
}
