package crawler

import "context"

// PageSource отдаёт исходную разметку страницы правил карты
type PageSource interface {
	FetchRulings(ctx context.Context, cardID string) (string, error)
}

// Waiter - пауза между запросами
type Waiter interface {
	Wait(ctx context.Context) error
}
