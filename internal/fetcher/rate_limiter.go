package fetcher

import (
	"context"
	"time"
)

// Throttle - фиксированная пауза между запросами к вики.
// Один поток, поэтому без семафоров и счётчиков.
type Throttle struct {
	delay time.Duration
}

func NewThrottle(delay time.Duration) *Throttle {
	return &Throttle{delay: delay}
}

func (t *Throttle) Delay() time.Duration {
	return t.delay
}

// Wait спит delay или до отмены ctx. Нулевая задержка не ждёт.
func (t *Throttle) Wait(ctx context.Context) error {
	if t.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(t.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
