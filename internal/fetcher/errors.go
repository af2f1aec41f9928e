package fetcher

import (
	"errors"
	"fmt"
)

// ErrNotFound: страницы нет или на ней нет поля с разметкой
var ErrNotFound = errors.New("rulings page not found")

// TransportError - сеть или HTTP-статус, после исчерпания повторов
type TransportError struct {
	URL        string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed after %d attempts (status %d): %v", e.URL, e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
