package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"rulings-crawler/internal/config"
	"rulings-crawler/internal/observability"
)

const editPage = `<!DOCTYPE html>
<html><body>
<form id="editform">
<textarea id="wpTextbox1" name="wpTextbox1">* Q: Does it trigger? A: Yes. &lt;ref&gt;Official FAQ&lt;/ref&gt;
* Q: Twice? A: No.
</textarea>
</form>
</body></html>`

func testConfig(serverURL string) *config.Config {
	cfg := config.Default()
	cfg.Wiki.EditURLTemplate = serverURL + "/wiki/Card_Rulings:{id}?action=edit"
	cfg.HTTP.MaxRetries = 2
	cfg.Backoff.MinMS = 1
	cfg.Backoff.MaxMS = 2
	return cfg
}

func TestBackoffCalculation(t *testing.T) {
	cfg := config.Default()
	cfg.Backoff = config.BackoffConfig{
		MinMS:     250,
		MaxMS:     2000,
		JitterPct: 20,
	}

	fetcher := NewFetcher(cfg, observability.NewNop())

	for attempt := 1; attempt <= 8; attempt++ {
		backoff := fetcher.calculateBackoff(attempt)
		if backoff < cfg.GetBackoffMin() || backoff > cfg.GetBackoffMax()*2 {
			t.Errorf("Backoff out of expected range: %v", backoff)
		}
	}
}

func TestFetchRulingsExtractsTextbox(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotUA = r.URL.Path, r.URL.RawQuery, r.UserAgent()
		fmt.Fprint(w, editPage)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), observability.NewNop())

	text, err := f.FetchRulings(context.Background(), "BT1-001")
	if err != nil {
		t.Fatalf("FetchRulings() error = %v", err)
	}

	if gotPath != "/wiki/Card_Rulings:BT1-001" || gotQuery != "action=edit" {
		t.Errorf("requested %s?%s", gotPath, gotQuery)
	}
	if gotUA == "" {
		t.Error("User-Agent not set")
	}
	if !strings.HasPrefix(text, "* Q: Does it trigger?") {
		t.Errorf("unexpected text: %q", text)
	}
	if !strings.Contains(text, "<ref>Official FAQ</ref>") {
		t.Errorf("entities should be decoded: %q", text)
	}
}

func TestFetchRulingsNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status 404", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, editPage)
		}},
		{"no textbox", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><body><p>Nothing here</p></body></html>")
		}},
		{"empty textbox", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><body><textarea id="wpTextbox1">  </textarea></body></html>`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			f := NewFetcher(testConfig(srv.URL), observability.NewNop())
			_, err := f.FetchRulings(context.Background(), "ST1-01")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("FetchRulings() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, editPage)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), observability.NewNop())

	if _, err := f.FetchRulings(context.Background(), "BT1-002"); err != nil {
		t.Fatalf("FetchRulings() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFetchTransportErrorAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), observability.NewNop())

	_, err := f.FetchRulings(context.Background(), "BT1-003")

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("FetchRulings() error = %v, want *TransportError", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("transport error must not look like ErrNotFound")
	}
	if te.Attempts != 3 || te.StatusCode != http.StatusTooManyRequests {
		t.Errorf("TransportError = %+v", te)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestFetchUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL), observability.NewNop())

	_, err := f.FetchRulings(context.Background(), "BT1-004")
	var te *TransportError
	if !errors.As(err, &te) || te.StatusCode != http.StatusForbidden {
		t.Errorf("FetchRulings() error = %v, want 403 TransportError", err)
	}
}

func TestFetchNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewFetcher(testConfig(url), observability.NewNop())

	_, err := f.FetchRulings(context.Background(), "BT1-005")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("FetchRulings() error = %v, want *TransportError", err)
	}
	if te.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", te.StatusCode)
	}
}

func TestThrottle(t *testing.T) {
	th := NewThrottle(20 * time.Millisecond)

	start := time.Now()
	if err := th.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Wait() returned after %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewThrottle(time.Hour).Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() on cancelled ctx = %v", err)
	}

	if err := NewThrottle(0).Wait(context.Background()); err != nil {
		t.Errorf("zero delay Wait() = %v", err)
	}
}
