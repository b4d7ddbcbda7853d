package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
)

type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string][]byte{}
	}
	c.m[key] = val
	return nil
}

func latitude(t *testing.T, catalog *refdata.Catalog, code string) string {
	t.Helper()
	a, ok := catalog.Airport(code)
	if !ok {
		t.Fatalf("airport %s missing", code)
	}
	return strconv.FormatFloat(a.Latitude, 'f', 4, 64)
}

// upstream serves both APIs; LAX weather fails and the first airports answer slowest.
func upstream(t *testing.T, catalog *refdata.Catalog, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	lax := latitude(t, catalog, "LAX")
	dfw := latitude(t, catalog, "DFW")
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		lat := r.URL.Query().Get("latitude")
		switch lat {
		case lax:
			http.Error(w, "boom", http.StatusBadGateway)
			return
		case dfw:
			time.Sleep(30 * time.Millisecond)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"time":"2024-03-15T16:00","temperature_2m":-3.5,"wind_speed_10m":41.0,"precipitation":1.2,"weather_code":75}}`))
	})
	mux.HandleFunc("/v2/everything", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("X-Api-Key") != "news-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"articles": []map[string]any{
				{"source": map[string]any{"name": "Wire"}, "title": "Cold-chain capacity tightens", "url": "https://example.com/a", "publishedAt": "2024-03-15T10:00:00Z"},
				{"source": map[string]any{"name": "Wire"}, "title": " ", "url": "https://example.com/b"},
			},
		})
	})
	return httptest.NewServer(mux)
}

func newTestFetcher(srv *httptest.Server, catalog *refdata.Catalog, cache Cache) *Fetcher {
	return NewFetcher(
		catalog,
		NewWeatherClient(srv.URL, srv.Client(), nil),
		NewNewsClient(srv.URL, "news-key", srv.Client(), nil),
		cache,
		FetcherOptions{Timeout: 2 * time.Second, MaxConcurrency: 3, CacheTTL: time.Minute},
		nil,
		nil,
	)
}

func TestFetchKeepsPlanOrderAndCapturesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	catalog := refdata.MustLoad()
	var hits atomic.Int32
	srv := upstream(t, catalog, &hits)
	defer srv.Close()

	facts := newTestFetcher(srv, catalog, nil).Fetch(context.Background())

	wantAirports := []string{"LAX", "DFW", "ORD", "BOS", "MEM"}
	if len(facts) != len(wantAirports)+1 {
		t.Fatalf("facts = %d", len(facts))
	}
	for i, code := range wantAirports {
		if facts[i].SourceTool != WeatherTool || facts[i].Arguments["airport"] != code {
			t.Fatalf("fact %d = %s %v, want weather for %s", i, facts[i].SourceTool, facts[i].Arguments, code)
		}
	}
	if !facts[0].Failed() {
		t.Fatalf("LAX weather should fail: %+v", facts[0])
	}
	var report WeatherReport
	if err := json.Unmarshal(facts[1].Result, &report); err != nil {
		t.Fatalf("decode weather: %v", err)
	}
	if report.Conditions != "snow" || report.City == "" {
		t.Fatalf("report = %+v", report)
	}

	news := facts[len(facts)-1]
	var headlines []Headline
	if news.SourceTool != NewsTool || json.Unmarshal(news.Result, &headlines) != nil || len(headlines) != 1 {
		t.Fatalf("news fact = %+v", news)
	}
}

func TestFetchUsesCache(t *testing.T) {
	defer goleak.VerifyNone(t)
	catalog := refdata.MustLoad()
	var hits atomic.Int32
	srv := upstream(t, catalog, &hits)
	defer srv.Close()

	f := newTestFetcher(srv, catalog, &memCache{})
	f.Fetch(context.Background())
	first := hits.Load()
	facts := f.Fetch(context.Background())

	// only the failed LAX call goes upstream again
	if got := hits.Load() - first; got != 1 {
		t.Fatalf("second fetch hit upstream %d times", got)
	}
	if facts[2].Failed() || len(facts[2].Result) == 0 {
		t.Fatalf("cached fact = %+v", facts[2])
	}
}

func TestFetchCancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	catalog := refdata.MustLoad()
	var hits atomic.Int32
	srv := upstream(t, catalog, &hits)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	facts := newTestFetcher(srv, catalog, nil).Fetch(ctx)
	for _, f := range facts {
		if !f.Failed() {
			t.Fatalf("fact should fail on cancelled ctx: %+v", f)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("no upstream calls expected, got %d", hits.Load())
	}
}

func TestNewsSkippedWithoutKey(t *testing.T) {
	catalog := refdata.MustLoad()
	f := NewFetcher(catalog, nil, NewNewsClient("https://newsapi.org", "", nil, nil), nil, FetcherOptions{}, nil, nil)
	if calls := f.plan(); len(calls) != 0 {
		t.Fatalf("plan = %d calls", len(calls))
	}
}

func TestDescribeWeatherCode(t *testing.T) {
	cases := map[int]string{0: "clear sky", 2: "partly cloudy", 45: "fog", 66: "freezing rain", 63: "rain", 81: "rain", 73: "snow", 86: "snow", 95: "thunderstorm", 30: "unknown"}
	for code, want := range cases {
		if got := describeWeatherCode(code); got != want {
			t.Fatalf("describeWeatherCode(%d) = %q, want %q", code, got, want)
		}
	}
}
