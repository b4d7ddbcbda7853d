package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yungbote/flightsim-backend/internal/config"
	"github.com/yungbote/flightsim-backend/internal/observability"
	"github.com/yungbote/flightsim-backend/internal/platform/ctxutil"
	"github.com/yungbote/flightsim-backend/internal/platform/logger"
	"github.com/yungbote/flightsim-backend/internal/simulator/refdata"
	"github.com/yungbote/flightsim-backend/internal/simulator/scenario"
)

const maxHeadlines = 5

// call is one planned tool invocation.
type call struct {
	tool string
	args map[string]any
	run  func(ctx context.Context) (any, error)
}

type FetcherOptions struct {
	Timeout        time.Duration
	MaxConcurrency int
	CacheTTL       time.Duration
	NewsQuery      string
}

// Fetcher gathers real-time facts concurrently. Facts come back in plan order
// regardless of completion order, and failures become failed facts.
type Fetcher struct {
	catalog *refdata.Catalog
	weather *WeatherClient
	news    *NewsClient
	cache   Cache
	opts    FetcherOptions

	log     *logger.Logger
	metrics *observability.Metrics
}

func NewFetcher(catalog *refdata.Catalog, weather *WeatherClient, news *NewsClient, cache Cache, opts FetcherOptions, log *logger.Logger, metrics *observability.Metrics) *Fetcher {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.NewsQuery == "" {
		opts.NewsQuery = "pharmaceutical supply chain"
	}
	return &Fetcher{
		catalog: catalog,
		weather: weather,
		news:    news,
		cache:   cache,
		opts:    opts,
		log:     log.With("service", "RealtimeFetcher"),
		metrics: metrics,
	}
}

// NewFetcherFromConfig wires rate-limited clients that share one limiter.
func NewFetcherFromConfig(catalog *refdata.Catalog, cfg config.RealtimeConfig, cache Cache, log *logger.Logger, metrics *observability.Metrics) *Fetcher {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(limit, burst)
	hc := &http.Client{Timeout: cfg.Timeout.Duration}
	return NewFetcher(
		catalog,
		NewWeatherClient(cfg.WeatherBaseURL, hc, limiter),
		NewNewsClient(cfg.NewsBaseURL, cfg.NewsAPIKey, hc, limiter),
		cache,
		FetcherOptions{
			Timeout:        cfg.Timeout.Duration,
			MaxConcurrency: cfg.MaxConcurrency,
			CacheTTL:       cfg.CacheTTL.Duration,
			NewsQuery:      cfg.NewsQuery,
		},
		log,
		metrics,
	)
}

// Fetch never fails; a cancelled ctx yields failed facts.
func (f *Fetcher) Fetch(ctx context.Context) []scenario.RealTimeFact {
	calls := f.plan()
	facts := make([]scenario.RealTimeFact, len(calls))

	var g errgroup.Group
	g.SetLimit(f.opts.MaxConcurrency)
	for i, c := range calls {
		g.Go(func() error {
			facts[i] = f.execute(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, fact := range facts {
		if fact.Failed() {
			failed++
		}
	}
	f.log.Info("real-time facts fetched", append(ctxutil.LogFields(ctx), "facts", len(facts), "failed", failed)...)
	return facts
}

// plan lists weather for every airport touched by a reference flight, then one news search.
func (f *Fetcher) plan() []call {
	var calls []call
	if f.weather != nil {
		for _, code := range f.flightAirports() {
			airport, ok := f.catalog.Airport(code)
			if !ok {
				continue
			}
			calls = append(calls, call{
				tool: WeatherTool,
				args: map[string]any{"airport": airport.Code, "city": airport.City},
				run: func(ctx context.Context) (any, error) {
					return f.weather.Current(ctx, airport)
				},
			})
		}
	}
	if f.news.Configured() {
		query := f.opts.NewsQuery
		calls = append(calls, call{
			tool: NewsTool,
			args: map[string]any{"query": query},
			run: func(ctx context.Context) (any, error) {
				return f.news.Search(ctx, query, maxHeadlines)
			},
		})
	}
	return calls
}

func (f *Fetcher) flightAirports() []string {
	flights := f.catalog.Flights()
	ids := make([]string, 0, len(flights))
	for id := range flights {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	seen := map[string]bool{}
	var out []string
	for _, id := range ids {
		fl := flights[id]
		for _, code := range []string{fl.OriginAirport, fl.DestinationAirport} {
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

func (f *Fetcher) execute(ctx context.Context, c call) scenario.RealTimeFact {
	fact := scenario.RealTimeFact{SourceTool: c.tool, Arguments: c.args}
	key := cacheKey(c)

	if b, ok, err := f.cache.Get(ctx, key); err == nil && ok {
		f.metrics.ObserveCacheLookup(true)
		fact.Result = json.RawMessage(b)
		return fact
	} else if err != nil {
		f.log.Warn("real-time cache read failed", "key", key, "error", err)
	}
	f.metrics.ObserveCacheLookup(false)

	callCtx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	res, err := c.run(callCtx)
	if err == nil {
		var b []byte
		if b, err = json.Marshal(res); err == nil {
			fact.Result = b
			if f.opts.CacheTTL > 0 {
				if cerr := f.cache.Set(ctx, key, b, f.opts.CacheTTL); cerr != nil {
					f.log.Warn("real-time cache write failed", "key", key, "error", cerr)
				}
			}
		}
	}
	f.metrics.ObserveRealtimeFetch(c.tool, err == nil)
	if err != nil {
		fact.Error = err.Error()
		f.log.Warn("real-time fetch failed", append(ctxutil.LogFields(ctx), "tool", c.tool, "error", err)...)
	}
	return fact
}

func cacheKey(c call) string {
	b, _ := json.Marshal(c.args)
	return c.tool + ":" + string(b)
}
