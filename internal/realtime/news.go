package realtime

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const NewsTool = "search_news"

type Headline struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}

// NewsClient calls a NewsAPI-compatible /v2/everything endpoint.
type NewsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewNewsClient(baseURL, apiKey string, httpClient *http.Client, limiter *rate.Limiter) *NewsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &NewsClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: httpClient,
		limiter:    limiter,
	}
}

func (c *NewsClient) Configured() bool { return c != nil && c.apiKey != "" && c.baseURL != "" }

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (c *NewsClient) Search(ctx context.Context, query string, limit int) ([]Headline, error) {
	if limit <= 0 {
		limit = 5
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Source: "newsapi", Err: err}
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(limit))

	var out newsAPIResponse
	header := http.Header{"X-Api-Key": []string{c.apiKey}}
	if err := getJSON(ctx, c.httpClient, "newsapi", c.baseURL+"/v2/everything?"+q.Encode(), header, &out); err != nil {
		return nil, err
	}
	if out.Status != "" && out.Status != "ok" {
		return nil, &FetchError{Source: "newsapi", Err: errors.New("status " + out.Status + ": " + out.Message)}
	}
	headlines := make([]Headline, 0, len(out.Articles))
	for _, a := range out.Articles {
		if strings.TrimSpace(a.Title) == "" {
			continue
		}
		headlines = append(headlines, Headline{
			Source:      a.Source.Name,
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
		if len(headlines) == limit {
			break
		}
	}
	return headlines, nil
}
