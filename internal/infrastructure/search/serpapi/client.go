package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/resilience"
)

const defaultBaseURL = "https://serpapi.com/search.json"

type Options struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client runs Google searches through SerpAPI. Calls are rate limited
// client-side so one run cannot exhaust the account quota.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

func New(opts Options, executor *resilience.Executor) *Client {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		executor:   executor,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search returns organic results in rank order, at most limit of them.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if !c.Configured() {
		return nil, domain.WrapError(domain.ErrCollaboratorUnavailable, "serpapi search", errors.New("api key is not configured"))
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "serpapi search", errors.New("query is empty"))
	}
	if limit <= 0 {
		limit = 10
	}

	results, err := resilience.Do(ctx, c.executor, "serpapi.search", func(callCtx context.Context) ([]domain.SearchResult, error) {
		if err := c.limiter.Wait(callCtx); err != nil {
			return nil, err
		}
		return c.search(callCtx, query, limit)
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return nil, resilience.WrapTemporary("serpapi search", err)
	}
	return results, nil
}

func (c *Client) search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &resilience.HTTPStatusError{
			Service:    "serpapi",
			Operation:  "search",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var payload struct {
		Error          string `json:"error"`
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if payload.Error != "" && len(payload.OrganicResults) == 0 {
		// SerpAPI reports "no results" as an error string with status 200.
		if strings.Contains(strings.ToLower(payload.Error), "hasn't returned any results") {
			return []domain.SearchResult{}, nil
		}
		return nil, fmt.Errorf("serpapi search: %s", payload.Error)
	}

	results := make([]domain.SearchResult, 0, min(limit, len(payload.OrganicResults)))
	for _, item := range payload.OrganicResults {
		if strings.TrimSpace(item.Link) == "" {
			continue
		}
		results = append(results, domain.SearchResult{
			Title:   strings.TrimSpace(item.Title),
			Snippet: strings.TrimSpace(item.Snippet),
			URL:     strings.TrimSpace(item.Link),
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}
