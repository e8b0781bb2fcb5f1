// Package espn reads EPL fixtures, the season calendar and lineups from the
// ESPN site API.
package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultBaseURL  = "https://site.api.espn.com/apis/site/v2/sports/soccer/eng.1"
	defaultTimeout  = 15 * time.Second
	maxBodyBytes    = 8 << 20
	queryDateLayout = "20060102"
)

var errTransient = crerr.New("espn transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       singleflight.Group
}

var _ usecase.ExternalDataProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("espn")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("espn circuit breaker state changed", "from", string(from), "to", string(to))
	})

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      breaker,
	}
}

// FetchSeasonCalendar returns the match dates of the current season, in the
// order the provider lists them, as UTC midnights.
func (c *Client) FetchSeasonCalendar(ctx context.Context) ([]time.Time, error) {
	var payload scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard", nil, &payload); err != nil {
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	if len(payload.Leagues) == 0 {
		return nil, fmt.Errorf("fetch calendar: scoreboard has no league")
	}
	return parseCalendar(payload.Leagues[0].Calendar), nil
}

func (c *Client) FetchEventsByDate(ctx context.Context, date time.Time) ([]usecase.ExternalEvent, error) {
	key := date.UTC().Format(queryDateLayout)
	var payload scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard", url.Values{"dates": {key}}, &payload); err != nil {
		return nil, fmt.Errorf("fetch scoreboard date=%s: %w", key, err)
	}
	return mapEvents(payload.Events), nil
}

// FetchEventsByRange queries both dates inclusive in a single call.
func (c *Client) FetchEventsByRange(ctx context.Context, from, to time.Time) ([]usecase.ExternalEvent, error) {
	if to.Before(from) {
		from, to = to, from
	}
	key := from.UTC().Format(queryDateLayout) + "-" + to.UTC().Format(queryDateLayout)
	var payload scoreboardEnvelope
	if err := c.doJSON(ctx, "/scoreboard", url.Values{"dates": {key}}, &payload); err != nil {
		return nil, fmt.Errorf("fetch scoreboard range=%s: %w", key, err)
	}
	return mapEvents(payload.Events), nil
}

func (c *Client) FetchEventSummary(ctx context.Context, eventID string) (usecase.ExternalEventSummary, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return usecase.ExternalEventSummary{}, fmt.Errorf("%w: event id is required", usecase.ErrInvalidInput)
	}
	var payload summaryEnvelope
	if err := c.doJSON(ctx, "/summary", url.Values{"event": {eventID}}, &payload); err != nil {
		return usecase.ExternalEventSummary{}, fmt.Errorf("fetch summary event=%s: %w", eventID, err)
	}
	return mapSummary(payload), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values, target any) error {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		var raw []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(ctx, fullURL)
			return reqErr
		}, isTransient)
		return raw, execErr
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "state", string(c.breaker.State()))
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Mark(fmt.Errorf("send request: %w", err), errTransient)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(fmt.Errorf("read response body: %w", readErr), errTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Mark(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)), errTransient)
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries || ctx.Err() != nil {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "espn request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
