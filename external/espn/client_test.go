package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/eleven-fantasy/internal/platform/logging"
	"github.com/riskibarqy/eleven-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/eleven-fantasy/internal/usecase"
)

const scoreboardFixture = `{
  "leagues": [{"calendar": ["2025-08-15T07:00Z", {"label": "MW2", "startDate": "2025-08-22T07:00Z"}, "bogus"]}],
  "events": [
    {
      "id": "740600",
      "date": "2025-08-15T19:00Z",
      "competitions": [{
        "venue": {"fullName": "Anfield"},
        "status": {"type": {"description": "Full Time", "shortDetail": "FT"}},
        "competitors": [
          {"homeAway": "away", "score": 2, "team": {"id": 349, "displayName": "AFC Bournemouth", "logos": [{"href": "https://a.espncdn.com/349.png"}]}},
          {"homeAway": "home", "score": "4", "team": {"id": "364", "displayName": "Liverpool", "logo": "https://a.espncdn.com/364.png"}}
        ]
      }]
    },
    {"id": "", "date": "2025-08-16T14:00Z"},
    {"id": "740601", "date": "not-a-date"}
  ]
}`

const summaryFixture = `{
  "header": {"competitions": [{"competitors": [
    {"homeAway": "home", "team": {"id": "364"}},
    {"homeAway": "away", "team": {"id": "349"}}
  ]}]},
  "rosters": [
    {
      "homeAway": "home",
      "formation": "4-2-3-1",
      "team": {"id": "364", "displayName": "Liverpool"},
      "roster": [
        {"starter": true, "jersey": "1", "formationPlace": "1", "athlete": {"id": "1001", "displayName": "Alisson", "position": {"abbreviation": "G", "name": "Goalkeeper"}, "headshot": {"href": "https://img/1001.png"}}},
        {"starter": false, "jersey": 14, "subbedIn": true, "athlete": {"id": 1002, "fullName": "Federico Chiesa", "position": {"name": "Forward"}}}
      ]
    },
    {"homeAway": "away", "team": {"id": "349"}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	})
}

func TestClient_FetchSeasonCalendar(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scoreboard" || r.URL.RawQuery != "" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(scoreboardFixture))
	})

	dates, err := client.FetchSeasonCalendar(context.Background())
	if err != nil {
		t.Fatalf("fetch calendar: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %v", dates)
	}
	if dates[0].Format("2006-01-02") != "2025-08-15" || dates[1].Format("2006-01-02") != "2025-08-22" {
		t.Fatalf("unexpected dates: %v", dates)
	}
}

func TestClient_FetchEventsByDateMapsCompetitors(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("dates")
		_, _ = w.Write([]byte(scoreboardFixture))
	})

	events, err := client.FetchEventsByDate(context.Background(), time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch events: %v", err)
	}
	if gotQuery != "20250815" {
		t.Fatalf("unexpected dates param %q", gotQuery)
	}
	if len(events) != 1 {
		t.Fatalf("expected malformed events to be dropped, got %d", len(events))
	}

	ev := events[0]
	if ev.ID != "740600" || !ev.Date.Equal(time.Date(2025, 8, 15, 19, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Home == nil || ev.Home.TeamID != "364" || ev.Home.Score != "4" || ev.Home.Name != "Liverpool" {
		t.Fatalf("unexpected home: %+v", ev.Home)
	}
	if ev.Away == nil || ev.Away.TeamID != "349" || ev.Away.Score != "2" || ev.Away.Logo != "https://a.espncdn.com/349.png" {
		t.Fatalf("unexpected away: %+v", ev.Away)
	}
	if ev.Venue == nil || *ev.Venue != "Anfield" || ev.StatusDescription != "Full Time" || ev.StatusDetail != "FT" {
		t.Fatalf("unexpected venue/status: %+v", ev)
	}
}

func TestClient_FetchEventsByRangeQuery(t *testing.T) {
	t.Parallel()

	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("dates")
		_, _ = w.Write([]byte(`{"events": []}`))
	})

	from := time.Date(2025, 8, 18, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC)
	events, err := client.FetchEventsByRange(context.Background(), from, to)
	if err != nil {
		t.Fatalf("fetch range: %v", err)
	}
	if len(events) != 0 || gotQuery != "20250818-20250821" {
		t.Fatalf("unexpected result events=%d query=%q", len(events), gotQuery)
	}
}

func TestClient_FetchEventSummary(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/summary" || r.URL.Query().Get("event") != "740600" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_, _ = w.Write([]byte(summaryFixture))
	})

	summary, err := client.FetchEventSummary(context.Background(), "740600")
	if err != nil {
		t.Fatalf("fetch summary: %v", err)
	}
	if summary.HomeTeamID != "364" || summary.AwayTeamID != "349" || len(summary.Rosters) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	home := summary.Rosters[0]
	if !home.HasRoster || len(home.Entries) != 2 || home.Formation != "4-2-3-1" {
		t.Fatalf("unexpected home roster: %+v", home)
	}
	if home.Entries[1].AthleteID != "1002" || home.Entries[1].Jersey != "14" || !home.Entries[1].SubbedIn {
		t.Fatalf("numeric fields not tolerated: %+v", home.Entries[1])
	}
	if summary.Rosters[1].HasRoster {
		t.Fatalf("away roster without list must report HasRoster=false")
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"events": []}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient:   server.Client(),
		BaseURL:      server.URL,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
		Logger:       logging.NewNop(),
	})
	if _, err := client.FetchEventsByDate(context.Background(), time.Now()); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestClient_NotFoundIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		MaxRetries: 3,
		Logger:     logging.NewNop(),
	})
	_, err := client.FetchEventSummary(context.Background(), "1")
	if err == nil || isTransient(err) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClient_CircuitOpensAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
		},
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchSeasonCalendar(context.Background()); err == nil {
			t.Fatalf("expected failure %d", i)
		}
	}
	_, err := client.FetchSeasonCalendar(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit must not reach the server, calls=%d", calls.Load())
	}
}

func TestClient_FetchEventSummaryRequiresID(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.FetchEventSummary(context.Background(), " "); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
