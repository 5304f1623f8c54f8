package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestFetchOddsSendsProviderParams(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("x-requests-remaining", "482")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewOddsAPIClient(OddsAPIConfig{BaseURL: server.URL, APIKey: "secret-key"})
	result, err := client.FetchOdds(context.Background())
	if err != nil {
		t.Fatalf("FetchOdds: %v", err)
	}

	if gotPath != "/v4/sports/americanfootball_nfl/odds" {
		t.Fatalf("path: got=%s", gotPath)
	}
	if gotQuery.Get("apiKey") != "secret-key" {
		t.Fatal("apiKey missing from the request")
	}
	if gotQuery.Get("regions") != "us" || gotQuery.Get("oddsFormat") != "american" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
	if gotQuery.Get("markets") != "h2h,spreads,totals" {
		t.Fatalf("markets: got=%s", gotQuery.Get("markets"))
	}

	// The recorded params must never include the key.
	if _, leaked := result.Params["apiKey"]; leaked {
		t.Fatal("apiKey leaked into the audit params")
	}
	if result.QuotaRemaining != 482 {
		t.Fatalf("quota: got=%d want=482", result.QuotaRemaining)
	}
}

func TestFetchOddsDecodesGames(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	client := NewOddsAPIClient(OddsAPIConfig{BaseURL: server.URL, APIKey: "k"})
	result, err := client.FetchOdds(context.Background())
	if err != nil {
		t.Fatalf("FetchOdds: %v", err)
	}

	if len(result.Games) != 3 {
		t.Fatalf("games: got=%d want=3", len(result.Games))
	}
	if result.Games[0].HomeTeam != "Dallas Cowboys" {
		t.Fatalf("home team: got=%s", result.Games[0].HomeTeam)
	}
	if len(result.Raw) == 0 {
		t.Fatal("raw payload not captured")
	}
	// Header absent means quota unknown.
	if result.QuotaRemaining != -1 {
		t.Fatalf("quota without header: got=%d want=-1", result.QuotaRemaining)
	}
}

func TestFetchScoresClampsLookback(t *testing.T) {
	t.Parallel()

	var gotDays []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDays = append(gotDays, r.URL.Query().Get("daysFrom"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewOddsAPIClient(OddsAPIConfig{BaseURL: server.URL, APIKey: "k"})
	ctx := context.Background()

	for _, days := range []int{0, 2, 9} {
		if _, err := client.FetchScores(ctx, days); err != nil {
			t.Fatalf("FetchScores(%d): %v", days, err)
		}
	}

	want := []string{"1", "2", "3"}
	for i, w := range want {
		if gotDays[i] != w {
			t.Fatalf("daysFrom[%d]: got=%s want=%s", i, gotDays[i], w)
		}
	}
}

func TestFetchOddsSurfacesProviderErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer server.Close()

	client := NewOddsAPIClient(OddsAPIConfig{BaseURL: server.URL, APIKey: "bad"})
	if _, err := client.FetchOdds(context.Background()); err == nil {
		t.Fatal("expected an error on a 401 response")
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"key":"americanfootball_nfl"}]`))
	}))
	defer healthy.Close()

	client := NewOddsAPIClient(OddsAPIConfig{BaseURL: healthy.URL, APIKey: "k"})
	if !client.HealthCheck(context.Background()) {
		t.Fatal("expected a healthy provider")
	}

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	client = NewOddsAPIClient(OddsAPIConfig{BaseURL: broken.URL, APIKey: "k"})
	if client.HealthCheck(context.Background()) {
		t.Fatal("expected an unhealthy provider")
	}
}

func TestParseQuotaHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  int
	}{
		{"", -1},
		{"not-a-number", -1},
		{"42", 42},
		{"17.0", 17},
	}
	for _, tt := range tests {
		if got := parseQuotaHeader(tt.value); got != tt.want {
			t.Fatalf("parseQuotaHeader(%q): got=%d want=%d", tt.value, got, tt.want)
		}
	}
}
