package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zen-systems/tripgate/pkg/adapter"
	"github.com/zen-systems/tripgate/pkg/observability"
	"github.com/zen-systems/tripgate/pkg/planner"
	"github.com/zen-systems/tripgate/pkg/prompt"
)

const request = "I am planning a round trip from New York to Paris from December 15 to December 25, 2024. " +
	"There will be two adults and 1 kid. We will travel by flight and stay in hotel. Our budget is $5000"

func fixedClock() time.Time {
	return time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
}

func newTestServer(t *testing.T, mock *adapter.MockAdapter) *httptest.Server {
	t.Helper()
	p := planner.New(mock, planner.WithClock(fixedClock))
	s := New(p, Options{Registry: observability.InitRegistry(), Now: fixedClock, Timeout: 5 * time.Second})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, adapter.NewMockAdapter())
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestExtractEndpoint(t *testing.T) {
	srv := newTestServer(t, adapter.NewMockAdapter())
	resp, data := post(t, srv, "/v1/extract", jsonBody(t, map[string]string{"text": request}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["Destination"] != "Paris" || got["Start Date"] != "2024-12-15" || got["Budget Range"] != "$5000" {
		t.Fatalf("unexpected mapping: %v", got)
	}

	resp, data = post(t, srv, "/v1/extract", jsonBody(t, map[string]string{"text": request, "strategy": "keyword"}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("keyword status = %d: %s", resp.StatusCode, data)
	}
	resp, _ = post(t, srv, "/v1/extract", jsonBody(t, map[string]string{"text": request, "strategy": "psychic"}))
	if resp.StatusCode != http.StatusBadRequest || resp.Header.Get("Content-Type") != "application/problem+json" {
		t.Fatalf("expected a 400 problem, got %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestPromptEndpoint(t *testing.T) {
	srv := newTestServer(t, adapter.NewMockAdapter())

	resp, data := post(t, srv, "/v1/prompt", jsonBody(t, map[string]any{"text": request, "plain": true}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var got promptResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got.Prompt, "Generate a detailed itinerary") || strings.Contains(got.Prompt, "CRITICAL JSON") {
		t.Fatalf("unexpected plain prompt: %q", got.Prompt)
	}
	if got.Details == nil || got.Details.Destination != "Paris" {
		t.Fatalf("unexpected details: %+v", got.Details)
	}
}

func TestPromptEndpointValidation(t *testing.T) {
	srv := newTestServer(t, adapter.NewMockAdapter())
	details := map[string]any{"Destination": "Paris", "Start Date": "2024-07-01", "Budget Range": "$900", "Number of Travelers": map[string]int{"Adults": 0}}

	resp, data := post(t, srv, "/v1/prompt", jsonBody(t, map[string]any{"details": details}))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var p problem
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Kind != string(prompt.NoTravelers) || !prompt.IsMarked(p.Detail) {
		t.Fatalf("unexpected problem: %+v", p)
	}
}

func TestPlanEndpoint(t *testing.T) {
	srv := newTestServer(t, adapter.NewMockAdapter())
	resp, data := post(t, srv, "/v1/plan", jsonBody(t, map[string]string{"text": request}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var got struct {
		Details   map[string]any `json:"details"`
		Prompt    string         `json:"prompt"`
		Reply     map[string]any `json:"reply"`
		Itinerary map[string]any `json:"itinerary"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Details["Destination"] != "Paris" || got.Reply["adapter"] != "mock" {
		t.Fatalf("unexpected plan: %s", data)
	}
	if got.Itinerary["source"] != "structured" {
		t.Fatalf("expected a structured itinerary, got %v", got.Itinerary["source"])
	}

	resp, _ = post(t, srv, "/v1/plan", `{"text": "  "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", resp.StatusCode)
	}
	resp, _ = post(t, srv, "/v1/plan", jsonBody(t, map[string]string{"text": "help me"}))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unplannable text, got %d", resp.StatusCode)
	}
}

func TestPlanEndpointGenerationFailure(t *testing.T) {
	mock := adapter.NewMockAdapter()
	mock.Err = &adapter.AdapterError{Provider: "mock", Status: 503, Err: errors.New("provider down")}
	srv := newTestServer(t, mock)

	resp, data := post(t, srv, "/v1/plan", jsonBody(t, map[string]string{"text": request}))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var got struct {
		Detail    string `json:"detail"`
		Provider  string `json:"provider"`
		Reason    string `json:"reason"`
		Transient *bool  `json:"transient"`
		Details   struct {
			Destination string `json:"Destination"`
		} `json:"details"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if !strings.Contains(got.Detail, "provider down") || got.Provider != "mock" || got.Reason != "unavailable" {
		t.Fatalf("unexpected problem: %s", data)
	}
	if got.Transient == nil || !*got.Transient {
		t.Fatalf("expected a transient failure: %s", data)
	}
	if got.Details.Destination != "Paris" {
		t.Fatalf("expected the extracted details in the problem: %s", data)
	}
}

func TestPlanEndpointPermanentFailure(t *testing.T) {
	mock := adapter.NewMockAdapter()
	mock.Err = &adapter.AdapterError{Provider: "mock", Status: 401, Err: errors.New("bad key")}
	srv := newTestServer(t, mock)

	resp, data := post(t, srv, "/v1/plan", jsonBody(t, map[string]string{"text": request}))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	if !strings.Contains(string(data), `"reason":"auth"`) || !strings.Contains(string(data), `"transient":false`) {
		t.Fatalf("unexpected problem: %s", data)
	}
}

func TestParseEndpoint(t *testing.T) {
	srv := newTestServer(t, adapter.NewMockAdapter())
	reply := "Day 1: Arrival\nMorning: Walk the old town\nDay 2: Museums\nAfternoon: Visit the Louvre"
	resp, data := post(t, srv, "/v1/itinerary/parse", jsonBody(t, map[string]string{"text": reply}))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var got struct {
		Days []struct {
			Title string `json:"title"`
		} `json:"days"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Days) != 2 || got.Days[0].Title != "Arrival" || got.Source != "heuristic" {
		t.Fatalf("unexpected itinerary: %s", data)
	}

	resp, _ = post(t, srv, "/v1/itinerary/parse", `not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad body, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, adapter.NewMockAdapter())
	post(t, srv, "/v1/itinerary/parse", `{"text": "Day 1: Arrive"}`)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `tripgate_http_requests_total{method="POST",route="/v1/itinerary/parse",status="200"}`) {
		t.Fatalf("expected the parse request in metrics:\n%s", body)
	}
}
