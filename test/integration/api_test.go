package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/boxpack/internal/api"
	"github.com/eugenenazirov/boxpack/internal/packer"
	"github.com/eugenenazirov/boxpack/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	solver := packer.New()
	handler := api.NewHandler(solver, store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	updatePayload := map[string]any{
		"box": map[string]int{"width": 100, "height": 100, "weight": 10},
		"items": []map[string]int{
			{"width": 100, "height": 50, "weight": 3},
			{"width": 50, "height": 50, "weight": 1},
			{"width": 50, "height": 50, "weight": 2},
		},
	}
	payload, _ := json.Marshal(updatePayload)
	rec = performRequest(t, handler, http.MethodPut, "/api/scenario", payload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from scenario update, got %d", rec.Code)
	}

	rec = performRequest(t, handler, http.MethodPost, "/api/pack", []byte(`{}`), jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from pack, got %d", rec.Code)
	}

	var response struct {
		Succeeded        bool    `json:"succeeded"`
		Fitness          float64 `json:"fitness"`
		TotalWeight      int     `json:"totalWeight"`
		HasIntersections bool    `json:"hasIntersections"`
		Placements       []struct {
			X int `json:"x"`
			Y int `json:"y"`
		} `json:"placements"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !response.Succeeded || response.Fitness != 1 || response.TotalWeight != 6 || response.HasIntersections {
		t.Fatalf("unexpected pack response %+v", response)
	}
	if p := response.Placements[2]; p.X != 50 || p.Y != 50 {
		t.Fatalf("expected last square at (50,50), got (%d,%d)", p.X, p.Y)
	}

	// Reversed order strands the wide item: the greedy scan never revisits
	// the squares it already stacked in the first column.
	reversed := map[string]any{"items": []map[string]int{
		{"width": 50, "height": 50, "weight": 1},
		{"width": 50, "height": 50, "weight": 2},
		{"width": 100, "height": 50, "weight": 3},
	}}
	payload, _ = json.Marshal(reversed)
	rec = performRequest(t, handler, http.MethodPost, "/api/pack", payload, jsonHeaders)
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Succeeded || response.Fitness != 0 || response.TotalWeight != 0 || len(response.Placements) != 0 {
		t.Fatalf("expected all-or-nothing failure, got %+v", response)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/render.png", nil, nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected png rendering, got %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
}
