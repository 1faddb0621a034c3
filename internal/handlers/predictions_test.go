package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bracketlab/predict-api/internal/artifact"
	"github.com/bracketlab/predict-api/internal/models"
)

func testRouter(t *testing.T, rdb *redis.Client) http.Handler {
	t.Helper()
	store, err := artifact.Open(filepath.Join(t.TempDir(), "test.db"), zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	err = store.SavePredictions(context.Background(), "MPredictions", []models.Prediction{
		{Season: 2019, TeamID: 1101, OtherTeamID: 1205, Pred: 0.73},
	})
	if err != nil {
		t.Fatalf("seed predictions: %v", err)
	}

	return Router(Config{
		Store:          store,
		Redis:          rdb,
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"*"},
	})
}

func getJSON(t *testing.T, h http.Handler, url string, wantStatus int) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("GET %s = %d, want %d (body %s)", url, rec.Code, wantStatus, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return body
}

func TestGetPrediction(t *testing.T) {
	h := testRouter(t, nil)

	body := getJSON(t, h, "/api/v1/predictions/2019/1101/1205", http.StatusOK)
	if body["pred"] != 0.73 {
		t.Errorf("pred = %v, want 0.73", body["pred"])
	}
	if body["id"] != "2019_1101_1205" {
		t.Errorf("id = %v", body["id"])
	}
}

func TestGetPredictionReversed(t *testing.T) {
	h := testRouter(t, nil)

	// Asking for the higher id first returns the complement of the stored
	// lower-id-first probability.
	body := getJSON(t, h, "/api/v1/predictions/2019/1205/1101", http.StatusOK)
	pred, ok := body["pred"].(float64)
	if !ok || math.Abs(pred-0.27) > 1e-9 {
		t.Errorf("pred = %v, want 0.27", body["pred"])
	}
	if body["team_a"] != float64(1205) {
		t.Errorf("team_a = %v, want 1205", body["team_a"])
	}
}

func TestGetPredictionErrors(t *testing.T) {
	h := testRouter(t, nil)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"unknown pairing", "/api/v1/predictions/2019/1101/1999", http.StatusNotFound},
		{"non-numeric team", "/api/v1/predictions/2019/1101/abc", http.StatusBadRequest},
		{"same team twice", "/api/v1/predictions/2019/1101/1101", http.StatusBadRequest},
		{"bad division", "/api/v1/predictions/2019/1101/1205?division=X", http.StatusBadRequest},
		{"empty division table", "/api/v1/predictions/2019/1101/1205?division=W", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getJSON(t, h, tt.url, tt.want)
		})
	}
}

func TestGetPredictionCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := testRouter(t, rdb)

	getJSON(t, h, "/api/v1/predictions/2019/1101/1205", http.StatusOK)

	key := "pred:M:2019_1101_1205"
	if _, err := mr.Get(key); err != nil {
		t.Fatalf("cache not populated: %v", err)
	}

	// A poisoned cache entry proves the second read came from Redis.
	if err := mr.Set(key, "0.99"); err != nil {
		t.Fatalf("poison cache: %v", err)
	}
	body := getJSON(t, h, "/api/v1/predictions/2019/1101/1205", http.StatusOK)
	if body["pred"] != 0.99 {
		t.Errorf("pred = %v, want cached 0.99", body["pred"])
	}
}

func TestHealth(t *testing.T) {
	h := testRouter(t, nil)
	body := getJSON(t, h, "/api/v1/health", http.StatusOK)
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
}
