package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/bracketlab/predict-api/internal/models"
)

// predictionResponse is the win probability of team_a over team_b, in the
// order the caller asked for them.
type predictionResponse struct {
	ID     string  `json:"id"`
	Season int     `json:"season"`
	TeamA  int     `json:"team_a"`
	TeamB  int     `json:"team_b"`
	Pred   float64 `json:"pred"`
}

// GetPrediction returns the stored win probability for a pairing. The
// division is inferred from the query parameter "division" (default "M");
// predictions are stored lower-team-first, so a reversed request returns
// the complement.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	season, err1 := strconv.Atoi(chi.URLParam(r, "season"))
	teamA, err2 := strconv.Atoi(chi.URLParam(r, "teamA"))
	teamB, err3 := strconv.Atoi(chi.URLParam(r, "teamB"))
	if err1 != nil || err2 != nil || err3 != nil || teamA == teamB {
		writeError(w, http.StatusBadRequest, "season and two distinct team ids required")
		return
	}

	division := strings.ToUpper(r.URL.Query().Get("division"))
	if division == "" {
		division = "M"
	}
	if division != "M" && division != "W" {
		writeError(w, http.StatusBadRequest, "division must be M or W")
		return
	}

	table := division + "Predictions"
	id := models.PairingID(season, teamA, teamB)
	cacheKey := fmt.Sprintf("pred:%s:%s", division, id)

	pred, found, err := h.cachedPrediction(ctx, cacheKey, table, id)
	if err != nil {
		h.logger.Errorw("prediction lookup failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "no prediction for pairing")
		return
	}

	// Stored probability is for the lower team id.
	if teamB < teamA {
		pred = 1 - pred
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(predictionResponse{
		ID:     id,
		Season: season,
		TeamA:  teamA,
		TeamB:  teamB,
		Pred:   pred,
	})
}

// cachedPrediction consults Redis first when a client is configured, then
// the store, writing back on a miss. Cache failures degrade to the store.
func (h *Handler) cachedPrediction(ctx context.Context, cacheKey, table, id string) (float64, bool, error) {
	if h.redis != nil {
		if cached, err := h.redis.Get(ctx, cacheKey).Float64(); err == nil {
			return cached, true, nil
		}
	}

	pred, found, err := h.store.Prediction(ctx, table, id)
	if err != nil || !found {
		return 0, found, err
	}

	if h.redis != nil {
		if err := h.redis.Set(ctx, cacheKey, pred, cacheTTL).Err(); err != nil {
			h.logger.Warnw("prediction cache write failed", "key", cacheKey, "error", err)
		}
	}
	return pred, true, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
