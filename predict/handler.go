package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// MaxRequestBytes bounds the size of a prediction request body.
const MaxRequestBytes = 64 << 10

type Request struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves POST /predict.
type Handler struct {
	predictor *Predictor
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewHandler(p *Predictor, timeout time.Duration, logger zerolog.Logger) *Handler {
	return &Handler{
		predictor: p,
		timeout:   timeout,
		logger:    logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req Request
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url required"})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	v := h.predictor.Predict(ctx, url)
	writeJSON(w, http.StatusOK, v)

	h.logger.Info().
		Str("url", url).
		Str("domain", v.Domain).
		Int("is_phishing", v.IsPhishing).
		Float64("confidence", v.Confidence).
		Msg("prediction served")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
