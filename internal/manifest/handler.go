package manifest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hls-normalizer/internal/platform/metrics"
)

// Handler exposes the normalizer over HTTP using go-chi.
type Handler struct {
	llhls   bool
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler. Metrics may be nil to disable metric
// recording (e.g. in tests).
func NewHandler(llhls bool, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{llhls: llhls, log: log, metrics: m}
}

// NormalizeRequest is the body of POST /manifests/normalize.
type NormalizeRequest struct {
	// URI is the location the manifest was fetched from; relative locators
	// in the manifest resolve against it.
	URI string `json:"uri"`
	// Manifest is the raw m3u8 text.
	Manifest string `json:"manifest"`
}

// NormalizeResponse carries the resolved document plus the diagnostics the
// normalization emitted.
type NormalizeResponse struct {
	Document *Document `json:"document"`
	Warnings []string  `json:"warnings"`
}

// Normalize handles POST /manifests/normalize.
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid normalize body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if req.URI == "" || req.Manifest == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	warnings := []string{}
	warn := func(msg string) {
		warnings = append(warnings, msg)
		h.log.Warn("manifest warning", slog.String("uri", req.URI), slog.String("warning", msg))
		if h.metrics != nil {
			h.metrics.IncNormalizeWarnings()
		}
	}
	info := func(msg string) {
		h.log.Info("manifest info", slog.String("uri", req.URI), slog.String("info", msg))
	}

	n := NewNormalizer(h.llhls, h.log, warn, info)
	doc, err := n.NormalizeManifest(req.Manifest, req.URI)
	if err != nil {
		if errors.Is(err, ErrNotM3U8) {
			h.log.Info("manifest rejected",
				slog.String("uri", req.URI),
				slog.String("error", err.Error()))
			if h.metrics != nil {
				h.metrics.IncParseRejects()
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		h.log.Error("normalize failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.log.Debug("manifest normalized",
		slog.String("uri", req.URI),
		slog.Int("playlists", doc.Index.Len()),
		slog.Int("warnings", len(warnings)))
	if h.metrics != nil {
		h.metrics.IncManifestsNormalized()
		h.metrics.AddPlaylistsResolved(doc.Index.Len())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(NormalizeResponse{Document: doc, Warnings: warnings})
}
