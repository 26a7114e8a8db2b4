package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/zhe.chen/agent-geo-director/internal/media"
	"github.com/zhe.chen/agent-geo-director/internal/pipeline"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// Not-found detail messages, distinguishing "nothing captured" from
// "captured but unidentifiable".
const (
	detailNotCaptured    = "No locations could be identified and captured from the video."
	detailNotIdentified  = "Location images were captured, but could not be identified."
	detailDownloadFailed = "The video could not be downloaded."
)

// Runner is the pipeline operation the HTTP surface exposes.
type Runner interface {
	Run(ctx context.Context, ref types.VideoReference) (*types.PipelineResult, error)
}

// Handler translates HTTP requests into pipeline runs and pipeline outcomes
// into status codes. The caller always gets a location list or a clear
// classification, never a stack trace.
type Handler struct {
	pipe   Runner
	logger *zap.Logger
}

// NewHandler creates the extraction handler.
func NewHandler(pipe Runner, logger *zap.Logger) *Handler {
	return &Handler{pipe: pipe, logger: logger}
}

type extractRequest struct {
	YouTubeURL string `json:"youtube_url"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// HandleExtract serves POST /extract-ylocations.
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Detail: "method not allowed"})
		return
	}

	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON body"})
		return
	}
	url := strings.TrimSpace(req.YouTubeURL)
	if url == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "youtube_url is required"})
		return
	}

	h.logger.Info("extraction request received", zap.String("url", url))

	result, err := h.pipe.Run(r.Context(), types.VideoReference(url))
	if err != nil {
		h.writeFailure(w, url, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeFailure(w http.ResponseWriter, url string, err error) {
	var notFound *pipeline.NoLocationsError
	var download *media.DownloadError

	switch {
	case errors.As(err, &notFound):
		detail := detailNotCaptured
		if notFound.CapturedFrames() {
			detail = detailNotIdentified
		}
		h.logger.Info("pipeline found nothing",
			zap.String("url", url),
			zap.String("stage", string(notFound.Stage)),
		)
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: detail})

	case errors.As(err, &download):
		h.logger.Warn("video download failed", zap.String("url", url), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Detail: detailDownloadFailed})

	default:
		h.logger.Error("pipeline failed", zap.String("url", url), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal server error"})
	}
}

// HandleHealthz serves the liveness probe.
func (h *Handler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
