package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zhe.chen/agent-geo-director/internal/media"
	"github.com/zhe.chen/agent-geo-director/internal/pipeline"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

type fakeRunner struct {
	result *types.PipelineResult
	err    error
	ref    types.VideoReference
}

func (f *fakeRunner) Run(ctx context.Context, ref types.VideoReference) (*types.PipelineResult, error) {
	f.ref = ref
	return f.result, f.err
}

func coord(v float64) *float64 { return &v }

func doExtract(t *testing.T, runner *fakeRunner, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(runner, zap.NewNop())
	req := httptest.NewRequest(method, "/extract-ylocations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleExtract(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Detail
}

func TestHandleExtractSuccess(t *testing.T) {
	runner := &fakeRunner{
		result: &types.PipelineResult{Locations: []types.LocationRecord{
			{Name: "Gwangjang Market", Latitude: coord(37.57), Longitude: coord(127.0)},
			{Name: "Unknown alley", Latitude: nil, Longitude: nil},
		}},
	}

	rec := doExtract(t, runner, http.MethodPost, `{"youtube_url": "https://youtube.com/watch?v=abc"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if runner.ref != "https://youtube.com/watch?v=abc" {
		t.Fatalf("pipeline received ref %q", runner.ref)
	}

	var result types.PipelineResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(result.Locations) != 2 {
		t.Fatalf("got %d locations, want 2", len(result.Locations))
	}
	if result.Locations[0].Name != "Gwangjang Market" {
		t.Fatalf("first location = %q", result.Locations[0].Name)
	}
	if result.Locations[1].Latitude != nil {
		t.Fatal("expected null latitude to survive the round trip")
	}
}

func TestHandleExtractFailureMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "nothing located",
			err:        &pipeline.NoLocationsError{Stage: pipeline.StageLocate},
			wantStatus: http.StatusNotFound,
			wantDetail: detailNotCaptured,
		},
		{
			name:       "nothing captured",
			err:        &pipeline.NoLocationsError{Stage: pipeline.StageSample},
			wantStatus: http.StatusNotFound,
			wantDetail: detailNotCaptured,
		},
		{
			name:       "captured but unidentified",
			err:        &pipeline.NoLocationsError{Stage: pipeline.StageExtract},
			wantStatus: http.StatusNotFound,
			wantDetail: detailNotIdentified,
		},
		{
			name:       "download failed",
			err:        &media.DownloadError{Ref: "https://youtube.com/watch?v=abc", Err: errors.New("exit status 1")},
			wantStatus: http.StatusBadGateway,
			wantDetail: detailDownloadFailed,
		},
		{
			name:       "unclassified failure",
			err:        errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doExtract(t, &fakeRunner{err: tt.err}, http.MethodPost,
				`{"youtube_url": "https://youtube.com/watch?v=abc"}`)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if detail := decodeDetail(t, rec); detail != tt.wantDetail {
				t.Fatalf("detail = %q, want %q", detail, tt.wantDetail)
			}
		})
	}
}

func TestHandleExtractBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "invalid JSON", body: `{"youtube_url": `},
		{name: "missing url", body: `{}`},
		{name: "blank url", body: `{"youtube_url": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			rec := doExtract(t, runner, http.MethodPost, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if runner.ref != "" {
				t.Fatal("pipeline ran despite a bad request")
			}
		})
	}
}

func TestHandleExtractMethodNotAllowed(t *testing.T) {
	rec := doExtract(t, &fakeRunner{}, http.MethodGet, "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleExtractPreflight(t *testing.T) {
	rec := doExtract(t, &fakeRunner{}, http.MethodOptions, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("Access-Control-Allow-Methods = %q", got)
	}
}
