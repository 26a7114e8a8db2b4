package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/zhe.chen/agent-geo-director/internal/locator"
	"github.com/zhe.chen/agent-geo-director/internal/media"
	"github.com/zhe.chen/agent-geo-director/internal/metrics"
	"github.com/zhe.chen/agent-geo-director/internal/workspace"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// Fetcher downloads a remote video into destDir and returns the local path.
type Fetcher interface {
	Fetch(ctx context.Context, ref types.VideoReference, destDir string) (string, error)
}

// Locator returns the offsets at which the video shows a distinct place.
// An empty list is a legitimate outcome; failures degrade to empty inside
// the implementation.
type Locator interface {
	Locate(ctx context.Context, videoPath string) []types.TimestampOffset
}

// Sampler captures one frame per offset into destDir, skipping offsets that
// fail to decode.
type Sampler interface {
	Sample(ctx context.Context, videoPath string, offsets []types.TimestampOffset, destDir string) []types.CapturedFrame
}

// Extractor turns captured frames into location records. Failures degrade to
// an empty result inside the implementation.
type Extractor interface {
	Extract(ctx context.Context, frames []types.CapturedFrame) []types.LocationRecord
}

// Pipeline sequences fetch, locate, sample, and extract for one video
// reference, short-circuiting on legitimately empty intermediate results and
// guaranteeing workspace cleanup on every exit path.
type Pipeline struct {
	fetcher   Fetcher
	locator   Locator
	sampler   Sampler
	extractor Extractor
	workDir   string
	logger    *zap.Logger
}

// New creates a pipeline executor.
func New(fetcher Fetcher, loc Locator, sampler Sampler, extractor Extractor, workDir string, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		locator:   loc,
		sampler:   sampler,
		extractor: extractor,
		workDir:   workDir,
		logger:    logger,
	}
}

// Run executes the full pipeline for one video reference. On success it
// returns the ordered location records. A failed download returns a
// *media.DownloadError; an empty intermediate result returns a
// *NoLocationsError tagged with the stage that came up empty.
func (p *Pipeline) Run(ctx context.Context, ref types.VideoReference) (*types.PipelineResult, error) {
	ws, err := workspace.New(p.workDir)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	log := p.logger.With(zap.String("request_id", ws.ID))

	// Hard invariant: no artifact or frame file survives the request,
	// whatever the outcome (success, short-circuit, failure, cancellation).
	defer func() {
		if err := ws.Remove(); err != nil {
			log.Error("workspace cleanup failed", zap.String("root", ws.Root), zap.Error(err))
		}
	}()

	result, err := p.run(ctx, ref, ws, log)
	switch {
	case err == nil:
		metrics.PipelineRunsTotal.WithLabelValues("ok").Inc()
		metrics.LocationsExtractedTotal.Add(float64(len(result.Locations)))
	default:
		var nf *NoLocationsError
		var dl *media.DownloadError
		switch {
		case errors.As(err, &nf):
			metrics.PipelineRunsTotal.WithLabelValues("not_found_" + string(nf.Stage)).Inc()
		case errors.As(err, &dl):
			metrics.PipelineRunsTotal.WithLabelValues("download_failed").Inc()
		default:
			metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		}
	}
	return result, err
}

func (p *Pipeline) run(ctx context.Context, ref types.VideoReference, ws *workspace.Workspace, log *zap.Logger) (*types.PipelineResult, error) {
	fetchTimer := time.Now()
	videoPath, err := p.fetcher.Fetch(ctx, ref, ws.Root)
	if err != nil {
		// Download failure is fatal to the request and reported
		// distinctly from "nothing found".
		return nil, err
	}
	metrics.StageDuration.WithLabelValues(string(StageFetch)).Observe(time.Since(fetchTimer).Seconds())

	locateTimer := time.Now()
	offsets := p.locator.Locate(ctx, videoPath)
	metrics.StageDuration.WithLabelValues(string(StageLocate)).Observe(time.Since(locateTimer).Seconds())

	// The locator already normalizes its own output, but the invariant is
	// owned here: whatever implementation sits behind the interface, the
	// sampler only ever sees ascending, deduplicated offsets.
	offsets = locator.Normalize(offsets)
	if len(offsets) == 0 {
		log.Info("no location timestamps found, short-circuiting")
		return nil, &NoLocationsError{Stage: StageLocate}
	}

	sampleTimer := time.Now()
	frames := p.sampler.Sample(ctx, videoPath, offsets, ws.Root)
	metrics.StageDuration.WithLabelValues(string(StageSample)).Observe(time.Since(sampleTimer).Seconds())
	metrics.FramesCapturedTotal.Add(float64(len(frames)))
	if len(frames) == 0 {
		log.Info("no frames captured, short-circuiting")
		return nil, &NoLocationsError{Stage: StageSample}
	}

	extractTimer := time.Now()
	records := p.extractor.Extract(ctx, frames)
	metrics.StageDuration.WithLabelValues(string(StageExtract)).Observe(time.Since(extractTimer).Seconds())
	if len(records) == 0 {
		log.Info("no locations identified from captured frames")
		return nil, &NoLocationsError{Stage: StageExtract}
	}

	log.Info("pipeline complete",
		zap.Int("offsets", len(offsets)),
		zap.Int("frames", len(frames)),
		zap.Int("locations", len(records)),
	)
	return &types.PipelineResult{Locations: records}, nil
}
