package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// Sampler extracts single frames from a video artifact via ffmpeg.
type Sampler struct {
	logger *zap.Logger
	run    runner
}

// NewSampler creates a frame sampler.
func NewSampler(logger *zap.Logger) *Sampler {
	return &Sampler{logger: logger, run: execRunner{}}
}

// Sample decodes one frame per offset into destDir. Offsets that fail to
// decode (past the end of the video, corrupt stream) are skipped with a log;
// the batch continues. The returned frames preserve the ascending input
// order, omitting skipped offsets. No retries per offset.
func (s *Sampler) Sample(ctx context.Context, videoPath string, offsets []types.TimestampOffset, destDir string) []types.CapturedFrame {
	frames := make([]types.CapturedFrame, 0, len(offsets))

	for _, off := range offsets {
		framePath := filepath.Join(destDir, fmt.Sprintf("frame_%ds.jpg", off))

		// -ss before -i seeks the demuxer to the millisecond-precise
		// position; -frames:v 1 decodes exactly one frame there.
		args := []string{
			"-ss", fmt.Sprintf("%d.000", off),
			"-i", videoPath,
			"-frames:v", "1",
			"-q:v", "2",
			"-y",
			framePath,
		}

		out, err := s.run.Run(ctx, "ffmpeg", args...)
		if err != nil {
			s.logger.Warn("frame decode failed, skipping offset",
				zap.Int("offset", int(off)),
				zap.Error(err),
				zap.ByteString("ffmpeg_output", out),
			)
			continue
		}

		// Seeking past the end of the stream exits zero but writes no
		// frame; an absent or empty file means the offset is gone.
		if fi, err := os.Stat(framePath); err != nil || fi.Size() == 0 {
			s.logger.Warn("no frame decoded at offset", zap.Int("offset", int(off)))
			continue
		}

		s.logger.Debug("captured frame", zap.Int("offset", int(off)), zap.String("path", framePath))
		frames = append(frames, types.CapturedFrame{Path: framePath, Offset: off})
	}

	s.logger.Info("frame sampling complete",
		zap.Int("requested", len(offsets)),
		zap.Int("captured", len(frames)),
	)
	return frames
}
