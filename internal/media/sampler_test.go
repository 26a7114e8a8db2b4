package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// selectiveRunner decodes frames only for the allowed offsets, mimicking
// ffmpeg succeeding at some positions and coming up empty past the end of
// the stream.
type selectiveRunner struct {
	allowed map[string]bool
	calls   [][]string
}

func (s *selectiveRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	target := args[len(args)-1]
	if s.allowed[filepath.Base(target)] {
		if err := os.WriteFile(target, []byte("jpeg-bytes"), 0o644); err != nil {
			return nil, err
		}
	}
	// ffmpeg exits zero even when a seek lands past the last frame.
	return nil, nil
}

func TestSamplerSkipsUndecodableOffsets(t *testing.T) {
	dir := t.TempDir()
	runner := &selectiveRunner{allowed: map[string]bool{
		"frame_45s.jpg":  true,
		"frame_182s.jpg": true,
		// 350 is past the end of the video.
	}}
	s := NewSampler(zap.NewNop())
	s.run = runner

	frames := s.Sample(context.Background(), "/tmp/video.mp4", []types.TimestampOffset{45, 182, 350}, dir)

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if frames[0].Offset != 45 || frames[1].Offset != 182 {
		t.Fatalf("offsets = [%d, %d], want [45, 182]", frames[0].Offset, frames[1].Offset)
	}
	for _, fr := range frames {
		if _, err := os.Stat(fr.Path); err != nil {
			t.Fatalf("frame file missing: %v", err)
		}
	}
}

func TestSamplerPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	runner := &selectiveRunner{allowed: map[string]bool{
		"frame_10s.jpg": true,
		"frame_20s.jpg": true,
		"frame_30s.jpg": true,
	}}
	s := NewSampler(zap.NewNop())
	s.run = runner

	frames := s.Sample(context.Background(), "/tmp/video.mp4", []types.TimestampOffset{10, 20, 30}, dir)

	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	for i, want := range []types.TimestampOffset{10, 20, 30} {
		if frames[i].Offset != want {
			t.Fatalf("frame %d offset = %d, want %d", i, frames[i].Offset, want)
		}
	}
}

func TestSamplerSeeksMillisecondPrecise(t *testing.T) {
	dir := t.TempDir()
	runner := &selectiveRunner{allowed: map[string]bool{"frame_45s.jpg": true}}
	s := NewSampler(zap.NewNop())
	s.run = runner

	s.Sample(context.Background(), "/tmp/video.mp4", []types.TimestampOffset{45}, dir)

	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 ffmpeg invocation, got %d", len(runner.calls))
	}
	joined := strings.Join(runner.calls[0], " ")
	if !strings.Contains(joined, "-ss 45.000") {
		t.Fatalf("expected millisecond-precise seek, got: %s", joined)
	}
	if !strings.Contains(joined, "-frames:v 1") {
		t.Fatalf("expected single-frame decode, got: %s", joined)
	}
}

func TestSamplerContinuesAfterToolFailure(t *testing.T) {
	dir := t.TempDir()
	s := NewSampler(zap.NewNop())
	s.run = &failThenWriteRunner{failOn: "frame_45s.jpg"}

	frames := s.Sample(context.Background(), "/tmp/video.mp4", []types.TimestampOffset{45, 182}, dir)

	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if frames[0].Offset != 182 {
		t.Fatalf("offset = %d, want 182", frames[0].Offset)
	}
}

type failThenWriteRunner struct {
	failOn string
}

func (f *failThenWriteRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	target := args[len(args)-1]
	if filepath.Base(target) == f.failOn {
		return []byte("corrupt stream"), errors.New("exit status 1")
	}
	if err := os.WriteFile(target, []byte("jpeg-bytes"), 0o644); err != nil {
		return nil, err
	}
	return nil, nil
}
