package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// artifactName is the filename of the downloaded video inside a workspace.
// Uniqueness across requests comes from the workspace directory, not the name.
const artifactName = "video.mp4"

// DownloadError reports a failed video download. It is fatal to the single
// request and surfaced to the caller distinctly from "no locations found".
type DownloadError struct {
	Ref    types.VideoReference
	Output string
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("download %q: %v: %s", e.Ref, e.Err, e.Output)
	}
	return fmt.Sprintf("download %q: %v", e.Ref, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Fetcher downloads a remote video into a workspace via yt-dlp.
type Fetcher struct {
	maxHeight int
	logger    *zap.Logger
	run       runner
}

// NewFetcher creates a Fetcher capping downloads at maxHeight pixels.
func NewFetcher(maxHeight int, logger *zap.Logger) *Fetcher {
	return &Fetcher{maxHeight: maxHeight, logger: logger, run: execRunner{}}
}

// Fetch downloads the referenced video into destDir and returns the local
// path of the artifact.
func (f *Fetcher) Fetch(ctx context.Context, ref types.VideoReference, destDir string) (string, error) {
	url := strings.TrimSpace(string(ref))
	if url == "" {
		return "", &DownloadError{Ref: ref, Err: fmt.Errorf("empty video reference")}
	}

	target := filepath.Join(destDir, artifactName)
	args := []string{
		"--no-playlist",
		"-f", fmt.Sprintf("best[ext=mp4][height<=%d]", f.maxHeight),
		"-o", target,
		url,
	}

	f.logger.Info("downloading video",
		zap.String("url", url),
		zap.String("target", target),
		zap.Int("max_height", f.maxHeight),
	)

	out, err := f.run.Run(ctx, "yt-dlp", args...)
	if err != nil {
		return "", &DownloadError{Ref: ref, Output: strings.TrimSpace(string(out)), Err: err}
	}

	if _, err := os.Stat(target); err != nil {
		return "", &DownloadError{Ref: ref, Err: fmt.Errorf("yt-dlp reported success but wrote no file: %w", err)}
	}

	f.logger.Info("video download complete", zap.String("path", target))
	return target, nil
}
