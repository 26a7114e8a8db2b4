package media

import (
	"context"
	"fmt"
	"os/exec"
)

// runner executes an external tool and returns its combined output. The
// indirection exists so tests can stand in for yt-dlp and ffmpeg.
type runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// CheckDependencies verifies the external tools the media layer shells out to
// are installed. Called once at startup; a missing tool is fatal.
func CheckDependencies() error {
	if _, err := exec.LookPath("yt-dlp"); err != nil {
		return fmt.Errorf("missing dependency: yt-dlp is not installed or not on PATH")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("missing dependency: ffmpeg is not installed or not on PATH")
	}
	return nil
}
