package locator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/zhe.chen/agent-geo-director/internal/config"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// videoAPI is the slice of the Gemini surface the locator touches. The
// indirection exists so tests can stand in for the remote service.
type videoAPI interface {
	Upload(ctx context.Context, path, mimeType string) (*genai.File, error)
	Get(ctx context.Context, name string) (*genai.File, error)
	Generate(ctx context.Context, model string, file *genai.File, prompt string) (string, error)
	Delete(ctx context.Context, name string) error
}

type genaiAPI struct {
	client *genai.Client
}

func (a genaiAPI) Upload(ctx context.Context, path, mimeType string) (*genai.File, error) {
	return a.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
}

func (a genaiAPI) Get(ctx context.Context, name string) (*genai.File, error) {
	return a.client.Files.Get(ctx, name, nil)
}

func (a genaiAPI) Generate(ctx context.Context, model string, file *genai.File, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(file.URI, file.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := a.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (a genaiAPI) Delete(ctx context.Context, name string) error {
	_, err := a.client.Files.Delete(ctx, name, nil)
	return err
}

// GeminiLocator finds the timestamps at which a video shows a distinct place
// by submitting the whole artifact to Gemini. Any transport, auth, or
// processing failure degrades to an empty offset list; "nothing found" is a
// legitimate outcome, not an error.
type GeminiLocator struct {
	api          videoAPI
	model        string
	pollInterval time.Duration
	timeout      time.Duration
	logger       *zap.Logger
}

// NewGeminiLocator creates a locator backed by an existing Gemini client.
func NewGeminiLocator(client *genai.Client, cfg config.GoogleConfig, logger *zap.Logger) *GeminiLocator {
	return &GeminiLocator{
		api:          genaiAPI{client: client},
		model:        cfg.Model,
		pollInterval: cfg.PollInterval,
		timeout:      cfg.Timeout,
		logger:       logger,
	}
}

// Locate uploads the video, waits for remote processing, and asks the model
// for the offsets of location scenes. The returned list is deduplicated and
// ascending; it is empty when nothing was found or the call failed.
func (l *GeminiLocator) Locate(ctx context.Context, videoPath string) []types.TimestampOffset {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	file, err := l.api.Upload(ctx, videoPath, "video/mp4")
	if err != nil {
		l.logger.Warn("gemini upload failed", zap.Error(err))
		return nil
	}
	// The remote handle must not outlive this call, whatever happens below.
	defer l.deleteFile(file.Name)

	file, err = l.awaitProcessing(ctx, file)
	if err != nil {
		l.logger.Warn("gemini file processing failed", zap.String("file", file.Name), zap.Error(err))
		return nil
	}

	text, err := l.api.Generate(ctx, l.model, file, directorPrompt)
	if err != nil {
		l.logger.Warn("gemini analysis failed", zap.Error(err))
		return nil
	}

	offsets, err := ParseOffsets(text)
	if err != nil {
		l.logger.Warn("malformed locator response, treating as empty",
			zap.Error(err),
			zap.String("response", text),
		)
		return nil
	}

	offsets = Normalize(offsets)
	l.logger.Info("location timestamps found", zap.Int("count", len(offsets)))
	return offsets
}

// awaitProcessing polls until the uploaded file leaves the PROCESSING state.
func (l *GeminiLocator) awaitProcessing(ctx context.Context, file *genai.File) (*genai.File, error) {
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return file, ctx.Err()
		case <-time.After(l.pollInterval):
		}

		var err error
		file, err = l.api.Get(ctx, file.Name)
		if err != nil {
			return file, err
		}
	}

	if file.State == genai.FileStateFailed {
		return file, fmt.Errorf("remote processing entered FAILED state")
	}
	return file, nil
}

// deleteFile releases the remote upload handle. Runs on every exit path of
// Locate, including cancellation, so it gets its own short-lived context.
func (l *GeminiLocator) deleteFile(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := l.api.Delete(ctx, name); err != nil {
		l.logger.Warn("failed to delete uploaded file", zap.String("file", name), zap.Error(err))
		return
	}
	l.logger.Debug("deleted uploaded file", zap.String("file", name))
}
