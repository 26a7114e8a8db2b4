package openai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zhe.chen/agent-geo-director/internal/config"
	"github.com/zhe.chen/agent-geo-director/internal/geo"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

const (
	// singleMaxTokens caps the per-image reasoning response.
	singleMaxTokens = 300
	// batchMaxTokens caps the batched envelope response.
	batchMaxTokens = 1024
)

// Provider geolocates captured frames through the OpenAI API. It supports
// both extraction modes: one reasoning call per frame, or the whole frame
// set correlated in a single call.
type Provider struct {
	client          *openai.Client
	model           string
	batchModel      string
	reasoningEffort string
	mode            string
	timeout         time.Duration
	concurrency     int
	logger          *zap.Logger
}

// NewProvider creates an OpenAI extractor in the given mode.
func NewProvider(cfg config.OpenAIConfig, mode string, logger *zap.Logger) *Provider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Provider{
		client:          openai.NewClientWithConfig(clientConfig),
		model:           cfg.Model,
		batchModel:      cfg.BatchModel,
		reasoningEffort: cfg.ReasoningEffort,
		mode:            mode,
		timeout:         cfg.Timeout,
		concurrency:     concurrency,
		logger:          logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return "openai" }

// Extract produces location records for the given frames. Failures degrade
// to an empty (or partial, in per-image mode) result and are never escalated.
func (p *Provider) Extract(ctx context.Context, frames []types.CapturedFrame) []types.LocationRecord {
	if len(frames) == 0 {
		return nil
	}
	if p.mode == config.ModePerImage {
		return p.extractEach(ctx, frames)
	}
	return p.extractBatch(ctx, frames)
}

// extractEach runs one reasoning call per frame. The calls are independent,
// so they fan out on a bounded errgroup; accepted records are re-assembled
// in frame order afterwards.
func (p *Provider) extractEach(ctx context.Context, frames []types.CapturedFrame) []types.LocationRecord {
	results := make([]*types.LocationRecord, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, frame := range frames {
		g.Go(func() error {
			if rec, ok := p.extractOne(gctx, frame); ok {
				results[i] = &rec
			}
			// Per-frame failures are skip-and-continue, never batch-fatal.
			return nil
		})
	}
	_ = g.Wait()

	records := make([]types.LocationRecord, 0, len(frames))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}

	p.logger.Info("per-image extraction complete",
		zap.Int("frames", len(frames)),
		zap.Int("locations", len(records)),
	)
	return records
}

func (p *Provider) extractOne(ctx context.Context, frame types.CapturedFrame) (types.LocationRecord, bool) {
	log := p.logger.With(zap.Int("offset", int(frame.Offset)))

	encoded, mediaType, err := geo.ReadAndEncodeFrame(frame.Path)
	if err != nil {
		log.Warn("failed to read frame, skipping", zap.Error(err))
		return types.LocationRecord{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:               p.model,
		ReasoningEffort:     p.reasoningEffort,
		MaxCompletionTokens: singleMaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: geo.SingleImagePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: geo.DataURL(encoded, mediaType),
						},
					},
				},
			},
		},
	})
	if err != nil {
		log.Warn("openai call failed, skipping frame", zap.Error(err))
		return types.LocationRecord{}, false
	}
	if len(resp.Choices) == 0 {
		log.Warn("openai returned no choices, skipping frame")
		return types.LocationRecord{}, false
	}

	rec, err := geo.ParseSingleResponse(resp.Choices[0].Message.Content)
	if err != nil {
		log.Warn("unusable frame response, skipping", zap.Error(err))
		return types.LocationRecord{}, false
	}

	log.Debug("frame geolocated", zap.String("name", rec.Name))
	return rec, true
}

// extractBatch submits every frame in one request so the model can correlate
// visual and textual clues across the whole set.
func (p *Provider) extractBatch(ctx context.Context, frames []types.CapturedFrame) []types.LocationRecord {
	content := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: geo.BatchedPrompt,
		},
	}

	for _, frame := range frames {
		encoded, mediaType, err := geo.ReadAndEncodeFrame(frame.Path)
		if err != nil {
			p.logger.Warn("failed to read frame, omitting from batch",
				zap.Int("offset", int(frame.Offset)),
				zap.Error(err),
			)
			continue
		}
		content = append(content, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL: geo.DataURL(encoded, mediaType),
			},
		})
	}
	if len(content) == 1 {
		p.logger.Warn("no readable frames in batch")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     p.batchModel,
		MaxTokens: batchMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: content,
			},
		},
	})
	if err != nil {
		p.logger.Warn("openai batch call failed", zap.Error(err))
		return nil
	}
	if len(resp.Choices) == 0 {
		p.logger.Warn("openai returned no choices for batch")
		return nil
	}

	records, err := geo.ParseBatchedResponse(resp.Choices[0].Message.Content)
	if err != nil {
		p.logger.Warn("malformed batch response, treating as empty", zap.Error(err))
		return nil
	}

	p.logger.Info("batched extraction complete",
		zap.Int("frames", len(frames)),
		zap.Int("locations", len(records)),
	)
	return records
}
