package claude

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/zhe.chen/agent-geo-director/internal/config"
	"github.com/zhe.chen/agent-geo-director/internal/geo"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

const batchMaxTokens = 1024

// Provider geolocates captured frames through the Anthropic Messages API.
// Claude only supports the batched extraction contract: every frame goes
// into a single request as a base64 image block.
type Provider struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewProvider creates a Claude extractor.
func NewProvider(cfg config.AnthropicConfig, logger *zap.Logger) *Provider {
	return &Provider{
		client:  anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return "claude" }

// Extract submits the whole frame set in one request and parses the
// locations envelope. Failures degrade to an empty result.
func (p *Provider) Extract(ctx context.Context, frames []types.CapturedFrame) []types.LocationRecord {
	if len(frames) == 0 {
		return nil
	}

	var blocks []anthropic.ContentBlockParamUnion
	for _, frame := range frames {
		encoded, mediaType, err := geo.ReadAndEncodeFrame(frame.Path)
		if err != nil {
			p.logger.Warn("failed to read frame, omitting from batch",
				zap.Int("offset", int(frame.Offset)),
				zap.Error(err),
			)
			continue
		}
		blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, encoded))
	}
	if len(blocks) == 0 {
		p.logger.Warn("no readable frames in batch")
		return nil
	}
	blocks = append(blocks, anthropic.NewTextBlock(geo.BatchedPrompt))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: batchMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		p.logger.Warn("claude batch call failed", zap.Error(err))
		return nil
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	records, err := geo.ParseBatchedResponse(sb.String())
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
