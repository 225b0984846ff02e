package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deepsyllabus/backend/internal/config"
	"github.com/deepsyllabus/backend/internal/models"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatCompleter is the part of the go-openai client used by the generator
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type openAIGenerator struct {
	client  chatCompleter
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAIGenerator creates a generator backed by the OpenAI chat completion API
func NewOpenAIGenerator(cfg config.OpenAIConfig, logger *zap.Logger) *openAIGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return newOpenAIGenerator(openai.NewClientWithConfig(clientConfig), cfg.Model, cfg.Timeout, logger)
}

func newOpenAIGenerator(client chatCompleter, model string, timeout time.Duration, logger *zap.Logger) *openAIGenerator {
	if model == "" {
		model = openai.GPT4Turbo
	}
	return &openAIGenerator{
		client:  client,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// GenerateSyllabus drafts the three components of a syllabus for a synopsis
func (g *openAIGenerator) GenerateSyllabus(ctx context.Context, req models.GenerateRequest) (*models.SyllabusDraft, error) {
	system, user := syllabusPrompts(req)

	raw, err := g.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseSyllabusDraft(raw)
	if err != nil {
		g.logger.Error("failed to parse syllabus response", zap.Error(err))
		return nil, err
	}
	g.warnDefaulted("syllabus", parsed.Defaulted)

	return &parsed.Value, nil
}

// RegenerateComponent drafts a single component, optionally steered by user feedback
func (g *openAIGenerator) RegenerateComponent(ctx context.Context, componentType models.ComponentType, synopsis, feedback string) (json.RawMessage, error) {
	if !componentType.IsValid() {
		return nil, fmt.Errorf("unknown component type %q", componentType)
	}
	system, user := componentPrompts(componentType, synopsis, feedback)

	raw, err := g.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseComponent(componentType, raw)
	if err != nil {
		g.logger.Error("failed to parse component response", zap.Error(err), zap.String("kind", string(componentType)))
		return nil, err
	}
	g.warnDefaulted(string(componentType), parsed.Defaulted)

	content, err := json.Marshal(parsed.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s component: %w", componentType, err)
	}
	return content, nil
}

// complete runs one chat completion in JSON object mode and returns the text of the first choice
func (g *openAIGenerator) complete(ctx context.Context, system, user string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.logger.Error("chat completion failed", zap.Error(err), zap.String("model", g.model))
		return "", fmt.Errorf("%w: %w", ErrCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrCompletion)
	}

	g.logger.Debug("chat completion finished",
		zap.String("model", g.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return resp.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) warnDefaulted(what string, fields []string) {
	if len(fields) == 0 {
		return
	}
	g.logger.Warn("model response is missing fields, defaults applied",
		zap.String("response", what),
		zap.Strings("fields", fields),
	)
}
