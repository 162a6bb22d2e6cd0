package ai

import (
	"context"
	"errors"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultGroqModel = "llama3-8b-8192"

// OpenAIProvider talks to any OpenAI-compatible chat endpoint. In production it
// points at Groq.
type OpenAIProvider struct {
	client       *openai.Client
	name         string
	defaultModel string
	temperature  float32
}

// NewOpenAIProvider builds a provider for baseURL (empty keeps the OpenAI default).
func NewOpenAIProvider(name, apiKey, baseURL, model string, temperature float32) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = defaultGroqModel
	}
	return &OpenAIProvider{
		client:       openai.NewClientWithConfig(cfg),
		name:         name,
		defaultModel: model,
		temperature:  temperature,
	}
}

func (p *OpenAIProvider) Name() string { return p.name }

func (p *OpenAIProvider) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	creq := p.request(req)
	creq.Stream = false

	resp, err := p.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, transportErr(p.name, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, transportErr(p.name, ErrEmptyCompletion)
	}
	return &ChatResponse{
		Role:    RoleAssistant,
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
	}, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, req ChatRequest) (<-chan StreamEvent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	creq := p.request(req)
	creq.Stream = true

	stream, err := p.client.CreateChatCompletionStream(ctx, creq)
	if err != nil {
		return nil, transportErr(p.name, err)
	}

	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				finish(ctx, out, nil)
				return
			}
			if err != nil {
				finish(ctx, out, transportErr(p.name, err))
				return
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				continue
			}
			if !emit(ctx, out, StreamEvent{Type: EventMessage, Content: chunk.Choices[0].Delta.Content}) {
				return
			}
		}
	}()
	return out, nil
}

func (p *OpenAIProvider) request(req ChatRequest) openai.ChatCompletionRequest {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: p.temperature,
	}
}
