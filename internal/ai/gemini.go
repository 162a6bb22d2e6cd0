package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client       *genai.Client
	defaultModel string
	temperature  float32
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, model string, temperature float32) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{
		client:       client,
		defaultModel: model,
		temperature:  temperature,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Complete maps system messages to the system instruction, earlier turns to
// chat history and sends the final turn.
func (p *GeminiProvider) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	session, last, modelName := p.session(req)

	resp, err := session.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, transportErr(p.Name(), err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, transportErr(p.Name(), ErrEmptyCompletion)
	}
	return &ChatResponse{Role: RoleAssistant, Content: text, Model: modelName}, nil
}

func (p *GeminiProvider) Stream(ctx context.Context, req ChatRequest) (<-chan StreamEvent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	session, last, _ := p.session(req)
	it := session.SendMessageStream(ctx, genai.Text(last))

	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				finish(ctx, out, nil)
				return
			}
			if err != nil {
				finish(ctx, out, transportErr(p.Name(), err))
				return
			}
			if chunk := responseText(resp); chunk != "" {
				if !emit(ctx, out, StreamEvent{Type: EventMessage, Content: chunk}) {
					return
				}
			}
		}
	}()
	return out, nil
}

func (p *GeminiProvider) session(req ChatRequest) (*genai.ChatSession, string, string) {
	name := req.Model
	if name == "" {
		name = p.defaultModel
	}
	model := p.client.GenerativeModel(name)
	model.SetTemperature(p.temperature)

	system, history, last := splitForGemini(req.Messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	session := model.StartChat()
	session.History = history
	return session, last, name
}

// splitForGemini separates the system instruction, the prior turns and the
// message to send. Gemini calls the assistant role "model".
func splitForGemini(msgs []Message) (string, []*genai.Content, string) {
	var system []string
	var turns []Message
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, m)
	}
	if len(turns) == 0 {
		// System-only request: send the instruction as the user turn.
		return "", nil, strings.Join(system, "\n\n")
	}

	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return strings.Join(system, "\n\n"), history, turns[len(turns)-1].Content
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
