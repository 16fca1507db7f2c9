package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"jobcoach/internal/domain/chat"
	"jobcoach/internal/llm"

	"github.com/pkg/errors"
	goopenai "github.com/sashabaranov/go-openai"
)

const Name = "openai"

// Provider talks to any OpenAI-compatible chat completions endpoint.
type Provider struct {
	client *goopenai.Client
}

func New(credential, baseURL string, httpClient *http.Client) *Provider {
	cfg := goopenai.DefaultConfig(credential)
	if u := strings.TrimRight(strings.TrimSpace(baseURL), "/"); u != "" {
		cfg.BaseURL = u
	}
	cfg.HTTPClient = withErrorCapture(httpClient)
	return &Provider{client: goopenai.NewClientWithConfig(cfg)}
}

func (p *Provider) Name() string {
	return Name
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (string, error) {
	ctx, captured := captureErrors(ctx)
	resp, err := p.client.CreateChatCompletion(ctx, toRequest(req))
	if err != nil {
		return "", wrapError(err, captured)
	}
	if len(resp.Choices) == 0 {
		return "", &llm.ProviderError{Provider: Name, Err: errors.New("response contained no choices")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	ctx, captured := captureErrors(ctx)
	s, err := p.client.CreateChatCompletionStream(ctx, toRequest(req))
	if err != nil {
		return nil, wrapError(err, captured)
	}
	return &stream{s: s}, nil
}

type stream struct {
	s *goopenai.ChatCompletionStream
}

func (s *stream) Next() (string, error) {
	for {
		resp, err := s.s.Recv()
		if errors.Is(err, io.EOF) {
			return "", llm.Done
		}
		if err != nil {
			return "", wrapError(err, nil)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if text := resp.Choices[0].Delta.Content; text != "" {
			return text, nil
		}
	}
}

func (s *stream) Close() error {
	s.s.Close()
	return nil
}

func toRequest(req llm.Request) goopenai.ChatCompletionRequest {
	msgs := make([]goopenai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: toRole(m.Role), Content: m.Content})
	}
	return goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
	}
}

func toRole(r chat.Role) string {
	switch r {
	case chat.RoleSystem:
		return goopenai.ChatMessageRoleSystem
	case chat.RoleAssistant:
		return goopenai.ChatMessageRoleAssistant
	default:
		return goopenai.ChatMessageRoleUser
	}
}

// wrapError keeps the provider's error body as it was sent: JSON bodies as
// json.RawMessage, anything else as a string.
func wrapError(err error, captured *errorResponse) error {
	pe := &llm.ProviderError{Provider: Name, Err: err}

	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &reqErr):
		pe.StatusCode = reqErr.HTTPStatusCode
		pe.Body = rawBody(reqErr.Body)
	case errors.As(err, &apiErr):
		pe.StatusCode = apiErr.HTTPStatusCode
		if captured != nil && captured.body != nil {
			pe.Body = rawBody(captured.body)
		} else {
			pe.Body = map[string]any{"error": apiErr}
		}
	default:
		pe.Err = errors.Wrap(err, "chat completion")
	}
	return pe
}

func rawBody(b []byte) any {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	return string(b)
}
