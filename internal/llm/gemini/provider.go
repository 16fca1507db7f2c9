package gemini

import (
	"context"
	"iter"
	"net/http"
	"strings"

	"jobcoach/internal/domain/chat"
	"jobcoach/internal/llm"

	"github.com/pkg/errors"
	"google.golang.org/genai"
)

const Name = "gemini"

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Provider adapts the Gemini API. System messages become ordered parts of
// the system instruction; assistant turns map to the model role.
type Provider struct {
	models modelsAPI
}

func New(ctx context.Context, credential, baseURL string, httpClient *http.Client) (*Provider, error) {
	cfg := &genai.ClientConfig{
		APIKey:     strings.TrimSpace(credential),
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if u := strings.TrimSpace(baseURL); u != "" {
		cfg.HTTPOptions.BaseURL = u
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	return &Provider{models: client.Models}, nil
}

func (p *Provider) Name() string {
	return Name
}

func (p *Provider) Complete(ctx context.Context, req llm.Request) (string, error) {
	contents, cfg := toContents(req)
	resp, err := p.models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return "", wrapError(err)
	}
	text := responseText(resp)
	if text == "" {
		return "", &llm.ProviderError{Provider: Name, Err: errors.New("response contained no text")}
	}
	return text, nil
}

// Stream pulls the first response before returning so that connection
// failures surface here rather than from the first Next.
func (p *Provider) Stream(ctx context.Context, req llm.Request) (llm.Stream, error) {
	contents, cfg := toContents(req)
	next, stop := iter.Pull2(p.models.GenerateContentStream(ctx, req.Model, contents, cfg))

	resp, err, ok := next()
	if !ok {
		stop()
		return &stream{done: true}, nil
	}
	if err != nil {
		stop()
		return nil, wrapError(err)
	}
	return &stream{next: next, stop: stop, pending: responseText(resp)}, nil
}

type stream struct {
	next    func() (*genai.GenerateContentResponse, error, bool)
	stop    func()
	pending string
	done    bool
}

func (s *stream) Next() (string, error) {
	if s.pending != "" {
		text := s.pending
		s.pending = ""
		return text, nil
	}
	for !s.done {
		resp, err, ok := s.next()
		if !ok {
			s.done = true
			break
		}
		if err != nil {
			s.done = true
			return "", wrapError(err)
		}
		if text := responseText(resp); text != "" {
			return text, nil
		}
	}
	return "", llm.Done
}

func (s *stream) Close() error {
	s.done = true
	if s.stop != nil {
		s.stop()
	}
	return nil
}

func toContents(req llm.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	temp := req.Temperature
	cfg := &genai.GenerateContentConfig{Temperature: &temp}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		part := &genai.Part{Text: m.Content}
		switch m.Role {
		case chat.RoleSystem:
			if cfg.SystemInstruction == nil {
				cfg.SystemInstruction = &genai.Content{}
			}
			cfg.SystemInstruction.Parts = append(cfg.SystemInstruction.Parts, part)
		case chat.RoleAssistant:
			contents = append(contents, &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{part}})
		default:
			contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{part}})
		}
	}
	return contents, cfg
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			b.WriteString(part.Text)
		}
		// only the first candidate is relayed
		break
	}
	return b.String()
}

func wrapError(err error) error {
	apiErr, ok := asAPIError(err)
	if !ok {
		return &llm.ProviderError{Provider: Name, Err: errors.Wrap(err, "generate content")}
	}
	return &llm.ProviderError{
		Provider:   Name,
		StatusCode: apiErr.Code,
		Body: map[string]any{"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
			"status":  apiErr.Status,
			"details": apiErr.Details,
		}},
		Err: err,
	}
}

// asAPIError accepts the error by value or by pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}
