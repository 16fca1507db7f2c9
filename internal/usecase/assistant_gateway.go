package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"jobcoach/internal/config"
	"jobcoach/internal/domain/chat"
	"jobcoach/internal/llm"
	"jobcoach/internal/logger"

	"go.uber.org/zap"
)

type EventKind string

const (
	EventOpen EventKind = "open"
	EventData EventKind = "data"
	EventDone EventKind = "done"
)

type Event struct {
	Kind    EventKind
	Content string
}

// EventSink receives relay events. Send must deliver the event downstream
// before returning; an error means the caller is gone.
type EventSink interface {
	Send(ev Event) error
}

type RelayState string

const (
	StateInit      RelayState = "init"
	StateStreaming RelayState = "streaming"
	StateDone      RelayState = "done"
	StateError     RelayState = "error"
	// StateTruncated ends a relay that was open when the provider or the
	// caller failed.
	StateTruncated RelayState = "truncated"
)

type AssistantGateway struct {
	cfg      config.AssistantConfig
	provider llm.Provider
	logger   *zap.Logger
}

// NewAssistantGateway accepts a nil provider; such a gateway reports a
// configuration error on every call.
func NewAssistantGateway(cfg config.AssistantConfig, provider llm.Provider, l *zap.Logger) *AssistantGateway {
	name := cfg.Provider
	if provider != nil {
		name = provider.Name()
	}
	return &AssistantGateway{
		cfg:      cfg,
		provider: provider,
		logger:   logger.WithProvider(l, name, cfg.ModelID),
	}
}

func (g *AssistantGateway) Ready() error {
	if g == nil || g.provider == nil || strings.TrimSpace(g.cfg.ProviderCredential) == "" {
		return ErrConfiguration
	}
	return nil
}

func (g *AssistantGateway) request(msgs []chat.Message) llm.Request {
	temp := g.cfg.Temperature
	if temp <= 0 {
		temp = config.DefaultTemperature
	}
	return llm.Request{Model: g.cfg.ModelID, Messages: msgs, Temperature: temp}
}

// Reply performs a single completion. Provider failures are returned as
// *llm.ProviderError.
func (g *AssistantGateway) Reply(ctx context.Context, msgs []chat.Message) (string, error) {
	if err := g.Ready(); err != nil {
		return "", err
	}
	if g.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.RequestTimeout)
		defer cancel()
	}

	reply, err := g.provider.Complete(ctx, g.request(msgs))
	if err != nil {
		g.logProviderError("completion failed", err)
		return "", err
	}
	return reply, nil
}

// OpenStream connects to the provider. On success the returned relay is in
// StateStreaming. On connect failure the relay is in StateError, nothing has
// been sent to the caller and the error wraps ErrStreamUnavailable. ctx must
// outlive the relay.
func (g *AssistantGateway) OpenStream(ctx context.Context, msgs []chat.Message) (*Relay, error) {
	if err := g.Ready(); err != nil {
		return nil, err
	}

	r := &Relay{state: StateInit, logger: g.logger}
	s, err := g.provider.Stream(ctx, g.request(msgs))
	if err != nil {
		r.state = StateError
		g.logProviderError("stream connect failed", err)
		return r, fmt.Errorf("%w: %w", ErrStreamUnavailable, err)
	}
	r.stream = s
	r.state = StateStreaming
	return r, nil
}

func (g *AssistantGateway) logProviderError(msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	var pe *llm.ProviderError
	if errors.As(err, &pe) {
		if pe.StatusCode > 0 {
			fields = append(fields, zap.Int("status", pe.StatusCode))
		}
		if body := bodyString(pe.Body); body != "" {
			fields = append(fields, zap.String("provider_body", logger.Truncate(body, maxLoggedBody)))
		}
	}
	g.logger.Warn(msg, fields...)
}

const maxLoggedBody = 512

func bodyString(body any) string {
	switch b := body.(type) {
	case nil:
		return ""
	case string:
		return b
	case json.RawMessage:
		return string(b)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Sprint(body)
	}
	return string(raw)
}

// Relay forwards one provider stream to one sink, one fragment at a time.
// It is not safe for concurrent use.
type Relay struct {
	stream    llm.Stream
	state     RelayState
	fragments int
	logger    *zap.Logger
}

func (r *Relay) State() RelayState {
	return r.state
}

func (r *Relay) Fragments() int {
	return r.fragments
}

// Run emits open, one data event per fragment as it arrives, and done when
// the provider completes. A provider failure mid-stream ends the relay
// without done; a sink failure stops pulling from the provider. Either way
// the error is returned and the relay ends in StateTruncated.
func (r *Relay) Run(sink EventSink) error {
	if r.state != StateStreaming {
		return fmt.Errorf("relay not streaming: %s", r.state)
	}
	defer func() { _ = r.stream.Close() }()

	if err := sink.Send(Event{Kind: EventOpen}); err != nil {
		r.state = StateTruncated
		return err
	}

	for {
		frag, err := r.stream.Next()
		if errors.Is(err, llm.Done) {
			r.state = StateDone
			r.logger.Debug("stream completed", zap.Int("fragments", r.fragments))
			return sink.Send(Event{Kind: EventDone})
		}
		if err != nil {
			r.state = StateTruncated
			r.logger.Warn("stream interrupted", zap.Int("fragments", r.fragments), zap.Error(err))
			return err
		}

		r.fragments++
		if err := sink.Send(Event{Kind: EventData, Content: frag}); err != nil {
			r.state = StateTruncated
			r.logger.Debug("caller went away", zap.Int("fragments", r.fragments), zap.Error(err))
			return err
		}
	}
}
