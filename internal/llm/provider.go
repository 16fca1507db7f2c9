// Package llm defines the narrow model-provider surface the assistant uses.
// Adapters live in subpackages.
package llm

import (
	"context"
	"fmt"
	"io"

	"jobcoach/internal/domain/chat"
)

type Request struct {
	Model       string
	Messages    []chat.Message
	Temperature float32
}

type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
	// Stream connects to the provider and returns an open fragment stream.
	// Connection and upstream setup failures are returned here, before any
	// fragment is read.
	Stream(ctx context.Context, req Request) (Stream, error)
}

// Stream yields text fragments in arrival order. Next returns io.EOF once the
// provider completes the response; any other error means the stream failed.
type Stream interface {
	Next() (string, error)
	Close() error
}

// Done is the completion signal returned by Stream.Next.
var Done = io.EOF

// ProviderError reports a non-success answer or transport failure from a
// provider. StatusCode is zero when no HTTP response was received. Body is
// the provider's error payload, kept as sent where the adapter can see it.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       any
	Err        error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: provider returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: provider request failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
