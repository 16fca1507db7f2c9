package openai

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 64 << 10

type errorResponse struct {
	body []byte
}

type errorCaptureKey struct{}

// captureErrors returns a context under which the client transport records
// the first non-success response body it sees.
func captureErrors(ctx context.Context) (context.Context, *errorResponse) {
	captured := &errorResponse{}
	return context.WithValue(ctx, errorCaptureKey{}, captured), captured
}

// withErrorCapture copies base so the caller's client is left untouched.
func withErrorCapture(base *http.Client) *http.Client {
	c := &http.Client{}
	if base != nil {
		*c = *base
	}
	next := c.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c.Transport = &captureTransport{next: next}
	return c
}

type captureTransport struct {
	next http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil || resp.StatusCode < http.StatusBadRequest {
		return resp, err
	}
	captured, ok := req.Context().Value(errorCaptureKey{}).(*errorResponse)
	if !ok || captured.body != nil {
		return resp, nil
	}

	head, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	captured.body = head
	resp.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), resp.Body), Closer: resp.Body}
	return resp, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}
