package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"jobcoach/internal/app"
	"jobcoach/internal/config"
	"jobcoach/internal/domain/candidate"
	"jobcoach/internal/domain/listing"
	"jobcoach/internal/llm/openai"
	"jobcoach/internal/pkg/jwt"
	"jobcoach/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "integration-secret"

type profileStore struct {
	profiles map[uuid.UUID]*candidate.Profile
}

func (s profileStore) Get(_ context.Context, id uuid.UUID) (*candidate.Profile, error) {
	return s.profiles[id], nil
}

type listingRepo struct {
	mu      sync.Mutex
	items   []listing.Listing
	filters []listing.Filter
}

func (r *listingRepo) Query(_ context.Context, f listing.Filter) ([]listing.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = append(r.filters, f)
	now := time.Now()
	out := make([]listing.Listing, 0, len(r.items))
	for _, l := range r.items {
		if f.Matches(l, now) {
			out = append(out, l)
		}
	}
	return out, nil
}

// chatRequest mirrors the fields of an outbound chat completions call that
// the assertions need.
type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Stream      bool    `json:"stream"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type fakeOpenAI struct {
	mu   sync.Mutex
	last chatRequest

	failStatus int
	failBody   string
}

func (f *fakeOpenAI) failWith(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus, f.failBody = status, body
}

func (f *fakeOpenAI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode upstream request: %v", err)
		}
		f.mu.Lock()
		f.last = req
		status, failBody := f.failStatus, f.failBody
		f.mu.Unlock()

		if status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, failBody)
			return
		}

		if !req.Stream {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Apply to Go Backend at Acme."},"finish_reason":"stop"}]}`)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, frag := range []string{"Apply ", "to Acme."} {
			fmt.Fprintf(w, "data: {\"id\":\"s1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", frag)
		}
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	})
}

func (f *fakeOpenAI) lastRequest() chatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type fixture struct {
	app      *fiber.App
	upstream *fakeOpenAI
	listings *listingRepo
	userID   uuid.UUID
	token    string
}

func newFixture(t *testing.T, credential string) *fixture {
	t.Helper()

	upstream := &fakeOpenAI{}
	srv := httptest.NewServer(upstream.handler(t))
	t.Cleanup(srv.Close)

	goID, vueID, phpID := uuid.New(), uuid.New(), uuid.New()
	acme := &listing.Company{ID: uuid.New(), Name: "Acme", City: "Hanoi"}
	now := time.Now()

	userID := uuid.New()
	years := 3
	profiles := profileStore{profiles: map[uuid.UUID]*candidate.Profile{
		userID: {
			UserID:             userID,
			Skills:             []candidate.Skill{{SkillID: goID, Name: "Go", YearsExperience: &years}, {SkillID: vueID, Name: "Vue"}},
			PreferredLocations: strPtr(`["Hanoi"]`),
		},
	}}
	listings := &listingRepo{items: []listing.Listing{
		{ID: uuid.New(), Title: "PHP Developer", Company: acme, City: "Hanoi", Skills: []listing.Skill{{SkillID: phpID, Name: "PHP"}, {SkillID: vueID, Name: "Vue"}}, PublishedAt: now.Add(-time.Hour), IsActive: true, IsPublished: true},
		{ID: uuid.New(), Title: "Go Backend", Company: acme, City: "Hanoi", Skills: []listing.Skill{{SkillID: vueID, Name: "Vue"}, {SkillID: goID, Name: "Go"}}, PublishedAt: now.Add(-2 * time.Hour), IsActive: true, IsPublished: true},
		{ID: uuid.New(), Title: "Go in Berlin", City: "Berlin", Skills: []listing.Skill{{SkillID: goID, Name: "Go"}}, PublishedAt: now, IsActive: true, IsPublished: true},
	}}

	cfg := config.Config{
		App: config.AppConfig{AppName: "jobcoach-test"},
		JWT: config.JWTConfig{AccessSecret: jwtSecret},
		Assistant: config.AssistantConfig{
			Provider:           config.ProviderOpenAI,
			ProviderCredential: credential,
			ModelID:            "gpt-test",
			ProviderBaseURL:    srv.URL + "/v1",
			Temperature:        config.DefaultTemperature,
			StreamTimeout:      time.Minute,
		},
	}

	recommender := usecase.NewRecommender(profiles, listings, nil)
	gateway := usecase.NewAssistantGateway(cfg.Assistant, openai.New(credential, cfg.Assistant.ProviderBaseURL, srv.Client()), nil)
	c := &app.Container{
		Config:      cfg,
		Recommender: recommender,
		Assistant:   usecase.NewAssistant(recommender, gateway),
	}

	token, err := jwt.NewHMACService(jwtSecret).GenerateAccessToken(userID, time.Hour)
	require.NoError(t, err)

	return &fixture{app: app.New(c).Fiber, upstream: upstream, listings: listings, userID: userID, token: token}
}

func (f *fixture) post(t *testing.T, body string, auth bool) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	resp, err := f.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func strPtr(s string) *string { return &s }

func TestAssistantFlow_UnaryGroundedReply(t *testing.T) {
	f := newFixture(t, "sk-test")

	resp, body := f.post(t, `{"messages":[{"role":"system","content":"you are a pirate"},{"role":"user","content":"Which jobs fit me?"}]}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"reply":"Apply to Go Backend at Acme."}`, body)

	up := f.upstream.lastRequest()
	assert.Equal(t, "gpt-test", up.Model)
	assert.InDelta(t, 0.7, up.Temperature, 0.0001)
	require.Len(t, up.Messages, 3)
	assert.Equal(t, "system", up.Messages[0].Role)
	assert.Equal(t, "system", up.Messages[1].Role)
	assert.Equal(t, "user", up.Messages[2].Role)
	for _, m := range up.Messages {
		assert.NotContains(t, m.Content, "pirate")
	}

	grounding := up.Messages[1].Content
	idx := strings.Index(grounding, "{")
	require.GreaterOrEqual(t, idx, 0)
	var payload struct {
		RecommendedJobs []struct {
			Title         string   `json:"title"`
			Score         int      `json:"score"`
			MatchedSkills []string `json:"matched_skills"`
		} `json:"recommended_jobs"`
		RecommendedCompanies []struct {
			Name string `json:"name"`
		} `json:"recommended_companies"`
	}
	require.NoError(t, json.Unmarshal([]byte(grounding[idx:]), &payload))
	require.Len(t, payload.RecommendedJobs, 2, "Berlin listing is filtered out by location")
	assert.Equal(t, "Go Backend", payload.RecommendedJobs[0].Title)
	assert.Equal(t, 2, payload.RecommendedJobs[0].Score)
	assert.Equal(t, []string{"Vue", "Go"}, payload.RecommendedJobs[0].MatchedSkills)
	require.Len(t, payload.RecommendedCompanies, 1)
	assert.Equal(t, "Acme", payload.RecommendedCompanies[0].Name)
}

func TestAssistantFlow_Stream(t *testing.T) {
	f := newFixture(t, "sk-test")

	resp, body := f.post(t, `{"messages":[{"role":"user","content":"hi"}],"stream":true}`, false)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	want := "event: open\ndata: {}\n\n" +
		"event: data\ndata: {\"content\":\"Apply \"}\n\n" +
		"event: data\ndata: {\"content\":\"to Acme.\"}\n\n" +
		"event: done\ndata: {}\n\n"
	assert.Equal(t, want, body)

	up := f.upstream.lastRequest()
	assert.True(t, up.Stream)
	assert.Contains(t, up.Messages[0].Content, "ask clarifying questions")
}

func TestAssistantFlow_MissingCredential(t *testing.T) {
	f := newFixture(t, "")

	resp, body := f.post(t, `{"messages":[{"role":"user","content":"hi"}]}`, true)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, usecase.ErrConfiguration.Error())
	assert.Empty(t, f.listings.filters, "no retrieval without a configured provider")
}

func TestAssistantFlow_ProviderErrorPassesThrough(t *testing.T) {
	f := newFixture(t, "sk-test")
	upstreamErr := `{"error":{"message":"quota","type":"insufficient_quota","code":"insufficient_quota","extra":"x"}}`
	f.upstream.failWith(http.StatusTooManyRequests, upstreamErr)

	resp, body := f.post(t, `{"messages":[{"role":"user","content":"hi"}]}`, true)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, body)

	var out struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "assistant provider request failed", out.Error)
	assert.JSONEq(t, upstreamErr, string(out.Details))
}

func TestAssistantFlow_StreamConnectFailure(t *testing.T) {
	f := newFixture(t, "sk-test")
	upstreamErr := `{"error":{"message":"invalid api key","type":"invalid_request_error","code":"invalid_api_key"}}`
	f.upstream.failWith(http.StatusUnauthorized, upstreamErr)

	resp, body := f.post(t, `{"messages":[{"role":"user","content":"hi"}],"stream":true}`, false)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode, body)
	assert.NotEqual(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var out struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, usecase.ErrStreamUnavailable.Error(), out.Error)
	assert.JSONEq(t, upstreamErr, string(out.Details))
}

func TestAssistantFlow_Recommendations(t *testing.T) {
	f := newFixture(t, "sk-test")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs/recommendations", nil)
	req.Header.Set("Authorization", "Bearer "+f.token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Jobs      []map[string]any `json:"jobs"`
		Companies []map[string]any `json:"companies"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Jobs, 2)
	assert.Len(t, out.Companies, 1)

	require.Len(t, f.listings.filters, 1)
	assert.Equal(t, []string{"Hanoi"}, f.listings.filters[0].LocationTerms)
}

func TestAssistantFlow_Health(t *testing.T) {
	f := newFixture(t, "sk-test")

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, map[string]any{"database": "disabled", "redis": "disabled"}, out["checks"])
}
