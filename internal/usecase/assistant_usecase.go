package usecase

import (
	"context"
	"fmt"
	"strings"

	"jobcoach/internal/domain/candidate"
	"jobcoach/internal/domain/chat"
	"jobcoach/internal/domain/listing"
	"jobcoach/internal/domain/matching"
	"jobcoach/internal/logger"
	"jobcoach/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatInput is one assistant turn. A nil UserID is an anonymous caller.
type ChatInput struct {
	UserID   *uuid.UUID
	Messages []chat.Message
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, userID *uuid.UUID) (ProfileContext, Recommendations)
}

type AssistantUsecase interface {
	Chat(ctx context.Context, in ChatInput) (string, error)
	ChatStream(ctx context.Context, in ChatInput) (*Relay, error)
}

type Recommender struct {
	profiles repository.CandidateProfileStore
	listings repository.ListingRepository
	logger   *zap.Logger
}

func NewRecommender(profiles repository.CandidateProfileStore, listings repository.ListingRepository, l *zap.Logger) *Recommender {
	return &Recommender{profiles: profiles, listings: listings, logger: logger.OrNop(l)}
}

// Recommend resolves the caller's profile and the top listings for it.
// Lookup failures degrade to an anonymous profile or an empty candidate set.
func (r *Recommender) Recommend(ctx context.Context, userID *uuid.UUID) (ProfileContext, Recommendations) {
	pc := BuildProfileContext(r.lookupProfile(ctx, userID))
	listings := r.retrieve(ctx, matching.RetrievalFilter(pc.SkillIDs, pc.PreferredLocations))
	top := matching.Top(matching.Score(pc.SkillIDs, listings), matching.TopN)
	return pc, AssembleRecommendations(top)
}

func (r *Recommender) lookupProfile(ctx context.Context, userID *uuid.UUID) *candidate.Profile {
	if userID == nil || *userID == uuid.Nil || r.profiles == nil {
		return nil
	}
	p, err := r.profiles.Get(ctx, *userID)
	if err != nil {
		r.logger.Warn("candidate profile lookup failed",
			zap.String(logger.FieldUserID, userID.String()), zap.Error(err))
		return nil
	}
	return p
}

func (r *Recommender) retrieve(ctx context.Context, f listing.Filter) []listing.Listing {
	if r.listings == nil {
		return nil
	}
	out, err := r.listings.Query(ctx, f)
	if err != nil {
		r.logger.Warn("listing retrieval failed", zap.Error(err))
		return nil
	}
	return out
}

type Assistant struct {
	recommender RecommendationUsecase
	gateway     *AssistantGateway
}

func NewAssistant(recommender RecommendationUsecase, gateway *AssistantGateway) *Assistant {
	return &Assistant{recommender: recommender, gateway: gateway}
}

func (a *Assistant) Chat(ctx context.Context, in ChatInput) (string, error) {
	msgs, err := a.prepare(ctx, in)
	if err != nil {
		return "", err
	}
	return a.gateway.Reply(ctx, msgs)
}

func (a *Assistant) ChatStream(ctx context.Context, in ChatInput) (*Relay, error) {
	msgs, err := a.prepare(ctx, in)
	if err != nil {
		return nil, err
	}
	return a.gateway.OpenStream(ctx, msgs)
}

// prepare validates the input, checks the gateway and only then touches the
// data stores.
func (a *Assistant) prepare(ctx context.Context, in ChatInput) ([]chat.Message, error) {
	if err := ValidateMessages(in.Messages); err != nil {
		return nil, err
	}
	if err := a.gateway.Ready(); err != nil {
		return nil, err
	}
	pc, recs := a.recommender.Recommend(ctx, in.UserID)
	return ComposeConversation(pc, recs, in.Messages)
}

func ValidateMessages(msgs []chat.Message) error {
	fields := map[string]string{}
	if len(msgs) == 0 {
		fields["messages"] = "is required"
	}
	for i, m := range msgs {
		if m.Role == "" {
			fields[fmt.Sprintf("messages.%d.role", i)] = "is required"
		} else if !m.Role.Valid() {
			fields[fmt.Sprintf("messages.%d.role", i)] = "must be one of system, user, assistant"
		}
		if strings.TrimSpace(m.Content) == "" {
			fields[fmt.Sprintf("messages.%d.content", i)] = "is required"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
