package handler

import (
	"bufio"
	"context"
	"errors"
	"time"

	"jobcoach/internal/delivery/http/dto"
	"jobcoach/internal/delivery/http/middleware"
	"jobcoach/internal/delivery/http/response"
	"jobcoach/internal/delivery/http/sse"
	"jobcoach/internal/llm"
	"jobcoach/internal/logger"
	"jobcoach/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type AssistantHandler struct {
	uc            usecase.AssistantUsecase
	streamTimeout time.Duration
	logger        *zap.Logger
}

func NewAssistantHandler(uc usecase.AssistantUsecase, streamTimeout time.Duration, l *zap.Logger) *AssistantHandler {
	return &AssistantHandler{uc: uc, streamTimeout: streamTimeout, logger: logger.OrNop(l)}
}

func (h *AssistantHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/assistant")
	grp.Post("/chat", h.Chat)
}

func (h *AssistantHandler) Chat(c fiber.Ctx) error {
	var req dto.AssistantChatRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	in := usecase.ChatInput{UserID: middleware.UserID(c), Messages: req.ToMessages()}
	if !req.Stream {
		reply, err := h.uc.Chat(c.Context(), in)
		if err != nil {
			return mapAssistantUsecaseError(err)
		}
		return response.JSON(c, fiber.StatusOK, dto.AssistantChatResponse{Reply: reply})
	}

	return h.stream(c, in)
}

// stream opens the provider stream before committing to an event-stream
// response, so setup failures still get a regular error body. The relay runs
// after the handler returns and must not touch c.
func (h *AssistantHandler) stream(c fiber.Ctx, in usecase.ChatInput) error {
	ctx, cancel := h.streamContext()
	cancelOnDone(ctx, c.RequestCtx().Done(), cancel)

	relay, err := h.uc.ChatStream(ctx, in)
	if err != nil {
		cancel()
		return mapAssistantUsecaseError(err)
	}

	rid, _ := c.Locals(middleware.CtxRequestIDKey).(string)
	log := h.logger.With(zap.String(logger.FieldRequestID, rid))

	sse.SetHeaders(c)
	return c.SendStreamWriter(func(w *bufio.Writer) {
		defer cancel()
		if err := relay.Run(sse.NewWriter(w)); err != nil {
			log.Debug("assistant stream ended early",
				zap.String("state", string(relay.State())),
				zap.Int("fragments", relay.Fragments()),
				zap.Error(err),
			)
		}
	})
}

func (h *AssistantHandler) streamContext() (context.Context, context.CancelFunc) {
	if h.streamTimeout > 0 {
		return context.WithTimeout(context.Background(), h.streamTimeout)
	}
	return context.WithCancel(context.Background())
}

// cancelOnDone cancels the stream once done closes. fasthttp closes it on
// server shutdown; a client that goes away is noticed on the next write.
func cancelOnDone(ctx context.Context, done <-chan struct{}, cancel context.CancelFunc) {
	if done == nil {
		return
	}
	go func() {
		select {
		case <-done:
			cancel()
		case <-ctx.Done():
		}
	}()
}

func mapAssistantUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, usecase.ErrValidation.Error(), ve.Fields, err)
	}

	var pe *llm.ProviderError
	switch {
	case errors.Is(err, usecase.ErrConfiguration):
		return middleware.NewPublicError(fiber.StatusInternalServerError, usecase.ErrConfiguration.Error(), nil, err)
	case errors.Is(err, usecase.ErrStreamUnavailable):
		var details any
		if errors.As(err, &pe) {
			details = pe.Body
		}
		return middleware.NewPublicError(fiber.StatusInternalServerError, usecase.ErrStreamUnavailable.Error(), details, err)
	case errors.As(err, &pe):
		status := pe.StatusCode
		if status <= 0 {
			status = fiber.StatusInternalServerError
		}
		return middleware.NewPublicError(status, "assistant provider request failed", pe.Body, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
