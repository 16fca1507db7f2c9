package dto

import "jobcoach/internal/domain/chat"

type AssistantChatRequest struct {
	Messages []AssistantChatMessage `json:"messages"`
	Stream   bool                   `json:"stream"`
}

type AssistantChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantChatResponse struct {
	Reply string `json:"reply"`
}

func (r AssistantChatRequest) ToMessages() []chat.Message {
	out := make([]chat.Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		out = append(out, chat.Message{Role: chat.Role(m.Role), Content: m.Content})
	}
	return out
}
