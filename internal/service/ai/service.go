// Package ai produces concierge replies for the development backend.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/chat"
	"github.com/tableside/concierge/internal/model/restaurant"
)

const historyLimit = 10

// Service generates replies with an eino chain, or canned text when no chat
// model is configured.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	prompts *PromptManager
	logger  *zap.Logger
}

// NewService compiles the reply chain around chatModel. A nil chatModel
// yields a service that answers from the restaurant record alone.
func NewService(ctx context.Context, chatModel model.ChatModel, logger *zap.Logger) (*Service, error) {
	svc := &Service{
		prompts: NewPromptManager(),
		logger:  logging.OrNop(logger).Named("ai"),
	}
	if chatModel == nil {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}
	svc.chain = runnable
	return svc, nil
}

// ModelBacked reports whether replies come from the chat model.
func (s *Service) ModelBacked() bool { return s.chain != nil }

// Reply answers userMessage for r. history is the prior transcript, oldest first.
func (s *Service) Reply(ctx context.Context, r *restaurant.Restaurant, tableID string, history []chat.Message, userMessage string) (string, error) {
	if s.chain == nil {
		return cannedReply(r, userMessage), nil
	}

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system":  s.prompts.BuildSystemPrompt(r, tableID),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	s.logger.Info("generated reply",
		zap.String("restaurant_id", r.ID),
		zap.Int("length", len(response.Content)))
	return strings.TrimSpace(response.Content), nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.SenderAssistant:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return history
}

// cannedReply is deterministic so the backend stays usable offline.
func cannedReply(r *restaurant.Restaurant, userMessage string) string {
	lower := strings.ToLower(userMessage)
	switch {
	case strings.Contains(lower, "hour") || strings.Contains(lower, "open"):
		if r.Hours != "" {
			return fmt.Sprintf("%s is open %s.", r.Name, r.Hours)
		}
	case strings.Contains(lower, "recommend") || strings.Contains(lower, "special") || strings.Contains(lower, "good"):
		if len(r.Highlights) > 0 {
			return fmt.Sprintf("At %s I'd start with the %s.", r.Name, r.Highlights[0])
		}
	}
	return fmt.Sprintf("Thanks for your question! A member of the %s team will be happy to help with that.", r.Name)
}
