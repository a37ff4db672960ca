package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	analysis "github.com/tableside/concierge/internal/analysis/sentiment"
	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/review"
)

// Config 控制评论情感分类服务的行为。
type Config struct {
	Enabled bool
}

// Verdict 表示一次分类的结果。
type Verdict struct {
	Sentiment  review.Sentiment
	Confidence float32
	Reason     string
}

// Service 使用大模型对评论进行情感分类，失败时回退到关键词规则。
type Service struct {
	enabled    bool
	classifier compose.Runnable[map[string]any, *schema.Message]
	fallback   func(body string) analysis.Decision
	logger     *zap.Logger
}

// NewService 创建分类服务。chatModel 为 nil 或未启用时只使用规则。
func NewService(ctx context.Context, chatModel model.ChatModel, cfg Config, logger *zap.Logger) (*Service, error) {
	svc := &Service{
		enabled:  cfg.Enabled && chatModel != nil,
		fallback: analysis.Analyze,
		logger:   logging.OrNop(logger).Named("sentiment"),
	}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sentiment classifier chain: %w", err)
	}
	svc.classifier = runnable
	return svc, nil
}

// Enabled 返回是否启用了大模型分类。
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Classify 推断评论的情感。restaurantName 仅作为上下文提供给模型。
func (s *Service) Classify(ctx context.Context, restaurantName, body string) Verdict {
	if !s.Enabled() {
		return s.fallbackVerdict(body)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{
		"restaurant": strings.TrimSpace(restaurantName),
		"review":     strings.TrimSpace(body),
	})
	if err != nil {
		s.logger.Warn("classifier invoke failed, use fallback", zap.Error(err))
		return s.fallbackVerdict(body)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return s.fallbackVerdict(body)
	}

	payload, err := parseClassifierOutput(msg.Content)
	if err != nil {
		s.logger.Warn("classifier output parse failed, use fallback", zap.Error(err))
		return s.fallbackVerdict(body)
	}

	label, err := review.ParseSentiment(payload.Sentiment)
	if err != nil || label == "" {
		return s.fallbackVerdict(body)
	}

	confidence := payload.Confidence
	if confidence <= 0 {
		confidence = 0.6
	}
	if confidence > 1 {
		confidence = 1
	}

	return Verdict{Sentiment: label, Confidence: confidence, Reason: strings.TrimSpace(payload.Reason)}
}

func (s *Service) fallbackVerdict(body string) Verdict {
	decision := s.fallback(body)
	confidence := float32(0.3)
	if decision.Score > 0 {
		confidence = 0.55
	}
	return Verdict{Sentiment: decision.Sentiment, Confidence: confidence, Reason: "fallback"}
}

// parseClassifierOutput 解析大模型返回的 JSON。
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

type classifierPayload struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float32 `json:"confidence"`
	Reason     string  `json:"reason"`
}

const classifierSystemPrompt = "你是一名餐厅评论的情感分析师。请阅读顾客的评论，判断整体情感倾向。\n输出要求：只返回一个 JSON 对象，字段如下：sentiment (必须是 positive/neutral/negative 之一)、confidence (0~1 之间的小数)、reason (一句话理由)。不得输出多余文本。"

const classifierUserPrompt = "餐厅：{restaurant}\n\n顾客评论：\n{review}\n\n请给出 JSON。"
