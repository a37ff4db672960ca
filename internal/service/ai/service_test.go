package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableside/concierge/internal/model/chat"
	"github.com/tableside/concierge/internal/model/restaurant"
)

type echoModel struct {
	lastInput []*schema.Message
}

func (m *echoModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.lastInput = input
	return schema.AssistantMessage("  Try the bonet.  ", nil), nil
}

func (m *echoModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *echoModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func alba() *restaurant.Restaurant {
	r, _ := restaurant.NewMemoryStore(restaurant.Seed()).FindByID("42")
	return &r
}

func TestCannedReply(t *testing.T) {
	svc, err := NewService(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.False(t, svc.ModelBacked())

	reply, err := svc.Reply(context.Background(), alba(), "7", nil, "What do you recommend?")
	require.NoError(t, err)
	assert.Equal(t, "At Trattoria Alba I'd start with the tajarin al tartufo.", reply)

	reply, _ = svc.Reply(context.Background(), alba(), "7", nil, "When are you open?")
	assert.Equal(t, "Trattoria Alba is open 17:00-23:00.", reply)

	reply, _ = svc.Reply(context.Background(), alba(), "7", nil, "Is there parking?")
	assert.Contains(t, reply, "Trattoria Alba")
}

func TestModelReplyCarriesPromptAndHistory(t *testing.T) {
	m := &echoModel{}
	svc, err := NewService(context.Background(), m, nil)
	require.NoError(t, err)
	require.True(t, svc.ModelBacked())

	history := []chat.Message{
		{Sender: chat.SenderUser, Text: "hi"},
		{Sender: chat.SenderAssistant, Text: "hello"},
	}
	reply, err := svc.Reply(context.Background(), alba(), "7", history, "dessert?")
	require.NoError(t, err)
	assert.Equal(t, "Try the bonet.", reply)

	require.Len(t, m.lastInput, 4)
	assert.Equal(t, schema.System, m.lastInput[0].Role)
	assert.Contains(t, m.lastInput[0].Content, "Trattoria Alba")
	assert.Contains(t, m.lastInput[0].Content, "table 7")
	assert.Equal(t, "dessert?", m.lastInput[3].Content)
}

func TestHistoryIsTrimmed(t *testing.T) {
	var msgs []chat.Message
	for i := 0; i < historyLimit+5; i++ {
		msgs = append(msgs, chat.Message{Sender: chat.SenderUser, Text: strings.Repeat("x", i)})
	}
	assert.Len(t, buildHistoryMessages(msgs), historyLimit)
	assert.Nil(t, buildHistoryMessages(nil))
}

func TestSystemPromptUsesCuisineTemplate(t *testing.T) {
	p := NewPromptManager().BuildSystemPrompt(alba(), "")
	assert.Contains(t, p, "Piedmont")
	assert.NotContains(t, p, "seated at table")
}
