package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tableside/concierge/internal/gateway"
	"github.com/tableside/concierge/internal/model/chat"
	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/internal/model/review"
	accountService "github.com/tableside/concierge/internal/service/account"
	"github.com/tableside/concierge/internal/service/ai"
	chatService "github.com/tableside/concierge/internal/service/chat"
	reviewService "github.com/tableside/concierge/internal/service/review"
	"github.com/tableside/concierge/internal/service/sentiment"
)

type mutableToken struct{ value string }

func (m *mutableToken) Token() string { return m.value }

func setup(t *testing.T) (*httptest.Server, *reviewService.Service) {
	t.Helper()
	ctx := context.Background()
	store := restaurant.NewMemoryStore(restaurant.Seed())
	replier, err := ai.NewService(ctx, nil, nil)
	require.NoError(t, err)
	classifier, err := sentiment.NewService(ctx, nil, sentiment.Config{}, nil)
	require.NoError(t, err)
	reviews := reviewService.NewService(store, classifier, nil)

	srv := httptest.NewServer(NewRouter(Deps{
		Restaurants: store,
		Accounts:    accountService.NewService(bcrypt.MinCost),
		Chat:        chatService.NewService(),
		Replier:     replier,
		Reviews:     reviews,
	}))
	t.Cleanup(srv.Close)
	return srv, reviews
}

func TestGatewayAgainstRouter(t *testing.T) {
	srv, reviews := setup(t)
	ctx := context.Background()
	tokens := &mutableToken{}
	gw := gateway.New(srv.URL+"/api/v1", 5*time.Second, tokens)

	reg, err := gw.Signup(ctx, "guest@example.com", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)

	_, err = gw.Signup(ctx, "guest@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, gateway.StatusOf(err))

	_, err = gw.Login(ctx, "guest@example.com", "wrong")
	var rerr *gateway.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Invalid email or password", rerr.ServerMessage)

	_, err = gw.GetUser(ctx)
	assert.Equal(t, http.StatusUnauthorized, gateway.StatusOf(err))

	login, err := gw.Login(ctx, "guest@example.com", "pw")
	require.NoError(t, err)
	tokens.value = login.Token

	user, err := gw.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", user.Email)

	profile, err := gw.GetProfile(ctx, "42", "7")
	require.NoError(t, err)
	assert.True(t, profile.TextSupport)
	assert.Equal(t, "Trattoria Alba", profile.Name)

	_, err = gw.GetProfile(ctx, "42", "99")
	assert.Equal(t, http.StatusNotFound, gateway.StatusOf(err))
	_, err = gw.GetProfile(ctx, "nope", "")
	assert.Equal(t, http.StatusNotFound, gateway.StatusOf(err))

	reply, err := gw.SendChatMessage(ctx, gateway.ChatRequest{AgentID: "9", Message: "What do you recommend?", RestaurantID: "42", TableID: "7"})
	require.NoError(t, err)
	assert.Contains(t, reply, "tajarin")

	history, err := gw.GetChatHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, chat.SenderUser, history[0].Sender)
	assert.Equal(t, reply, history[1].Text)

	receipt, err := gw.PostReview(ctx, "42", review.Draft{Body: "Delicious and friendly"})
	require.NoError(t, err)
	stored := reviews.List(ctx, "42")
	require.Len(t, stored, 1)
	assert.Equal(t, review.Positive, stored[0].Sentiment)
	assert.Equal(t, user.ID, stored[0].AccountID)
	assert.Equal(t, review.Receipt{Status: "received", ID: stored[0].ID, Sentiment: review.Positive}, receipt)

	_, err = gw.PostReview(ctx, "42", review.Draft{Body: " "})
	assert.Equal(t, http.StatusBadRequest, gateway.StatusOf(err))

	raw, err := gw.SendAudioMessage(ctx, "hello")
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"Audio chat is not available yet.","received":true}`, string(raw))
}

func TestChatRespectsCapabilities(t *testing.T) {
	srv, _ := setup(t)
	ctx := context.Background()
	tokens := &mutableToken{}
	gw := gateway.New(srv.URL+"/api/v1", 5*time.Second, tokens)

	reg, err := gw.Signup(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	tokens.value = reg.Token

	_, err = gw.SendChatMessage(ctx, gateway.ChatRequest{AgentID: "5", Message: "hi"})
	assert.Equal(t, http.StatusForbidden, gateway.StatusOf(err))

	// video implies text
	_, err = gw.SendChatMessage(ctx, gateway.ChatRequest{AgentID: "12", Message: "hi"})
	require.NoError(t, err)

	_, err = gw.SendChatMessage(ctx, gateway.ChatRequest{AgentID: "404", Message: "hi"})
	assert.Equal(t, http.StatusNotFound, gateway.StatusOf(err))
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := setup(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
