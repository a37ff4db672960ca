package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableside/concierge/internal/apperror"
	"github.com/tableside/concierge/internal/credential"
	"github.com/tableside/concierge/internal/gateway"
	"github.com/tableside/concierge/internal/model/account"
	"github.com/tableside/concierge/internal/model/session"
)

type fakeGateway struct {
	calls int
	resp  account.TokenResponse
	err   error
}

func (f *fakeGateway) Signup(context.Context, string, string) (account.TokenResponse, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeGateway) Login(context.Context, string, string) (account.TokenResponse, error) {
	f.calls++
	return f.resp, f.err
}

func newService(gw Gateway) (*Service, *credential.MemoryStore) {
	store := credential.NewMemoryStore("")
	return NewService(gw, NewTokens(store), nil), store
}

func TestSignupValidationOrder(t *testing.T) {
	cases := []struct {
		name string
		form SignupForm
		want string
	}{
		{"missing fields", SignupForm{Email: "a@b.c", Password: "pw"}, "Please fill in all fields."},
		{"whitespace email", SignupForm{Email: "  ", Password: "pw", ConfirmPassword: "pw", AgreeTerms: true}, "Please fill in all fields."},
		{"mismatch", SignupForm{Email: "a@b.c", Password: "pw", ConfirmPassword: "px", AgreeTerms: true}, "Passwords do not match."},
		{"terms", SignupForm{Email: "a@b.c", Password: "pw", ConfirmPassword: "pw"}, "Please agree to the terms and conditions."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{}
			svc, _ := newService(gw)

			res, err := svc.Signup(context.Background(), tc.form)
			var verr *apperror.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.want, res.Alert.Message)
			assert.Equal(t, session.RouteSignup, res.Next)
			assert.Zero(t, gw.calls, "validation must not reach the backend")
		})
	}
}

func TestSignupOutcomes(t *testing.T) {
	form := SignupForm{Email: "a@b.c", Password: "pw", ConfirmPassword: "pw", AgreeTerms: true}

	svc, store := newService(&fakeGateway{resp: account.TokenResponse{Token: "tok"}})
	res, err := svc.Signup(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, session.RouteScanner, res.Next)
	assert.Nil(t, res.Alert)
	token, _ := store.Get()
	assert.Equal(t, "tok", token)

	svc, store = newService(&fakeGateway{})
	res, err = svc.Signup(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, session.RouteLogin, res.Next)
	require.NotNil(t, res.Alert)
	assert.Equal(t, "Account created, but no token received.", res.Alert.Message)
	token, _ = store.Get()
	assert.Empty(t, token)

	svc, _ = newService(&fakeGateway{err: &gateway.RequestError{Op: "signup", Status: http.StatusConflict, ServerMessage: "Email already registered"}})
	res, err = svc.Signup(context.Background(), form)
	require.Error(t, err)
	assert.Equal(t, "Signup Failed", res.Alert.Title)
	assert.Equal(t, "Email already registered", res.Alert.Message)
}

func TestLoginOutcomes(t *testing.T) {
	svc, _ := newService(&fakeGateway{})
	res, err := svc.Login(context.Background(), LoginForm{Email: "a@b.c"})
	require.Error(t, err)
	assert.Equal(t, "Please fill in all fields.", res.Alert.Message)

	res, err = svc.Login(context.Background(), LoginForm{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, session.RouteScanner, res.Next)
	assert.Equal(t, "Logged in, but no token received.", res.Alert.Message)
	assert.False(t, svc.Authenticated())

	svc, _ = newService(&fakeGateway{err: &gateway.RequestError{Op: "login", Transport: true, Err: errors.New("refused")}})
	res, err = svc.Login(context.Background(), LoginForm{Email: "a@b.c", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, session.RouteLogin, res.Next)
	assert.Equal(t, "Invalid credentials", res.Alert.Message)
}

func TestLogoutClearsToken(t *testing.T) {
	svc, store := newService(&fakeGateway{resp: account.TokenResponse{Token: "tok"}})
	_, err := svc.Login(context.Background(), LoginForm{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	require.True(t, svc.Authenticated())

	res, err := svc.Logout()
	require.NoError(t, err)
	assert.Equal(t, session.RouteLogin, res.Next)
	assert.False(t, svc.Authenticated())
	token, _ := store.Get()
	assert.Empty(t, token)
}

func TestTokensLoadFromStore(t *testing.T) {
	tokens := NewTokens(credential.NewMemoryStore("persisted"))
	assert.Empty(t, tokens.Token())
	require.NoError(t, tokens.Load())
	assert.Equal(t, "persisted", tokens.Token())
}

// Login response {token:"abc"} is persisted and used as the bearer of the next chat request.
func TestLoginTokenRoundTrip(t *testing.T) {
	var chatAuth string
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	})
	r.Post("/ai/chat", func(w http.ResponseWriter, r *http.Request) {
		chatAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "credentials.json")
	tokens := NewTokens(credential.NewFileStore(path))
	require.NoError(t, tokens.Load())
	gw := gateway.New(srv.URL, time.Second, tokens)
	svc := NewService(gw, tokens, nil)

	_, err := svc.Login(context.Background(), LoginForm{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	stored, err := credential.NewFileStore(path).Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", stored)

	_, err = gw.SendChatMessage(context.Background(), gateway.ChatRequest{AgentID: "9", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", chatAuth)
}
