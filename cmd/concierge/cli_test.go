package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tableside/concierge/internal/credential"
	"github.com/tableside/concierge/internal/handler"
	"github.com/tableside/concierge/internal/model/restaurant"
	accountService "github.com/tableside/concierge/internal/service/account"
	"github.com/tableside/concierge/internal/service/ai"
	chatService "github.com/tableside/concierge/internal/service/chat"
	reviewService "github.com/tableside/concierge/internal/service/review"
	"github.com/tableside/concierge/internal/service/sentiment"
)

// backend starts the development router and points the client env at it.
func backend(t *testing.T) string {
	t.Helper()
	store := restaurant.NewMemoryStore(restaurant.Seed())
	replier, err := ai.NewService(context.Background(), nil, nil)
	require.NoError(t, err)
	classifier, err := sentiment.NewService(context.Background(), nil, sentiment.Config{}, nil)
	require.NoError(t, err)

	srv := httptest.NewServer(handler.NewRouter(handler.Deps{
		Restaurants: store,
		Accounts:    accountService.NewService(bcrypt.MinCost),
		Chat:        chatService.NewService(),
		Replier:     replier,
		Reviews:     reviewService.NewService(store, classifier, nil),
	}))
	t.Cleanup(srv.Close)

	credPath := filepath.Join(t.TempDir(), "credentials.json")
	t.Setenv("CONCIERGE_API_BASE_URL", srv.URL+"/api/v1")
	t.Setenv("CONCIERGE_CREDENTIALS_PATH", credPath)
	t.Setenv("CONCIERGE_SCAN_DECODER", "naive")
	t.Setenv("LOG_FILE", "")
	return credPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestSignupChatReviewFlow(t *testing.T) {
	credPath := backend(t)

	out, _, err := run(t, "signup", "--email", "guest@example.com", "--password", "pw", "--confirm-password", "pw", "--agree-terms")
	require.NoError(t, err)
	assert.Equal(t, "Next: scanner\n", out)

	token, err := credential.NewFileStore(credPath).Get()
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	out, _, err = run(t, "whoami")
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com (user)\n", out)

	out, _, err = run(t, "scan", "restaurantId=42&tableId=7&aiAgentId=9")
	require.NoError(t, err)
	assert.Contains(t, out, "Trattoria Alba")
	assert.Contains(t, out, "Modes:      text, audio")

	out, _, err = run(t, "chat", "restaurantId=42&tableId=7&aiAgentId=9", "-m", "When are you open?")
	require.NoError(t, err)
	assert.Equal(t, "Trattoria Alba is open 17:00-23:00.\n", out)

	out, _, err = run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "user: When are you open?")
	assert.Contains(t, out, "assistant: Trattoria Alba is open 17:00-23:00.")

	out, _, err = run(t, "review", "restaurantId=42", "-m", "Lovely evening, delicious food")
	require.NoError(t, err)
	assert.Contains(t, out, "(positive)")

	_, errOut, err := run(t, "review", "restaurantId=42", "-m", "   ")
	require.Error(t, err)
	assert.True(t, reported(err))
	assert.Equal(t, "Error: Please write a review before submitting.\n", errOut)

	out, _, err = run(t, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out.\n", out)
	token, _ = credential.NewFileStore(credPath).Get()
	assert.Empty(t, token)
}

func TestSignupValidationAlert(t *testing.T) {
	backend(t)
	_, errOut, err := run(t, "signup", "--email", "a@b.c", "--password", "pw", "--confirm-password", "px", "--agree-terms")
	require.Error(t, err)
	assert.Equal(t, "Error: Passwords do not match.\n", errOut)
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	backend(t)
	_, errOut, err := run(t, "login", "--email", "nobody@example.com", "--password", "pw")
	require.Error(t, err)
	assert.Equal(t, "Login Failed: Invalid email or password\n", errOut)
}

func TestScanFailures(t *testing.T) {
	backend(t)

	_, errOut, err := run(t, "scan", "tableId=7")
	require.Error(t, err)
	assert.Equal(t, "Invalid Barcode: The scanned barcode does not contain the required information.\n", errOut)

	_, errOut, err = run(t, "scan", "restaurantId=999")
	require.Error(t, err)
	assert.Equal(t, "Error: Failed to retrieve user information.\n", errOut)
}

func TestChatAndAudioCapabilities(t *testing.T) {
	backend(t)
	_, _, err := run(t, "signup", "--email", "a@b.c", "--password", "pw", "--confirm-password", "pw", "--agree-terms")
	require.NoError(t, err)

	_, _, err = run(t, "chat", "restaurantId=13&aiAgentId=5", "-m", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat is not available at Noodle Counter")

	_, _, err = run(t, "audio", "restaurantId=13", "-m", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio is not available")

	out, _, err := run(t, "audio", "restaurantId=42", "-m", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, `"received":true`)
}

func TestDetachConsoleKeepsChatScreenClean(t *testing.T) {
	backend(t)

	a, err := newApp(&cobra.Command{}, true)
	require.NoError(t, err)
	require.True(t, a.logger.Core().Enabled(zap.DebugLevel), "--verbose logs to stderr")
	before := a.gw

	a.detachConsole()
	assert.False(t, a.logger.Core().Enabled(zap.ErrorLevel))
	assert.NotSame(t, before, a.gw, "services are rebuilt on the silent logger")

	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "concierge.log"))
	a, err = newApp(&cobra.Command{}, true)
	require.NoError(t, err)
	a.detachConsole()
	assert.True(t, a.logger.Core().Enabled(zap.DebugLevel), "file logging survives")
	_ = a.logger.Sync()
}
