// Package conversation drives the concierge chat screen: the message log, the
// input buffer and the submit/response cycle for one session.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/apperror"
	"github.com/tableside/concierge/internal/gateway"
	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/model/chat"
	"github.com/tableside/concierge/internal/model/session"
	"github.com/tableside/concierge/internal/service/capability"
)

const (
	// DefaultWelcome opens a conversation whose profile has no welcome text.
	DefaultWelcome = "Welcome! Ask me anything about the restaurant."
	// FailureReply replaces the assistant reply when a send fails.
	FailureReply = "Sorry, something went wrong. Try again!"
)

var (
	// ErrCapabilityDisabled rejects input in a mode the restaurant does not offer.
	ErrCapabilityDisabled = errors.New("capability disabled for this restaurant")

	// ErrMediaUnavailable is returned once a media placeholder is armed.
	ErrMediaUnavailable = errors.New("media capture is not available")

	// ErrBusy rejects edits while a turn is in flight.
	ErrBusy = errors.New("a message is already being sent")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("conversation closed")
)

// State of the chat input.
type State int

const (
	// Idle has an empty buffer and nothing in flight.
	Idle State = iota
	// Composing holds unsent text.
	Composing
	// Sending waits for the backend reply.
	Sending
	// Failed shows an alert until dismissed or the next edit.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	case Sending:
		return "sending"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Gateway sends chat turns to the backend.
type Gateway interface {
	SendChatMessage(ctx context.Context, req gateway.ChatRequest) (string, error)
}

// Turn is one outstanding request. It is only valid for the conversation
// epoch it was started in.
type Turn struct {
	epoch   uint64
	Message chat.Message
	Request gateway.ChatRequest
}

// Result reports what a completion did to the log.
type Result struct {
	Appended  *chat.Message
	Alert     *apperror.Alert
	Discarded bool
}

// Conversation is safe for concurrent use; at most one turn is in flight.
type Conversation struct {
	mu       sync.Mutex
	sess     session.Session
	caps     capability.Set
	gw       Gateway
	logger   *zap.Logger
	now      func() time.Time
	state    State
	buffer   string
	messages []chat.Message
	alert    *apperror.Alert
	epoch    uint64
	closed   bool

	recording bool
	video     bool
}

// New opens a conversation for sess. Capabilities are resolved once here.
func New(sess session.Session, gw Gateway, logger *zap.Logger) *Conversation {
	c := &Conversation{
		sess:   sess,
		caps:   capability.Resolve(sess.Profile),
		gw:     gw,
		logger: logging.OrNop(logger).Named("conversation"),
		now:    time.Now,
	}
	c.messages = []chat.Message{c.newMessage(chat.SenderAssistant, Welcome(sess))}
	return c
}

// Welcome returns the greeting shown at the top of the log.
func Welcome(sess session.Session) string {
	if sess.Profile != nil {
		if msg := strings.TrimSpace(sess.Profile.WelcomeMessage); msg != "" {
			return msg
		}
	}
	return DefaultWelcome
}

// Session returns the session the conversation was opened for.
func (c *Conversation) Session() session.Session { return c.sess }

// Capabilities returns the resolved input modes.
func (c *Conversation) Capabilities() capability.Set { return c.caps }

// State returns the current input state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Buffer returns the unsent input text.
func (c *Conversation) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buffer
}

// Messages returns a copy of the log, oldest first.
func (c *Conversation) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]chat.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Alert returns the pending alert, if any.
func (c *Conversation) Alert() *apperror.Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alert
}

// Compose replaces the input buffer. From Failed it dismisses the alert first.
func (c *Conversation) Compose(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return ErrClosed
	case !c.caps.Text:
		return ErrCapabilityDisabled
	case c.state == Sending:
		return ErrBusy
	}
	c.alert = nil
	c.buffer = text
	if text == "" {
		c.state = Idle
	} else {
		c.state = Composing
	}
	return nil
}

// Begin starts a turn from the buffer. It reports false, changing nothing,
// when the trimmed buffer is empty, text is disabled, or a turn is in flight.
// On success the user message is already in the log.
func (c *Conversation) Begin() (Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || !c.caps.Text || c.state == Sending || strings.TrimSpace(c.buffer) == "" {
		return Turn{}, false
	}

	msg := c.newMessage(chat.SenderUser, c.buffer)
	c.messages = append(c.messages, msg)
	c.buffer = ""
	c.alert = nil
	c.state = Sending
	c.epoch++

	return Turn{
		epoch:   c.epoch,
		Message: msg,
		Request: gateway.ChatRequest{
			AgentID:      c.sess.AgentID,
			Message:      msg.Text,
			RestaurantID: c.sess.RestaurantID,
			TableID:      c.sess.TableID,
		},
	}, true
}

// Complete applies the backend outcome of turn. Completions for a closed
// conversation or a superseded turn are discarded.
func (c *Conversation) Complete(turn Turn, reply string, err error) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || turn.epoch != c.epoch || c.state != Sending {
		c.logger.Debug("discarding late completion", zap.Uint64("epoch", turn.epoch))
		return Result{Discarded: true}
	}

	if err != nil {
		c.logger.Warn("chat send failed",
			zap.String("restaurant_id", c.sess.RestaurantID),
			zap.Error(err))
		msg := c.newMessage(chat.SenderAssistant, FailureReply)
		c.messages = append(c.messages, msg)
		alert := apperror.AlertFor(err, "Error", "Failed to send message.")
		c.alert = &alert
		c.state = Failed
		return Result{Appended: &msg, Alert: &alert}
	}

	msg := c.newMessage(chat.SenderAssistant, reply)
	c.messages = append(c.messages, msg)
	c.state = Idle
	return Result{Appended: &msg}
}

// Submit runs Begin, the backend call and Complete. A submit that cannot
// begin returns a zero Result and false.
func (c *Conversation) Submit(ctx context.Context) (Result, bool) {
	turn, ok := c.Begin()
	if !ok {
		return Result{}, false
	}
	reply, err := c.gw.SendChatMessage(ctx, turn.Request)
	return c.Complete(turn, reply, err), true
}

// DismissAlert returns a failed conversation to Idle.
func (c *Conversation) DismissAlert() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alert = nil
	if c.state == Failed {
		c.state = Idle
	}
}

// Close ends the conversation and drops the log. In-flight turns complete
// as discarded.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.epoch++
	c.messages = nil
	c.buffer = ""
	c.alert = nil
	c.state = Idle
	c.recording = false
	c.video = false
}

// Closed reports whether Close was called.
func (c *Conversation) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conversation) newMessage(sender chat.Sender, text string) chat.Message {
	return chat.Message{
		ID:           uuid.NewString(),
		RestaurantID: c.sess.RestaurantID,
		Sender:       sender,
		Text:         text,
		CreatedAt:    c.now(),
	}
}
